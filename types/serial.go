package types

// ------------------------
// Serial
// ------------------------

// SerialConfig is supplied on topic "config/serial".
type SerialConfig struct {
	UART    string `json:"uart"` // "uart0" | "uart1"
	Baud    uint32 `json:"baud"`
	RxPin   int    `json:"rx_pin"`
	TxPin   int    `json:"tx_pin"`
	MaxLine int    `json:"max_line,omitempty"` // line bound; clamped 16..256
}

// SerialLine is one completed command line, terminator stripped.
// Published on "serial/rx".
type SerialLine struct {
	Data []byte
	TSms int64
}
