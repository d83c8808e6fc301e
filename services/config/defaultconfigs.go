package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Key: device ID (same value placed in ctx under CtxDeviceKey)
// Val: raw JSON bytes for that device
//
// max_rpm mirrors the motor controller's configured full-scale RPM;
// output_max is the resolution of the proportional speed signal. Both are
// immutable after boot.
// -----------------------------------------------------------------------------

const cfgPico = `{
  "motor": {
    "max_rpm": 10000,
    "output_max": 255,
    "enable_pin": 2,
    "speed_pin": 3,
    "pwm_freq_hz": 1000
  },
  "serial": {
    "uart": "uart0",
    "baud": 115200,
    "rx_pin": 1,
    "tx_pin": 0,
    "max_line": 64
  },
  "heartbeat": {
    "interval": 2
  }
}`

// Host build: same control plane, fake pins, stdin-fed UART.
const cfgHost = `{
  "motor": {
    "max_rpm": 10000,
    "output_max": 255,
    "enable_pin": 2,
    "speed_pin": 3
  },
  "serial": {
    "uart": "uart0",
    "baud": 115200,
    "rx_pin": 1,
    "tx_pin": 0,
    "max_line": 64
  },
  "heartbeat": {
    "interval": 2
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"host": []byte(cfgHost),
}
