package serial

// Line bound against an unterminated stream: a line that grows past max is
// poisoned and discarded whole when its LF arrives, instead of being
// truncated into a different (still well-formed) command.
const (
	MinLine     = 16
	MaxLine     = 256
	DefaultLine = 64
)

// Accumulator buffers RX bytes until a line terminator. It owns its buffer
// exclusively; completed lines are handed out as copies.
type Accumulator struct {
	buf      []byte
	max      int
	overflow bool
}

// NewAccumulator returns an accumulator bounded to max bytes per line
// (clamped to [MinLine, MaxLine]; 0 selects DefaultLine).
func NewAccumulator(max int) *Accumulator {
	if max == 0 {
		max = DefaultLine
	}
	if max < MinLine {
		max = MinLine
	}
	if max > MaxLine {
		max = MaxLine
	}
	return &Accumulator{buf: make([]byte, 0, max), max: max}
}

// Feed consumes one byte. When the byte completes a line, Feed returns the
// line content (terminator excluded) and true, and the buffer is reset.
// CR is ignored so CRLF terminators behave like LF. An over-long line is
// dropped in full once terminated.
func (a *Accumulator) Feed(b byte) ([]byte, bool) {
	switch b {
	case '\n':
		if a.overflow {
			a.buf = a.buf[:0]
			a.overflow = false
			return nil, false
		}
		line := append([]byte(nil), a.buf...)
		a.buf = a.buf[:0]
		return line, true
	case '\r':
		return nil, false
	default:
		if len(a.buf) < a.max {
			a.buf = append(a.buf, b)
		} else {
			a.overflow = true
		}
		return nil, false
	}
}

// Pending returns the number of buffered bytes of the current partial line.
func (a *Accumulator) Pending() int { return len(a.buf) }
