package motor

import (
	"testing"

	"spincoater-go/types"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		line string
		kind types.CommandKind
		rpm  int
	}{
		{"simple", "SPEED:3000", types.CmdSetSpeed, 3000},
		{"zero", "SPEED:0", types.CmdSetSpeed, 0},
		{"over range parses", "SPEED:15000", types.CmdSetSpeed, 15000},
		{"prefix numeric stops at non-digit", "SPEED:30x0", types.CmdSetSpeed, 30},
		{"no digits means zero", "SPEED:fast", types.CmdSetSpeed, 0},
		{"empty value means zero", "SPEED:", types.CmdSetSpeed, 0},
		{"minus is not a digit", "SPEED:-5", types.CmdSetSpeed, 0},
		{"garbage", "GARBAGE", types.CmdUnknown, 0},
		{"empty line", "", types.CmdUnknown, 0},
		{"missing colon", "SPEED3000", types.CmdUnknown, 0},
		{"lowercase keyword", "speed:3000", types.CmdUnknown, 0},
		{"keyword only", "SPEED", types.CmdUnknown, 0},
		{"unknown keyword", "RAMP:100", types.CmdUnknown, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Parse([]byte(c.line))
			if got.Kind != c.kind || got.RPM != c.rpm {
				t.Errorf("Parse(%q) = {%v %d}, want {%v %d}",
					c.line, got.Kind, got.RPM, c.kind, c.rpm)
			}
		})
	}
}

func TestParse_LongDigitRunSaturates(t *testing.T) {
	line := []byte("SPEED:99999999999999999999999999999999")
	got := Parse(line)
	if got.Kind != types.CmdSetSpeed {
		t.Fatalf("kind = %v, want CmdSetSpeed", got.Kind)
	}
	if got.RPM < parseRPMCap {
		t.Errorf("RPM = %d, want saturated at >= %d", got.RPM, parseRPMCap)
	}
}
