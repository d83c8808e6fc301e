package types

// ------------------------
// Wire commands
// ------------------------

// CommandKind tags the variants of a parsed command line.
type CommandKind uint8

const (
	// CmdUnknown is the no-op fallback for any line that is not a
	// recognised command. It never changes motor state.
	CmdUnknown CommandKind = iota
	// CmdSetSpeed requests a target RPM.
	CmdSetSpeed
)

func (k CommandKind) String() string {
	switch k {
	case CmdSetSpeed:
		return "set_speed"
	default:
		return "unknown"
	}
}

// Command is one parsed serial line. Immutable once constructed.
type Command struct {
	Kind CommandKind
	RPM  int // requested RPM for CmdSetSpeed; 0 otherwise
}
