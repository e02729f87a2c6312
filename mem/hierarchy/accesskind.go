package hierarchy

import (
	"fmt"
	"strings"
)

// AccessKind tells which L1 cache serves a reference.
type AccessKind int

// The kinds of memory references in a trace.
const (
	Instruction AccessKind = iota
	Data
)

func (k AccessKind) String() string {
	switch k {
	case Instruction:
		return "Instruction"
	case Data:
		return "Data"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}

// ParseAccessKind converts a trace token to an AccessKind. "I" is an
// instruction fetch. "D", "L" (load) and "S" (store) are data references.
// Case is ignored.
func ParseAccessKind(s string) (AccessKind, error) {
	switch strings.ToUpper(s) {
	case "I":
		return Instruction, nil
	case "D", "L", "S":
		return Data, nil
	default:
		return 0, fmt.Errorf("unknown access kind %q", s)
	}
}
