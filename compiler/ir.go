package compiler

import (
	"strings"
)

type Op int

const (
	OpLabel Op = iota
	OpMove
	OpArrs
	OpArrg
	OpAdd
	OpSub
	OpMult
	OpDiv
	OpMod
	OpJump
	OpJlt
	OpJlte
	OpJeq
	OpJneq
	OpArg
	OpCall
	OpCallf
	OpFunc
	OpFunci
	OpEfunc
	OpRet
	OpRetf
	OpStr
	OpEntry
	OpRead
	OpWrite
)

var opNames = [...]string{
	OpLabel: "",
	OpMove:  "move",
	OpArrs:  "arrs",
	OpArrg:  "arrg",
	OpAdd:   "add",
	OpSub:   "sub",
	OpMult:  "mult",
	OpDiv:   "div",
	OpMod:   "mod",
	OpJump:  "jump",
	OpJlt:   "jlt",
	OpJlte:  "jlte",
	OpJeq:   "jeq",
	OpJneq:  "jneq",
	OpArg:   "arg",
	OpCall:  "call",
	OpCallf: "callf",
	OpFunc:  "func",
	OpFunci: "funci",
	OpEfunc: "efunc",
	OpRet:   "ret",
	OpRetf:  "retf",
	OpStr:   "str",
	OpEntry: "entry",
	OpRead:  "read",
	OpWrite: "write",
}

func (op Op) String() string {
	return opNames[op]
}

// Instr is one line of output. A label definition is an OpLabel with the
// label as its only argument.
type Instr struct {
	Op   Op
	Args []string
}

func (in Instr) String() string {
	if in.Op == OpLabel {
		return in.Args[0] + ":"
	}
	if len(in.Args) == 0 {
		return in.Op.String()
	}
	return in.Op.String() + " " + strings.Join(in.Args, ", ")
}

// Fragment is the result of translating a subtree: its instructions and,
// for value-producing expressions, the operand holding the value.
type Fragment struct {
	Code []Instr
	Addr string
}

func (f *Fragment) Emit(op Op, args ...string) {
	f.Code = append(f.Code, Instr{Op: op, Args: args})
}

// Label defines l at the current end of the fragment.
func (f *Fragment) Label(l string) {
	f.Emit(OpLabel, l)
}

// Append adds other's instructions; other's address is dropped.
func (f *Fragment) Append(other Fragment) {
	f.Code = append(f.Code, other.Code...)
}

// References reports whether any instruction uses label as an operand.
func (f Fragment) References(label string) bool {
	for _, in := range f.Code {
		if in.Op == OpLabel {
			continue
		}
		for _, arg := range in.Args {
			if arg == label {
				return true
			}
		}
	}
	return false
}

func (f Fragment) String() string {
	var sb strings.Builder
	for _, in := range f.Code {
		sb.WriteString(in.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
