package compiler

// System call names. They bypass overload resolution and take exactly one
// argument.
const (
	Scanf  = "scanf"
	Printf = "printf"
)

// SystemCall describes a builtin: the instruction that implements it.
type SystemCall struct {
	Op Op
}

// SystemCalls maps builtin names to their instruction.
var SystemCalls = map[string]*SystemCall{
	Scanf:  {Op: OpRead},
	Printf: {Op: OpWrite},
}
