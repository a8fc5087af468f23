package types

import (
	"strconv"
	"strings"
)

// Kind is the base name of a type.
type Kind int

const (
	Void Kind = iota
	Bool
	Int
	String
	Error // recovery sentinel for expressions that already failed to check
)

var kindNames = [...]string{
	Void:   "void",
	Bool:   "bool",
	Int:    "int",
	String: "string",
	Error:  "error",
}

func (k Kind) String() string {
	if 0 <= k && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// NoSize marks a type that is not an array.
const NoSize = -1

// Type describes a value: its base kind, pointer depth and optional array length.
// Types are values; two types are interchangeable when Equal says so.
type Type struct {
	Kind     Kind
	Pointers int
	Size     int
}

// Common scalar types.
var (
	VoidT   = Type{Kind: Void, Size: NoSize}
	BoolT   = Type{Kind: Bool, Size: NoSize}
	IntT    = Type{Kind: Int, Size: NoSize}
	StringT = Type{Kind: String, Size: NoSize}
	ErrorT  = Type{Kind: Error, Size: NoSize}
)

func New(k Kind, pointers int) Type {
	return Type{Kind: k, Pointers: pointers, Size: NoSize}
}

// ArrayOf returns t with the given length attached.
func ArrayOf(t Type, size int) Type {
	t.Size = size
	return t
}

// Elem drops the array length.
func (t Type) Elem() Type {
	t.Size = NoSize
	return t
}

func (t Type) IsVoid() bool  { return t.Kind == Void }
func (t Type) IsError() bool { return t.Kind == Error }
func (t Type) IsArray() bool { return t.Size != NoSize }

// String returns the base type name. Function labels are built from it.
func (t Type) String() string {
	return t.Kind.String()
}

// Decl renders the type as it is written in a declaration, e.g. "int*[10]".
func (t Type) Decl() string {
	var sb strings.Builder
	sb.WriteString(t.Kind.String())
	sb.WriteString(strings.Repeat("*", t.Pointers))
	if t.IsArray() {
		sb.WriteString("[")
		sb.WriteString(strconv.Itoa(t.Size))
		sb.WriteString("]")
	}
	return sb.String()
}

// Equal compares kind and pointer depth. Array length is not part of a type's identity.
func Equal(a, b Type) bool {
	return a.Kind == b.Kind && a.Pointers == b.Pointers
}

// EqualTypes checks two ordered type lists element-wise.
func EqualTypes(left, right []Type) bool {
	if len(left) != len(right) {
		return false
	}
	for i, l := range left {
		if !Equal(l, right[i]) {
			return false
		}
	}
	return true
}
