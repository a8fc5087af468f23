package compiler

import (
	"github.com/cmmlang/cmmc/types"
)

// Variable is a variable binding. Addr and Space are only filled in by
// translation; checking binds types alone.
type Variable struct {
	Type  types.Type
	Addr  string
	Space Space
}

// Function is one overload of a function name.
type Function struct {
	ReturnType types.Type
	Params     []types.Type
	Forward    bool // declared without a body
}

// completes reports whether f is the full definition of the forward declaration prev.
func (f *Function) completes(prev *Function) bool {
	return prev.Forward && !f.Forward && types.Equal(prev.ReturnType, f.ReturnType)
}

// entry holds everything bound to one name in one scope: either a single
// variable or any number of function overloads.
type entry struct {
	variable  *Variable
	functions []*Function
}

func (e *entry) isVariable() bool {
	return e.variable != nil
}

func (e *entry) overload(params []types.Type) (int, *Function) {
	for i, f := range e.functions {
		if types.EqualTypes(f.Params, params) {
			return i, f
		}
	}
	return -1, nil
}
