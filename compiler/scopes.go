package compiler

import (
	"github.com/cmmlang/cmmc/types"
)

// SymbolTable is one lexical scope. Scopes are chained through parent; the
// root of the chain is the global scope, which is where functions live.
type SymbolTable struct {
	parent  *SymbolTable
	root    *SymbolTable
	entries map[string]*entry
}

// NewSymbolTable creates a scope nested in parent, or a global scope if
// parent is nil.
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	st := &SymbolTable{
		parent:  parent,
		entries: make(map[string]*entry),
	}
	if parent == nil {
		st.root = st
	} else {
		st.root = parent.root
	}
	return st
}

func (st *SymbolTable) Parent() *SymbolTable { return st.parent }
func (st *SymbolTable) Root() *SymbolTable   { return st.root }
func (st *SymbolTable) IsGlobal() bool       { return st.parent == nil }

// AddVariable binds name in this scope. Any earlier binding of name in this
// same scope is a conflict and is kept.
func (st *SymbolTable) AddVariable(name string, v *Variable) error {
	if _, ok := st.entries[name]; ok {
		return newSemanticError(ErrDeclarationConflict, "Variable %s has already been declared", name)
	}
	st.entries[name] = &entry{variable: v}
	return nil
}

// AddFunction adds an overload of name. Two overloads conflict when their
// parameter lists are equal, except that a full definition may complete an
// earlier forward declaration, which it then replaces.
func (st *SymbolTable) AddFunction(name string, f *Function) error {
	e, ok := st.entries[name]
	if !ok {
		st.entries[name] = &entry{functions: []*Function{f}}
		return nil
	}
	if e.isVariable() {
		return newSemanticError(ErrDeclarationConflict, "Function %s has already been declared", name)
	}

	i, prev := e.overload(f.Params)
	if prev == nil {
		e.functions = append(e.functions, f)
		return nil
	}
	if !f.completes(prev) {
		return newSemanticError(ErrDeclarationConflict, "Function %s has already been declared", name)
	}
	e.functions[i] = f
	return nil
}

// VariableType looks name up in this scope only.
func (st *SymbolTable) VariableType(name string) (*Variable, error) {
	if e, ok := st.entries[name]; ok && e.isVariable() {
		return e.variable, nil
	}
	return nil, newSemanticError(ErrUndeclaredName, "Variable %s has not been declared", name)
}

// LookupVariable walks outward from this scope. Bindings whose type is the
// error sentinel are skipped so the search continues to an outer, usable one.
func (st *SymbolTable) LookupVariable(name string) (*Variable, error) {
	for s := st; s != nil; s = s.parent {
		v, err := s.VariableType(name)
		if err == nil && !v.Type.IsError() {
			return v, nil
		}
	}
	return nil, newSemanticError(ErrUndeclaredName, "Variable %s has not been declared", name)
}

// FunctionType resolves a call against the global scope. The argument types
// must match an overload's parameters exactly.
func (st *SymbolTable) FunctionType(name string, args []types.Type) (*Function, error) {
	if e, ok := st.root.entries[name]; ok && !e.isVariable() {
		if _, f := e.overload(args); f != nil {
			return f, nil
		}
	}
	return nil, newSemanticError(ErrUndeclaredName, "Function %s has not been declared", name)
}
