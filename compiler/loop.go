package compiler

import (
	"github.com/cmmlang/cmmc/ast"
)

// whileLoop emits
//
//	top: cond(body, next)  body: ...  jump top
//
// The false branch of the condition leaves the loop through next.
func (t *Translator) whileLoop(s *ast.WhileStatement, st *SymbolTable, next string) Fragment {
	top := t.alloc.NewLabel()
	body := t.alloc.NewLabel()

	var out Fragment
	out.Label(top)
	out.Append(t.cond(s.Condition, st, body, next))
	out.Label(body)
	out.Append(t.body(s.Body, NewSymbolTable(st)))
	out.Emit(OpJump, top)
	return out
}

// forLoop is a while loop with Init before the top label and Post at the
// end of every iteration. Init and Post run in the enclosing scope.
func (t *Translator) forLoop(s *ast.ForStatement, st *SymbolTable, next string) Fragment {
	top := t.alloc.NewLabel()
	body := t.alloc.NewLabel()

	var out Fragment
	out.Append(t.statement(s.Init, st, top))
	out.Label(top)
	out.Append(t.cond(s.Condition, st, body, next))
	out.Label(body)
	out.Append(t.body(s.Body, NewSymbolTable(st)))
	out.Append(t.statement(s.Post, st, top))
	out.Emit(OpJump, top)
	return out
}
