package compiler

import (
	"github.com/cmmlang/cmmc/ast"
	"github.com/cmmlang/cmmc/token"
)

// cond translates a boolean expression into jumps: control reaches onTrue
// when e holds and onFalse otherwise. No value is produced.
func (t *Translator) cond(expr ast.Expression, st *SymbolTable, onTrue, onFalse string) Fragment {
	var out Fragment
	switch e := expr.(type) {
	case *ast.InfixExpression:
		switch e.Operator {
		case token.LAND:
			// a false left operand skips the right one entirely
			mid := t.alloc.NewLabel()
			left := t.cond(e.Left, st, mid, onFalse)
			right := t.cond(e.Right, st, onTrue, onFalse)
			out.Append(left)
			out.Label(mid)
			out.Append(right)
			return out
		case token.LOR:
			mid := t.alloc.NewLabel()
			left := t.cond(e.Left, st, onTrue, mid)
			right := t.cond(e.Right, st, onTrue, onFalse)
			out.Append(left)
			out.Label(mid)
			out.Append(right)
			return out
		}
		if rel, ok := relOps[e.Operator]; ok {
			left := t.value(e.Left, st)
			right := t.value(e.Right, st)
			out.Append(left)
			out.Append(right)
			a, b := left.Addr, right.Addr
			if rel.swap {
				a, b = b, a
			}
			out.Emit(rel.op, a, b, onTrue)
			out.Emit(OpJump, onFalse)
			return out
		}
	case *ast.PrefixExpression:
		if e.Operator == token.NOT {
			return t.cond(e.Right, st, onFalse, onTrue)
		}
	}

	// a bool held in a variable, array element or call result
	val := t.value(expr, st)
	out.Append(val)
	out.Emit(OpJneq, val.Addr, "0", onTrue)
	out.Emit(OpJump, onFalse)
	return out
}

// materialize turns a boolean expression used as a value into 1 or 0 in a
// fresh temporary.
func (t *Translator) materialize(e ast.Expression, st *SymbolTable) Fragment {
	onTrue := t.alloc.NewLabel()
	onFalse := t.alloc.NewLabel()
	done := t.alloc.NewLabel()

	var out Fragment
	out.Append(t.cond(e, st, onTrue, onFalse))
	out.Addr = t.alloc.New(Temp)
	out.Label(onTrue)
	out.Emit(OpMove, out.Addr, "1")
	out.Emit(OpJump, done)
	out.Label(onFalse)
	out.Emit(OpMove, out.Addr, "0")
	out.Label(done)
	return out
}
