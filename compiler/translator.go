package compiler

import (
	"strconv"

	"github.com/cmmlang/cmmc/ast"
	"github.com/cmmlang/cmmc/token"
	"github.com/cmmlang/cmmc/types"
	"go.uber.org/zap"
)

// Translator lowers a checked program to three-address code. It assumes the
// program passed Check and builds its own scope chain, this time with
// addresses attached to every variable.
type Translator struct {
	alloc  *Allocator
	types  *Checker // re-derives argument types for overload resolution
	logger *zap.Logger

	fnLabel string // mangled label of the function being translated
}

func NewTranslator(logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		alloc:  NewAllocator(),
		types:  NewChecker(NewReporter(nil)),
		logger: logger,
	}
}

// Translate lowers prog and returns the program text.
func (t *Translator) Translate(prog *ast.Program) string {
	return t.Program(prog).String()
}

// Program emits the constant pool and the entry point ahead of the code of
// every declaration.
func (t *Translator) Program(prog *ast.Program) Fragment {
	global := NewSymbolTable(nil)
	var decls Fragment
	for _, decl := range prog.Decls {
		decls.Append(t.decl(decl, global, Global))
	}

	var out Fragment
	for _, c := range t.alloc.Consts() {
		out.Emit(OpStr, c)
	}
	out.Emit(OpEntry, Mangle("main", nil), strconv.Itoa(t.alloc.Count(Global)))
	out.Append(decls)
	return out
}

func (t *Translator) decl(decl ast.Decl, st *SymbolTable, space Space) Fragment {
	switch d := decl.(type) {
	case *ast.VarDecl:
		t.bind(d.Name.Value, d.Type, st, space)
	case *ast.FormalDecl:
		t.bind(d.Name.Value, d.Type, st, Param)
	case *ast.FnPreDecl:
		// registered so calls made before the definition resolve
		st.AddFunction(d.Name.Value, &Function{ReturnType: d.ReturnType, Params: ast.ParamTypes(d.Parameters), Forward: true})
	case *ast.FnDecl:
		return t.fnDecl(d, st)
	}
	return Fragment{}
}

// bind gives a declared variable the next slot of its space.
func (t *Translator) bind(name string, typ types.Type, st *SymbolTable, space Space) {
	st.AddVariable(name, &Variable{Type: typ, Addr: t.alloc.New(space), Space: space})
}

func (t *Translator) fnDecl(d *ast.FnDecl, st *SymbolTable) Fragment {
	t.alloc.ResetFunction()
	params := ast.ParamTypes(d.Parameters)
	st.AddFunction(d.Name.Value, &Function{ReturnType: d.ReturnType, Params: params})
	t.fnLabel = Mangle(d.Name.Value, params)

	fnScope := NewSymbolTable(st)
	for _, p := range d.Parameters {
		t.decl(p, fnScope, Param)
	}
	body := t.body(d.Body, fnScope)

	var out Fragment
	out.Emit(OpFunc, t.fnLabel)
	out.Emit(OpFunci, strconv.Itoa(t.alloc.Count(Local)), strconv.Itoa(t.alloc.Count(Temp)))
	out.Append(body)
	out.Emit(OpEfunc, t.fnLabel)

	g := BuildCFG(body)
	t.logger.Debug("translated function",
		zap.String("label", t.fnLabel),
		zap.Int("params", t.alloc.Count(Param)),
		zap.Int("locals", t.alloc.Count(Local)),
		zap.Int("temps", t.alloc.Count(Temp)),
		zap.Int("blocks", len(g.Blocks)),
	)
	if dead := g.Unreachable(); len(dead) > 0 {
		t.logger.Debug("unreachable code", zap.String("label", t.fnLabel), zap.Int("blocks", len(dead)))
	}
	return out
}

// body binds the body's locals in st, then translates its statements.
func (t *Translator) body(b *ast.Body, st *SymbolTable) Fragment {
	for _, d := range b.Decls {
		t.decl(d, st, Local)
	}
	return t.statements(b.Statements, st)
}

// statements gives every statement a fresh next label and defines that
// label after the statement only if something jumps to it.
func (t *Translator) statements(stmts []ast.Statement, st *SymbolTable) Fragment {
	var out Fragment
	for _, s := range stmts {
		next := t.alloc.NewLabel()
		code := t.statement(s, st, next)
		out.Append(code)
		if code.References(next) {
			out.Label(next)
		}
	}
	return out
}

// statement translates s. next is the label of the point right after s.
func (t *Translator) statement(stmt ast.Statement, st *SymbolTable, next string) Fragment {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		return t.assign(s, st)
	case *ast.IfStatement:
		return t.ifStatement(s, st, next)
	case *ast.IfElseStatement:
		return t.ifElseStatement(s, st, next)
	case *ast.WhileStatement:
		return t.whileLoop(s, st, next)
	case *ast.ForStatement:
		return t.forLoop(s, st, next)
	case *ast.CallStatement:
		call := t.call(s.Call, st)
		call.Addr = ""
		return call
	case *ast.ReturnStatement:
		var out Fragment
		if s.Value == nil {
			out.Emit(OpRet, t.fnLabel)
			return out
		}
		val := t.value(s.Value, st)
		out.Append(val)
		out.Emit(OpRetf, t.fnLabel, val.Addr)
		return out
	}
	return Fragment{}
}

// assign evaluates the target in address mode, then the value. An indexed
// target becomes a store through its base and index.
func (t *Translator) assign(s *ast.AssignStatement, st *SymbolTable) Fragment {
	var out Fragment
	if idx, ok := s.Left.(*ast.IndexExpression); ok {
		base := t.value(idx.Array, st)
		index := t.value(idx.Index, st)
		val := t.value(s.Value, st)
		out.Append(base)
		out.Append(index)
		out.Append(val)
		out.Emit(OpArrs, base.Addr, index.Addr, val.Addr)
		out.Addr = val.Addr
		return out
	}

	dst := t.value(s.Left, st)
	val := t.value(s.Value, st)
	out.Append(dst)
	out.Append(val)
	out.Emit(OpMove, dst.Addr, val.Addr)
	out.Addr = val.Addr
	return out
}

func (t *Translator) ifStatement(s *ast.IfStatement, st *SymbolTable, next string) Fragment {
	then := t.alloc.NewLabel()
	var out Fragment
	out.Append(t.cond(s.Condition, st, then, next))
	out.Label(then)
	out.Append(t.body(s.Consequence, NewSymbolTable(st)))
	return out
}

func (t *Translator) ifElseStatement(s *ast.IfElseStatement, st *SymbolTable, next string) Fragment {
	then := t.alloc.NewLabel()
	els := t.alloc.NewLabel()
	var out Fragment
	out.Append(t.cond(s.Condition, st, then, els))
	out.Label(then)
	out.Append(t.body(s.Consequence, NewSymbolTable(st)))
	out.Emit(OpJump, next)
	out.Label(els)
	out.Append(t.body(s.Alternative, NewSymbolTable(st)))
	return out
}

// value translates e for its value. The returned fragment's Addr holds the
// result: a literal, a variable's slot or a fresh temporary.
func (t *Translator) value(expr ast.Expression, st *SymbolTable) Fragment {
	var out Fragment
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		out.Addr = strconv.FormatInt(e.Value, 10)
	case *ast.StringLiteral:
		out.Addr = t.alloc.AddConst(e.Value)
	case *ast.Identifier:
		// a failed lookup only happens after an error that Check already reported
		if v, err := st.LookupVariable(e.Value); err == nil {
			out.Addr = v.Addr
		}
	case *ast.IndexExpression:
		base := t.value(e.Array, st)
		index := t.value(e.Index, st)
		out.Append(base)
		out.Append(index)
		out.Addr = t.alloc.New(Temp)
		out.Emit(OpArrg, out.Addr, base.Addr, index.Addr)
	case *ast.CallExpression:
		return t.call(e, st)
	case *ast.PrefixExpression:
		switch e.Operator {
		case token.SUB:
			operand := t.value(e.Right, st)
			out.Append(operand)
			out.Addr = t.alloc.New(Temp)
			out.Emit(OpSub, out.Addr, "0", operand.Addr)
		case token.NOT:
			return t.materialize(e, st)
		default:
			// & and * pass their operand through
			return t.value(e.Right, st)
		}
	case *ast.InfixExpression:
		if isConditionOp(e.Operator) {
			return t.materialize(e, st)
		}
		left := t.value(e.Left, st)
		right := t.value(e.Right, st)
		out.Append(left)
		out.Append(right)
		out.Addr = t.alloc.New(Temp)
		out.Emit(arithOps[e.Operator], out.Addr, left.Addr, right.Addr)
	}
	return out
}

// call translates a call. System calls become a single read or write of
// their argument; other calls bind each argument in order, then call the
// mangled label of the overload the argument types select.
func (t *Translator) call(e *ast.CallExpression, st *SymbolTable) Fragment {
	var out Fragment
	if sc, ok := SystemCalls[e.Function.Value]; ok {
		arg := t.value(e.Arguments[0], st)
		out.Append(arg)
		out.Emit(sc.Op, arg.Addr)
		return out
	}

	argTypes := make([]types.Type, 0, len(e.Arguments))
	for _, arg := range e.Arguments {
		argTypes = append(argTypes, t.types.TypeOf(arg, st))
	}
	fn, err := st.FunctionType(e.Function.Value, argTypes)
	if err != nil {
		return out
	}

	for i, arg := range e.Arguments {
		a := t.value(arg, st)
		out.Append(a)
		out.Emit(OpArg, a.Addr, strconv.Itoa(i))
	}

	label := Mangle(e.Function.Value, fn.Params)
	argc := strconv.Itoa(len(e.Arguments))
	if fn.ReturnType.IsVoid() && fn.ReturnType.Pointers == 0 {
		out.Emit(OpCall, label, argc)
		return out
	}
	out.Addr = t.alloc.New(Temp)
	out.Emit(OpCallf, out.Addr, label, argc)
	return out
}
