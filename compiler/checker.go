package compiler

import (
	"github.com/cmmlang/cmmc/ast"
	"github.com/cmmlang/cmmc/token"
	"github.com/cmmlang/cmmc/types"
)

// Checker validates a program. It builds its own scope chain, reports every
// defect it finds to the Reporter and always visits the whole tree.
type Checker struct {
	rep *Reporter
	ret types.Type // return type of the function being checked
}

func NewChecker(rep *Reporter) *Checker {
	return &Checker{rep: rep}
}

// Check runs the checker over prog and reports to rep.
func Check(prog *ast.Program, rep *Reporter) {
	NewChecker(rep).Program(prog)
}

func (c *Checker) Program(prog *ast.Program) {
	global := NewSymbolTable(nil)
	for _, decl := range prog.Decls {
		c.checkDecl(decl, global)
	}
}

func (c *Checker) checkDecl(decl ast.Decl, st *SymbolTable) {
	switch d := decl.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(d, st)
	case *ast.FnDecl:
		c.checkFnDecl(d, st)
	case *ast.FnPreDecl:
		// formals are checked for their own sake; their names go nowhere
		c.checkFormals(d.Parameters, NewSymbolTable(st))
		c.addFunction(d.Name, &Function{ReturnType: d.ReturnType, Params: ast.ParamTypes(d.Parameters), Forward: true}, st)
	case *ast.FormalDecl:
		c.checkFormal(d, st)
	}
}

func (c *Checker) checkVarDecl(d *ast.VarDecl, st *SymbolTable) {
	if d.Type.IsVoid() && d.Type.Pointers == 0 {
		c.rep.Warn(d.Name.Token, "Variable "+d.Name.Value+" cannot be of void type")
	}
	if err := st.AddVariable(d.Name.Value, &Variable{Type: d.Type}); err != nil {
		c.rep.Error(d.Name.Token, err.Error())
	}
}

func (c *Checker) checkFormal(d *ast.FormalDecl, st *SymbolTable) {
	if d.Type.IsVoid() && d.Type.Pointers == 0 {
		c.rep.Error(d.Name.Token, "Variable "+d.Name.Value+" cannot be of void type")
	}
	if err := st.AddVariable(d.Name.Value, &Variable{Type: d.Type}); err != nil {
		c.rep.Error(d.Name.Token, err.Error())
	}
}

func (c *Checker) checkFormals(params []*ast.FormalDecl, st *SymbolTable) {
	for _, p := range params {
		c.checkFormal(p, st)
	}
}

func (c *Checker) addFunction(name *ast.Identifier, fn *Function, st *SymbolTable) {
	if err := st.AddFunction(name.Value, fn); err != nil {
		c.rep.Error(name.Token, err.Error())
	}
}

// checkFnDecl registers the function before its body so that it can call itself.
func (c *Checker) checkFnDecl(d *ast.FnDecl, st *SymbolTable) {
	fnScope := NewSymbolTable(st)
	c.checkFormals(d.Parameters, fnScope)
	c.addFunction(d.Name, &Function{ReturnType: d.ReturnType, Params: ast.ParamTypes(d.Parameters)}, st)

	c.ret = d.ReturnType
	c.checkBody(d.Body, fnScope)
}

// checkBody checks declarations and statements in st, which the caller has
// already created for this body.
func (c *Checker) checkBody(b *ast.Body, st *SymbolTable) {
	for _, d := range b.Decls {
		c.checkVarDecl(d, st)
	}
	for _, s := range b.Statements {
		c.checkStatement(s, st)
	}
}

func (c *Checker) checkStatement(stmt ast.Statement, st *SymbolTable) {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		left := c.TypeOf(s.Left, st)
		right := c.TypeOf(s.Value, st)
		if !left.IsError() && !right.IsError() && !types.Equal(left, right) {
			c.rep.Error(ast.Start(s.Left), "Illegal assignment (Both lhs and expression must be of the same type)")
		}
	case *ast.IfStatement:
		c.checkCondition(s.Condition, st)
		c.checkBody(s.Consequence, NewSymbolTable(st))
	case *ast.IfElseStatement:
		c.checkCondition(s.Condition, st)
		c.checkBody(s.Consequence, NewSymbolTable(st))
		c.checkBody(s.Alternative, NewSymbolTable(st))
	case *ast.WhileStatement:
		c.checkCondition(s.Condition, st)
		c.checkBody(s.Body, NewSymbolTable(st))
	case *ast.ForStatement:
		c.checkStatement(s.Init, st)
		c.checkCondition(s.Condition, st)
		c.checkStatement(s.Post, st)
		c.checkBody(s.Body, NewSymbolTable(st))
	case *ast.CallStatement:
		c.TypeOf(s.Call, st)
	case *ast.ReturnStatement:
		c.checkReturn(s, st)
	}
}

func (c *Checker) checkCondition(cond ast.Expression, st *SymbolTable) {
	t := c.TypeOf(cond, st)
	if !t.IsError() && !types.Equal(t, types.BoolT) {
		c.rep.Error(ast.Start(cond), "Condition expression must be of bool type")
	}
}

func (c *Checker) checkReturn(s *ast.ReturnStatement, st *SymbolTable) {
	if s.Value == nil {
		if !c.ret.IsVoid() {
			c.rep.Error(s.Token, "Illegal return statement")
		}
		return
	}
	t := c.TypeOf(s.Value, st)
	if !t.IsError() && !types.Equal(t, c.ret) {
		c.rep.Error(s.Token, "Illegal return statement")
	}
}

// TypeOf computes the type of e in scope st, reporting any defect inside e.
// An expression that cannot be typed yields the error sentinel, which
// consumers accept silently so a single mistake is reported once.
func (c *Checker) TypeOf(expr ast.Expression, st *SymbolTable) types.Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return types.IntT
	case *ast.StringLiteral:
		return types.StringT
	case *ast.Identifier:
		v, err := st.LookupVariable(e.Value)
		if err != nil {
			c.rep.Error(e.Token, err.Error())
			return types.ErrorT
		}
		return v.Type
	case *ast.IndexExpression:
		base := c.TypeOf(e.Array, st)
		index := c.TypeOf(e.Index, st)
		if !index.IsError() && !types.Equal(index, types.IntT) {
			c.rep.Error(ast.Start(e), "Index operand must be of int type")
		}
		return base.Elem()
	case *ast.CallExpression:
		return c.typeOfCall(e, st)
	case *ast.PrefixExpression:
		return c.typeOfPrefix(e, st)
	case *ast.InfixExpression:
		left := c.TypeOf(e.Left, st)
		right := c.TypeOf(e.Right, st)
		result := types.New(binaryResult[e.Operator], 0)
		if left.IsError() || right.IsError() {
			return result
		}
		if _, ok := binaryOps[opKey{Operator: e.Operator, LeftType: left.Kind, RightType: right.Kind}]; !ok {
			c.rep.Error(ast.Start(e), binaryOpMessage(e.Operator))
		}
		return result
	}
	return types.ErrorT
}

func (c *Checker) typeOfPrefix(e *ast.PrefixExpression, st *SymbolTable) types.Type {
	operand := c.TypeOf(e.Right, st)
	switch e.Operator {
	case token.SUB:
		if !operand.IsError() && operand.Kind != types.Int {
			c.rep.Error(ast.Start(e), "Expression must be of int type")
		}
		return types.IntT
	case token.NOT:
		if !operand.IsError() && operand.Kind != types.Bool {
			c.rep.Error(ast.Start(e), "Expression must be of bool type")
		}
		return types.BoolT
	default: // & and *
		if _, ok := e.Right.(*ast.Identifier); !ok {
			c.rep.Error(ast.Start(e), "Expression must be an identifier")
		}
		return operand
	}
}

func (c *Checker) typeOfCall(e *ast.CallExpression, st *SymbolTable) types.Type {
	args := make([]types.Type, 0, len(e.Arguments))
	failed := false
	for _, arg := range e.Arguments {
		t := c.TypeOf(arg, st)
		failed = failed || t.IsError()
		args = append(args, t)
	}

	if _, ok := SystemCalls[e.Function.Value]; ok {
		if len(e.Arguments) != 1 {
			c.rep.Error(e.Token, "Invalid parameters")
		}
		return types.VoidT
	}

	fn, err := st.FunctionType(e.Function.Value, args)
	if err != nil {
		if !failed {
			c.rep.Error(e.Token, err.Error())
		}
		return types.ErrorT
	}
	return fn.ReturnType
}
