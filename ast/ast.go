package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/cmmlang/cmmc/token"
	"github.com/cmmlang/cmmc/types"
)

// The base Node interface
type Node interface {
	Tok() token.Token
	String() string
}

// All top-level and formal declarations implement this
type Decl interface {
	Node
	declNode()
}

// All statement nodes implement this
type Statement interface {
	Node
	statementNode()
}

// All expression nodes implement this
type Expression interface {
	Node
	expressionNode()
}

type Program struct {
	Decls []Decl
}

func (p *Program) Tok() token.Token {
	if len(p.Decls) > 0 {
		return p.Decls[0].Tok()
	}
	return token.Token{Type: token.EOF, Line: 1, Column: 1}
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, d := range p.Decls {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}

func printVec(a []Expression) string {
	parts := make([]string, 0, len(a))
	for _, e := range a {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ", ")
}

func typeStr(t types.Type) string {
	return t.Kind.String() + strings.Repeat("*", t.Pointers)
}

// Declarations

// VarDecl declares a variable; Type.Size carries the length of an array.
type VarDecl struct {
	Token token.Token // the type keyword
	Type  types.Type
	Name  *Identifier
}

func (vd *VarDecl) declNode()         {}
func (vd *VarDecl) Tok() token.Token { return vd.Token }
func (vd *VarDecl) String() string {
	var out bytes.Buffer
	out.WriteString(typeStr(vd.Type))
	out.WriteString(" ")
	out.WriteString(vd.Name.String())
	if vd.Type.IsArray() {
		out.WriteString("[" + strconv.Itoa(vd.Type.Size) + "]")
	}
	out.WriteString(";")
	return out.String()
}

type FormalDecl struct {
	Token token.Token // the type keyword
	Type  types.Type
	Name  *Identifier
}

func (fd *FormalDecl) declNode()         {}
func (fd *FormalDecl) Tok() token.Token { return fd.Token }
func (fd *FormalDecl) String() string {
	return typeStr(fd.Type) + " " + fd.Name.String()
}

// FnDecl is a function definition with a body.
type FnDecl struct {
	Token      token.Token // the return type keyword
	ReturnType types.Type
	Name       *Identifier
	Parameters []*FormalDecl
	Body       *Body
}

func (fn *FnDecl) declNode()         {}
func (fn *FnDecl) Tok() token.Token { return fn.Token }
func (fn *FnDecl) String() string {
	return signature(fn.ReturnType, fn.Name, fn.Parameters) + " " + fn.Body.String()
}

// FnPreDecl is a forward declaration: a signature without a body.
type FnPreDecl struct {
	Token      token.Token
	ReturnType types.Type
	Name       *Identifier
	Parameters []*FormalDecl
}

func (fp *FnPreDecl) declNode()         {}
func (fp *FnPreDecl) Tok() token.Token { return fp.Token }
func (fp *FnPreDecl) String() string {
	return signature(fp.ReturnType, fp.Name, fp.Parameters) + ";"
}

func signature(ret types.Type, name *Identifier, params []*FormalDecl) string {
	ps := make([]string, 0, len(params))
	for _, p := range params {
		ps = append(ps, p.String())
	}
	return typeStr(ret) + " " + name.String() + "(" + strings.Join(ps, ", ") + ")"
}

// ParamTypes returns the ordered formal types of a parameter list.
func ParamTypes(params []*FormalDecl) []types.Type {
	ts := make([]types.Type, 0, len(params))
	for _, p := range params {
		ts = append(ts, p.Type)
	}
	return ts
}

// Body is a compound body: local declarations followed by statements.
type Body struct {
	Token      token.Token // the { token
	Decls      []*VarDecl
	Statements []Statement
}

func (b *Body) Tok() token.Token { return b.Token }
func (b *Body) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, d := range b.Decls {
		out.WriteString(d.String())
		out.WriteString(" ")
	}
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// Statements

type AssignStatement struct {
	Token token.Token // the = token
	Left  Expression
	Value Expression
}

func (as *AssignStatement) statementNode()    {}
func (as *AssignStatement) Tok() token.Token { return as.Token }
func (as *AssignStatement) String() string {
	return as.Left.String() + " = " + as.Value.String() + ";"
}

type IfStatement struct {
	Token       token.Token // the if token
	Condition   Expression
	Consequence *Body
}

func (is *IfStatement) statementNode()    {}
func (is *IfStatement) Tok() token.Token { return is.Token }
func (is *IfStatement) String() string {
	return "if (" + is.Condition.String() + ") " + is.Consequence.String()
}

type IfElseStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *Body
	Alternative *Body
}

func (ie *IfElseStatement) statementNode()    {}
func (ie *IfElseStatement) Tok() token.Token { return ie.Token }
func (ie *IfElseStatement) String() string {
	return "if (" + ie.Condition.String() + ") " + ie.Consequence.String() + " else " + ie.Alternative.String()
}

type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *Body
}

func (ws *WhileStatement) statementNode()    {}
func (ws *WhileStatement) Tok() token.Token { return ws.Token }
func (ws *WhileStatement) String() string {
	return "while (" + ws.Condition.String() + ") " + ws.Body.String()
}

// ForStatement runs Init once, then Body and Post while Condition holds.
type ForStatement struct {
	Token     token.Token
	Init      Statement
	Condition Expression
	Post      Statement
	Body      *Body
}

func (fs *ForStatement) statementNode()    {}
func (fs *ForStatement) Tok() token.Token { return fs.Token }
func (fs *ForStatement) String() string {
	init := strings.TrimSuffix(fs.Init.String(), ";")
	post := strings.TrimSuffix(fs.Post.String(), ";")
	return "for (" + init + "; " + fs.Condition.String() + "; " + post + ") " + fs.Body.String()
}

type CallStatement struct {
	Call *CallExpression
}

func (cs *CallStatement) statementNode()    {}
func (cs *CallStatement) Tok() token.Token { return cs.Call.Tok() }
func (cs *CallStatement) String() string   { return cs.Call.String() + ";" }

// ReturnStatement has a nil Value for a bare return.
type ReturnStatement struct {
	Token token.Token // the return token
	Value Expression
}

func (rs *ReturnStatement) statementNode()    {}
func (rs *ReturnStatement) Tok() token.Token { return rs.Token }
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return;"
	}
	return "return " + rs.Value.String() + ";"
}

// Expressions

type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()   {}
func (i *Identifier) Tok() token.Token { return i.Token }
func (i *Identifier) String() string   { return i.Value }

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()   {}
func (il *IntegerLiteral) Tok() token.Token { return il.Token }
func (il *IntegerLiteral) String() string   { return il.Token.Literal }

// StringLiteral keeps the literal as written, quotes and escapes included.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()   {}
func (sl *StringLiteral) Tok() token.Token { return sl.Token }
func (sl *StringLiteral) String() string   { return sl.Value }

type IndexExpression struct {
	Token token.Token // the [ token
	Array Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()   {}
func (ie *IndexExpression) Tok() token.Token { return ie.Token }
func (ie *IndexExpression) String() string {
	return ie.Array.String() + "[" + ie.Index.String() + "]"
}

type CallExpression struct {
	Token     token.Token // the function name
	Function  *Identifier
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()   {}
func (ce *CallExpression) Tok() token.Token { return ce.Token }
func (ce *CallExpression) String() string {
	return ce.Function.String() + "(" + printVec(ce.Arguments) + ")"
}

// PrefixExpression covers unary minus, logical not, address-of and dereference.
type PrefixExpression struct {
	Token    token.Token // The prefix token, e.g. !
	Operator token.TokenType
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()   {}
func (pe *PrefixExpression) Tok() token.Token { return pe.Token }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator.String() + pe.Right.String() + ")"
}

type InfixExpression struct {
	Token    token.Token // The operator token, e.g. +
	Left     Expression
	Operator token.TokenType
	Right    Expression
}

func (ie *InfixExpression) expressionNode()   {}
func (ie *InfixExpression) Tok() token.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator.String() + " " + ie.Right.String() + ")"
}

// Start returns the token where e begins in the source. Diagnostics about
// compound expressions are reported there.
func Start(e Expression) token.Token {
	switch e := e.(type) {
	case *InfixExpression:
		return Start(e.Left)
	case *IndexExpression:
		return Start(e.Array)
	case *PrefixExpression:
		return Start(e.Right)
	default:
		return e.Tok()
	}
}
