package parser

import (
	"testing"

	"github.com/cmmlang/cmmc/ast"
	"github.com/cmmlang/cmmc/lexer"
	"github.com/cmmlang/cmmc/token"
	"github.com/cmmlang/cmmc/types"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	require.Empty(t, l.Errors())
	for _, e := range p.Errors() {
		t.Errorf("parser error: %s", e.Error())
	}
	require.Empty(t, p.Errors())
	return program
}

// mainBody parses src as the body of void main() and returns it.
func mainBody(t *testing.T, src string) *ast.Body {
	t.Helper()
	program := mustParse(t, "void main() {\n"+src+"\n}")
	require.Len(t, program.Decls, 1)
	fn, ok := program.Decls[0].(*ast.FnDecl)
	require.True(t, ok)
	return fn.Body
}

func TestVarDecls(t *testing.T) {
	program := mustParse(t, "int x[10];\nbool *b;")

	expected := []ast.Decl{
		&ast.VarDecl{
			Token: token.Token{Type: token.INT_TYPE, Literal: "int", Line: 1, Column: 1},
			Type:  types.ArrayOf(types.IntT, 10),
			Name: &ast.Identifier{
				Token: token.Token{Type: token.IDENT, Literal: "x", Line: 1, Column: 5},
				Value: "x",
			},
		},
		&ast.VarDecl{
			Token: token.Token{Type: token.BOOL_TYPE, Literal: "bool", Line: 2, Column: 1},
			Type:  types.New(types.Bool, 1),
			Name: &ast.Identifier{
				Token: token.Token{Type: token.IDENT, Literal: "b", Line: 2, Column: 7},
				Value: "b",
			},
		},
	}

	if diff := deep.Equal(expected, program.Decls); diff != nil {
		t.Error(diff)
	}
}

func TestFunctionDecls(t *testing.T) {
	input := `int max(int a, int b);
int max(int a, int b) { if (a > b) { return a; } return b; }
void show(string **s, bool f) { }`

	program := mustParse(t, input)
	require.Len(t, program.Decls, 3)

	pre, ok := program.Decls[0].(*ast.FnPreDecl)
	require.True(t, ok)
	assert.Equal(t, "max", pre.Name.Value)
	assert.Equal(t, "int max(int a, int b);", pre.String())

	fn, ok := program.Decls[1].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, types.IntT, fn.ReturnType)
	require.Len(t, fn.Body.Statements, 2)
	assert.IsType(t, &ast.IfStatement{}, fn.Body.Statements[0])
	assert.IsType(t, &ast.ReturnStatement{}, fn.Body.Statements[1])

	show, ok := program.Decls[2].(*ast.FnDecl)
	require.True(t, ok)
	if diff := deep.Equal([]types.Type{types.New(types.String, 2), types.BoolT}, ast.ParamTypes(show.Parameters)); diff != nil {
		t.Error(diff)
	}
	assert.Empty(t, show.Body.Statements)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x = a + b * c;", "(a + (b * c))"},
		{"x = a * b + c % d;", "((a * b) + (c % d))"},
		{"x = -a - b;", "((-a) - b)"},
		{"x = a - b - c;", "((a - b) - c)"},
		{"x = (a + b) * c;", "((a + b) * c)"},
		{"x = a < b && c >= d || !e;", "(((a < b) && (c >= d)) || (!e))"},
		{"x = a == b && c != d;", "((a == b) && (c != d))"},
		{"x = a || b && c;", "(a || (b && c))"},
		{"x = f(a, b + 1) * arr[i - 1];", "(f(a, (b + 1)) * arr[(i - 1)])"},
		{"x = *p + &q;", "((*p) + (&q))"},
		{"x = a / b <= c;", "((a / b) <= c)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			body := mainBody(t, tt.input)
			require.Len(t, body.Statements, 1)
			stmt, ok := body.Statements[0].(*ast.AssignStatement)
			require.True(t, ok)
			assert.Equal(t, tt.expected, stmt.Value.String())
		})
	}
}

func TestStatements(t *testing.T) {
	body := mainBody(t, `int i; int a[5];
for (i = 0; i < 5; i += 1) { a[i] = i; }
while (i > 0) { i = i - 1; }
if (i == 0) { printf("zero"); } else { return; }
*p = 1;`)

	require.Len(t, body.Decls, 2)
	assert.Equal(t, 5, body.Decls[1].Type.Size)
	require.Len(t, body.Statements, 4)

	loop, ok := body.Statements[0].(*ast.ForStatement)
	require.True(t, ok)
	assert.Equal(t, "i = 0;", loop.Init.String())
	assert.Equal(t, "(i < 5)", loop.Condition.String())
	assert.Equal(t, "i = (i + 1);", loop.Post.String())
	assert.Equal(t, "for (i = 0; (i < 5); i = (i + 1)) { a[i] = i; }", loop.String())

	assert.IsType(t, &ast.WhileStatement{}, body.Statements[1])

	ifElse, ok := body.Statements[2].(*ast.IfElseStatement)
	require.True(t, ok)
	require.Len(t, ifElse.Consequence.Statements, 1)
	call, ok := ifElse.Consequence.Statements[0].(*ast.CallStatement)
	require.True(t, ok)
	assert.Equal(t, "printf", call.Call.Function.Value)
	assert.Equal(t, `"zero"`, call.Call.Arguments[0].String())
	ret, ok := ifElse.Alternative.Statements[0].(*ast.ReturnStatement)
	require.True(t, ok)
	assert.Nil(t, ret.Value)

	assign, ok := body.Statements[3].(*ast.AssignStatement)
	require.True(t, ok)
	assert.Equal(t, "(*p)", assign.Left.String())
}

func TestCompoundAssignment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x += 2;", "x = (x + 2);"},
		{"x -= y * 2;", "x = (x - (y * 2));"},
		{"a[i] *= 3;", "a[i] = (a[i] * 3);"},
		{"x /= 4;", "x = (x / 4);"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			body := mainBody(t, tt.input)
			require.Len(t, body.Statements, 1)
			assert.Equal(t, tt.expected, body.Statements[0].String())
		})
	}
}

func TestExpressionStart(t *testing.T) {
	body := mainBody(t, "x = a[i] + -b;")
	stmt := body.Statements[0].(*ast.AssignStatement)
	start := ast.Start(stmt.Value)
	assert.Equal(t, "a", start.Literal)
	assert.Equal(t, 2, start.Line)
	assert.Equal(t, 5, start.Column)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"missing semicolon", "int x", "expected next token to be ;, got EOF instead"},
		{"not a type", "x = 1;", `expected a type, got IDENT "x" instead`},
		{"decl after stmt", "void f() { x = 1; int y; }", "declarations must precede statements"},
		{"not a statement", "void f() { x + 1; }", "expression (x + 1) is not a statement"},
		{"bad assignment target", "void f() { 1 = x; }", "cannot assign to 1"},
		{"unclosed body", "void f() { x = 1;", "expected }, got EOF instead"},
		{"dangling operator", "void f() { x = 1 + ; }", "unexpected ; in expression"},
		{"missing function body", "int f(int a) return a;", `expected next token to be {, got return instead`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(lexer.New(tt.input))
			p.ParseProgram()
			require.NotEmpty(t, p.Errors())
			assert.Equal(t, tt.msg, p.Errors()[0].Msg)
		})
	}
}
