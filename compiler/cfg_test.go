package compiler

import (
	"testing"

	"github.com/cmmlang/cmmc/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCFG(t *testing.T) {
	var f Fragment
	f.Emit(OpJlt, "@0", "1", "~1")
	f.Emit(OpJump, "~2")
	f.Label("~1")
	f.Emit(OpMove, "@0", "1")
	f.Emit(OpJump, "~0")
	f.Label("~2")
	f.Emit(OpMove, "@0", "2")
	f.Label("~0")

	g := BuildCFG(f)
	require.Len(t, g.Blocks, 5)

	assert.Equal(t, "", g.Blocks[0].Label)
	assert.Equal(t, []string{"~1"}, g.Blocks[0].Succs)
	assert.True(t, g.Blocks[0].FallsThrough)

	jump := g.Blocks[1]
	assert.Equal(t, []string{"~2"}, jump.Succs)
	assert.False(t, jump.FallsThrough)

	then := g.Block("~1")
	require.NotNil(t, then)
	assert.Len(t, then.Code, 2)
	assert.False(t, then.FallsThrough)

	assert.True(t, g.Block("~2").FallsThrough)
	assert.Empty(t, g.Block("~0").Code)
	assert.Nil(t, g.Block("~9"))

	assert.Empty(t, g.Undefined())
	assert.Empty(t, g.Unreachable())
}

func TestCFGFindsDefects(t *testing.T) {
	var f Fragment
	f.Emit(OpRet, "f_")
	f.Emit(OpMove, "@0", "1")
	f.Emit(OpJump, "~7")

	g := BuildCFG(f)
	require.Len(t, g.Blocks, 2)
	assert.Equal(t, []string{"~7"}, g.Undefined())
	dead := g.Unreachable()
	require.Len(t, dead, 1)
	assert.Equal(t, OpMove, dead[0].Code[0].Op)
}

// Every jump the translator emits lands on a label in the same function.
func TestTranslatedJumpsResolve(t *testing.T) {
	srcs := []string{
		"void main() { int x; if (x < 1) { x = 1; } else { x = 2; } while (x > 0) { x = x - 1; } }",
		"void main() { int i; bool b; for (i = 0; i < 3 && !b; i += 1) { b = i == 2 || b; } }",
		"bool f(int a) { return a >= 1; }\nvoid main() { int x; while (f(x)) { if (!f(x - 1)) { x = 0; } } }",
		"int g(int n) { if (n <= 0) { return 0; } return n + g(n - 1); }",
	}

	for _, src := range srcs {
		c := NewCompiler("cfg", nil)
		program, err := c.Parse(src)
		require.NoError(t, err)
		Check(program, c.Reporter())
		require.Zero(t, c.Reporter().Errors(), src)

		tr := NewTranslator(nil)
		global := NewSymbolTable(nil)
		for _, decl := range program.Decls {
			fn, ok := decl.(*ast.FnDecl)
			if !ok {
				continue
			}
			out := tr.fnDecl(fn, global)
			body := Fragment{Code: out.Code[2 : len(out.Code)-1]}
			g := BuildCFG(body)
			assert.Empty(t, g.Undefined(), src)
			assert.Empty(t, g.Unreachable(), src)
		}
	}
}
