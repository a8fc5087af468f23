package compiler

import (
	"bytes"
	"testing"

	"github.com/cmmlang/cmmc/token"
	"github.com/stretchr/testify/assert"
)

func TestReporter(t *testing.T) {
	var out bytes.Buffer
	rep := NewReporter(&out)
	pos := token.Token{Line: 3, Column: 9}

	rep.Error(pos, "Variable x has not been declared")
	rep.Errorf(pos, "Function %s has not been declared", "f")
	rep.Warn(pos, "Variable v cannot be of void type")
	rep.LexWarn(pos, "integer literal too large; using max value")

	expected := "3:9 **SEMANTIC ERROR** Variable x has not been declared\n" +
		"3:9 **SEMANTIC ERROR** Function f has not been declared\n" +
		"3:9 **SEMANTIC WARNING** Variable v cannot be of void type\n" +
		"3:9 **WARNING** integer literal too large; using max value\n"
	assert.Equal(t, expected, out.String())

	assert.Equal(t, 2, rep.Errors())
	assert.Equal(t, 1, rep.Warnings(), "scanner warnings are not semantic warnings")
	assert.False(t, rep.IsFatal())
	assert.Len(t, rep.Diagnostics(), 4)
	assert.Equal(t, "Semantic Error(s): 2. Semantic Warning(s): 1.", rep.Summary())
}

func TestReporterFatal(t *testing.T) {
	var out bytes.Buffer
	rep := NewReporter(&out)

	rep.Fatal(token.Token{Line: 1, Column: 4}, "ignoring illegal character: @")

	assert.Equal(t, "1:4 **ERROR** ignoring illegal character: @\n", out.String())
	assert.True(t, rep.IsFatal())
	assert.Equal(t, 0, rep.Errors())
}

func TestReporterNilSinkStillCounts(t *testing.T) {
	rep := NewReporter(nil)
	rep.Error(token.Token{}, "x")
	rep.Warn(token.Token{}, "y")

	assert.Equal(t, 1, rep.Errors())
	assert.Equal(t, 1, rep.Warnings())
	assert.Equal(t, "Semantic Error(s): 0. Semantic Warning(s): 0.", NewReporter(nil).Summary())
}
