package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocatorSpaces(t *testing.T) {
	a := NewAllocator()

	assert.Equal(t, "$0", a.New(Global))
	assert.Equal(t, "$1", a.New(Global))
	assert.Equal(t, "@0", a.New(Local))
	assert.Equal(t, "%0", a.New(Param))
	assert.Equal(t, "&0", a.New(Temp))
	assert.Equal(t, "&1", a.New(Temp))
	assert.Equal(t, 2, a.Count(Global))
	assert.Equal(t, 2, a.Count(Temp))
}

func TestAllocatorResetFunction(t *testing.T) {
	a := NewAllocator()
	a.New(Global)
	a.New(Local)
	a.New(Param)
	a.New(Temp)
	a.AddConst(`"x"`)
	a.NewLabel()

	a.ResetFunction()

	assert.Equal(t, 0, a.Count(Local))
	assert.Equal(t, 0, a.Count(Param))
	assert.Equal(t, 0, a.Count(Temp))
	assert.Equal(t, "@0", a.New(Local))

	// run-wide state survives
	assert.Equal(t, "$1", a.New(Global))
	assert.Equal(t, "?1", a.AddConst(`"y"`))
	assert.Equal(t, "~1", a.NewLabel())
}

func TestConstantPoolKeepsDuplicates(t *testing.T) {
	a := NewAllocator()

	first := a.AddConst(`"hi"`)
	second := a.AddConst(`"hi"`)

	assert.Equal(t, "?0", first)
	assert.Equal(t, "?1", second)
	assert.Equal(t, []string{`"hi"`, `"hi"`}, a.Consts())
}

func TestLabelsAreMonotonic(t *testing.T) {
	a := NewAllocator()
	for i, want := range []string{"~0", "~1", "~2"} {
		assert.Equalf(t, want, a.NewLabel(), "label %d", i)
	}
}

func TestAddress(t *testing.T) {
	tests := []struct {
		space Space
		n     int
		want  string
	}{
		{Global, 3, "$3"},
		{Const, 0, "?0"},
		{Param, 1, "%1"},
		{Local, 12, "@12"},
		{Temp, 7, "&7"},
	}
	for _, tt := range tests {
		t.Run(tt.space.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Address(tt.space, tt.n))
		})
	}
}
