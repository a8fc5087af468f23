package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"same scalar", IntT, IntT, true},
		{"different kind", IntT, BoolT, false},
		{"pointer depth differs", New(Int, 1), IntT, false},
		{"same pointer depth", New(String, 2), New(String, 2), true},
		{"array length ignored", ArrayOf(IntT, 10), ArrayOf(IntT, 3), true},
		{"array vs scalar", ArrayOf(IntT, 10), IntT, true},
		{"error sentinel", ErrorT, IntT, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestEqualTypes(t *testing.T) {
	assert.True(t, EqualTypes(nil, []Type{}))
	assert.True(t, EqualTypes([]Type{IntT, BoolT}, []Type{IntT, BoolT}))
	assert.False(t, EqualTypes([]Type{IntT, BoolT}, []Type{BoolT, IntT}))
	assert.False(t, EqualTypes([]Type{IntT}, []Type{IntT, IntT}))
}

func TestStringAndDecl(t *testing.T) {
	assert.Equal(t, "int", ArrayOf(New(Int, 1), 4).String())
	assert.Equal(t, "int*[4]", ArrayOf(New(Int, 1), 4).Decl())
	assert.Equal(t, "string**", New(String, 2).Decl())
	assert.Equal(t, "void", VoidT.Decl())
	assert.Equal(t, "error", ErrorT.String())
}

func TestElem(t *testing.T) {
	arr := ArrayOf(BoolT, 8)
	assert.True(t, arr.IsArray())
	assert.False(t, arr.Elem().IsArray())
	assert.Equal(t, 8, arr.Size)
}

func TestReservedTypeNames(t *testing.T) {
	for _, name := range ReservedTypeNames() {
		assert.True(t, IsReservedTypeName(name), name)
		k, ok := Lookup(name)
		assert.True(t, ok)
		assert.Equal(t, name, k.String())
	}
	assert.False(t, IsReservedTypeName("error"))
	assert.False(t, IsReservedTypeName("Int"))
}
