package compiler

import (
	"strings"

	"github.com/cmmlang/cmmc/types"
)

const SEP = "_" // between the function name and each parameter type

// Mangle builds the code label of an overload: the name, then the base
// name of every parameter type, e.g. max(int, int) -> max_int_int and
// main() -> main_.
func Mangle(funcName string, params []types.Type) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.String())
	}
	return funcName + SEP + strings.Join(names, SEP)
}
