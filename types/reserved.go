package types

var reservedTypeNames = []string{
	"int",
	"bool",
	"void",
	"string",
}

var reservedTypeSet = func() map[string]Kind {
	m := make(map[string]Kind, len(reservedTypeNames))
	for _, t := range reservedTypeNames {
		m[t] = kindOf(t)
	}
	return m
}()

func kindOf(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return Kind(k)
		}
	}
	return Error
}

// ReservedTypeNames returns a copy of source-level reserved type names.
func ReservedTypeNames() []string {
	return append([]string(nil), reservedTypeNames...)
}

// IsReservedTypeName reports whether name is reserved for built-in types.
func IsReservedTypeName(name string) bool {
	_, ok := reservedTypeSet[name]
	return ok
}

// Lookup returns the kind named by a source-level type keyword.
func Lookup(name string) (Kind, bool) {
	k, ok := reservedTypeSet[name]
	return k, ok
}
