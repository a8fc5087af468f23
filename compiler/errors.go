package compiler

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrDeclarationConflict is the cause of a duplicate or incompatible redeclaration.
	ErrDeclarationConflict = errors.New("declaration conflict")
	// ErrUndeclaredName is the cause of a failed variable or function lookup.
	ErrUndeclaredName = errors.New("undeclared name")
	// ErrSyntax is returned by Compile when the source does not scan or parse.
	ErrSyntax = errors.New("syntax error")
	// ErrSemantic is returned by Compile when checking reports errors.
	ErrSemantic = errors.New("semantic error")
)

// SemanticError carries the user-facing message of a symbol table failure
// together with its category.
type SemanticError struct {
	cause error
	Msg   string
}

func newSemanticError(cause error, format string, args ...any) error {
	return &SemanticError{cause: cause, Msg: fmt.Sprintf(format, args...)}
}

func (e *SemanticError) Error() string { return e.Msg }
func (e *SemanticError) Cause() error  { return e.cause }
func (e *SemanticError) Unwrap() error { return e.cause }
