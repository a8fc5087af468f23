package compiler

import (
	"fmt"
	"io"

	"github.com/cmmlang/cmmc/ast"
	"github.com/cmmlang/cmmc/lexer"
	"github.com/cmmlang/cmmc/parser"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Compiler drives one compilation unit through parsing, checking and
// translation. Diagnostics go to the sink given to NewCompiler.
type Compiler struct {
	Name   string
	diag   io.Writer
	rep    *Reporter
	logger *zap.Logger
}

type Option func(*Compiler)

// WithLogger sets the logger for phase and per-function debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Compiler) {
		c.logger = logger
	}
}

// Result is a finished compilation. IR is empty unless checking found no errors.
type Result struct {
	IR       string
	Errors   int
	Warnings int
}

func NewCompiler(name string, diag io.Writer, opts ...Option) *Compiler {
	if diag == nil {
		diag = io.Discard
	}
	c := &Compiler{
		Name:   name,
		diag:   diag,
		rep:    NewReporter(diag),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("unit", name))
	return c
}

// Reporter gives access to the diagnostics of this unit.
func (c *Compiler) Reporter() *Reporter {
	return c.rep
}

// Parse scans and parses src. Lexical and syntax errors are reported as
// fatal and returned together, wrapped in ErrSyntax.
func (c *Compiler) Parse(src string) (*ast.Program, error) {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()

	for _, w := range l.Warnings() {
		c.rep.LexWarn(w.Token, w.Msg)
	}

	var err error
	for _, ce := range l.Errors() {
		c.rep.Fatal(ce.Token, ce.Msg)
		err = multierr.Append(err, ce)
	}
	for _, ce := range p.Errors() {
		c.rep.Fatal(ce.Token, ce.Msg)
		err = multierr.Append(err, ce)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrSyntax, "%s: %d error(s): %v", c.Name, len(multierr.Errors(err)), err)
	}

	c.logger.Debug("parsed", zap.Int("decls", len(program.Decls)))
	return program, nil
}

// Compile parses, checks and, when checking found no errors, translates src.
func (c *Compiler) Compile(src string) (*Result, error) {
	program, err := c.Parse(src)
	if err != nil {
		return nil, err
	}

	Check(program, c.rep)
	fmt.Fprintln(c.diag, c.rep.Summary())
	res := &Result{Errors: c.rep.Errors(), Warnings: c.rep.Warnings()}
	c.logger.Debug("checked", zap.Int("errors", res.Errors), zap.Int("warnings", res.Warnings))

	if res.Errors > 0 {
		return res, errors.Wrapf(ErrSemantic, "%s: %d semantic error(s)", c.Name, res.Errors)
	}

	res.IR = NewTranslator(c.logger).Translate(program)
	c.logger.Debug("translated", zap.Int("bytes", len(res.IR)))
	return res, nil
}

// Compile is a convenience wrapper around NewCompiler(name, diag, opts...).Compile(src).
func Compile(name, src string, diag io.Writer, opts ...Option) (*Result, error) {
	return NewCompiler(name, diag, opts...).Compile(src)
}

// Translate lowers an already checked program.
func Translate(program *ast.Program, opts ...Option) string {
	c := NewCompiler("", nil, opts...)
	return NewTranslator(c.logger).Translate(program)
}
