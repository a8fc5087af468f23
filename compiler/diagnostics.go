package compiler

import (
	"fmt"
	"io"

	"github.com/cmmlang/cmmc/token"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityFatal
	SeverityLexWarning
)

var severityTags = [...]string{
	SeverityError:      "**SEMANTIC ERROR**",
	SeverityWarning:    "**SEMANTIC WARNING**",
	SeverityFatal:      "**ERROR**",
	SeverityLexWarning: "**WARNING**",
}

func (s Severity) String() string {
	return severityTags[s]
}

// Diagnostic is one reported defect.
type Diagnostic struct {
	Pos      token.Token
	Severity Severity
	Msg      string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d %s %s", d.Pos.Line, d.Pos.Column, d.Severity, d.Msg)
}

// Reporter writes diagnostics to a sink as they are found and keeps the
// counts that decide whether translation runs. Reporting never stops a pass.
type Reporter struct {
	out         io.Writer
	diagnostics []Diagnostic
	errors      int
	warnings    int
	fatal       bool
}

// NewReporter writes to out; a nil out discards the text but still counts.
func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = io.Discard
	}
	return &Reporter{out: out}
}

// Error reports a semantic error.
func (r *Reporter) Error(pos token.Token, msg string) {
	r.errors++
	r.report(pos, SeverityError, msg)
}

func (r *Reporter) Errorf(pos token.Token, format string, args ...any) {
	r.Error(pos, fmt.Sprintf(format, args...))
}

// Warn reports a semantic warning.
func (r *Reporter) Warn(pos token.Token, msg string) {
	r.warnings++
	r.report(pos, SeverityWarning, msg)
}

// Fatal reports a lexical or syntax error. It is not a semantic error and is
// not counted as one; it marks the run as unable to continue.
func (r *Reporter) Fatal(pos token.Token, msg string) {
	r.fatal = true
	r.report(pos, SeverityFatal, msg)
}

// LexWarn reports an advisory from the scanner.
func (r *Reporter) LexWarn(pos token.Token, msg string) {
	r.report(pos, SeverityLexWarning, msg)
}

func (r *Reporter) report(pos token.Token, sev Severity, msg string) {
	d := Diagnostic{Pos: pos, Severity: sev, Msg: msg}
	r.diagnostics = append(r.diagnostics, d)
	fmt.Fprintln(r.out, d.String())
}

func (r *Reporter) Errors() int   { return r.errors }
func (r *Reporter) Warnings() int { return r.warnings }
func (r *Reporter) IsFatal() bool { return r.fatal }

// Diagnostics returns everything reported so far, in order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diagnostics
}

func (r *Reporter) Summary() string {
	return fmt.Sprintf("Semantic Error(s): %d. Semantic Warning(s): %d.", r.errors, r.warnings)
}
