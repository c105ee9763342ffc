// Package diagnostics renders clibate's two error classes in the bit-stable
// format described by the framework's external interface: a class label, a
// one-line message with an inline primary span, the absolute source path,
// and the rendered include chain.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/eykd/clibate-go/internal/location"
)

// Class distinguishes parse-time from apply-time (test-run) diagnostics.
type Class string

const (
	// ClassParse is raised while turning concrete syntax into edit operations.
	ClassParse Class = "Clibate parsing error"
	// ClassRun is raised while applying edit operations or comparing output.
	ClassRun Class = "Error during clibate tests run"
)

// Diagnostic is a structured parse or run error carrying everything needed
// to render the canonical clibate diagnostic format. At.File is always an
// absolute path: specdoc.Parse absolutizes the top-level spec file, and
// FileLoader absolutizes every include: target.
type Diagnostic struct {
	Class   Class
	Message string
	At      location.Location
}

// ParseError reports a ParseStructure/ParseSemantic/PatternCompile failure.
type ParseError struct {
	Diagnostic
}

// RunError reports an ApplyNoMatch (or other apply-time) failure.
type RunError struct {
	Diagnostic
}

func (e *ParseError) Error() string { return e.Diagnostic.String() }
func (e *RunError) Error() string   { return e.Diagnostic.String() }

// NewParseError builds a ParseError at the given location.
func NewParseError(message string, at location.Location) *ParseError {
	return &ParseError{Diagnostic{Class: ClassParse, Message: message, At: at}}
}

// NewRunError builds a RunError at the given location.
func NewRunError(message string, at location.Location) *RunError {
	return &RunError{Diagnostic{Class: ClassRun, Message: message, At: at}}
}

// String renders the diagnostic in the canonical multi-line format:
//
//	<error-class>:
//	<message> <file:line:col>
//	<absolute source path>
//	included from <parent path>:<line>:<col>
//	…
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", d.Class)
	fmt.Fprintf(&b, "%s <%s>\n", d.Message, d.At.String())
	fmt.Fprintln(&b, d.At.File)
	for _, frame := range d.At.Chain() {
		fmt.Fprintf(&b, "included from %s:%d:%d\n", frame.File, frame.Line, frame.Column)
	}
	return strings.TrimRight(b.String(), "\n")
}
