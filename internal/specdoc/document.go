// Package specdoc parses a complete clibate spec document: the ordered
// mix of file:/copy:/command:/edit: declarations, include: chains, and
// the test sequence itself (test:/success:/failure:/RUN/CHECK/EXITCODE/
// stdout:/stderr:). It is the "collaborator" layer spec.md §1 places out
// of scope for the edit engine proper: it drives internal/editlang and
// internal/linemodel through the same parse_edits/apply_edits shape
// described in spec.md §6, but owns none of that engine's semantics
// itself.
package specdoc

import (
	"github.com/eykd/clibate-go/internal/editlang"
	"github.com/eykd/clibate-go/internal/location"
)

// Document is everything parsed from one spec file (with includes
// already flattened in): the files and copies needed to materialize a
// sandbox, and the ordered sequence of tests to run against it.
type Document struct {
	Files  []FileDecl
	Copies []CopySpec
	Tests  []TestCase
}

// FileDecl is one `file (name):: MARKER ... MARKER` declaration: literal
// content for a base file the sandbox must create before any test runs.
type FileDecl struct {
	Name    string
	Content string
}

// CopySpec is one `copy:` entry: bring Source from the input folder into
// the sandbox as Target (same name when no `->` rename was given).
type CopySpec struct {
	Source string
	Target string
}

// EditBatch is an ordered list of edit operations bound to one target
// file, carrying the persistence flag from spec.md §3's "Edit batch":
// Persistent edits stay applied to the baseline for every later test;
// non-persistent ones are rolled back by the sandbox once this test has
// run.
type EditBatch struct {
	Target     string
	Persistent bool
	Edits      []editlang.Edit
	At         location.Location
}

// OutputMode selects how an OutputExpectation's Text is interpreted.
type OutputMode int

const (
	// OutputUnset means no expectation was declared for this channel;
	// the runner does not check it at all.
	OutputUnset OutputMode = iota
	// OutputClear explicitly removes any previously-declared expectation
	// for this channel (the `stdout: *` / `stderr: *` form).
	OutputClear
	// OutputEmpty expects the channel to have produced no output at all.
	OutputEmpty
	// OutputExact expects the channel's content to equal Text exactly
	// (after <TEST_FOLDER>/<INPUT_FOLDER> token expansion and escape-code
	// stripping).
	OutputExact
	// OutputSubstring expects Text to occur in the channel's content,
	// comparing whitespace-insensitively.
	OutputSubstring
)

// OutputExpectation is one channel's (stdout or stderr) expected content.
type OutputExpectation struct {
	Mode OutputMode
	Text string
}

// TestCase is one fully-resolved test: the command to run, the edits to
// apply beforehand, and what the runner should check once it has run.
type TestCase struct {
	Name     string
	Command  string
	Edits    []EditBatch
	ExitCode int
	Stdout   OutputExpectation
	Stderr   OutputExpectation
	At       location.Location
}
