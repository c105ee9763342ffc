package specdoc

import (
	"github.com/eykd/clibate-go/internal/diagnostics"
	"github.com/eykd/clibate-go/internal/location"
)

// builder accumulates document-wide state as statements are applied in
// order, the Go analog of the Python ancestor's TestSet: a running
// command line, a running set of output/exit-code expectations, and the
// edits declared since the last finalized test. It is not exported;
// callers only ever see the finished Document.
type builder struct {
	doc *Document

	command     string
	pendingName string

	persistentSoFar   []EditBatch
	sinceLastFinalize []EditBatch

	exitCode       int
	exitCodeSet    bool
	stdout, stderr OutputExpectation
}

func newBuilder() *builder {
	return &builder{doc: &Document{}}
}

// actor is anything a statement produces that mutates builder state, the
// Go analog of the ancestor's Actor.execute(ts). Most actors return a nil
// *TestCase; only the ones that finalize and "run" a test (success:,
// failure:, CHECK) return one.
type actor interface {
	execute(b *builder) (*TestCase, error)
}

// addEdits appends a freshly-parsed edit batch to the edits pending for
// the next finalized test.
func (b *builder) addEdits(batch EditBatch) {
	b.sinceLastFinalize = append(b.sinceLastFinalize, batch)
}

// finalize builds a TestCase from the builder's current pending state,
// folding any newly-persistent edit batches into persistentSoFar and
// clearing the rest, ready for the next test.
func (b *builder) finalize(name string, at location.Location, exitCode int, stdout, stderr OutputExpectation) (*TestCase, error) {
	if name == "" {
		name = b.pendingName
	}
	if b.command == "" {
		return nil, diagnostics.NewRunError("No command has been specified to run this test.", at)
	}

	edits := make([]EditBatch, 0, len(b.persistentSoFar)+len(b.sinceLastFinalize))
	edits = append(edits, b.persistentSoFar...)
	edits = append(edits, b.sinceLastFinalize...)

	for _, batch := range b.sinceLastFinalize {
		if batch.Persistent {
			b.persistentSoFar = append(b.persistentSoFar, batch)
		}
	}
	b.sinceLastFinalize = nil
	b.pendingName = ""

	tc := &TestCase{
		Name:     name,
		Command:  b.command,
		Edits:    edits,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		At:       at,
	}
	return tc, nil
}
