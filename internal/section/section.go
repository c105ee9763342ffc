// Package section implements the pluggable section-reader registry that
// dispatches the concrete syntax of a clibate spec document (test:,
// success:, failure:, file:, copy:, include:, command:, edit:, EXITCODE,
// stdout:/stderr:) to whichever reader recognizes the current line. It is
// grounded on the ancestor's Reader/LinesAutomaton split: a reader either
// "hard matches" (it can find the end of its own section unassisted, e.g.
// a heredoc-style `file (name):: EOF` block or an `edit:` block, whose own
// embedded grammar tells it where to stop) or "soft matches" (it only
// recognizes its own start; the registry then feeds it subsequent lines,
// one at a time, until some reader's keyword appears again).
package section

import (
	"github.com/eykd/clibate-go/internal/clibtext"
	"github.com/eykd/clibate-go/internal/location"
)

// Automaton accumulates lines fed to it by the Registry after a Reader
// soft-matches, until the Registry stops feeding it (because another
// reader's keyword appeared, or input ran out), at which point Terminate
// produces the finished section value.
type Automaton interface {
	Feed(line string, at location.Location) error
	Terminate() (any, error)
}

// Reader recognizes one kind of section at the current cursor position.
// Keyword names the literal the registry looks for during lookahead, so
// it can decide to stop feeding a running Automaton without having to
// fully re-attempt every reader's TryMatch. TryMatch performs the actual,
// consuming attempt: it reports matched=false, consuming nothing, when
// this reader's keyword is not next.
type Reader interface {
	Keyword() string
	TryMatch(lex *clibtext.Lexer) (value any, automaton Automaton, matched bool, err error)
}

// Registry holds the ordered set of section readers for one document
// grammar. Order matters only to the extent that two readers could both
// claim the same literal prefix; clibate's section keywords are disjoint,
// so in practice first-match and only-match coincide.
type Registry struct {
	readers []Reader
}

// NewRegistry builds a Registry from a fixed list of readers.
func NewRegistry(readers ...Reader) *Registry {
	return &Registry{readers: readers}
}

// ParseAll consumes every section in lex, in document order, until EOF.
// Blank lines and comment-only lines between sections are skipped.
func (r *Registry) ParseAll(lex *clibtext.Lexer) ([]any, error) {
	var values []any
	for {
		if lex.MatchEOF() {
			return values, nil
		}
		if lex.FindEmptyLine() {
			continue
		}
		value, err := r.matchOne(lex)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
}

func (r *Registry) matchOne(lex *clibtext.Lexer) (any, error) {
	for _, rd := range r.readers {
		save := lex.Clone()
		value, automaton, matched, err := rd.TryMatch(lex)
		if err != nil {
			return nil, err
		}
		if !matched {
			lex.Become(save)
			continue
		}
		if automaton == nil {
			return value, nil
		}
		return r.runAutomaton(lex, automaton)
	}
	return nil, lex.Errorf("No section reader recognized this line.")
}

// runAutomaton feeds lex to a soft-matched reader's Automaton one line at
// a time, stopping as soon as some reader's keyword reappears (so that
// reader gets a chance to match it fresh on the next matchOne call) or
// input is exhausted.
func (r *Registry) runAutomaton(lex *clibtext.Lexer, a Automaton) (any, error) {
	for {
		if lex.MatchEOF() {
			break
		}
		if r.peekAnyKeyword(lex) {
			break
		}
		at := lex.Location()
		line := lex.ReadLine()
		lex.Match("\n")
		if err := a.Feed(line, at); err != nil {
			return nil, err
		}
	}
	return a.Terminate()
}

// peekAnyKeyword reports whether some reader's keyword starts at lex
// (after skipping whitespace), without consuming anything.
func (r *Registry) peekAnyKeyword(lex *clibtext.Lexer) bool {
	for _, rd := range r.readers {
		c := lex.Clone()
		c.SkipSpace()
		if c.Match(rd.Keyword()) {
			return true
		}
	}
	return false
}
