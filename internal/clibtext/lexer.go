// Package clibtext provides the lexer primitives shared by every concrete
// syntax reader in clibate: whitespace/comment skipping, raw word reads,
// quoted strings (single/double/triple, optional raw "r" prefix),
// parenthesized tuples, and the find/read-until cursor operations the
// instruction parsers are built from.
package clibtext

import (
	"strings"

	"github.com/eykd/clibate-go/internal/location"
)

// Stop names a token the cursor should search for. A nil-literal Stop with
// EOF set matches end of input; clibate's Python ancestor called this
// symbol EOI.
type Stop struct {
	Literal string
	EOF     bool
}

// Lit wraps a literal stop token.
func Lit(s string) Stop { return Stop{Literal: s} }

// EOF matches end of input.
var EOF = Stop{EOF: true}

// Lexer is a cursor over a source document that tracks 1-based line/column
// positions as it consumes bytes, so every read can be attributed to a
// Location for diagnostics.
type Lexer struct {
	file      string
	full      string // never mutated; used to recompute positions
	pos       int    // byte offset into full of the next unconsumed byte
	line, col int     // position of full[pos]
	includedFrom *location.Location // non-nil when this file was pulled in by an include: site
}

// New creates a Lexer over input, reporting positions against file.
func New(file, input string) *Lexer {
	return &Lexer{file: file, full: input, pos: 0, line: 1, col: 1}
}

// NewIncluded creates a Lexer over input exactly like New, except every
// Location it produces carries includedFrom as its include-chain parent,
// so diagnostics raised inside an included spec file trace back to the
// include: site that pulled it in.
func NewIncluded(file, input string, includedFrom location.Location) *Lexer {
	return &Lexer{file: file, full: input, pos: 0, line: 1, col: 1, includedFrom: &includedFrom}
}

// Clone forks the lexer so speculative lexing (trying one instruction
// shape, backtracking to try another) does not mutate the original cursor.
func (l *Lexer) Clone() *Lexer {
	c := *l
	return &c
}

// Become replaces l's cursor state with other's, committing to whichever
// of several speculative lexings was chosen.
func (l *Lexer) Become(other *Lexer) {
	*l = *other
}

// Location reports the current cursor position.
func (l *Lexer) Location() location.Location {
	loc := location.New(l.file, l.line, l.col)
	if l.includedFrom != nil {
		loc = location.Included(loc, *l.includedFrom)
	}
	return loc
}

// Remaining returns the unconsumed suffix of the input.
func (l *Lexer) Remaining() string {
	return l.full[l.pos:]
}

// AtEOF reports whether no input remains.
func (l *Lexer) AtEOF() bool {
	return l.pos >= len(l.full)
}

// advance consumes the next n bytes of Remaining(), updating line/col.
func (l *Lexer) advance(n int) string {
	consumed := l.full[l.pos : l.pos+n]
	for _, r := range consumed {
		if r == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
	l.pos += n
	return consumed
}

// SkipSpace strips leading whitespace (spaces, tabs, and newlines).
func (l *Lexer) SkipSpace() {
	rest := l.Remaining()
	trimmed := strings.TrimLeft(rest, " \t\r\n")
	l.advance(len(rest) - len(trimmed))
}

// SkipWhitespaceAndComments strips leading whitespace and any run of
// '#'-to-end-of-line comments, repeating until neither applies.
func (l *Lexer) SkipWhitespaceAndComments() {
	for {
		before := l.pos
		l.SkipSpace()
		if !l.AtEOF() && l.Remaining()[0] == '#' {
			if idx := strings.IndexByte(l.Remaining(), '\n'); idx >= 0 {
				l.advance(idx)
			} else {
				l.advance(len(l.Remaining()))
			}
		}
		if l.pos == before {
			return
		}
	}
}

// Match reports whether the input starts with token (after no implicit
// whitespace skip) and consumes it if so. An empty token always matches
// without consuming anything.
func (l *Lexer) Match(token string) bool {
	if strings.HasPrefix(l.Remaining(), token) {
		l.advance(len(token))
		return true
	}
	return false
}

// MatchEOF reports whether no input remains, without consuming.
func (l *Lexer) MatchEOF() bool {
	return l.AtEOF()
}

// Find skips whitespace then consumes token if it appears next, returning
// false (and consuming nothing) if it does not.
func (l *Lexer) Find(token string) bool {
	c := l.Clone()
	c.SkipSpace()
	if c.Match(token) {
		l.Become(c)
		return true
	}
	return false
}

// FindEOF skips whitespace then reports whether input is exhausted.
func (l *Lexer) FindEOF() bool {
	c := l.Clone()
	c.SkipSpace()
	if c.AtEOF() {
		l.Become(c)
		return true
	}
	return false
}

// FindEither skips whitespace then consumes whichever of stops appears
// first; ties are broken in favor of the longest literal stop. It reports
// the matched Stop and whether any stop matched.
func (l *Lexer) FindEither(stops []Stop) (Stop, bool) {
	var best *Stop
	var bestLex *Lexer
	cursor := l.Clone()
	for i := range stops {
		stop := stops[i]
		better := bestLex == nil
		if !better {
			switch {
			case best.EOF:
				better = true
			case !stop.EOF && len(best.Literal) < len(stop.Literal):
				better = true
			}
		}
		if !better {
			continue
		}
		c := cursor.Clone()
		if stop.EOF {
			if c.FindEOF() {
				best, bestLex = &stop, c
				cursor = l.Clone()
			}
			continue
		}
		if c.Find(stop.Literal) {
			best, bestLex = &stop, c
			cursor = l.Clone()
		}
	}
	if bestLex != nil {
		l.Become(bestLex)
		return *best, true
	}
	return Stop{}, false
}

// ReadUntil consumes and returns all input up to (and, if consumeStop is
// true, including) stop. Requesting EOF as the stop reads to the end of
// input. Returns ok=false (consuming nothing) if stop does not occur.
func (l *Lexer) ReadUntil(stop Stop, consumeStop bool) (string, bool) {
	if stop.EOF {
		read := l.Remaining()
		l.advance(len(read))
		return read, true
	}
	if stop.Literal == "" {
		return "", true
	}
	idx := strings.Index(l.Remaining(), stop.Literal)
	if idx < 0 {
		return "", false
	}
	read := l.advance(idx)
	if consumeStop {
		l.advance(len(stop.Literal))
	}
	return read, true
}

// ReadUntilEither reads up to whichever of stops occurs first (ties broken
// by longest stop), reporting which stop was found.
func (l *Lexer) ReadUntilEither(stops []Stop, consumeStop bool) (matched Stop, read string, ok bool) {
	nFirst := -1
	var first Stop
	rest := l.Remaining()
	for _, stop := range stops {
		var f int
		if stop.EOF {
			f = len(rest)
		} else {
			f = strings.Index(rest, stop.Literal)
		}
		if f == -1 {
			continue
		}
		switch {
		case nFirst == -1:
			first, nFirst = stop, f
		case f < nFirst:
			first, nFirst = stop, f
		case f == nFirst && len(first.Literal) < len(stop.Literal) && !first.EOF:
			first, nFirst = stop, f
		}
	}
	if nFirst == -1 {
		return Stop{}, "", false
	}
	read, _ = l.ReadUntil(first, consumeStop)
	return first, read, true
}
