// Package linemodel implements the line model that unifies every edit
// instruction: a file line is viewed as indent (I), prefix (P), body
// (A on the match side, B on the replace side) and tail (T) regions: see
// spec.md §3. This package matches a line against a (I,P,A,T) spec and
// constructs a rewritten line from a (I',P',X,B,T') spec.
package linemodel

import "strings"

// MatchSpec describes how to locate a line's (I, P, A) regions.
type MatchSpec struct {
	// StripIndent, when true, splits leading whitespace off the line into
	// I before testing the prefix; when false, I is always empty and any
	// leading whitespace must be accounted for by Prefix itself.
	StripIndent bool
	// HasPrefix reports whether a fixed prefix was specified at all. When
	// false, the prefix region is always empty and always matches.
	HasPrefix bool
	Prefix    string
	// Body is the expected A. ExactTail requests a literal comparison of
	// trailing whitespace (a quoted, tail-sensitive body); otherwise A is
	// compared with trailing whitespace trimmed from both sides.
	Body      string
	ExactTail bool
}

// Match is the line's matched (I, P, A) with A preserving its original
// trailing whitespace, so replace-side reuse of A is exact even when the
// match itself trimmed trailing space for comparison purposes.
type Match struct {
	Indent string
	Prefix string
	Body   string
}

// MatchLine matches line against spec, reporting the matched regions.
func MatchLine(line string, spec MatchSpec) (Match, bool) {
	var indent, pa string
	if spec.StripIndent {
		pa = strings.TrimLeft(line, " \t")
		indent = line[:len(line)-len(pa)]
	} else {
		pa = line
		indent = ""
	}

	prefix := ""
	if spec.HasPrefix {
		prefix = spec.Prefix
	}
	if !strings.HasPrefix(pa, prefix) {
		return Match{}, false
	}
	body := strings.TrimPrefix(pa, prefix)

	compareBody := body
	if !spec.ExactTail {
		compareBody = strings.TrimRight(body, " \t")
	}
	wantBody := spec.Body
	if !spec.ExactTail {
		wantBody = strings.TrimRight(wantBody, " \t")
	}
	if compareBody != wantBody {
		return Match{}, false
	}
	return Match{Indent: indent, Prefix: prefix, Body: body}, true
}

// ReplaceSpec describes how to construct a rewritten (or newly inserted)
// line from a Match: which of I/P to retain, what extra text (X) to
// splice in, and whether to keep the matched body (A) or substitute a new
// one (B).
type ReplaceSpec struct {
	KeepIndent bool
	KeepPrefix bool
	Extra      string
	UseNewBody bool
	NewBody    string
}

// ConstructLine builds the rewritten line I'+P'+X+body per spec.
func ConstructLine(m Match, spec ReplaceSpec) string {
	var b strings.Builder
	if spec.KeepIndent {
		b.WriteString(m.Indent)
	}
	if spec.KeepPrefix {
		b.WriteString(m.Prefix)
	}
	b.WriteString(spec.Extra)
	if spec.UseNewBody {
		b.WriteString(spec.NewBody)
	} else {
		b.WriteString(m.Body)
	}
	return b.String()
}
