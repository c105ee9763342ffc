package linemodel

import (
	"regexp"
	"testing"
)

func TestMatchRegexLineAnchoredAtStart(t *testing.T) {
	re := regexp.MustCompile(`^(\s*)#\s*`)
	spec := RegexMatchSpec{Prefix: re, Body: "a = b"}
	m, ok := MatchRegexLine("  # a = b", spec)
	if !ok {
		t.Fatalf("expected match")
	}
	if m.PrefixText != "  # " || len(m.Submatches) != 1 || m.Submatches[0] != "  " {
		t.Fatalf("got %+v", m)
	}
}

func TestMatchRegexLineRejectsUnanchoredPrefix(t *testing.T) {
	re := regexp.MustCompile(`#\s*`)
	spec := RegexMatchSpec{Prefix: re, Body: "a = b"}
	if _, ok := MatchRegexLine("x # a = b", spec); ok {
		t.Fatalf("prefix regex must match at line start")
	}
}

func TestConstructRegexLineUnprefDefaultsToFirstGroup(t *testing.T) {
	re := regexp.MustCompile(`^(\s*)#\s*`)
	m, ok := MatchRegexLine("  # a = b", RegexMatchSpec{Prefix: re, Body: "a = b"})
	if !ok {
		t.Fatalf("expected match")
	}
	got := ConstructRegexLine(m, re, RegexReplaceSpec{})
	if got != "  a = b" {
		t.Fatalf("got %q", got)
	}
}

func TestConstructRegexLineAppliesBackreferenceTemplate(t *testing.T) {
	re := regexp.MustCompile(`^(\s*)#\s*`)
	m, ok := MatchRegexLine("  # a = b", RegexMatchSpec{Prefix: re, Body: "a = b"})
	if !ok {
		t.Fatalf("expected match")
	}
	got := ConstructRegexLine(m, re, RegexReplaceSpec{HasExtra: true, ExtraPattern: `\1// `})
	if got != "  // a = b" {
		t.Fatalf("got %q", got)
	}
}

func TestConstructRegexLineNewBody(t *testing.T) {
	re := regexp.MustCompile(`^#\s*`)
	m, ok := MatchRegexLine("# old", RegexMatchSpec{Prefix: re, Body: "old"})
	if !ok {
		t.Fatalf("expected match")
	}
	got := ConstructRegexLine(m, re, RegexReplaceSpec{HasExtra: true, ExtraPattern: "# ", UseNewBody: true, NewBody: "new"})
	if got != "# new" {
		t.Fatalf("got %q", got)
	}
}

func TestConvertBackrefsEscapesLiteralDollar(t *testing.T) {
	got := ConvertBackrefs(`\1 costs $5`)
	if got != `$1 costs $$5` {
		t.Fatalf("got %q", got)
	}
}
