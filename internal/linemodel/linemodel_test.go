package linemodel

import "testing"

func TestMatchLineStrippedIndent(t *testing.T) {
	spec := MatchSpec{StripIndent: true, HasPrefix: true, Prefix: "# ", Body: "a = b"}
	m, ok := MatchLine("\t\t# a = b", spec)
	if !ok {
		t.Fatalf("expected match")
	}
	if m.Indent != "\t\t" || m.Prefix != "# " || m.Body != "a = b" {
		t.Fatalf("got %+v", m)
	}
}

func TestMatchLineNoIndentStrip(t *testing.T) {
	spec := MatchSpec{StripIndent: false, HasPrefix: true, Prefix: "# ", Body: "a = b"}
	if _, ok := MatchLine("\t# a = b", spec); ok {
		t.Fatalf("leading whitespace must fail when indent isn't stripped")
	}
	m, ok := MatchLine("# a = b", spec)
	if !ok || m.Indent != "" {
		t.Fatalf("got %+v ok=%v", m, ok)
	}
}

func TestMatchLineExactTailRequiresTrailingWhitespace(t *testing.T) {
	spec := MatchSpec{StripIndent: true, Body: "a = b  ", ExactTail: true}
	if _, ok := MatchLine("a = b", spec); ok {
		t.Fatalf("exact tail should reject a line missing trailing space")
	}
	if _, ok := MatchLine("a = b  ", spec); !ok {
		t.Fatalf("exact tail should accept the exact trailing space")
	}
}

func TestConstructLineKeepsRequestedRegions(t *testing.T) {
	m := Match{Indent: "\t", Prefix: "# ", Body: "old"}
	got := ConstructLine(m, ReplaceSpec{KeepIndent: true, KeepPrefix: true, Extra: "!", UseNewBody: true, NewBody: "new"})
	if got != "\t# !new" {
		t.Fatalf("got %q", got)
	}
	got = ConstructLine(m, ReplaceSpec{KeepIndent: false, KeepPrefix: false})
	if got != "old" {
		t.Fatalf("got %q", got)
	}
}

func TestUnprefStarRequiresPrefixAtLineStart(t *testing.T) {
	stripIndent := UnprefMatchStripIndent(true)
	spec := MatchSpec{StripIndent: stripIndent, HasPrefix: true, Prefix: "# ", Body: "a = b + c"}

	m, ok := MatchLine("# a = b + c", spec)
	if !ok {
		t.Fatalf("expected starred unpref to match a bare '# ' prefix")
	}
	replaced := ConstructLine(m, ReplaceSpec{KeepIndent: stripIndent, KeepPrefix: false})
	if replaced != "a = b + c" {
		t.Fatalf("got %q", replaced)
	}

	if _, ok := MatchLine("\t# a = b + c", spec); ok {
		t.Fatalf("starred unpref must reject an indented line")
	}
}

func TestUnprefUnstarredHasFreeIndent(t *testing.T) {
	stripIndent := UnprefMatchStripIndent(false)
	spec := MatchSpec{StripIndent: stripIndent, HasPrefix: true, Prefix: "# ", Body: "a = b"}
	m, ok := MatchLine("\t\t# a = b", spec)
	if !ok || m.Indent != "\t\t" {
		t.Fatalf("got %+v ok=%v", m, ok)
	}
}

func TestPairedReplaceKeepNoPrefixNoMatchStar(t *testing.T) {
	keepIndent, keepPrefix, err := PairedReplaceKeep(false, false, false, StarNone)
	if err != nil || !keepIndent || keepPrefix {
		t.Fatalf("got keepIndent=%v keepPrefix=%v err=%v", keepIndent, keepPrefix, err)
	}
	keepIndent, keepPrefix, err = PairedReplaceKeep(false, false, false, StarSingle)
	if err != nil || keepIndent || keepPrefix {
		t.Fatalf("starred replacement should drop the indent: got %v %v %v", keepIndent, keepPrefix, err)
	}
}

func TestPairedReplaceKeepDoubleStarRequiresPrefixAndMatchStar(t *testing.T) {
	if _, _, err := PairedReplaceKeep(false, true, false, StarDouble); err == nil {
		t.Fatalf("expected a meaningless-double-star error without a fixed prefix")
	}
	if _, _, err := PairedReplaceKeep(true, false, false, StarDouble); err == nil {
		t.Fatalf("expected a meaningless-double-star error without a starred match")
	}
	keepIndent, keepPrefix, err := PairedReplaceKeep(true, true, false, StarDouble)
	if err != nil || keepIndent || keepPrefix {
		t.Fatalf("got %v %v %v", keepIndent, keepPrefix, err)
	}
}

func TestPairedReplaceKeepRedundantStar(t *testing.T) {
	if _, _, err := PairedReplaceKeep(false, true, false, StarSingle); err == nil {
		t.Fatalf("expected a redundant-star error")
	}
}

func TestPairedReplaceKeepPrefixedMatchStarred(t *testing.T) {
	keepIndent, keepPrefix, err := PairedReplaceKeep(true, true, true, StarSingle)
	if err != nil || !keepIndent || !keepPrefix {
		t.Fatalf("got %v %v %v", keepIndent, keepPrefix, err)
	}
	keepIndent, keepPrefix, err = PairedReplaceKeep(true, true, false, StarNone)
	if err != nil || !keepIndent || !keepPrefix {
		t.Fatalf("got %v %v %v", keepIndent, keepPrefix, err)
	}
	keepIndent, keepPrefix, err = PairedReplaceKeep(true, true, true, StarNone)
	if err != nil || !keepIndent || keepPrefix {
		t.Fatalf("mismatched extra/star should drop the prefix: got %v %v %v", keepIndent, keepPrefix, err)
	}
}
