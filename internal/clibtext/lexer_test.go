package clibtext

import "testing"

func TestMatchAndSkip(t *testing.T) {
	l := New("t", "  begin")
	l.SkipSpace()
	if !l.Match("begin") {
		t.Fatalf("expected match")
	}
	if !l.MatchEOF() {
		t.Fatalf("expected EOF after consuming all input")
	}
}

func TestFindEither(t *testing.T) {
	l := New("t", " a :: b ")
	stop, ok := l.FindEither([]Stop{Lit("a"), Lit(":")})
	if !ok || stop.Literal != "a" {
		t.Fatalf("expected first match to win, got %+v ok=%v", stop, ok)
	}
	stop, ok = l.FindEither([]Stop{Lit(":"), Lit("::")})
	if !ok || stop.Literal != "::" {
		t.Fatalf("expected longest match to win, got %+v ok=%v", stop, ok)
	}
}

func TestReadUntilEither(t *testing.T) {
	l := New("t", "a b c aa bb cc u v w uu vv ww")
	stop, read, ok := l.ReadUntilEither([]Stop{Lit("b"), Lit("cc")}, true)
	if !ok || stop.Literal != "b" || read != "a " {
		t.Fatalf("got stop=%+v read=%q ok=%v", stop, read, ok)
	}
}

func TestReadQuotedStringVariants(t *testing.T) {
	cases := []struct {
		in   string
		want string
		raw  bool
	}{
		{`'simple'`, "simple", false},
		{`"double"`, "double", false},
		{`'''triple ' quoted'''`, "triple ' quoted", false},
		{`r'raw\n'`, `raw\n`, true},
		{`'esc\n'`, "esc\n", false},
	}
	for _, c := range cases {
		l := New("t", c.in)
		got, raw, ok := l.ReadQuotedString()
		if !ok {
			t.Fatalf("%q: expected a match", c.in)
		}
		if got != c.want || raw != c.raw {
			t.Fatalf("%q: got (%q, raw=%v), want (%q, raw=%v)", c.in, got, raw, c.want, c.raw)
		}
	}
}

func TestReadQuotedStringNoMatch(t *testing.T) {
	l := New("t", "not a string")
	if _, _, ok := l.ReadQuotedString(); ok {
		t.Fatalf("expected no match")
	}
}

func TestReadTupleArities(t *testing.T) {
	l := New("t", "(8, #)")
	vals, ok, err := l.ReadTuple([]int{1, 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected tuple match")
	}
	if len(vals) != 2 || vals[0] != "8" || vals[1] != "#" {
		t.Fatalf("got %v", vals)
	}
}

func TestReadTupleArityMismatch(t *testing.T) {
	l := New("t", "('a','b')")
	_, _, err := l.ReadTuple([]int{1})
	if err == nil {
		t.Fatalf("expected arity error")
	}
}

func TestReadTupleEmpty(t *testing.T) {
	l := New("t", "()")
	vals, ok, err := l.ReadTuple([]int{0, 1})
	if err != nil || !ok {
		t.Fatalf("unexpected err=%v ok=%v", err, ok)
	}
	if len(vals) != 0 {
		t.Fatalf("expected empty tuple, got %v", vals)
	}
}

func TestReadLineBodyRaw(t *testing.T) {
	l := New("t", `chain = chain - $1   `)
	body, exact, starred, err := l.ReadLineBody()
	if err != nil {
		t.Fatalf("unexpected err=%v", err)
	}
	if body != `chain = chain - $1` || exact || starred {
		t.Fatalf("got body=%q exact=%v starred=%v", body, exact, starred)
	}
}

func TestReadLineBodyQuotedStar(t *testing.T) {
	l := New("t", `'a = b + c'*`)
	body, exact, starred, err := l.ReadLineBody()
	if err != nil {
		t.Fatalf("unexpected err=%v", err)
	}
	if body != "a = b + c" || !starred || exact {
		t.Fatalf("got body=%q exact=%v starred=%v", body, exact, starred)
	}
}

func TestReadLineBodyRawWithEmbeddedQuoteErrors(t *testing.T) {
	l := New("t", `chain = chain "-" $1   `)
	if _, _, _, err := l.ReadLineBody(); err == nil {
		t.Fatalf("expected an embedded-quote error")
	}
}

func TestReadLineRestRawWithEmbeddedQuoteErrors(t *testing.T) {
	l := New("t", `target "replacement"`)
	if _, _, err := l.ReadLineRest(); err == nil {
		t.Fatalf("expected an embedded-quote error")
	}
}

func TestReadLineRestLeadingQuoteIsNotAnEmbeddedQuote(t *testing.T) {
	l := New("t", `"already quoted"`)
	body, _, err := l.ReadLineRest()
	if err != nil {
		t.Fatalf("a quote at the very start of a raw read must not be treated as embedded: %v", err)
	}
	if body != `"already quoted"` {
		t.Fatalf("got %q", body)
	}
}

func TestReadRawWordWithEmbeddedQuoteErrors(t *testing.T) {
	l := New("t", `foo"bar", next`)
	if _, _, err := l.ReadRawWord(",", ")"); err == nil {
		t.Fatalf("expected an embedded-quote error")
	}
}

func TestLocationTracksNewlines(t *testing.T) {
	l := New("t", "ab\ncd")
	l.advance(3)
	loc := l.Location()
	if loc.Line != 2 || loc.Column != 1 {
		t.Fatalf("got line=%d col=%d", loc.Line, loc.Column)
	}
}
