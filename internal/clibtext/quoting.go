package clibtext

import (
	"strings"

	"github.com/eykd/clibate-go/internal/location"
)

// quoteDelims lists the recognized quote delimiters, longest (triple)
// first so a leading `'''` is never mistaken for three `'` quotes.
var quoteDelims = []string{`'''`, `"""`, `'`, `"`}

// ReadQuotedString attempts to read a quoted string at the cursor: an
// optional raw "r"/"R" prefix directly against a quote mark, then a
// single/double/triple quoted body. It reports ok=false and consumes
// nothing if the input does not start with a quote (after the optional
// raw prefix).
func (l *Lexer) ReadQuotedString() (value string, raw bool, ok bool) {
	c := l.Clone()
	if strings.HasPrefix(c.Remaining(), "r") || strings.HasPrefix(c.Remaining(), "R") {
		probe := c.Clone()
		probe.advance(1)
		if startsWithQuote(probe.Remaining()) {
			raw = true
			c.advance(1)
		}
	}
	delim := matchDelim(c.Remaining())
	if delim == "" {
		return "", false, false
	}
	c.advance(len(delim))
	body := c.Remaining()
	idx := strings.Index(body, delim)
	if idx < 0 {
		return "", false, false
	}
	raw_ := c.advance(idx)
	c.advance(len(delim))
	if raw {
		value = raw_
	} else {
		value = unescape(raw_)
	}
	l.Become(c)
	return value, raw, true
}

func startsWithQuote(s string) bool {
	return matchDelim(s) != ""
}

func matchDelim(s string) string {
	for _, d := range quoteDelims {
		if strings.HasPrefix(s, d) {
			return d
		}
	}
	return ""
}

// unescape processes the small set of backslash escapes clibate's string
// bodies support: \n \t \r \\ \' \" . An unrecognized escape drops the
// backslash and keeps the following character literally.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i == len(s)-1 {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// LooksLikeStringAhead reports whether a quote delimiter (optionally
// preceded by a raw prefix) occurs anywhere within s. It is used to detect
// data that was read as "raw" but actually contains an embedded quoted
// string later on the line, which clibate treats as a parse error rather
// than silently keeping the raw read.
func LooksLikeStringAhead(s string) (quoteAt int, found bool) {
	l := New("", s)
	for {
		stop, _, ok := l.ReadUntilEither([]Stop{Lit("'"), Lit(`"`)}, false)
		if !ok {
			return 0, false
		}
		probe := l.Clone()
		if _, _, qok := probe.ReadQuotedString(); qok {
			return len(s) - len(l.Remaining()), true
		}
		l.advance(len(stop.Literal))
	}
}

// checkNoEmbeddedQuote reports an error if a raw read that started at
// start and just produced read found a quote delimiter starting a
// recognizable quoted string somewhere after its first character. A quote
// at the very start is the caller's normal "try quoted, then fall back to
// raw" sequencing and is not an error here; a quote appearing partway
// through an otherwise raw read means the author meant to start a new,
// separately quoted token and the raw read swallowed it by mistake.
func (l *Lexer) checkNoEmbeddedQuote(start location.Location, read string) error {
	quoteAt, found := LooksLikeStringAhead(read)
	if !found || quoteAt == 0 {
		return nil
	}
	return l.ErrorAt(start.Advance(quoteAt), "Unexpected data found before string: %q", read[:quoteAt])
}

// ReadRawWord reads a non-whitespace run, stopped early by any of the
// given structural stop tokens (e.g. "(", ",", ")"). A '#' is part of
// the word, not a comment sign, so tuple values like "#" or "#1" read
// whole. It returns ok=false if the cursor is at EOF, whitespace or a
// structural token with nothing preceding it, and an error if the word it read
// contains an embedded quoted string starting after its first character.
func (l *Lexer) ReadRawWord(structural ...string) (string, bool, error) {
	rest := l.Remaining()
	if rest == "" {
		return "", false, nil
	}
	end := len(rest)
	for i := 0; i < len(rest); i++ {
		c := rest[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			end = i
			break
		}
		for _, s := range structural {
			if strings.HasPrefix(rest[i:], s) {
				end = i
				goto done
			}
		}
	}
done:
	if end == 0 {
		return "", false, nil
	}
	start := l.Location()
	word := l.advance(end)
	if err := l.checkNoEmbeddedQuote(start, word); err != nil {
		return "", true, err
	}
	return word, true, nil
}

// ReadLineRest reads the remainder of the current source line, as a raw
// (unquoted) read terminated by a '#' comment sign or end of input.
// Leading whitespace is skipped before the read begins; trailing
// whitespace is trimmed from the returned body, and whether that
// trailing whitespace was non-empty is reported for tail-matching
// purposes. It is an error for the read line to contain a quote
// delimiter starting a recognizable quoted string after its first
// character: that means the raw read ran over a token that was meant to
// be read separately, as its own quoted string.
func (l *Lexer) ReadLineRest() (body string, hadTrailingSpace bool, err error) {
	l.skipLineSpace()
	start := l.Location()
	// Stop at '#' (comment) or '\n' (end of line) without consuming either,
	// so the caller's subsequent line bookkeeping sees them; EOF is the
	// fallback for a final, unterminated line.
	_, read, _ := l.ReadUntilEither([]Stop{Lit("#"), Lit("\n"), EOF}, false)
	if err := l.checkNoEmbeddedQuote(start, read); err != nil {
		return "", false, err
	}
	trimmed := strings.TrimRight(read, " \t")
	return trimmed, trimmed != strings.TrimRight(read, ""), nil
}

// skipLineSpace consumes leading spaces and tabs, but never newlines, so
// callers that only want to skip within the current line don't
// accidentally cross onto the next one.
func (l *Lexer) skipLineSpace() {
	rest := l.Remaining()
	trimmed := strings.TrimLeft(rest, " \t")
	l.advance(len(rest) - len(trimmed))
}
