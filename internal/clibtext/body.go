package clibtext

import "strings"

// ReadLineBody reads one match-or-replace line body: either a quoted
// string (optionally followed by a '*' tail-exactness marker) or a raw
// read trimmed of trailing whitespace. It reports the body text, whether
// tail whitespace should be matched exactly, and whether a trailing '*'
// star mark was present.
//
// A raw body is always matched with a free tail; only a quoted body can
// demand exact tail matching, either implicitly (it ends in whitespace)
// or via a trailing '*' mark.
func (l *Lexer) ReadLineBody() (body string, exactTail bool, starred bool, err error) {
	l.skipLineSpace()
	if s, _, ok := l.ReadQuotedString(); ok {
		starred = l.Match("*")
		exactTail = s != strings.TrimRight(s, " \t")
		return s, exactTail, starred, nil
	}
	body, _, err = l.ReadLineRest()
	if err != nil {
		return "", false, false, err
	}
	return body, false, false, nil
}

// ReadQuotedStringOrRaw reads either a quoted string or, failing that, a
// raw read to end of line, reporting whether the read was raw.
func (l *Lexer) ReadQuotedStringOrRaw() (value string, raw bool, err error) {
	l.skipLineSpace()
	if s, _, ok := l.ReadQuotedString(); ok {
		return s, false, nil
	}
	body, _, err := l.ReadLineRest()
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}
