package clibtext

import (
	"fmt"
	"strings"

	"github.com/eykd/clibate-go/internal/diagnostics"
	"github.com/eykd/clibate-go/internal/location"
)

// ReadLine does a raw read to end of line, stopping early at a '#'
// comment sign, and discards whatever the comment covers.
func (l *Lexer) ReadLine() string {
	stop, read, ok := l.ReadUntilEither([]Stop{Lit("#"), Lit("\n"), EOF}, false)
	if !ok {
		return ""
	}
	read = strings.TrimRight(read, " \t")
	if stop.Literal == "#" {
		l.ReadUntilEither([]Stop{Lit("\n"), EOF}, false)
	}
	return read
}

// FindEmptyLine reports whether only whitespace and/or a comment remain on
// the current line, consuming through the end of line if so. It consumes
// nothing when data remains.
func (l *Lexer) FindEmptyLine() bool {
	c := l.Clone()
	read := c.ReadLine()
	if strings.TrimSpace(read) != "" {
		return false
	}
	c.Match("\n")
	l.Become(c)
	return true
}

// CheckEmptyLine reports an error if anything but whitespace/comment
// remains on the current line.
func (l *Lexer) CheckEmptyLine() error {
	if !l.FindEmptyLine() {
		return l.Errorf("Unexpected trailing data on this line.")
	}
	return nil
}

// Errorf builds a parse error anchored at the lexer's current position,
// rendered in clibate's canonical diagnostic format.
func (l *Lexer) Errorf(format string, args ...any) error {
	return diagnostics.NewParseError(fmt.Sprintf(format, args...), l.Location())
}

// ErrorAt builds a parse error anchored at an explicit location, for
// callers that have already moved the cursor past the offending text.
func (l *Lexer) ErrorAt(at location.Location, format string, args ...any) error {
	return diagnostics.NewParseError(fmt.Sprintf(format, args...), at)
}
