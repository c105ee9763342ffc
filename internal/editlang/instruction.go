// Package editlang parses the edit-section DSL (DIFF, INSERT, REMOVE,
// PREFIX, UNPREF, REPLACE) into executable Edit values, and applies them
// to in-memory file content. It is grounded directly on
// sections/edit.py's LineProcesser/RegexInstruction/AutomaticInstruction/
// EditAutomaton/Replacer classes.
package editlang

import (
	"fmt"
	"strings"

	"github.com/eykd/clibate-go/internal/diagnostics"
	"github.com/eykd/clibate-go/internal/location"
)

// Operation names what an instruction does with a matched line.
type Operation int

const (
	OpInplace Operation = iota
	OpAbove
	OpBelow
	OpRemove
)

// matchData is the opaque result of a successful line match, carried
// through to Construct. Only the fields relevant to the instruction kind
// that produced it are populated.
type matchData struct {
	indent, prefix, body string
	prefixText            string
	submatches            []string
}

// Instruction is one line-based edit (DIFF/INSERT/REMOVE/PREFIX/UNPREF),
// automatic or regex-flavored. match/construct close over the concrete
// per-kind matching and line-building logic built in build.go.
type Instruction struct {
	Op      Operation
	All     bool
	Context location.Location

	// BodyRepr/PrefixRepr feed the "Could not match line ..." runtime
	// error, mirroring LineProcesser.execute's message.
	BodyRepr   string
	PrefixRepr string // "" when no prefix was required

	match     func(line string) (matchData, bool)
	construct func(matchData) []string
}

// Apply runs the instruction against file content, matching every line
// (or just the first, unless All is set), and returns the modified
// content. It mirrors LineProcesser.execute/edit_lines, including the
// anti-loop guarantee: matches are collected before any line is
// inserted, so newly inserted lines are never themselves rescanned
// within this application.
func (ins *Instruction) Apply(content string) (string, error) {
	lines := strings.Split(content, "\n")

	type found struct {
		index int
		m     matchData
	}
	var matches []found
	for i, line := range lines {
		if m, ok := ins.match(line); ok {
			matches = append(matches, found{i, m})
			if !ins.All {
				break
			}
		}
	}
	if len(matches) == 0 {
		if ins.All && (ins.Op == OpAbove || ins.Op == OpBelow) {
			return content, nil
		}
		msg := fmt.Sprintf("Could not match line %s%s.", ins.BodyRepr, ins.prefixSuffix())
		return "", diagnostics.NewRunError(msg, ins.Context)
	}

	offset := 0
	for _, f := range matches {
		newLines := ins.construct(f.m)
		offset += ins.editLines(&lines, f.index+offset, newLines)
	}
	return strings.Join(lines, "\n"), nil
}

func (ins *Instruction) prefixSuffix() string {
	if ins.PrefixRepr == "" {
		return ""
	}
	return fmt.Sprintf(" with prefix %s", ins.PrefixRepr)
}

// editLines mutates *lines in place for one match, returning the index
// offset subsequent matches must apply (mirrors LineProcesser.edit_lines).
func (ins *Instruction) editLines(lines *[]string, at int, constructed []string) int {
	switch ins.Op {
	case OpInplace:
		(*lines)[at] = constructed[0]
		return 0
	case OpRemove:
		*lines = append((*lines)[:at], (*lines)[at+1:]...)
		return -1
	case OpBelow:
		insertAt(lines, at+1, constructed)
		return len(constructed)
	case OpAbove:
		insertAt(lines, at, constructed)
		return len(constructed)
	}
	return 0
}

func insertAt(lines *[]string, at int, newLines []string) {
	tail := append([]string{}, (*lines)[at:]...)
	*lines = append((*lines)[:at], append(append([]string{}, newLines...), tail...)...)
}

// PyRepr approximates Python's str repr(): prefer single quotes, escape
// backslashes and control characters, fall back to double quotes when the
// text itself contains a single quote (and no double quote).
func PyRepr(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}
	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
