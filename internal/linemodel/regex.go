package linemodel

import (
	"regexp"
	"strings"
)

// RegexMatchSpec matches a line's prefix against a compiled regular
// expression instead of a literal/condensed prefix. The regex is
// responsible for its own leading-whitespace handling: there is no
// separate free indent in regex mode, so I is always empty.
type RegexMatchSpec struct {
	Prefix    *regexp.Regexp
	Body      string
	ExactTail bool
}

// RegexMatch is a successful regex-mode match: the literal text the
// prefix regex consumed (used both for keeping the original prefix and
// as the input to a backreference substitution when building a new one)
// plus its submatches.
type RegexMatch struct {
	PrefixText string
	Submatches []string
	Body       string
}

// MatchRegexLine matches line against spec. The prefix regex must match
// at the very start of the line.
func MatchRegexLine(line string, spec RegexMatchSpec) (RegexMatch, bool) {
	loc := spec.Prefix.FindStringSubmatchIndex(line)
	if loc == nil || loc[0] != 0 {
		return RegexMatch{}, false
	}
	prefixEnd := loc[1]
	prefixText := line[:prefixEnd]
	body := line[prefixEnd:]

	compareBody := body
	wantBody := spec.Body
	if !spec.ExactTail {
		compareBody = strings.TrimRight(compareBody, " \t")
		wantBody = strings.TrimRight(wantBody, " \t")
	}
	if compareBody != wantBody {
		return RegexMatch{}, false
	}

	submatches := make([]string, 0, len(loc)/2)
	for i := 2; i < len(loc); i += 2 {
		if loc[i] < 0 {
			submatches = append(submatches, "")
			continue
		}
		submatches = append(submatches, line[loc[i]:loc[i+1]])
	}
	return RegexMatch{PrefixText: prefixText, Submatches: submatches, Body: body}, true
}

// ConvertBackrefs rewrites a Python-style replacement template (using
// \1, \2, ... and \g<name>) into Go's regexp.Expand syntax ($1, $2, ...),
// escaping any literal '$' so it is not misinterpreted as a Go
// substitution token.
func ConvertBackrefs(template string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == '$':
			b.WriteString("$$")
		case c == '\\' && strings.HasPrefix(template[i:], `\g<`) && strings.IndexByte(template[i:], '>') > 3:
			end := i + strings.IndexByte(template[i:], '>')
			b.WriteString("${" + template[i+3:end] + "}")
			i = end
		case c == '\\' && i+1 < len(template) && template[i+1] >= '0' && template[i+1] <= '9':
			b.WriteByte('$')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// RegexReplaceSpec describes how to build a new prefix and body for a
// regex-mode replace line.
type RegexReplaceSpec struct {
	// HasExtra reports whether an explicit extra-text template was given
	// (PREFIX/DIFF/INSERT regex mode). When false, the new prefix falls
	// back to the match's first capture group (UNPREF regex mode
	// default), or "" if there was none.
	HasExtra     bool
	ExtraPattern string // Python-style backreference template, pre-ConvertBackrefs
	UseNewBody   bool
	NewBody      string
}

// ConstructRegexLine builds the rewritten line for a regex-mode replace.
func ConstructRegexLine(m RegexMatch, prefixRe *regexp.Regexp, spec RegexReplaceSpec) string {
	var newPrefix string
	if spec.HasExtra {
		newPrefix = prefixRe.ReplaceAllString(m.PrefixText, ConvertBackrefs(spec.ExtraPattern))
	} else if len(m.Submatches) > 0 {
		newPrefix = m.Submatches[0]
	}

	body := m.Body
	if spec.UseNewBody {
		body = spec.NewBody
	}
	return newPrefix + body
}
