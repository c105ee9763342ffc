// Package prefix decodes the condensed prefix-notation mini-language used
// by PREFIX/UNPREF/DIFF/INSERT tuples: digit runs expand the following
// character, "t"/"s" stand for tab/space, and anything else not containing
// a digit or a t/s trigger is taken literally.
package prefix

import "regexp"

var digitRun = regexp.MustCompile(`\d+`)

// Mode selects how a notation string should be interpreted, per the
// decoding rules in spec.md §4.2.
type Mode int

const (
	// ModeLiteral interprets the notation exactly as written. DetectMode
	// picks it for any notation that contains no digit.
	ModeLiteral Mode = iota
	// ModeCondensed expands digit runs and t/s shortcuts.
	ModeCondensed
)

// DetectMode reports ModeCondensed when notation contains a digit
// (condensed expansion applies) and ModeLiteral otherwise. It sees only
// the notation text, so a notation that was quoted in the source is
// reported as ModeCondensed too when it contains a digit.
func DetectMode(notation string) Mode {
	if digitRun.MatchString(notation) {
		return ModeCondensed
	}
	return ModeLiteral
}

// Decode expands a condensed prefix/extra notation into its literal form.
// Passing ModeLiteral returns notation unchanged.
//
// Condensed expansion splits the string on runs of digits (the same way
// Python's re.split(r"(\d+)", ...) would): the text before the first
// digit run is copied verbatim; then, for each digit run N, the single
// character immediately following it is repeated N times (mapped through
// t→tab, s→space, anything else taken literally) and the remainder of
// that text segment — up to the next digit run or the end of the string —
// is copied verbatim, uninterpreted. A digit run with nothing following
// it (the notation ends right after the digits) expands to N literal
// spaces, matching the common "N spaces after a prefix" shorthand.
func Decode(notation string, mode Mode) string {
	if mode == ModeLiteral || !digitRun.MatchString(notation) {
		return notation
	}
	segments := splitOnDigitRuns(notation)
	result := segments[0].text
	for i := 1; i < len(segments); i++ {
		n := segments[i].n
		chunk := segments[i].text
		if chunk == "" {
			result += repeat(' ', n)
			continue
		}
		c := chunk[0]
		rest := chunk[1:]
		result += expandTrigger(c, n) + rest
	}
	return result
}

type segment struct {
	n    int    // digit run that precedes text (0 for the leading segment)
	text string // literal text following that digit run
}

// splitOnDigitRuns mirrors Python's re.split(r"(\d+)", s): alternating
// non-digit text and parsed digit-run values, always starting (possibly
// empty) and ending with a text segment.
func splitOnDigitRuns(s string) []segment {
	locs := digitRun.FindAllStringIndex(s, -1)
	segments := []segment{{text: s[:firstStart(locs, len(s))]}}
	for i, loc := range locs {
		n := atoi(s[loc[0]:loc[1]])
		end := len(s)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segments = append(segments, segment{n: n, text: s[loc[1]:end]})
	}
	return segments
}

func firstStart(locs [][]int, fallback int) int {
	if len(locs) == 0 {
		return fallback
	}
	return locs[0][0]
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func expandTrigger(c byte, n int) string {
	switch c {
	case 't':
		return repeat('\t', n)
	case 's':
		return repeat(' ', n)
	default:
		return repeat(rune(c), n)
	}
}

func repeat(r rune, n int) string {
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}
