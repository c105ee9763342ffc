package editlang

import (
	"regexp"
	"strings"

	"github.com/eykd/clibate-go/internal/clibtext"
	"github.com/eykd/clibate-go/internal/linemodel"
	"github.com/eykd/clibate-go/internal/location"
	"github.com/eykd/clibate-go/internal/prefix"
)

// Edit is anything the edit section can execute against file content:
// an Instruction (DIFF/INSERT/REMOVE/PREFIX/UNPREF) or a Replacer
// (REPLACE).
type Edit interface {
	Apply(content string) (string, error)
}

var keywords = []string{"DIFF", "INSERT", "REMOVE", "PREFIX", "UNPREF", "REPLACE"}

// Parse reads edit-section instructions from lex until a line matches
// none of the six instruction keywords (left unconsumed for the section
// dispatcher to try elsewhere) or input is exhausted.
func Parse(lex *clibtext.Lexer) ([]Edit, error) {
	var edits []Edit
	for {
		if lex.MatchEOF() {
			return edits, nil
		}
		if lex.FindEmptyLine() {
			continue
		}
		save := lex.Clone()
		lex.SkipSpace()
		keyword := ""
		for _, kw := range keywords {
			if lex.Match(kw) {
				keyword = kw
				break
			}
		}
		if keyword == "" {
			lex.Become(save)
			return edits, nil
		}
		edit, err := parseInstruction(lex, keyword)
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
	}
}

func readFlags(lex *clibtext.Lexer) (all, star bool, double bool) {
	for {
		switch {
		case lex.Find("ALL"):
			all = true
		case lex.Find("**"):
			star, double = true, true
		case lex.Find("*"):
			star = true
		default:
			return
		}
	}
}

func readSlash(lex *clibtext.Lexer) bool {
	return lex.Find("/")
}

// readBody reads a match/replace line body, reporting whether its tail
// must match exactly (quoted-with-trailing-space, or explicit '*' mark).
func readBody(lex *clibtext.Lexer) (body string, exactTail bool, err error) {
	b, exact, starred, err := lex.ReadLineBody()
	if err != nil {
		return "", false, err
	}
	return b, exact || starred, nil
}

// decodeIfLiteral expands a non-regex tuple value through
// prefix.DetectMode. ReadTuple does not report whether a value was
// quoted, so a quoted value that contains a digit is expanded as
// condensed notation just like a raw one.
func decodeIfLiteral(regex bool, notation string) string {
	if regex {
		return notation
	}
	return prefix.Decode(notation, prefix.DetectMode(notation))
}

func parseInstruction(lex *clibtext.Lexer, keyword string) (Edit, error) {
	ctx := lex.Location()
	switch keyword {
	case "REMOVE":
		regex := readSlash(lex)
		all, star, _ := readFlags(lex)
		hasPrefix, prefixVal, err := readOptionalPrefixTuple(lex, regex, []int{0, 1})
		if err != nil {
			return nil, err
		}
		if regex && !hasPrefix {
			return nil, lex.Errorf("Requested regex prefix with '/' mark but no parenthesized (pattern) was provided.")
		}
		body, exact, err := readBody(lex)
		if err != nil {
			return nil, err
		}
		return NewRemoveInstruction(all, ctx, SingleLineSpec{
			Regex: regex, HasPrefix: hasPrefix, Prefix: prefixVal, MatchStar: star, Body: body, ExactTail: exact,
		})

	case "PREFIX":
		regex := readSlash(lex)
		all, star, _ := readFlags(lex)
		vals, ok, err := lex.ReadTuple([]int{1, 2})
		if err != nil {
			return nil, lex.Errorf("%v", err)
		}
		if !ok {
			return nil, lex.Errorf("Missing parenthesized prefix pattern(s) for PREFIX instruction.")
		}
		var hasPrefix bool
		var prefixVal, extra string
		if len(vals) == 1 {
			if regex {
				return nil, lex.Errorf("Requested regex prefix with '/' mark but no parenthesized (pattern) was provided.")
			}
			hasPrefix, extra = false, vals[0]
		} else {
			hasPrefix, prefixVal, extra = true, decodeIfLiteral(regex, vals[0]), vals[1]
		}
		if hasPrefix {
			prefixVal = decodeIfLiteral(regex, prefixVal)
		}
		if !regex {
			extra = decodeIfLiteral(regex, extra)
		}
		body, exact, err := readBody(lex)
		if err != nil {
			return nil, err
		}
		return NewPrefixInstruction(all, ctx, SingleLineSpec{
			Regex: regex, HasPrefix: hasPrefix, Prefix: prefixVal, MatchStar: star, Body: body, ExactTail: exact,
			Extra: extra, HasExtra: true,
		})

	case "UNPREF":
		regex := readSlash(lex)
		all, star, _ := readFlags(lex)
		vals, ok, err := lex.ReadTuple([]int{1})
		if err != nil {
			return nil, lex.Errorf("%v", err)
		}
		if !ok {
			return nil, lex.Errorf("Missing parenthesized prefix pattern to remove for UNPREF instruction.")
		}
		prefixVal := decodeIfLiteral(regex, vals[0])
		body, exact, err := readBody(lex)
		if err != nil {
			return nil, err
		}
		return NewUnprefInstruction(all, ctx, SingleLineSpec{
			Regex: regex, HasPrefix: true, Prefix: prefixVal, MatchStar: star, Body: body, ExactTail: exact,
		})

	case "DIFF":
		regex := readSlash(lex)
		spec, err := readPairedMatchLine(lex, regex)
		if err != nil {
			return nil, err
		}
		if !lex.Find("~") {
			return nil, lex.Errorf("Missing introducing tilde '~' on second diff line.")
		}
		rl, err := readPairedReplaceLine(lex, regex)
		if err != nil {
			return nil, err
		}
		spec.Replace = []ReplaceLine{rl}
		return NewPairedInstruction(OpInplace, spec.all, ctx, spec.PairedLineSpec)

	case "INSERT":
		leadingAll := lex.Find("ALL")
		below := true
		if lex.Find("ABOVE") {
			below = false
		} else {
			lex.Find("BELOW")
		}
		regex := readSlash(lex)

		if below {
			spec, err := readPairedMatchLine(lex, regex)
			if err != nil {
				return nil, err
			}
			var replaces []ReplaceLine
			for lex.Find("+") {
				rl, err := readPairedReplaceLine(lex, regex)
				if err != nil {
					return nil, err
				}
				replaces = append(replaces, rl)
			}
			if len(replaces) == 0 {
				return nil, lex.Errorf("Found no lines to INSERT BELOW (marked with a '+' symbol).")
			}
			spec.Replace = replaces
			return NewPairedInstruction(OpBelow, spec.all || leadingAll, ctx, spec.PairedLineSpec)
		}

		var replaces []ReplaceLine
		for lex.Find("+") {
			rl, err := readPairedReplaceLine(lex, regex)
			if err != nil {
				return nil, err
			}
			replaces = append(replaces, rl)
		}
		if len(replaces) == 0 {
			return nil, lex.Errorf("Missing '+' symbol to introduce lines to INSERT ABOVE the match line.")
		}
		if err := lex.CheckEmptyLine(); err != nil {
			return nil, err
		}
		spec, err := readPairedMatchLine(lex, regex)
		if err != nil {
			return nil, err
		}
		spec.Replace = replaces
		return NewPairedInstruction(OpAbove, spec.all || leadingAll, ctx, spec.PairedLineSpec)

	case "REPLACE":
		return parseReplace(lex)
	}
	return nil, lex.Errorf("Missing code to process edit %s instruction.", keyword)
}

type pairedMatchResult struct {
	PairedLineSpec
	all bool
}

func readPairedMatchLine(lex *clibtext.Lexer, regex bool) (pairedMatchResult, error) {
	all, star, _ := readFlags(lex)
	var hasPrefix bool
	var prefixVal string
	vals, ok, err := lex.ReadTuple([]int{1})
	if err != nil {
		return pairedMatchResult{}, lex.Errorf("%v", err)
	}
	if ok {
		hasPrefix = true
		prefixVal = decodeIfLiteral(regex, vals[0])
	} else if regex {
		return pairedMatchResult{}, lex.Errorf("Requested regex prefix with '/' mark but no parenthesized (pattern) was provided.")
	}
	body, exact, err := readBody(lex)
	if err != nil {
		return pairedMatchResult{}, err
	}
	return pairedMatchResult{
		PairedLineSpec: PairedLineSpec{Regex: regex, HasPrefix: hasPrefix, Prefix: prefixVal, MatchStar: star, Body: body, ExactTail: exact},
		all:            all,
	}, nil
}

func readPairedReplaceLine(lex *clibtext.Lexer, regex bool) (ReplaceLine, error) {
	star := linemodel.StarNone
	switch {
	case lex.Find("**"):
		star = linemodel.StarDouble
	case lex.Find("*"):
		star = linemodel.StarSingle
	}
	hasExtra := false
	extra := ""
	vals, ok, err := lex.ReadTuple([]int{0, 1})
	if err != nil {
		return ReplaceLine{}, lex.Errorf("%v", err)
	}
	if ok && len(vals) == 1 {
		hasExtra = true
		extra = decodeIfLiteral(regex, vals[0])
	} else if regex {
		return ReplaceLine{}, lex.Errorf("Requested regex prefix with '/' mark but no parenthesized (replacement) pattern was provided.")
	}
	body, _, starred, err := lex.ReadLineBody()
	if err != nil {
		return ReplaceLine{}, err
	}
	if starred {
		return ReplaceLine{}, lex.Errorf("Unexpected star mark '*' found after replace line body.")
	}
	return ReplaceLine{HasExtra: hasExtra, Extra: extra, Body: body, Star: star}, nil
}

// readOptionalPrefixTuple reads REMOVE's optional prefix tuple. A tuple
// entirely absent leaves the prefix unspecified (hasPrefix=false); an
// explicit empty tuple "()" is a fixed, explicitly-empty prefix
// (hasPrefix=true, value "") meaning "no indent, no prefix" rather than
// "prefix unconstrained".
func readOptionalPrefixTuple(lex *clibtext.Lexer, regex bool, arities []int) (bool, string, error) {
	vals, ok, err := lex.ReadTuple(arities)
	if err != nil {
		return false, "", lex.Errorf("%v", err)
	}
	if !ok {
		return false, "", nil
	}
	if len(vals) == 0 {
		return true, "", nil
	}
	return true, decodeIfLiteral(regex, vals[0]), nil
}

// byWord matches a whole-word "BY", robust to e.g. "BYE", within raw
// (unquoted) REPLACE text.
var byWord = regexp.MustCompile(`\bBY\b`)

// findByOnCurrentLine searches the remainder of the current source line
// (never crossing into the next one) for a whole-word "BY", consuming
// through and including it if found. The search does not cross line
// boundaries because "/" is the documented way to continue a REPLACE
// pattern or replacement across lines.
func findByOnCurrentLine(lex *clibtext.Lexer) (before string, found bool) {
	rest := lex.Remaining()
	line := rest
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		line = rest[:idx]
	}
	loc := byWord.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	lex.Match(line[:loc[1]])
	return line[:loc[0]], true
}

// parseReplace reads a REPLACE instruction: `REPLACE [ALL] <pattern> BY
// <replacement>`, grounded on edit.py's EditAutomaton REPLACE handling.
// Both sides may be raw or quoted, and either may continue across
// several lines via a leading '/' mark.
func parseReplace(lex *clibtext.Lexer) (Edit, error) {
	all, _, _ := readFlags(lex)
	for lex.Match(" ") || lex.Match("\t") {
	}
	matchCtx := lex.Location()

	if s, _, ok := lex.ReadQuotedString(); ok {
		if lex.Find("BY") {
			replaceCtx := lex.Location()
			replace, _, err := lex.ReadQuotedStringOrRaw()
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(replace) == "" {
				return nil, lex.Errorf("Missing expected data: 'replace pattern'.")
			}
			return NewReplacer(s, matchCtx, linemodel.ConvertBackrefs(replace), replaceCtx, all)
		}
		if err := lex.CheckEmptyLine(); err != nil {
			return nil, err
		}
		return parseReplaceContinuation(lex, all, s, matchCtx)
	}

	if before, ok := findByOnCurrentLine(lex); ok {
		pattern := strings.TrimSpace(before)
		if pattern == "" {
			return nil, lex.Errorf("Missing match pattern before 'BY' keyword.")
		}
		for lex.Match(" ") || lex.Match("\t") {
		}
		replaceCtx := lex.Location()
		if s, _, ok := lex.ReadQuotedString(); ok {
			if err := lex.CheckEmptyLine(); err != nil {
				return nil, err
			}
			return NewReplacer(pattern, matchCtx, linemodel.ConvertBackrefs(s), replaceCtx, all)
		}
		if _, ambiguous := findByOnCurrentLine(lex); ambiguous {
			return nil, lex.Errorf("Ambiguous raw REPLACE line with more than 1 occurence of the 'BY' keyword. Consider quoting match and/or replace pattern(s).")
		}
		replace, _, err := lex.ReadLineRest()
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(replace) == "" {
			return nil, lex.Errorf("Missing expected data: 'replace pattern'.")
		}
		return NewReplacer(pattern, matchCtx, linemodel.ConvertBackrefs(replace), replaceCtx, all)
	}

	line, _, err := lex.ReadLineRest()
	if err != nil {
		return nil, err
	}
	return parseReplaceContinuation(lex, all, line, matchCtx)
}

// parseReplaceContinuation collects the remaining '/'-prefixed pattern
// lines, the single 'BY' line, and any '/'-prefixed replacement lines
// that follow it, concatenating each side verbatim (no inserted
// newlines), then builds the Replacer.
func parseReplaceContinuation(lex *clibtext.Lexer, all bool, firstPattern string, matchCtx location.Location) (Edit, error) {
	pattern := firstPattern
	var replace string
	var replaceCtx location.Location
	byFound := false

	terminate := func() (Edit, error) {
		if !byFound {
			return nil, lex.Errorf("Missing 'BY' keyword or '/' line continuation symbol for REPLACE instruction.")
		}
		if strings.TrimSpace(pattern) == "" {
			return nil, lex.Errorf("Missing match pattern before 'BY' keyword.")
		}
		if strings.TrimSpace(replace) == "" {
			return nil, lex.Errorf("Missing expected data: 'replace pattern'.")
		}
		return NewReplacer(pattern, matchCtx, linemodel.ConvertBackrefs(replace), replaceCtx, all)
	}

	for {
		if lex.MatchEOF() {
			return terminate()
		}
		if lex.FindEmptyLine() {
			continue
		}
		switch {
		case lex.Find("BY"):
			if byFound {
				return nil, lex.Errorf("Cannot specify more than one BY line. To continuate BY lines, prefix them with a '/' mark instead.")
			}
			byFound = true
			replaceCtx = lex.Location()
			line, _, err := lex.ReadQuotedStringOrRaw()
			if err != nil {
				return nil, err
			}
			replace = line
		case lex.Find("/"):
			line, _, err := lex.ReadQuotedStringOrRaw()
			if err != nil {
				return nil, err
			}
			if byFound {
				replace += line
			} else {
				pattern += line
			}
		default:
			return terminate()
		}
	}
}
