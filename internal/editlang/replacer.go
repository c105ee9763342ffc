package editlang

import (
	"fmt"
	"regexp"

	"github.com/eykd/clibate-go/internal/diagnostics"
	"github.com/eykd/clibate-go/internal/location"
)

// Replacer is a REPLACE instruction: a whole-file regex substitution,
// grounded on edit.py's Replacer class.
type Replacer struct {
	Pattern        *regexp.Regexp
	PatternContext location.Location
	Replace        string
	ReplaceContext location.Location
	All            bool
}

// NewReplacer compiles pattern, reporting a parse error anchored at
// patternContext on failure.
func NewReplacer(pattern string, patternContext location.Location, replace string, replaceContext location.Location, all bool) (*Replacer, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		msg := fmt.Sprintf("Could not compile regex pattern /%s/:\n%v", pattern, err)
		return nil, diagnostics.NewParseError(msg, patternContext)
	}
	return &Replacer{Pattern: re, PatternContext: patternContext, Replace: replace, ReplaceContext: replaceContext, All: all}, nil
}

// Apply runs the substitution against content, erroring if the pattern
// does not occur at all.
func (r *Replacer) Apply(content string) (string, error) {
	if !r.Pattern.MatchString(content) {
		msg := fmt.Sprintf("Could not match file with pattern /%s/.", r.Pattern.String())
		return "", diagnostics.NewRunError(msg, r.PatternContext)
	}
	if r.All {
		return r.Pattern.ReplaceAllString(content, r.Replace), nil
	}
	loc := r.Pattern.FindStringIndex(content)
	replaced := r.Pattern.ReplaceAllString(content[loc[0]:loc[1]], r.Replace)
	return content[:loc[0]] + replaced + content[loc[1]:], nil
}
