package editlang

import (
	"regexp"

	"github.com/eykd/clibate-go/internal/diagnostics"
	"github.com/eykd/clibate-go/internal/linemodel"
	"github.com/eykd/clibate-go/internal/location"
)

// ReplaceLine is one line of the replace side of a DIFF or INSERT
// instruction: an optional extra-text template (X) plus the new body
// (B) and its own star mark.
type ReplaceLine struct {
	HasExtra bool
	Extra    string
	Body     string
	Star     linemodel.ReplaceStar
}

// PairedLineSpec is the shared shape of DIFF's two lines and INSERT's
// match-plus-inserted-lines group.
type PairedLineSpec struct {
	Regex     bool
	HasPrefix bool
	Prefix    string // literal prefix, or compiled-regex source when Regex
	MatchStar bool
	Body      string
	ExactTail bool
	Replace   []ReplaceLine
}

// NewPairedInstruction builds a DIFF or INSERT Instruction (operation is
// inplace for DIFF, above/below for INSERT).
func NewPairedInstruction(op Operation, all bool, ctx location.Location, spec PairedLineSpec) (*Instruction, error) {
	if spec.Regex {
		return newRegexPairedInstruction(op, all, ctx, spec)
	}
	return newAutomaticPairedInstruction(op, all, ctx, spec)
}

func newAutomaticPairedInstruction(op Operation, all bool, ctx location.Location, spec PairedLineSpec) (*Instruction, error) {
	stripIndent := linemodel.MatchStripIndent(spec.HasPrefix, spec.MatchStar)
	matchSpec := linemodel.MatchSpec{
		StripIndent: stripIndent,
		HasPrefix:   spec.HasPrefix,
		Prefix:      spec.Prefix,
		Body:        spec.Body,
		ExactTail:   spec.ExactTail,
	}

	replaceSpecs := make([]linemodel.ReplaceSpec, len(spec.Replace))
	for i, r := range spec.Replace {
		keepIndent, keepPrefix, err := linemodel.PairedReplaceKeep(spec.HasPrefix, spec.MatchStar, r.HasExtra, r.Star)
		if err != nil {
			return nil, err
		}
		replaceSpecs[i] = linemodel.ReplaceSpec{
			KeepIndent: keepIndent,
			KeepPrefix: keepPrefix,
			Extra:      r.Extra,
			UseNewBody: true,
			NewBody:    r.Body,
		}
	}

	prefixRepr := ""
	if spec.HasPrefix {
		prefixRepr = PyRepr(spec.Prefix)
	}

	return &Instruction{
		Op:         op,
		All:        all,
		Context:    ctx,
		BodyRepr:   PyRepr(spec.Body),
		PrefixRepr: prefixRepr,
		match: func(line string) (matchData, bool) {
			m, ok := linemodel.MatchLine(line, matchSpec)
			if !ok {
				return matchData{}, false
			}
			return matchData{indent: m.Indent, prefix: m.Prefix, body: m.Body}, true
		},
		construct: func(md matchData) []string {
			m := linemodel.Match{Indent: md.indent, Prefix: md.prefix, Body: md.body}
			out := make([]string, len(replaceSpecs))
			for i, rs := range replaceSpecs {
				out[i] = linemodel.ConstructLine(m, rs)
			}
			return out
		},
	}, nil
}

func newRegexPairedInstruction(op Operation, all bool, ctx location.Location, spec PairedLineSpec) (*Instruction, error) {
	re, err := regexp.Compile(spec.Prefix)
	if err != nil {
		return nil, diagnostics.NewParseError("Could not compile regex pattern /"+spec.Prefix+"/: "+err.Error(), ctx)
	}
	matchSpec := linemodel.RegexMatchSpec{Prefix: re, Body: spec.Body, ExactTail: spec.ExactTail}

	replaceSpecs := make([]linemodel.RegexReplaceSpec, len(spec.Replace))
	for i, r := range spec.Replace {
		replaceSpecs[i] = linemodel.RegexReplaceSpec{HasExtra: true, ExtraPattern: r.Extra, UseNewBody: true, NewBody: r.Body}
	}

	return &Instruction{
		Op:         op,
		All:        all,
		Context:    ctx,
		BodyRepr:   PyRepr(spec.Body),
		PrefixRepr: "/" + spec.Prefix + "/",
		match: func(line string) (matchData, bool) {
			m, ok := linemodel.MatchRegexLine(line, matchSpec)
			if !ok {
				return matchData{}, false
			}
			return matchData{prefixText: m.PrefixText, submatches: m.Submatches, body: m.Body}, true
		},
		construct: func(md matchData) []string {
			m := linemodel.RegexMatch{PrefixText: md.prefixText, Submatches: md.submatches, Body: md.body}
			out := make([]string, len(replaceSpecs))
			for i, rs := range replaceSpecs {
				out[i] = linemodel.ConstructRegexLine(m, re, rs)
			}
			return out
		},
	}, nil
}

// SingleLineSpec is the shared shape of PREFIX, UNPREF and REMOVE, which
// read one tuple of prefix pattern(s) followed by a single match line.
type SingleLineSpec struct {
	Regex     bool
	HasPrefix bool
	Prefix    string
	MatchStar bool
	Body      string
	ExactTail bool
	Extra     string // X, for PREFIX only
	HasExtra  bool
}

// NewRemoveInstruction builds a REMOVE instruction.
func NewRemoveInstruction(all bool, ctx location.Location, spec SingleLineSpec) (*Instruction, error) {
	if spec.Regex {
		re, err := regexp.Compile(spec.Prefix)
		if err != nil {
			return nil, diagnostics.NewParseError("Could not compile regex pattern /"+spec.Prefix+"/: "+err.Error(), ctx)
		}
		matchSpec := linemodel.RegexMatchSpec{Prefix: re, Body: spec.Body, ExactTail: spec.ExactTail}
		return &Instruction{
			Op: OpRemove, All: all, Context: ctx,
			BodyRepr: PyRepr(spec.Body), PrefixRepr: "/" + spec.Prefix + "/",
			match:     func(line string) (matchData, bool) { _, ok := linemodel.MatchRegexLine(line, matchSpec); return matchData{}, ok },
			construct: func(matchData) []string { return nil },
		}, nil
	}
	stripIndent := linemodel.MatchStripIndent(spec.HasPrefix, spec.MatchStar)
	matchSpec := linemodel.MatchSpec{StripIndent: stripIndent, HasPrefix: spec.HasPrefix, Prefix: spec.Prefix, Body: spec.Body, ExactTail: spec.ExactTail}
	prefixRepr := ""
	if spec.HasPrefix {
		prefixRepr = PyRepr(spec.Prefix)
	}
	return &Instruction{
		Op: OpRemove, All: all, Context: ctx,
		BodyRepr: PyRepr(spec.Body), PrefixRepr: prefixRepr,
		match:     func(line string) (matchData, bool) { _, ok := linemodel.MatchLine(line, matchSpec); return matchData{}, ok },
		construct: func(matchData) []string { return nil },
	}, nil
}

// NewPrefixInstruction builds a PREFIX instruction: splice Extra in
// between the (possibly empty) matched prefix and the unchanged body.
func NewPrefixInstruction(all bool, ctx location.Location, spec SingleLineSpec) (*Instruction, error) {
	if spec.Regex {
		re, err := regexp.Compile(spec.Prefix)
		if err != nil {
			return nil, diagnostics.NewParseError("Could not compile regex pattern /"+spec.Prefix+"/: "+err.Error(), ctx)
		}
		matchSpec := linemodel.RegexMatchSpec{Prefix: re, Body: spec.Body, ExactTail: spec.ExactTail}
		replaceSpec := linemodel.RegexReplaceSpec{HasExtra: true, ExtraPattern: spec.Extra, UseNewBody: false}
		return &Instruction{
			Op: OpInplace, All: all, Context: ctx,
			BodyRepr: PyRepr(spec.Body), PrefixRepr: "/" + spec.Prefix + "/",
			match: func(line string) (matchData, bool) {
				m, ok := linemodel.MatchRegexLine(line, matchSpec)
				if !ok {
					return matchData{}, false
				}
				return matchData{prefixText: m.PrefixText, submatches: m.Submatches, body: m.Body}, true
			},
			construct: func(md matchData) []string {
				m := linemodel.RegexMatch{PrefixText: md.prefixText, Submatches: md.submatches, Body: md.body}
				return []string{linemodel.ConstructRegexLine(m, re, replaceSpec)}
			},
		}, nil
	}
	stripIndent := linemodel.MatchStripIndent(spec.HasPrefix, spec.MatchStar)
	matchSpec := linemodel.MatchSpec{StripIndent: stripIndent, HasPrefix: spec.HasPrefix, Prefix: spec.Prefix, Body: spec.Body, ExactTail: spec.ExactTail}
	replaceSpec := linemodel.ReplaceSpec{KeepIndent: stripIndent, KeepPrefix: true, Extra: spec.Extra, UseNewBody: false}
	prefixRepr := ""
	if spec.HasPrefix {
		prefixRepr = PyRepr(spec.Prefix)
	}
	return &Instruction{
		Op: OpInplace, All: all, Context: ctx,
		BodyRepr: PyRepr(spec.Body), PrefixRepr: prefixRepr,
		match: func(line string) (matchData, bool) {
			m, ok := linemodel.MatchLine(line, matchSpec)
			if !ok {
				return matchData{}, false
			}
			return matchData{indent: m.Indent, prefix: m.Prefix, body: m.Body}, true
		},
		construct: func(md matchData) []string {
			m := linemodel.Match{Indent: md.indent, Prefix: md.prefix, Body: md.body}
			return []string{linemodel.ConstructLine(m, replaceSpec)}
		},
	}, nil
}

// NewUnprefInstruction builds an UNPREF instruction: drop the matched
// prefix, keeping the body (and, in regex mode, any explicit extra
// template or the first capture group by default).
func NewUnprefInstruction(all bool, ctx location.Location, spec SingleLineSpec) (*Instruction, error) {
	if spec.Regex {
		re, err := regexp.Compile(spec.Prefix)
		if err != nil {
			return nil, diagnostics.NewParseError("Could not compile regex pattern /"+spec.Prefix+"/: "+err.Error(), ctx)
		}
		matchSpec := linemodel.RegexMatchSpec{Prefix: re, Body: spec.Body, ExactTail: spec.ExactTail}
		replaceSpec := linemodel.RegexReplaceSpec{HasExtra: spec.HasExtra, ExtraPattern: spec.Extra, UseNewBody: false}
		return &Instruction{
			Op: OpInplace, All: all, Context: ctx,
			BodyRepr: PyRepr(spec.Body), PrefixRepr: "/" + spec.Prefix + "/",
			match: func(line string) (matchData, bool) {
				m, ok := linemodel.MatchRegexLine(line, matchSpec)
				if !ok {
					return matchData{}, false
				}
				return matchData{prefixText: m.PrefixText, submatches: m.Submatches, body: m.Body}, true
			},
			construct: func(md matchData) []string {
				m := linemodel.RegexMatch{PrefixText: md.prefixText, Submatches: md.submatches, Body: md.body}
				return []string{linemodel.ConstructRegexLine(m, re, replaceSpec)}
			},
		}, nil
	}
	stripIndent := linemodel.UnprefMatchStripIndent(spec.MatchStar)
	matchSpec := linemodel.MatchSpec{StripIndent: stripIndent, HasPrefix: true, Prefix: spec.Prefix, Body: spec.Body, ExactTail: spec.ExactTail}
	replaceSpec := linemodel.ReplaceSpec{KeepIndent: stripIndent, KeepPrefix: false, UseNewBody: false}
	return &Instruction{
		Op: OpInplace, All: all, Context: ctx,
		BodyRepr: PyRepr(spec.Body), PrefixRepr: PyRepr(spec.Prefix),
		match: func(line string) (matchData, bool) {
			m, ok := linemodel.MatchLine(line, matchSpec)
			if !ok {
				return matchData{}, false
			}
			return matchData{indent: m.Indent, prefix: m.Prefix, body: m.Body}, true
		},
		construct: func(md matchData) []string {
			m := linemodel.Match{Indent: md.indent, Prefix: md.prefix, Body: md.body}
			return []string{linemodel.ConstructLine(m, replaceSpec)}
		},
	}, nil
}
