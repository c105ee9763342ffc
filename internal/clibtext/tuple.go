package clibtext

import (
	"fmt"
	"strings"
)

// ReadTuple parses a parenthesized tuple "(v1, v2, ...)" at the cursor.
// Each value is either a quoted string or a raw read trimmed of
// surrounding whitespace. allowedArities lists the tuple lengths the
// caller accepts (e.g. []int{1} for UNPREF's single prefix, []int{1,2}
// for PREFIX's prefix-or-(prefix,extra) pair). It reports ok=false,
// consuming nothing, if the cursor is not at a "(".
func (l *Lexer) ReadTuple(allowedArities []int) (values []string, ok bool, err error) {
	c := l.Clone()
	c.SkipSpace()
	if !c.Match("(") {
		return nil, false, nil
	}
	var vals []string
	c.SkipSpace()
	if !c.Match(")") {
		for {
			c.SkipSpace()
			if s, _, qok := c.ReadQuotedString(); qok {
				vals = append(vals, s)
			} else if raw, rok, rerr := c.ReadRawWord(",", ")"); rerr != nil {
				return nil, true, rerr
			} else if rok {
				vals = append(vals, strings.TrimSpace(raw))
			} else {
				return nil, true, fmt.Errorf("expected a value inside tuple at %s", c.Location())
			}
			c.SkipSpace()
			if c.Match(",") {
				continue
			}
			if c.Match(")") {
				break
			}
			return nil, true, fmt.Errorf("expected ',' or ')' in tuple at %s", c.Location())
		}
	}
	if !aritiesAllow(allowedArities, len(vals)) {
		return nil, true, fmt.Errorf(
			"expected %s value(s) in tuple, found %d instead: (%s)",
			describeArities(allowedArities), len(vals), strings.Join(vals, ", "),
		)
	}
	l.Become(c)
	return vals, true, nil
}

func aritiesAllow(allowed []int, n int) bool {
	for _, a := range allowed {
		if a == n {
			return true
		}
	}
	return false
}

func describeArities(allowed []int) string {
	parts := make([]string, len(allowed))
	for i, a := range allowed {
		parts[i] = fmt.Sprintf("%d", a)
	}
	return strings.Join(parts, " or ")
}
