package extract

import (
	"regexp"
	"strings"
)

// statementRule locates a statement span. The span starts where start
// matches and ends at the leftmost stop match found after it, or at the end
// of the input.
type statementRule struct {
	name  string
	start *regexp.Regexp
	stop  *regexp.Regexp
}

// statementRules are tried in order; the first rule whose start pattern
// matches wins even if a later rule would match earlier in the text.
var statementRules = []statementRule{
	{
		// ==>  Preparing: SELECT ...
		name:  "preparing",
		start: regexp.MustCompile(`(?i)Preparing:\s*(?:SELECT|INSERT|UPDATE|DELETE)`),
		stop:  regexp.MustCompile(`(?i)\n[^\r\n]*?Parameters:|==>[^\r\n]*?Parameters:|Parameters:|<==|\d{4}-\d{2}-\d{2}`),
	},
	{
		// Logs without the framework prefix.
		name:  "keyword",
		start: regexp.MustCompile(`(?i)(?:SELECT|INSERT|UPDATE|DELETE)`),
		stop:  regexp.MustCompile(`(?i)Parameters:|==>|<==|\d{4}-\d{2}-\d{2}|\[DEBUG\]|\[INFO\]`),
	},
}

// preparingPrefix matches the remainder of a line up to and including the
// marker, so "... DEBUG ==>  Preparing: " is removed as a unit.
var preparingPrefix = regexp.MustCompile(`(?i)[^\r\n]*?Preparing:\s*`)

// match returns the span located by the rule.
func (r statementRule) match(text string) (string, bool) {
	loc := r.start.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	end := len(text)
	if stop := r.stop.FindStringIndex(text[loc[1]:]); stop != nil {
		end = loc[1] + stop[0]
	}
	return text[loc[0]:end], true
}

// locateStatement applies the rules in order and returns the cleaned
// template together with the name of the rule that produced it.
func locateStatement(text string) (template, rule string, ok bool) {
	for _, r := range statementRules {
		span, matched := r.match(text)
		if !matched {
			continue
		}
		return stripPreparing(strings.TrimSpace(span)), r.name, true
	}
	return "", "", false
}

func stripPreparing(sql string) string {
	loc := preparingPrefix.FindStringIndex(sql)
	if loc == nil {
		return sql
	}
	return strings.TrimSpace(sql[:loc[0]] + sql[loc[1]:])
}
