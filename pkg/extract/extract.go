package extract

import (
	"strings"

	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

// Result is the outcome of Extract.
type Result struct {
	// Template is the SQL text with its ? placeholders. Empty when Found is false.
	Template string
	// Found reports whether a statement was located.
	Found bool
	// Rule names the statement rule that matched ("preparing" or "keyword").
	Rule string
	// ParamLine is the selected parameter line, empty when absent.
	ParamLine string
	// Params are the parsed entries in order of appearance.
	Params []core.Param
	// Literals are Params encoded as SQL literals, same order.
	Literals []core.Literal
}

// Extract locates the statement and its parameters in a raw log excerpt.
//
// Entities are decoded before any matching. When no statement is found the
// parameter line is not inspected and Params is empty.
func Extract(raw string) Result {
	text := DecodeEntities(raw)

	template, rule, ok := locateStatement(text)
	if !ok {
		return Result{}
	}

	res := Result{
		Template: template,
		Found:    true,
		Rule:     rule,
	}

	line, ok := locateParamLine(text)
	if !ok || line == "" {
		return res
	}
	res.ParamLine = line
	res.Params = ParseParams(line)
	res.Literals = core.Literals(res.Params)
	return res
}

// LastStatement returns raw starting at the line that holds the last
// Preparing: marker, so a log holding several statements restores the
// newest one. Without a marker raw is returned unchanged.
func LastStatement(raw string) string {
	idx := strings.LastIndex(raw, "Preparing:")
	if idx < 0 {
		return raw
	}
	lineStart := strings.LastIndex(raw[:idx], "\n") + 1
	return raw[lineStart:]
}
