package extract

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

var (
	paramsStart = regexp.MustCompile(`(?i)(?:==>)?\s*Parameters:`)
	// A date stamp only ends the parameter text when it starts a later line;
	// Timestamp values on the parameter line itself must survive.
	paramsStop = regexp.MustCompile(`(?i)\n[^\r\n]*?\d{4}-\d{2}-\d{2}|<==|\[DEBUG\]|\[INFO\]`)
	paramEntry = regexp.MustCompile(`([^,()]*)(\([^)]+\))`)
)

// knownTypeTags select the parameter line when the captured text spans
// several lines.
var knownTypeTags = []string{
	"(Integer)",
	"(Long)",
	"(Date)",
	"(String)",
	"(Boolean)",
	"(Timestamp)",
}

// locateParamLine returns the text following the Parameters: marker, reduced
// to a single line.
func locateParamLine(text string) (string, bool) {
	loc := paramsStart.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := text[loc[1]:]
	if stop := paramsStop.FindStringIndex(rest); stop != nil {
		rest = rest[:stop[0]]
	}
	return pickParamLine(strings.TrimSpace(rest)), true
}

// pickParamLine returns the first line carrying a known type tag, or the
// first line when none does. With several tagged lines the first one wins.
func pickParamLine(s string) string {
	if !strings.Contains(s, "\n") {
		return s
	}
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		for _, tag := range knownTypeTags {
			if strings.Contains(line, tag) {
				return strings.TrimSpace(line)
			}
		}
	}
	return strings.TrimSpace(lines[0])
}

// ParseParams splits a parameter line into value(Type) entries.
//
// An entry is accepted only when its closing parenthesis is followed by a
// comma or the end of the line. Matching is left to right and
// non-overlapping; text that does not fit the shape is skipped.
func ParseParams(line string) []core.Param {
	var params []core.Param
	pos := 0
	for pos < len(line) {
		loc := paramEntry.FindStringSubmatchIndex(line[pos:])
		if loc == nil {
			break
		}
		end := pos + loc[1]
		if end < len(line) && line[end] != ',' {
			// Every start before this '(' yields the same rejected entry.
			pos += loc[4] + 1
			continue
		}
		tag := line[pos+loc[4] : pos+loc[5]]
		params = append(params, core.Param{
			Value: strings.TrimSpace(line[pos+loc[2] : pos+loc[3]]),
			Type:  strings.TrimSpace(tag[1 : len(tag)-1]),
		})
		pos = end
	}
	return params
}
