package format

import "strings"

// clauseKind describes how a keyword shapes the layout.
type clauseKind int

const (
	clauseNone clauseKind = iota
	// clauseBlock keywords sit alone on their line; the body is indented below.
	clauseBlock
	// clauseJoin keywords start a line and the body follows inline.
	clauseJoin
)

var clauses = map[string]clauseKind{
	"SELECT":                  clauseBlock,
	"SELECT DISTINCT":         clauseBlock,
	"FROM":                    clauseBlock,
	"WHERE":                   clauseBlock,
	"GROUP BY":                clauseBlock,
	"HAVING":                  clauseBlock,
	"ORDER BY":                clauseBlock,
	"LIMIT":                   clauseBlock,
	"OFFSET":                  clauseBlock,
	"FETCH FIRST":             clauseBlock,
	"FETCH NEXT":              clauseBlock,
	"WITH":                    clauseBlock,
	"INSERT":                  clauseBlock,
	"INSERT INTO":             clauseBlock,
	"INSERT IGNORE INTO":      clauseBlock,
	"REPLACE INTO":            clauseBlock,
	"VALUES":                  clauseBlock,
	"UPDATE":                  clauseBlock,
	"SET":                     clauseBlock,
	"DELETE":                  clauseBlock,
	"DELETE FROM":             clauseBlock,
	"RETURNING":               clauseBlock,
	"ON DUPLICATE KEY UPDATE": clauseBlock,
	"ON CONFLICT":             clauseBlock,
	"UNION":                   clauseBlock,
	"UNION ALL":               clauseBlock,
	"INTERSECT":               clauseBlock,
	"EXCEPT":                  clauseBlock,
	"MINUS":                   clauseBlock,
	"FOR UPDATE":              clauseBlock,

	"JOIN":             clauseJoin,
	"INNER JOIN":       clauseJoin,
	"LEFT JOIN":        clauseJoin,
	"LEFT OUTER JOIN":  clauseJoin,
	"RIGHT JOIN":       clauseJoin,
	"RIGHT OUTER JOIN": clauseJoin,
	"FULL JOIN":        clauseJoin,
	"FULL OUTER JOIN":  clauseJoin,
	"CROSS JOIN":       clauseJoin,
	"NATURAL JOIN":     clauseJoin,
	"STRAIGHT_JOIN":    clauseJoin,
}

// phrases are multi-word keywords merged into one token before printing.
// Longer phrases come first so "LEFT OUTER JOIN" wins over "LEFT JOIN".
var phrases = [][]string{
	{"ON", "DUPLICATE", "KEY", "UPDATE"},
	{"INSERT", "IGNORE", "INTO"},
	{"LEFT", "OUTER", "JOIN"},
	{"RIGHT", "OUTER", "JOIN"},
	{"FULL", "OUTER", "JOIN"},
	{"SELECT", "DISTINCT"},
	{"GROUP", "BY"},
	{"ORDER", "BY"},
	{"PARTITION", "BY"},
	{"INSERT", "INTO"},
	{"REPLACE", "INTO"},
	{"DELETE", "FROM"},
	{"UNION", "ALL"},
	{"INNER", "JOIN"},
	{"LEFT", "JOIN"},
	{"RIGHT", "JOIN"},
	{"FULL", "JOIN"},
	{"CROSS", "JOIN"},
	{"NATURAL", "JOIN"},
	{"ON", "CONFLICT"},
	{"DO", "UPDATE"},
	{"DO", "NOTHING"},
	{"FOR", "UPDATE"},
	{"FETCH", "FIRST"},
	{"FETCH", "NEXT"},
	{"IS", "NOT"},
	{"NOT", "IN"},
	{"NOT", "EXISTS"},
	{"NOT", "LIKE"},
	{"NOT", "BETWEEN"},
}

// keywords are cased according to FormatOptions.KeywordCase. Function and
// type names are left alone.
var keywords = map[string]bool{}

func init() {
	for _, kw := range strings.Fields(`
		ALL AND ANY AS ASC BETWEEN BY CASE CROSS DELETE DESC DISTINCT ELSE END
		ESCAPE EXCEPT EXISTS FALSE FROM FULL GROUP HAVING ILIKE IN INNER INSERT
		INTERSECT INTO IS JOIN LEFT LIKE LIMIT MINUS NATURAL NOT NULL OFFSET ON OR
		ORDER OUTER OVER PARTITION RECURSIVE REGEXP RETURNING RIGHT SELECT SET
		STRAIGHT_JOIN THEN TRUE UNION UPDATE USING VALUES WHEN WHERE WITH`) {
		keywords[kw] = true
	}
	for phrase := range clauses {
		keywords[phrase] = true
	}
	for _, words := range phrases {
		keywords[strings.Join(words, " ")] = true
	}
}

func isKeyword(upper string) bool {
	return keywords[upper]
}

// opensSubquery reports whether a parenthesis followed by upper starts a
// nested statement block.
func opensSubquery(upper string) bool {
	switch upper {
	case "SELECT", "SELECT DISTINCT", "WITH":
		return true
	}
	return false
}
