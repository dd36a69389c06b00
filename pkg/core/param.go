package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Param
// =============================================================================

// Param is one bound value from a parameter line, e.g. "John(String)".
// The type tag is free-form text; it is never checked against a closed set.
type Param struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Literal returns the SQL literal encoding of the parameter.
//
// The type tag is classified by case-sensitive containment, in order:
// String, then Timestamp or Date, then Boolean. Anything else is treated
// as numeric.
func (p Param) Literal() Literal {
	switch {
	case strings.Contains(p.Type, "String"):
		if p.Value == "" {
			return Literal{Kind: LiteralString, Text: "''"}
		}
		return Literal{Kind: LiteralString, Text: quote(p.Value)}
	case strings.Contains(p.Type, "Timestamp"), strings.Contains(p.Type, "Date"):
		return Literal{Kind: LiteralString, Text: quote(p.Value)}
	case strings.Contains(p.Type, "Boolean"):
		return BoolLiteral(strings.EqualFold(p.Value, "true"))
	default:
		if p.Value == "" {
			return Literal{Kind: LiteralNull, Text: "NULL"}
		}
		return Literal{Kind: LiteralRaw, Text: p.Value}
	}
}

// quote wraps v in single quotes. Embedded quotes are left as logged.
func quote(v string) string {
	return "'" + v + "'"
}

// =============================================================================
// Literal
// =============================================================================

// LiteralKind classifies an encoded parameter.
type LiteralKind int

// Literal kinds.
const (
	// LiteralRaw is unquoted text, usually a number.
	LiteralRaw LiteralKind = iota
	// LiteralString is a single-quoted string.
	LiteralString
	// LiteralNull is the NULL literal.
	LiteralNull
	// LiteralBool is a boolean literal.
	LiteralBool
)

// String returns the string representation of the kind.
func (k LiteralKind) String() string {
	switch k {
	case LiteralRaw:
		return "raw"
	case LiteralString:
		return "string"
	case LiteralNull:
		return "null"
	case LiteralBool:
		return "bool"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k LiteralKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *LiteralKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "raw":
		*k = LiteralRaw
	case "string":
		*k = LiteralString
	case "null":
		*k = LiteralNull
	case "bool":
		*k = LiteralBool
	default:
		return fmt.Errorf("unknown literal kind %q", text)
	}
	return nil
}

// Literal is a parameter encoded as SQL text ready for substitution.
type Literal struct {
	Kind LiteralKind `json:"kind"`
	Text string      `json:"text"`
}

// BoolLiteral returns the boolean literal for b.
func BoolLiteral(b bool) Literal {
	if b {
		return Literal{Kind: LiteralBool, Text: "true"}
	}
	return Literal{Kind: LiteralBool, Text: "false"}
}

// String returns the literal's SQL text.
func (l Literal) String() string {
	return l.Text
}

// Literals encodes params in order.
func Literals(params []Param) []Literal {
	if len(params) == 0 {
		return nil
	}
	out := make([]Literal, len(params))
	for i, p := range params {
		out[i] = p.Literal()
	}
	return out
}

// Texts returns the SQL text of each literal.
func Texts(literals []Literal) []string {
	out := make([]string, len(literals))
	for i, l := range literals {
		out[i] = l.Text
	}
	return out
}
