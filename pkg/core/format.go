package core

import (
	"fmt"
	"strings"
)

// =============================================================================
// Dialect
// =============================================================================

// Dialect selects the tokenizer rules used by the formatter.
type Dialect string

// Supported dialects.
const (
	DialectSQL       Dialect = "sql"
	DialectMySQL     Dialect = "mysql"
	DialectPostgres  Dialect = "postgresql"
	DialectSQLServer Dialect = "sqlserver"
	DialectOracle    Dialect = "oracle"
)

// Dialects lists the accepted dialect names.
func Dialects() []Dialect {
	return []Dialect{DialectSQL, DialectMySQL, DialectPostgres, DialectSQLServer, DialectOracle}
}

// ParseDialect converts a string to a Dialect.
// Returns the dialect and true if valid, or DialectSQL and false if invalid.
func ParseDialect(s string) (Dialect, bool) {
	switch strings.ToLower(s) {
	case "", "sql", "generic":
		return DialectSQL, true
	case "mysql", "mariadb":
		return DialectMySQL, true
	case "postgresql", "postgres":
		return DialectPostgres, true
	case "sqlserver", "mssql", "tsql":
		return DialectSQLServer, true
	case "oracle", "plsql":
		return DialectOracle, true
	default:
		return DialectSQL, false
	}
}

// =============================================================================
// KeywordCase
// =============================================================================

// KeywordCase controls how the formatter cases SQL keywords.
type KeywordCase string

// Keyword casing modes.
const (
	KeywordUpper    KeywordCase = "upper"
	KeywordLower    KeywordCase = "lower"
	KeywordPreserve KeywordCase = "preserve"
)

// ParseKeywordCase converts a string to a KeywordCase.
func ParseKeywordCase(s string) (KeywordCase, bool) {
	switch strings.ToLower(s) {
	case "", "upper":
		return KeywordUpper, true
	case "lower":
		return KeywordLower, true
	case "preserve":
		return KeywordPreserve, true
	default:
		return KeywordUpper, false
	}
}

// =============================================================================
// IndentStyle
// =============================================================================

// IndentStyle controls the layout of clause bodies.
type IndentStyle string

// IndentStandard puts each clause keyword on its own line and indents the
// clause body one level below it.
const IndentStandard IndentStyle = "standard"

// ParseIndentStyle converts a string to an IndentStyle.
func ParseIndentStyle(s string) (IndentStyle, bool) {
	switch strings.ToLower(s) {
	case "", "standard", "block":
		return IndentStandard, true
	default:
		return IndentStandard, false
	}
}

// =============================================================================
// FormatOptions
// =============================================================================

// Default indentation width in spaces.
const DefaultIndentWidth = 2

// FormatOptions configures the SQL formatter.
type FormatOptions struct {
	Dialect     Dialect     `json:"dialect" yaml:"dialect"`
	KeywordCase KeywordCase `json:"keyword_case" yaml:"keyword_case"`
	IndentStyle IndentStyle `json:"indent_style" yaml:"indent_style"`
	IndentWidth int         `json:"indent_width" yaml:"indent_width"`
}

// DefaultFormatOptions returns generic SQL, uppercase keywords and standard
// indentation.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		Dialect:     DialectSQL,
		KeywordCase: KeywordUpper,
		IndentStyle: IndentStandard,
		IndentWidth: DefaultIndentWidth,
	}
}

// Validate checks the options and fills zero values with defaults.
func (o *FormatOptions) Validate() error {
	d, ok := ParseDialect(string(o.Dialect))
	if !ok {
		return fmt.Errorf("unknown dialect %q", o.Dialect)
	}
	o.Dialect = d

	kc, ok := ParseKeywordCase(string(o.KeywordCase))
	if !ok {
		return fmt.Errorf("unknown keyword case %q (want upper, lower or preserve)", o.KeywordCase)
	}
	o.KeywordCase = kc

	is, ok := ParseIndentStyle(string(o.IndentStyle))
	if !ok {
		return fmt.Errorf("unknown indent style %q (want standard)", o.IndentStyle)
	}
	o.IndentStyle = is

	if o.IndentWidth == 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	if o.IndentWidth < 1 || o.IndentWidth > 8 {
		return fmt.Errorf("indent width must be between 1 and 8, got %d", o.IndentWidth)
	}
	return nil
}
