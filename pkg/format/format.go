// Package format pretty-prints SQL text.
//
// It works on the token stream rather than a parse tree, so any statement
// the lexer accepts can be laid out, including dialect extensions and
// fragments. Clause keywords go on their own line with the clause body
// indented below them:
//
//	SELECT
//	  id,
//	  name
//	FROM
//	  users
//	WHERE
//	  id = 42
//	  AND status = 'active'
package format

import (
	"errors"

	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

// Formatting errors.
var (
	ErrEmptyStatement = errors.New("empty statement")
	ErrUnbalanced     = errors.New("unbalanced parentheses")
	ErrUnterminated   = errors.New("unterminated string literal")
)

// Format lays out sql according to opts.
func Format(sql string, opts core.FormatOptions) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}
	toks, err := tokenize(sql, opts.Dialect)
	if err != nil {
		return "", err
	}
	p := newPrinter(opts)
	p.print(toks)
	return p.String(), nil
}

// Formatter adapts Format to callers that hold a formatter value.
type Formatter struct{}

// Format calls the package-level Format.
func (Formatter) Format(sql string, opts core.FormatOptions) (string, error) {
	return Format(sql, opts)
}
