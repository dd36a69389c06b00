package format

import (
	"fmt"
	"strings"

	"github.com/DataDog/go-sqllexer"
	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

type tokenKind int

const (
	tokWord tokenKind = iota
	tokQuoted
	tokString
	tokSymbol
	tokPunct
	tokComment
	tokBlockComment
)

// token is a significant lexeme. Whitespace is folded into space.
type token struct {
	kind  tokenKind
	text  string
	upper string
	space bool
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func newLexer(sql string, d core.Dialect) *sqllexer.Lexer {
	switch d {
	case core.DialectMySQL:
		return sqllexer.New(sql, sqllexer.WithDBMS(sqllexer.DBMSMySQL))
	case core.DialectPostgres:
		return sqllexer.New(sql, sqllexer.WithDBMS(sqllexer.DBMSPostgres))
	case core.DialectSQLServer:
		return sqllexer.New(sql, sqllexer.WithDBMS(sqllexer.DBMSSQLServer))
	case core.DialectOracle:
		return sqllexer.New(sql, sqllexer.WithDBMS(sqllexer.DBMSOracle))
	default:
		return sqllexer.New(sql)
	}
}

// tokenize scans sql into significant tokens, checking string termination
// and parenthesis balance on the way.
func tokenize(sql string, d core.Dialect) ([]token, error) {
	lx := newLexer(sql, d)

	var (
		out    []token
		space  bool
		parens int
	)
	// Every scan consumes at least one byte; the bound guards against a
	// lexer that stops advancing.
	for i := 0; i <= len(sql)+1; i++ {
		tok := lx.Scan()
		if tok == nil || tok.Type == sqllexer.EOF {
			break
		}
		text := tok.Value
		switch tok.Type {
		case sqllexer.SPACE:
			space = true
			continue
		case sqllexer.INCOMPLETE_STRING:
			return nil, fmt.Errorf("%w: %s", ErrUnterminated, abbreviate(text))
		case sqllexer.COMMENT:
			out = append(out, token{kind: tokComment, text: strings.TrimRight(text, "\r\n"), space: space})
			space = false
			continue
		case sqllexer.MULTILINE_COMMENT:
			out = append(out, token{kind: tokBlockComment, text: text, space: space})
			space = false
			continue
		}
		if strings.TrimSpace(text) == "" {
			space = true
			continue
		}

		for _, t := range split(text) {
			t.space = space
			space = false
			switch {
			case t.kind == tokString && !terminated(t.text):
				return nil, fmt.Errorf("%w: %s", ErrUnterminated, abbreviate(t.text))
			case t.is(tokPunct, "("):
				parens++
			case t.is(tokPunct, ")"):
				parens--
				if parens < 0 {
					return nil, fmt.Errorf("%w: unexpected ')'", ErrUnbalanced)
				}
			}
			out = append(out, t)
		}
	}

	if parens > 0 {
		return nil, fmt.Errorf("%w: %d unclosed '('", ErrUnbalanced, parens)
	}
	if len(out) == 0 {
		return nil, ErrEmptyStatement
	}
	return mergePhrases(out), nil
}

// split classifies a lexeme, separating a trailing "(" that some lexers
// attach to function names.
func split(text string) []token {
	if len(text) > 1 && strings.HasSuffix(text, "(") && !strings.HasPrefix(text, "'") {
		head := classify(strings.TrimSuffix(text, "("))
		paren := classify("(")
		return []token{head, paren}
	}
	return []token{classify(text)}
}

func classify(text string) token {
	t := token{text: text}
	switch {
	case text == "(" || text == ")" || text == "," || text == ";" || text == ".":
		t.kind = tokPunct
	case text[0] == '\'' || strings.HasPrefix(text, "N'") || strings.HasPrefix(text, "E'"):
		t.kind = tokString
	case text[0] == '"' || text[0] == '`' || text[0] == '[':
		t.kind = tokQuoted
	case isOperator(text):
		t.kind = tokSymbol
	default:
		t.kind = tokWord
		t.upper = strings.ToUpper(text)
	}
	return t
}

func isOperator(text string) bool {
	for _, r := range text {
		if !strings.ContainsRune("=<>!+-*/%&|^~:", r) {
			return false
		}
	}
	return true
}

func terminated(s string) bool {
	i := strings.IndexByte(s, '\'')
	return len(s)-i >= 2 && strings.HasSuffix(s, "'")
}

func abbreviate(s string) string {
	const max = 20
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// mergePhrases joins consecutive words that form a multi-word keyword.
func mergePhrases(in []token) []token {
	out := make([]token, 0, len(in))
	for i := 0; i < len(in); {
		if n := phraseAt(in, i); n > 1 {
			words := make([]string, n)
			uppers := make([]string, n)
			for j := range n {
				words[j] = in[i+j].text
				uppers[j] = in[i+j].upper
			}
			out = append(out, token{
				kind:  tokWord,
				text:  strings.Join(words, " "),
				upper: strings.Join(uppers, " "),
				space: in[i].space,
			})
			i += n
			continue
		}
		out = append(out, in[i])
		i++
	}
	return out
}

func phraseAt(toks []token, i int) int {
next:
	for _, words := range phrases {
		if i+len(words) > len(toks) {
			continue
		}
		for j, w := range words {
			t := toks[i+j]
			if t.kind != tokWord || t.upper != w {
				continue next
			}
		}
		return len(words)
	}
	return 0
}
