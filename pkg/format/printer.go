package format

import (
	"bytes"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

// frame tracks layout state for one nesting level. Block frames hold a
// statement (the root or a parenthesized subquery); inline frames hold any
// other parenthesized list.
type frame struct {
	block   bool
	base    int
	outer   int
	clause  string
	kind    clauseKind
	commas  bool
	between bool
}

// Printer lays tokens out with clause-per-line indentation.
type Printer struct {
	output      *bytes.Buffer
	indentSize  int
	depth       int
	atLineStart bool

	keywordCase core.KeywordCase
	caser       cases.Caser

	frames []*frame
	prev   *token
	prev2  *token
}

func newPrinter(opts core.FormatOptions) *Printer {
	p := &Printer{
		output:      &bytes.Buffer{},
		indentSize:  opts.IndentWidth,
		atLineStart: true,
		keywordCase: opts.KeywordCase,
	}
	switch opts.KeywordCase {
	case core.KeywordLower:
		p.caser = cases.Lower(language.Und)
	default:
		p.caser = cases.Upper(language.Und)
	}
	p.reset()
	return p
}

// String returns the formatted output without trailing whitespace.
func (p *Printer) String() string {
	lines := strings.Split(p.output.String(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

// newline ends the current line unless it is already empty.
func (p *Printer) newline() {
	if !p.atLineStart {
		p.writeln()
	}
}

func (p *Printer) writeIndent() {
	p.output.WriteString(strings.Repeat(" ", p.depth*p.indentSize))
	p.atLineStart = false
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

func (p *Printer) reset() {
	p.frames = []*frame{{block: true}}
	p.depth = 0
	p.prev, p.prev2 = nil, nil
}

func (p *Printer) top() *frame {
	return p.frames[len(p.frames)-1]
}

func (p *Printer) push(f *frame) {
	p.frames = append(p.frames, f)
}

func (p *Printer) pop() *frame {
	f := p.top()
	if len(p.frames) > 1 {
		p.frames = p.frames[:len(p.frames)-1]
	}
	return f
}

// =============================================================================
// Token layout
// =============================================================================

func (p *Printer) print(toks []token) {
	for i := range toks {
		tok := toks[i]
		switch tok.kind {
		case tokComment:
			p.emit(tok, tok.text)
			p.writeln()
		case tokPunct:
			p.punct(toks, i)
		case tokWord:
			p.word(tok)
		default:
			p.emit(tok, tok.text)
		}
	}
}

func (p *Printer) punct(toks []token, i int) {
	tok := toks[i]
	switch tok.text {
	case "(":
		p.emit(tok, "(")
		if next, ok := nextWord(toks, i+1); ok && opensSubquery(next.upper) {
			f := &frame{block: true, outer: p.depth, base: p.depth + 1}
			p.push(f)
			p.writeln()
			p.depth = f.base
			return
		}
		p.push(&frame{})
	case ")":
		f := p.pop()
		if f.block {
			p.newline()
			p.depth = f.outer
		}
		p.emit(tok, ")")
	case ",":
		p.emit(tok, ",")
		if f := p.top(); f.block && f.kind == clauseBlock && !f.commas {
			p.writeln()
		}
	case ";":
		p.emit(tok, ";")
		p.writeln()
		p.writeln()
		p.reset()
	default:
		p.emit(tok, tok.text)
	}
}

func (p *Printer) word(tok token) {
	f := p.top()
	text := p.casing(tok)

	kind := clauseNone
	if f.block {
		kind = clauses[tok.upper]
		if tok.upper == "WITH" && f.clause != "" {
			kind = clauseNone
		}
	}

	switch kind {
	case clauseBlock:
		p.depth = f.base
		p.newline()
		p.emit(tok, text)
		p.writeln()
		p.depth = f.base + 1
		f.clause, f.kind = tok.upper, clauseBlock
		f.commas = tok.upper == "LIMIT"
		f.between = false
		return
	case clauseJoin:
		p.depth = f.base
		p.newline()
		p.emit(tok, text)
		p.depth = f.base + 1
		f.clause, f.kind = tok.upper, clauseJoin
		f.between = false
		return
	}

	switch tok.upper {
	case "AND", "OR":
		if tok.upper == "AND" && f.between {
			f.between = false
			break
		}
		if f.block && f.kind == clauseBlock {
			p.newline()
		}
	case "BETWEEN", "NOT BETWEEN":
		f.between = true
	}
	p.emit(tok, text)
}

// emit writes text preceded by a separating space when tok needs one.
func (p *Printer) emit(tok token, text string) {
	if !p.atLineStart && p.needSpace(tok) {
		p.space()
	}
	p.write(text)
	p.prev2 = p.prev
	t := tok
	p.prev = &t
}

func (p *Printer) needSpace(cur token) bool {
	prev := p.prev
	if prev == nil {
		return false
	}
	switch {
	case cur.kind == tokPunct && cur.text != "(":
		return false
	case prev.is(tokPunct, "(") || prev.is(tokPunct, "."):
		return false
	case strings.HasSuffix(prev.text, ".") && prev.kind != tokString:
		return false
	case cur.is(tokPunct, "(") && !cur.space && (prev.kind == tokWord || prev.kind == tokQuoted):
		return false
	case !cur.space && prev.kind == tokSymbol && cur.kind == tokSymbol:
		return false
	case !cur.space && (cur.text == "::" || prev.text == "::"):
		return false
	case !cur.space && prev.kind == tokSymbol && (prev.text == "-" || prev.text == "+") && p.unary():
		return false
	}
	return true
}

// unary reports whether the previous "+" or "-" is a sign rather than an
// operator, i.e. nothing that ends an operand precedes it.
func (p *Printer) unary() bool {
	before := p.prev2
	if before == nil {
		return true
	}
	switch before.kind {
	case tokSymbol:
		return true
	case tokPunct:
		return before.text != ")"
	case tokWord:
		return isKeyword(before.upper) && before.upper != "NULL" &&
			before.upper != "TRUE" && before.upper != "FALSE" && before.upper != "END"
	}
	return false
}

func (p *Printer) casing(tok token) string {
	if tok.kind != tokWord || !isKeyword(tok.upper) || p.keywordCase == core.KeywordPreserve {
		return tok.text
	}
	return p.caser.String(tok.text)
}

func nextWord(toks []token, from int) (token, bool) {
	for i := from; i < len(toks); i++ {
		switch toks[i].kind {
		case tokComment, tokBlockComment:
			continue
		case tokWord:
			return toks[i], true
		}
		return token{}, false
	}
	return token{}, false
}
