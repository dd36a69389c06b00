// Package compose fills statement templates with encoded parameters and
// pretty-prints the result.
package compose

import (
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

// Formatter pretty-prints SQL text.
type Formatter interface {
	Format(sql string, opts core.FormatOptions) (string, error)
}

// Substitute replaces each "?" in template, left to right, with the text of
// the next literal. Placeholders beyond the last literal stay "?" and
// literals beyond the last placeholder are dropped. Quotes are not
// considered, so a "?" inside a string literal is replaced too.
func Substitute(template string, literals []core.Literal) string {
	if len(literals) == 0 || !strings.Contains(template, "?") {
		return template
	}
	var b strings.Builder
	b.Grow(len(template))
	next := 0
	for _, r := range template {
		if r == '?' && next < len(literals) {
			b.WriteString(literals[next].Text)
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Composer turns templates and literals into formatted SQL. Formatter
// failures never reach the caller: they are logged and the unformatted text
// is returned instead.
type Composer struct {
	formatter Formatter
	opts      core.FormatOptions
	logger    *slog.Logger
}

// New creates a Composer. A nil logger discards diagnostics.
func New(f Formatter, opts core.FormatOptions, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Composer{formatter: f, opts: opts, logger: logger}
}

// Compose substitutes literals into template and formats the result.
func (c *Composer) Compose(template string, literals []core.Literal) string {
	return c.FormatRaw(Substitute(template, literals))
}

// FormatRaw formats sql, returning it unchanged when formatting fails.
func (c *Composer) FormatRaw(sql string) string {
	out, err := c.formatter.Format(sql, c.opts)
	if err != nil {
		c.logger.Warn("sql formatting failed", "error", err, "dialect", c.opts.Dialect)
		return sql
	}
	return out
}
