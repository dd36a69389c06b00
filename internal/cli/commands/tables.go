package commands

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlrestore/internal/history"
	"github.com/leapstack-labs/sqlrestore/internal/restore"
)

// maxPreview is the widest SQL preview shown in history listings.
const maxPreview = 60

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func render(t table.Writer, markdown bool) {
	if markdown {
		t.RenderMarkdown()
		return
	}
	t.Render()
}

// renderParams prints one row per placeholder position. Positions without
// a parameter and parameters without a placeholder are both shown.
func renderParams(w io.Writer, res *restore.Result, markdown bool) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Value", "Type", "Literal"})

	n := max(res.Placeholders(), len(res.Params))
	for i := range n {
		row := table.Row{i + 1, "", "", "?"}
		if i < len(res.Params) {
			row[1] = res.Params[i].Value
			row[2] = res.Params[i].Type
			row[3] = res.Literals[i].Text
		}
		if i >= res.Placeholders() {
			row[3] = "(unused)"
		}
		t.AppendRow(row)
	}
	render(t, markdown)
}

// renderHistory prints history entries, newest first.
func renderHistory(w io.Writer, entries []history.Entry, markdown bool) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Created", "Params", "SQL"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.ID,
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			len(e.Params),
			preview(e.SQL),
		})
	}
	render(t, markdown)
}

// preview collapses whitespace and shortens s for a single table cell.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= maxPreview {
		return s
	}
	return string(r[:maxPreview-3]) + "..."
}
