package commands

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	clitest "github.com/leapstack-labs/sqlrestore/internal/cli/testutil"
	"github.com/leapstack-labs/sqlrestore/internal/cli/config"
	"github.com/leapstack-labs/sqlrestore/internal/restore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreSample(t *testing.T, raw string) *restore.Result {
	t.Helper()
	res, err := newService(config.Default(), nil).Restore(context.Background(), raw)
	require.NoError(t, err)
	return res
}

func TestPrintResult_Modes(t *testing.T) {
	res := restoreSample(t, "Preparing: SELECT * FROM t WHERE a = ? AND b = ? Parameters: x(String), 2(Integer)")

	t.Run("text", func(t *testing.T) {
		tr := clitest.NewTestRendererText()
		require.NoError(t, printResult(tr.Renderer, res, &RestoreOptions{}))
		assert.Equal(t, res.SQL+"\n", tr.Output())
		clitest.AssertNoANSI(t, tr.Output())
		assert.Empty(t, tr.ErrorOutput())
	})

	t.Run("markdown with explain", func(t *testing.T) {
		tr := clitest.NewTestRendererMarkdown()
		require.NoError(t, printResult(tr.Renderer, res, &RestoreOptions{Explain: true}))

		out := tr.Output()
		clitest.AssertValidMarkdown(t, out)
		clitest.AssertNoANSI(t, out)
		assert.Contains(t, out, "## Restored SQL")
		assert.Contains(t, out, "```sql\n"+res.SQL+"\n```")
		assert.Contains(t, out, "## Parameters")
		assert.Contains(t, out, "| 'x' |")
	})

	t.Run("json", func(t *testing.T) {
		tr := clitest.NewTestRendererJSON()
		require.NoError(t, printResult(tr.Renderer, res, &RestoreOptions{NoFormat: true}))

		var got restore.Result
		require.NoError(t, json.Unmarshal(tr.Out.Bytes(), &got))
		assert.Equal(t, res.SQL, got.SQL)
		assert.Len(t, got.Literals, 2)
	})
}

func TestRenderParams_MissingParameter(t *testing.T) {
	res := restoreSample(t, "Preparing: SELECT ?, ? Parameters: 1(Integer)")

	tr := clitest.NewTestRendererText()
	renderParams(tr.Out, res, false)

	lines := strings.Split(strings.TrimSpace(tr.Output()), "\n")
	last := lines[len(lines)-2]
	assert.Contains(t, last, "2")
	assert.Contains(t, last, "?")
}
