package restore

import (
	"context"
	"errors"
	"testing"

	"github.com/leapstack-labs/sqlrestore/internal/history"
	"github.com/leapstack-labs/sqlrestore/internal/testutil"
	"github.com/leapstack-labs/sqlrestore/pkg/compose"
	"github.com/leapstack-labs/sqlrestore/pkg/core"
	"github.com/leapstack-labs/sqlrestore/pkg/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	c := compose.New(format.Formatter{}, core.DefaultFormatOptions(), logger)
	return New(c, logger, opts...)
}

func TestService_Restore(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "single line",
			input: "Preparing: SELECT * FROM t WHERE id = ? Parameters: 5(Integer)",
			want:  "SELECT\n  *\nFROM\n  t\nWHERE\n  id = 5",
		},
		{
			name:  "null for empty numeric",
			input: "Preparing: SELECT * FROM t WHERE name = ? AND age = ?\n==> Parameters: John(String), (Integer)",
			want:  "SELECT\n  *\nFROM\n  t\nWHERE\n  name = 'John'\n  AND age = NULL",
		},
		{
			name:  "placeholder kept without parameters",
			input: "==>  Preparing: SELECT * FROM t WHERE id = ?",
			want:  "SELECT\n  *\nFROM\n  t\nWHERE\n  id = ?",
		},
		{
			name:  "html escaped input",
			input: "SELECT * FROM t WHERE name = &#39;a&#39;",
			want:  "SELECT\n  *\nFROM\n  t\nWHERE\n  name = 'a'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newTestService(t).Restore(context.Background(), tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.SQL)
		})
	}
}

func TestService_RestoreErrors(t *testing.T) {
	s := newTestService(t)

	_, err := s.Restore(context.Background(), "  \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = s.Restore(context.Background(), "2024-01-01 [INFO] started")
	assert.ErrorIs(t, err, ErrNoStatement)
}

func TestService_RestoreUnformattableKeepsSubstitution(t *testing.T) {
	res, err := newTestService(t).Restore(context.Background(),
		"Preparing: SELECT * FROM t WHERE a = ? AND b = (1\nParameters: x(String)")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = 'x' AND b = (1", res.SQL)
	assert.Equal(t, res.Substituted, res.SQL)
}

func TestService_RecordsHistory(t *testing.T) {
	store, err := history.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	s := newTestService(t, WithRecorder(store))
	res, err := s.Restore(context.Background(), "Preparing: SELECT 1 FROM t WHERE id = ?\nParameters: 9(Long)")
	require.NoError(t, err)
	require.NotEmpty(t, res.HistoryID)

	e, err := store.Get(context.Background(), res.HistoryID)
	require.NoError(t, err)
	assert.Equal(t, res.SQL, e.SQL)
	assert.Equal(t, []core.Param{{Value: "9", Type: "Long"}}, e.Params)
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, history.Entry) (*history.Entry, error) {
	return nil, errors.New("disk full")
}

func TestService_RecorderFailureIsNotFatal(t *testing.T) {
	logger, logs := testutil.NewCaptureLogger()
	c := compose.New(format.Formatter{}, core.DefaultFormatOptions(), logger)
	s := New(c, logger, WithRecorder(failingRecorder{}))

	res, err := s.Restore(context.Background(), "SELECT 1")
	require.NoError(t, err)
	assert.Empty(t, res.HistoryID)
	assert.True(t, logs.Contains("failed to record history"))
}

func TestService_Format(t *testing.T) {
	s := newTestService(t)

	got, err := s.Format(context.Background(), "select a from t")
	require.NoError(t, err)
	assert.Equal(t, "SELECT\n  a\nFROM\n  t", got)

	_, err = s.Format(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestResult_Placeholders(t *testing.T) {
	r := &Result{Template: "a = ? AND b = ?"}
	assert.Equal(t, 2, r.Placeholders())
}
