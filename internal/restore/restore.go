// Package restore turns raw log text into executable, formatted SQL.
package restore

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/sqlrestore/internal/history"
	"github.com/leapstack-labs/sqlrestore/pkg/compose"
	"github.com/leapstack-labs/sqlrestore/pkg/core"
	"github.com/leapstack-labs/sqlrestore/pkg/extract"
)

// Outcomes reported to the user.
var (
	ErrEmptyInput  = errors.New("no log text provided")
	ErrNoStatement = errors.New("no SQL statement found")
)

// Recorder stores restored statements.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) (*history.Entry, error)
}

// Result is the outcome of one restore.
type Result struct {
	Template    string         `json:"template"`
	Params      []core.Param   `json:"params"`
	Literals    []core.Literal `json:"literals"`
	Substituted string         `json:"substituted"`
	SQL         string         `json:"sql"`
	HistoryID   string         `json:"history_id,omitempty"`
}

// Placeholders returns the number of "?" in the template.
func (r *Result) Placeholders() int {
	return strings.Count(r.Template, "?")
}

// Service runs extraction and composition.
type Service struct {
	composer *compose.Composer
	recorder Recorder
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRecorder stores every successful restore.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// New creates a Service.
func New(c *compose.Composer, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{composer: c, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore extracts the statement and its parameters from raw and returns
// the formatted SQL.
func (s *Service) Restore(ctx context.Context, raw string) (*Result, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	ext := extract.Extract(raw)
	if !ext.Found {
		s.logger.Debug("no statement in input", "bytes", len(raw))
		return nil, ErrNoStatement
	}

	res := &Result{
		Template:    ext.Template,
		Params:      ext.Params,
		Literals:    ext.Literals,
		Substituted: compose.Substitute(ext.Template, ext.Literals),
	}
	res.SQL = s.composer.FormatRaw(res.Substituted)

	if n := res.Placeholders(); n != len(res.Literals) {
		s.logger.Debug("placeholder count differs from parameter count",
			"placeholders", n, "params", len(res.Literals))
	}
	s.logger.Debug("restored statement", "rule", ext.Rule, "params", len(res.Params))

	if s.recorder != nil {
		e, err := s.recorder.Record(ctx, history.Entry{
			Template: res.Template,
			Params:   res.Params,
			SQL:      res.SQL,
		})
		if err != nil {
			s.logger.Warn("failed to record history", "error", err)
		} else {
			res.HistoryID = e.ID
		}
	}
	return res, nil
}

// Format pretty-prints sql with the service's options. Formatting errors
// leave sql unchanged.
func (s *Service) Format(_ context.Context, sql string) (string, error) {
	if strings.TrimSpace(sql) == "" {
		return "", ErrEmptyInput
	}
	return s.composer.FormatRaw(sql), nil
}
