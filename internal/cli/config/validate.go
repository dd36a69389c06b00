package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlrestore/internal/cli/output"
	"github.com/leapstack-labs/sqlrestore/internal/logging"
	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	opts := core.FormatOptions{
		Dialect:     core.Dialect(c.Dialect),
		KeywordCase: core.KeywordCase(c.KeywordCase),
		IndentStyle: core.IndentStyle(c.IndentStyle),
		IndentWidth: c.IndentWidth,
	}
	if err := opts.Validate(); err != nil {
		errs = append(errs, err)
	}

	if _, ok := output.ParseMode(c.OutputFormat); !ok {
		errs = append(errs, fmt.Errorf("output %q is not supported (available: %s)", c.OutputFormat, strings.Join(output.Modes(), ", ")))
	}
	if !logging.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("log_level %q is not supported (want debug, info, warn or error)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("log_format %q is not supported (want text or json)", c.LogFormat))
	}
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, errors.New("history.path is required when history is enabled"))
	}
	if c.History.Limit < 0 {
		errs = append(errs, fmt.Errorf("history.limit must not be negative, got %d", c.History.Limit))
	}

	return errors.Join(errs...)
}
