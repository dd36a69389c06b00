// Package config provides configuration management for the sqlrestore CLI.
package config

import (
	"github.com/leapstack-labs/sqlrestore/pkg/core"
)

// HistoryConfig controls the local history database.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Path    string `koanf:"path" yaml:"path"`
	Limit   int    `koanf:"limit" yaml:"limit"`
}

// ServeConfig holds configuration for the HTTP server.
type ServeConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// Config holds all CLI configuration options.
type Config struct {
	Dialect      string        `koanf:"dialect" yaml:"dialect"`
	KeywordCase  string        `koanf:"keyword_case" yaml:"keyword_case"`
	IndentStyle  string        `koanf:"indent_style" yaml:"indent_style"`
	IndentWidth  int           `koanf:"indent_width" yaml:"indent_width"`
	OutputFormat string        `koanf:"output" yaml:"output"`
	Verbose      bool          `koanf:"verbose" yaml:"verbose"`
	LogLevel     string        `koanf:"log_level" yaml:"log_level"`
	LogFormat    string        `koanf:"log_format" yaml:"log_format"`
	History      HistoryConfig `koanf:"history" yaml:"history"`
	Serve        ServeConfig   `koanf:"serve" yaml:"serve"`
}

// FormatOptions returns the formatter options described by the config.
// Call Validate first; invalid values fall back to defaults.
func (c *Config) FormatOptions() core.FormatOptions {
	d, _ := core.ParseDialect(c.Dialect)
	kc, _ := core.ParseKeywordCase(c.KeywordCase)
	is, _ := core.ParseIndentStyle(c.IndentStyle)
	width := c.IndentWidth
	if width == 0 {
		width = core.DefaultIndentWidth
	}
	return core.FormatOptions{Dialect: d, KeywordCase: kc, IndentStyle: is, IndentWidth: width}
}

// Default configuration values.
const (
	DefaultDialect     = string(core.DialectSQL)
	DefaultKeywordCase = string(core.KeywordUpper)
	DefaultIndentStyle = string(core.IndentStandard)
	DefaultOutput      = "auto" // Auto-detect: TTY=styled text, non-TTY=plain text
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
	DefaultHistoryFile = ".sqlrestore/history.db"
	DefaultHistorySize = 500
	DefaultServeAddr   = "127.0.0.1:8740"
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Dialect:      DefaultDialect,
		KeywordCase:  DefaultKeywordCase,
		IndentStyle:  DefaultIndentStyle,
		IndentWidth:  core.DefaultIndentWidth,
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		History: HistoryConfig{
			Enabled: false,
			Path:    DefaultHistoryFile,
			Limit:   DefaultHistorySize,
		},
		Serve: ServeConfig{Addr: DefaultServeAddr},
	}
}
