// Package logging builds the stderr logger shared by the CLI commands.
package logging

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"cfpredict/internal/config"
)

// New returns a logger for cfg writing to w. verbose forces debug level.
func New(w io.Writer, cfg config.LogConfig, verbose bool) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = log.DebugLevel
	}

	var formatter log.Formatter
	switch cfg.Format {
	case "", "text":
		formatter = log.TextFormatter
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          "cfpredict",
		Level:           level,
		Formatter:       formatter,
		ReportTimestamp: verbose,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
