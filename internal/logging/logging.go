// Package logging builds the charmbracelet/log logger shared by all
// components.
package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nick-dorsch/todoboard/internal/config"
)

const prefix = "todoboard"

// ParseLevel maps a config level to a log.Level, defaulting to info.
func ParseLevel(level string) log.Level {
	switch level {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	case "fatal":
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter maps a config format name to a log.Formatter.
func ParseFormatter(format string) log.Formatter {
	switch format {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// New returns a logger writing to w. Local environments get caller
// reporting so log lines point at their source.
func New(w io.Writer, env string, cfg config.LogConfig) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(cfg.Level),
		Formatter:       ParseFormatter(cfg.Format),
		ReportTimestamp: cfg.Timestamps,
		TimeFormat:      time.DateTime,
		ReportCaller:    env == config.EnvLocal && cfg.Level == "debug",
		Prefix:          prefix,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
