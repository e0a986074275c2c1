// Package logging builds the leveled stderr logger shared by the CLI and store.
package logging

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel selects the log level when no flag is given.
const EnvLevel = "TODO_LOG_LEVEL"

// DefaultLevel keeps normal runs quiet apart from warnings.
const DefaultLevel = "warn"

// New returns a text logger writing to w at the named level.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(level),
		Formatter:       log.TextFormatter,
		ReportTimestamp: false,
		Prefix:          "todo",
	})
}

// ParseLevel parses a string log level; unknown values fall back to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
		return log.WarnLevel
	}
}
