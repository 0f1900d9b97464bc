package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostic logger for one invocation. It writes to
// errOut so stdout stays reserved for command output.
func newLogger(errOut io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	return log.NewWithOptions(errOut, log.Options{
		Level:     lvl,
		Formatter: parseLogFormatter(format),
		Prefix:    "tm",
	}), nil
}

func parseLogFormatter(format string) log.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
