package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// SetupLogger configures a console logger writing to w
func SetupLogger(w io.Writer, level string, debug bool) (*log.Logger, error) {
	lvl, err := parseLevel(level, debug)
	if err != nil {
		return nil, err
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           lvl,
		Prefix:          "stacktrace",
	}), nil
}

// SetupFileLogger configures a logfmt logger appending to path. The
// terminal belongs to the TUI while it runs.
func SetupFileLogger(path, level string, debug bool) (*log.Logger, io.Closer, error) {
	lvl, err := parseLevel(level, debug)
	if err != nil {
		return nil, nil, err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, file, nil
}

func parseLevel(level string, debug bool) (log.Level, error) {
	if debug {
		return log.DebugLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
