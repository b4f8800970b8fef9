package server

import (
	"io"

	"github.com/charmbracelet/log"
)

// testLogger returns a logger that discards everything below error
func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}
