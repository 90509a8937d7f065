package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything, keeping test
// output limited to the test runner's own reporting.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
