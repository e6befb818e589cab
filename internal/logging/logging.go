// Package logging configures the application logger.
//
// The viewer runs full-screen in the terminal, so logs go to a file
// rather than stderr; writing to the tty would corrupt the screen.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Setup creates the application logger writing to the given path. The
// returned closer must be called on shutdown. Verbosity maps to level:
// 0 warn, 1 info, 2 debug, 3+ trace.
func Setup(verbosity int, path string) (zerolog.Logger, io.Closer, error) {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 3:
		level = zerolog.TraceLevel
	case verbosity == 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, f, nil
}

// Discard returns a logger that drops everything. Used in tests and when
// logging is disabled.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}
