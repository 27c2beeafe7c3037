// Package logging builds the diagnostic logger. The dashboard owns the
// terminal, so log output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// DefaultFile returns <user cache dir>/faceoff/faceoff.log, falling back to
// the system temp dir when no cache dir is known.
func DefaultFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "faceoff", "faceoff.log")
}

// ParseLevel parses a zerolog level name. Empty or unparsable names yield
// info.
func ParseLevel(level string) zerolog.Level {
	if level == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// New returns a timestamped logger writing to file at the given level and a
// function that closes the file. An empty file means DefaultFile. Level
// "disabled" returns a no-op logger without touching the filesystem.
func New(level, file string) (zerolog.Logger, func() error, error) {
	lvl := ParseLevel(level)
	if lvl == zerolog.Disabled {
		return zerolog.Nop(), func() error { return nil }, nil
	}

	if file == "" {
		file = DefaultFile()
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logging: creating log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("logging: opening %s: %w", file, err)
	}
	return NewWriter(f, lvl), f.Close, nil
}

// NewWriter returns a logger at lvl writing JSON lines to w.
func NewWriter(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("app", "faceoff").
		Logger()
}
