// Package logging builds the zerolog logger shared by the commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a console logger at level, also writing JSON lines to file when file
// is not empty. The file's directory is created if needed. The returned closer
// releases the file.
func New(level, file string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr}
	if file == "" {
		logger := zerolog.New(console).Level(lvl).With().Timestamp().Logger()
		log.Logger = logger
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(console, f)).Level(lvl).With().Timestamp().Logger()
	log.Logger = logger
	return logger, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
