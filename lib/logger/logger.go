// Package logger builds the host's zerolog logger.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/snowmerak/nativeplug/lib/config"
)

// Setup builds the logger described by cfg and installs it as the global
// zerolog logger. Logs go to stderr unless cfg.File names a writable file.
// The returned func closes that file and must be called on shutdown.
func Setup(cfg config.LoggingConfig) (zerolog.Logger, func() error) {
	zerolog.TimeFieldFormat = time.RFC3339

	var output io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fallback := New(cfg, os.Stderr)
			fallback.Warn().Err(err).Str("file", cfg.File).Msg("cannot open log file, using stderr")
		} else {
			output = file
			closeFn = file.Close
		}
	}

	l := New(cfg, output)
	log.Logger = l
	return l, closeFn
}

// New builds a logger writing to w.
func New(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if cfg.Format == "text" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to zerolog. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
