package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"quillpress/internal/config"
)

// Init configures the global zerolog logger used across the application
func Init(cfg config.LogConfig) zerolog.Logger {
	log.Logger = New(cfg, os.Stdout)
	return log.Logger
}

// New creates a zerolog logger writing to out
func New(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "pretty" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "quillpress").
		Logger()
}
