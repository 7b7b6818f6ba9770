package utils

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger provides leveled printf-style logging throughout the application.
// Underneath it is a zerolog console logger.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates an info-level Logger writing to stdout.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, "info")
}

// NewLoggerTo creates a Logger writing to w at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to info.
func NewLoggerTo(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    w != os.Stdout && w != os.Stderr,
	}
	return &Logger{zl: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}
