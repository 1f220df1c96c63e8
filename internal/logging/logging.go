// Package logging adapts zerolog to the SDK's leveled logger interface.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger implements gateway.LoggerInterface on top of a zerolog.Logger.
type Logger struct {
	zl zerolog.Logger
}

// New returns a Logger writing to w at the given level. format is "console"
// for human readable output or "json". Unknown levels fall back to warn.
func New(w io.Writer, level, format string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}

	return &Logger{zl: zerolog.New(w).Level(lvl).With().Timestamp().Logger()}
}

// NewStderr is New writing to stderr.
func NewStderr(level, format string) *Logger {
	return New(os.Stderr, level, format)
}

// Zerolog exposes the underlying logger for structured events.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.zl.Debug().Msgf(format, v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.zl.Info().Msgf(format, v...)
}

func (l *Logger) Warnf(format string, v ...interface{}) {
	l.zl.Warn().Msgf(format, v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.zl.Error().Msgf(format, v...)
}
