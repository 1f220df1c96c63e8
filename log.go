package gateway

import (
	"fmt"
	"io"
	"os"
	"strings"
)

type LogLevel uint32

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "NONE"
	}
}

// LeveledLogger is the default logger. Messages at or above Level are
// written to Output, or when Output is nil, errors and warnings to stderr and
// everything else to stdout.
type LeveledLogger struct {
	Level  LogLevel
	Output io.Writer
}

func (l *LeveledLogger) Errorf(format string, v ...interface{}) {
	l.printf(LogLevelError, os.Stderr, format, v...)
}

func (l *LeveledLogger) Warnf(format string, v ...interface{}) {
	l.printf(LogLevelWarn, os.Stderr, format, v...)
}

func (l *LeveledLogger) Infof(format string, v ...interface{}) {
	l.printf(LogLevelInfo, os.Stdout, format, v...)
}

func (l *LeveledLogger) Debugf(format string, v ...interface{}) {
	l.printf(LogLevelDebug, os.Stdout, format, v...)
}

func (l *LeveledLogger) printf(level LogLevel, fallback io.Writer, format string, v ...interface{}) {
	if l.Level < level {
		return
	}

	w := l.Output
	if w == nil {
		w = fallback
	}

	fmt.Fprintf(w, "[%s] %s\n", level, fmt.Sprintf(format, v...))
}

// LoggerInterface provides a basic leveled logging interface for
// printing debug, informational, warning, and error messages.
type LoggerInterface interface {
	// Debugf logs a debug message using Printf conventions.
	Debugf(format string, v ...interface{})

	// Errorf logs an error message using Printf conventions.
	Errorf(format string, v ...interface{})

	// Infof logs an informational message using Printf conventions.
	Infof(format string, v ...interface{})

	// Warnf logs a warning message using Printf conventions.
	Warnf(format string, v ...interface{})
}

// retryLogger routes go-retryablehttp's structured log calls into the
// client's logger.
type retryLogger struct {
	client *Client
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.client.log().Errorf("%s%s", msg, formatKeyValues(keysAndValues))
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.client.log().Warnf("%s%s", msg, formatKeyValues(keysAndValues))
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.client.log().Infof("%s%s", msg, formatKeyValues(keysAndValues))
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.client.log().Debugf("%s%s", msg, formatKeyValues(keysAndValues))
}

func formatKeyValues(kv []interface{}) string {
	var b strings.Builder

	for i := 0; i < len(kv); i += 2 {
		if i+1 < len(kv) {
			fmt.Fprintf(&b, " %v=%v", kv[i], kv[i+1])
		} else {
			fmt.Fprintf(&b, " %v", kv[i])
		}
	}

	return b.String()
}
