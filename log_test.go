package gateway

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeveledLogger(t *testing.T) {
	var buf bytes.Buffer
	l := &LeveledLogger{Level: LogLevelWarn, Output: &buf}

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	assert.Equal(t, "[WARN] warn 3\n[ERROR] error 4\n", buf.String())
}

func TestLeveledLoggerNone(t *testing.T) {
	var buf bytes.Buffer
	l := &LeveledLogger{Level: LogLevelNone, Output: &buf}

	l.Errorf("error")

	assert.Empty(t, buf.String())
}

func TestRetryLoggerUsesClientLogger(t *testing.T) {
	var buf bytes.Buffer
	c, err := NewClient("key", WithLogger(&LeveledLogger{Level: LogLevelDebug, Output: &buf}))
	assert.NoError(t, err)

	retryLogger{client: c}.Debug("performing request", "method", "GET", "url")

	assert.Equal(t, "[DEBUG] performing request method=GET url\n", buf.String())
}
