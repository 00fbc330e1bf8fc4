package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 4)

	l.Info("saga started")
	l.Warn("step retried", "step", "create-user")

	out := buf.String()
	assert.NotContains(t, out, "saga started")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "step=create-user")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, 0).With("component", "runner")

	l.Info("poll")

	assert.Contains(t, buf.String(), "component=runner")
	assert.Contains(t, buf.String(), "msg=poll")
}
