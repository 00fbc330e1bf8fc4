package testutil

import (
	"io"

	"github.com/dtroode/user-registry/internal/logger"
)

// MakeNoopLogger discards everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}

// MakeWriterLogger logs every level to w as text.
func MakeWriterLogger(w io.Writer) *logger.Logger {
	return logger.NewWithWriter(w, -4)
}
