package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggerFunctionsCalled(t *testing.T) {
	var buf bytes.Buffer

	// Redirect package logger to buffer
	SetOutput(zerolog.New(&buf))

	Info("info message %d", 1)
	Error("error message")
	Debug("debug message")

	output := buf.String()
	if !strings.Contains(output, "info message 1") ||
		!strings.Contains(output, "error message") ||
		!strings.Contains(output, "debug message") {
		t.Errorf("logger functions not called, output: %s", output)
	}
}
