package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   DEBUG,
		" WARN ":  WARN,
		"warning": WARN,
		"error":   ERROR,
		"info":    INFO,
		"":        INFO,
		"verbose": INFO,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Output: &buf})

	log.Info("email sent", "to", "sales@example.com")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "email sent", entry["msg"])
	assert.Equal(t, "sales@example.com", entry["to"])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: WARN, Output: &buf})

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.SetLevel(DEBUG)
	log.Debug("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithKeepsFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Output: &buf, Text: true}).With("component", "relay")

	log.Info("ready")
	assert.Contains(t, buf.String(), "component=relay")
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: INFO, Output: &buf})
	code := -1
	log.exit = func(c int) { code = c }

	log.Fatal("boom", "reason", "test")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), `"fatal":true`)
}

func TestSetDefaultIgnoresNil(t *testing.T) {
	prev := Default()
	SetDefault(nil)
	assert.Same(t, prev, Default())
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}
