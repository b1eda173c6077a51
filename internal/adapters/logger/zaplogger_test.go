package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swingplanner/internal/ports"
)

var _ ports.Logger = (*ZapLogger)(nil)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	sc := bufio.NewScanner(buf)
	for sc.Scan() {
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func TestZapLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger(Options{Level: LevelDebug, Format: FormatJSON, Output: &buf})

	l.Info(context.Background(), "plan recomputed", map[string]interface{}{"shares": 20, "valid": true})
	l.Error(context.Background(), errors.New("boom"), "save failed")
	require.NoError(t, l.Sync())

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "plan recomputed", lines[0]["msg"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.Equal(t, float64(20), lines[0]["shares"])
	assert.Equal(t, true, lines[0]["valid"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestZapLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger(Options{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "hidden")
	l.Warn(context.Background(), "shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["msg"])
}

func TestZapLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	l := NewZapLogger(Options{Level: LevelInfo, Output: &buf})
	l.Warn(context.Background(), "scenario table empty", map[string]interface{}{"risk": 1.5})
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "scenario table empty")
	assert.Contains(t, buf.String(), `"risk"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		" Warn ":  LevelWarn,
		"error":   LevelError,
		"verbose": LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info(context.Background(), "discarded")
	l.Error(context.Background(), errors.New("x"), "discarded")
}
