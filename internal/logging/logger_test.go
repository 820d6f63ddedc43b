package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" DEBUG ": slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewLogger_JSONWithLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, LevelWarn)

	l.Info("dropped")
	l.Warn("kept", "k", "v")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}

func TestChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := WithComponent(WithStage(WithSession(NewLogger(&buf, LevelDebug), "sess-1"), 3), "memory")
	l.Debug("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "sess-1", rec["session_id"])
	assert.Equal(t, float64(3), rec["stage"])
	assert.Equal(t, "memory", rec["component"])
}

func TestChildLoggers_NilParent(t *testing.T) {
	assert.NotPanics(t, func() {
		WithSession(nil, "s").Info("x")
		WithStage(nil, 1).Info("x")
		WithComponent(nil, "c").Info("x")
	})
}

func TestOrNop(t *testing.T) {
	l := NewLogger(&bytes.Buffer{}, LevelInfo)
	assert.Same(t, l, OrNop(l))
	assert.NotNil(t, OrNop(nil))
	assert.NotPanics(t, func() { Nop().Error("discarded") })
}

func TestNewFileLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	l, closeFn, err := NewFileLogger(dir, LevelInfo)
	require.NoError(t, err)

	l.Info("to file", "n", 1)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)

	info, err := os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNewFileLogger_Appends(t *testing.T) {
	dir := t.TempDir()
	for _, msg := range []string{"first", "second"} {
		l, closeFn, err := NewFileLogger(dir, LevelInfo)
		require.NoError(t, err)
		l.Info(msg)
		require.NoError(t, closeFn())
	}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestNewFileLogger_BadDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, _, err := NewFileLogger(filepath.Join(file, "sub"), LevelInfo)
	assert.Error(t, err)
}
