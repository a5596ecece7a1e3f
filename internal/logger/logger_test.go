package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Info("monitor %s started", "battery")
	l.Warn("unknown trigger id %s", "ghost")

	require.Len(t, l.Messages, 2)
	assert.Equal(t, "info", l.Messages[0].Level)
	assert.Equal(t, "monitor battery started", l.Messages[0].Message)
	assert.True(t, l.HasLevel("warn"))
	assert.False(t, l.HasLevel("error"))
	assert.True(t, l.Contains("ghost"))

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestNoopLoggerDiscards(t *testing.T) {
	l := Noop()

	// Should not panic or produce output.
	l.Debug("debug %d", 1)
	l.Info("info")
	l.Warn("warn")
	l.Error("error")
}

func TestFileLoggerAppends(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "terminal.log")

	l, err := NewFileLogger(path, "[bar]")
	require.NoError(t, err)

	l.Info("published %d chars", 42)
	l.Error("publish failed")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[bar] published 42 chars")
	assert.Contains(t, string(data), "[bar] ERROR: publish failed")
}

func TestFileLoggerWithPrefix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bb.log")

	l, err := NewFileLogger(path, "[bar]")
	require.NoError(t, err)

	batt := l.WithPrefix("[battery]")
	batt.Warn("battery low")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[battery] WARN: battery low")
}

func TestFileLoggerDebugGated(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bb.log")

	l, err := NewFileLogger(path, "[mon]")
	require.NoError(t, err)

	t.Setenv("BB_DEBUG", "")
	os.Unsetenv("BB_DEBUG")
	l.Debug("hidden")

	t.Setenv("BB_DEBUG", "1")
	l.Debug("visible")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}
