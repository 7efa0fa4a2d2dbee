package build

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewLogRotatorWritesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultLogRotatorConfig()
	cfg.LogDir = dir

	w, err := NewLogRotator(cfg)
	require.NoError(t, err)

	_, err = w.Write([]byte("hello log\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// The rotator goroutine drains the pipe asynchronously; wait for the
	// line to land on disk.
	logFile := filepath.Join(dir, DefaultLogFilename)
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(logFile)
		return err == nil && strings.Contains(string(data), "hello log")
	}, 2*time.Second, 10*time.Millisecond)
}

func TestNewLogRotatorCustomFilename(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultLogRotatorConfig()
	cfg.LogDir = dir
	cfg.Filename = "custom.log"

	w, err := NewLogRotator(cfg)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	require.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(dir, "custom.log"))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}
