package logging

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func restoreDefaults(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	flags := log.Flags()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	})
}

func TestSetup_WritesToRotatingFile(t *testing.T) {
	restoreDefaults(t)
	path := filepath.Join(t.TempDir(), "nested", "launcher.log")

	logger, closer, err := Setup(Options{File: path, Level: slog.LevelInfo, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Debug("hidden")
	slog.Info("catalog loaded", "ready", 3)
	log.Printf("std bridge")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	require.Contains(t, text, `msg="catalog loaded" ready=3`)
	require.Contains(t, text, "std bridge")
	require.NotContains(t, text, "hidden")
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug)
	logger.Debug("probe", "component", "launch")
	require.True(t, strings.Contains(buf.String(), "level=DEBUG"))
	require.Contains(t, buf.String(), "component=launch")
}

func TestDiscard(t *testing.T) {
	require.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
