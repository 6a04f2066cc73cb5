package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, false, false, false))

	logger.Info("quiet")
	assert.Empty(t, buf.String(), "info is hidden on stderr without verbose")

	logger.Warn("loud", "key", "value")
	assert.Contains(t, buf.String(), `"msg":"loud"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestHandlerVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, true, false, false))

	logger.Debug("tick", "remaining", 3)
	assert.Contains(t, buf.String(), "tick")
}

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "ask-user.log")
	closeFn, err := Setup(false, path)
	require.NoError(t, err)

	slog.Info("dialog started", "countdown", 60)
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dialog started")
}

func TestSetupBadPath(t *testing.T) {
	_, err := Setup(false, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	require.Error(t, err)
}
