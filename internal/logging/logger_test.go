package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/attendance-summary/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewLogger_JSONWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := newLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "console"}, false, &buf)
	require.NoError(t, err)
	defer closeFn()

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "parsed sheet", "sheet", "September")
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "parsed sheet", entry["msg"])
	assert.Equal(t, "run-123", entry["run_id"])
	assert.Equal(t, "September", entry["sheet"])
}

func TestNewLogger_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := newLogger(config.LoggingConfig{Level: "error", Format: "text"}, true, &buf)
	require.NoError(t, err)

	logger.Debug("details", "rows", 3)

	assert.Contains(t, buf.String(), "msg=details")
	assert.Contains(t, buf.String(), "rows=3")
}

func TestNewLogger_FileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "attendance.log")
	var buf bytes.Buffer

	logger, closeFn, err := newLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "both", FilePath: path}, false, &buf)
	require.NoError(t, err)

	logger.Warn("sheet skipped")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sheet skipped")
	assert.Contains(t, buf.String(), "sheet skipped")
}

func TestRunID_Missing(t *testing.T) {
	assert.Equal(t, "", RunID(context.Background()))
}

func TestDiscard(t *testing.T) {
	assert.False(t, Discard().Enabled(context.Background(), slog.LevelError))
}
