package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Env: "production", Level: "info", App: "escopo", Version: "test"})

	logger.Info("payroll calculated", slog.String("kind", "monthly"))
	logger.Debug("dropped")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "monthly", entry["kind"])
	assert.Equal(t, "escopo", entry["app"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNew_DevelopmentIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Options{Env: "development", Level: "debug", App: "escopo"})

	logger.Debug("tax table loaded", slog.Int("year", 2025))
	assert.Contains(t, buf.String(), "tax table loaded")
	assert.Contains(t, buf.String(), "year")
}
