package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json format writes structured records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "json", "info")

		logger.Info("password changed", "status", 200)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "password changed", record["msg"])
		assert.Equal(t, float64(200), record["status"])
	})

	t.Run("level filters lower records", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, "text", "warn")

		logger.Info("hidden")
		assert.Empty(t, buf.String())

		logger.Warn("shown")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}
