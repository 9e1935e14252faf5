package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_JSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: "warn", Format: LogFormatJSON, Output: &buf})

	logger.Info("hidden")
	logger.Warn("shown", zap.String("item", "w1"))
	require.NoError(t, logger.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "w1", entry["item"])
	assert.Contains(t, entry, "time")

	SetLevel("info")
}

func TestGetLevel_DefaultsToInfo(t *testing.T) {
	assert.Equal(t, zap.InfoLevel, getLevel("verbose"))
	assert.Equal(t, zap.DebugLevel, getLevel(" DEBUG "))
}
