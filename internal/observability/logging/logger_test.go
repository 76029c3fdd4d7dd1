package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected slog.Level
	}{
		{name: "default log level (info)", logLevel: "", expected: slog.LevelInfo},
		{name: "debug log level", logLevel: "debug", expected: slog.LevelDebug},
		{name: "upper case warn", logLevel: "WARN", expected: slog.LevelWarn},
		{name: "error log level", logLevel: "error", expected: slog.LevelError},
		{name: "invalid log level defaults to info", logLevel: "verbose", expected: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)
			assert.Equal(t, tt.expected, levelFromEnv())
		})
	}
}

func TestNewLogger(t *testing.T) {
	assert.NotNil(t, NewLogger())
	assert.NotNil(t, NewTextLogger())
}

func TestNewLoggerTo_Formats(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, FormatJSON)
		logger.Info("counted", slog.Int("distinct", 7))

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be valid JSON")
		assert.Equal(t, "counted", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, float64(7), entry["distinct"])
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerTo(&buf, "TEXT")
		logger.Info("counted", slog.Int("distinct", 7))

		output := buf.String()
		assert.Contains(t, output, "msg=counted")
		assert.Contains(t, output, "distinct=7")
	})

	t.Run("unknown format falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		NewLoggerTo(&buf, "yaml").Info("counted")
		assert.True(t, strings.HasPrefix(buf.String(), "{"))
	})
}

func TestNewLoggerTo_DebugFiltering(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("LOG_LEVEL", "info")
	logger := NewLoggerTo(&buf, FormatJSON)

	logger.Debug("this should not appear")
	logger.Info("this should appear")

	output := buf.String()
	assert.NotContains(t, output, "this should not appear", "debug message should be filtered")
	assert.Contains(t, output, "this should appear", "info message should be logged")

	buf.Reset()
	t.Setenv("LOG_LEVEL", "debug")
	NewLoggerTo(&buf, FormatJSON).Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestNewOperationContext(t *testing.T) {
	ctx, id := NewOperationContext(context.Background())

	_, err := uuid.Parse(id)
	require.NoError(t, err, "operation ID should be a UUID")
	assert.Equal(t, id, OperationIDFromContext(ctx))

	_, other := NewOperationContext(context.Background())
	assert.NotEqual(t, id, other, "operation IDs should be unique")

	assert.Empty(t, OperationIDFromContext(context.Background()))
}

func TestWithOperationID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, id := NewOperationContext(context.Background())
	WithOperationID(ctx, base).Info("tally started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, id, entry["operation_id"])
}

func TestWithOperationID_Missing(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger := WithOperationID(context.Background(), base)
	logger.Info("test message")

	assert.Same(t, base, logger)
	assert.NotContains(t, buf.String(), "operation_id", "should not contain operation_id field")
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	fields := map[string]interface{}{
		"source":   "gutenberg",
		"threads":  8,
		"ratio":    0.5,
		"complete": true,
	}
	WithFields(base, fields).Info("test message")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "output should be valid JSON")
	assert.Equal(t, "gutenberg", entry["source"])
	assert.Equal(t, float64(8), entry["threads"])
	assert.Equal(t, 0.5, entry["ratio"])
	assert.Equal(t, true, entry["complete"])
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	assert.Same(t, logger, FromContext(WithLogger(context.Background(), logger)))
	assert.Equal(t, slog.Default(), FromContext(context.Background()), "should be default logger")

	invalid := context.WithValue(context.Background(), loggerContextKey, "not a logger")
	assert.Equal(t, slog.Default(), FromContext(invalid), "should be default logger")
}
