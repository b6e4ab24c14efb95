package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theAriful7/storefront/pkg/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestLogrusLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Level: "info", Format: "json"})

	log.Info("cart reloaded", "cart_id", 12, logger.F("items", 3))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "cart reloaded", entries[0]["message"])
	assert.Equal(t, "info", entries[0]["severity"])
	assert.Equal(t, float64(12), entries[0]["cart_id"])
	assert.Equal(t, float64(3), entries[0]["items"])
	assert.Contains(t, entries[0], "timestamp")
}

func TestLogrusLoggerErrorArgument(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Level: "debug"})

	log.Error("request failed", errors.New("boom"), "path", "/api/carts")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0]["error"])
	assert.Equal(t, "/api/carts", entries[0]["path"])
}

// TestLogLevels tests that messages below the configured level are dropped
func TestLogLevels(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  int
	}{
		{"Debug", "debug", 4},
		{"Info", "info", 3},
		{"Warn", "WARN", 2},
		{"Error", "error", 1},
		{"Unknown falls back to info", "verbose", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.New(&buf, logger.Options{Level: tt.level})

			log.Debug("d")
			log.Info("i")
			log.Warn("w")
			log.Error("e")

			assert.Len(t, decodeLines(t, &buf), tt.want)
		})
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Level: "error"})

	log.Info("hidden")
	log.SetLevel("debug")
	log.Debug("visible")
	log.SetLevel("nonsense")
	log.Debug("still visible")

	assert.Len(t, decodeLines(t, &buf), 2)
}

// TestLoggerWith tests that child loggers carry their fields
func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{})

	child := log.With(
		logger.Field{Key: "component", Value: "cart"},
		logger.Field{Key: "version", Value: "1.0"},
	).WithField("user_id", 1).WithFields(map[string]interface{}{"vendor_id": 2})

	child.Info("test message")
	log.Info("parent message")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "cart", entries[0]["component"])
	assert.Equal(t, float64(1), entries[0]["user_id"])
	assert.Equal(t, float64(2), entries[0]["vendor_id"])
	assert.NotContains(t, entries[1], "component")
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Format: "text"})

	log.Info("hello", "k", "v")

	assert.Contains(t, buf.String(), "msg=hello")
	assert.Contains(t, buf.String(), "k=v")
}

func TestNoOpLogger(t *testing.T) {
	var l logger.Logger = logger.NoOpLogger{}
	l.Info("nothing")
	assert.NotNil(t, l.WithField("a", 1))
	assert.IsType(t, logger.NoOpLogger{}, logger.OrNoOp(nil))
}

// BenchmarkLogger benchmarks logger performance
func BenchmarkLogger(b *testing.B) {
	var buf bytes.Buffer
	log := logger.New(&buf, logger.Options{Level: "info"})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("benchmark message",
			logger.Field{Key: "iteration", Value: i},
			logger.Field{Key: "benchmark", Value: true},
		)
	}
}
