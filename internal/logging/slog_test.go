package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSlogLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

// records decodes one JSON object per log line.
func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		out = append(out, rec)
	}
	return out
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestSlogLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "migrations applied", "count", 3)
	log.Info(ctx, "listening", "addr", ":8080")
	log.Warn(ctx, "slow query", "table", "contacts")
	log.Error(ctx, "db error", "op", "search")

	recs := records(t, buf)
	require.Len(t, recs, 4)

	tests := []struct {
		level, msg, key string
		val             any
	}{
		{"DEBUG", "migrations applied", "count", float64(3)},
		{"INFO", "listening", "addr", ":8080"},
		{"WARN", "slow query", "table", "contacts"},
		{"ERROR", "db error", "op", "search"},
	}
	for i, tc := range tests {
		assert.Equal(t, tc.level, recs[i]["level"])
		assert.Equal(t, tc.msg, recs[i]["msg"])
		assert.Equal(t, tc.val, recs[i][tc.key])
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestSlogLogger(t)

	log.With("component", "httpapi").Info(context.Background(), "request", "status", 201)

	rec := records(t, buf)[0]
	assert.Equal(t, "httpapi", rec["component"])
	assert.Equal(t, float64(201), rec["status"])
}

func TestSlogLogger_ContextFields(t *testing.T) {
	log, buf := newTestSlogLogger(t)

	ctx := ContextWith(context.Background(), "request_id", "host/1")
	ctx = ContextWith(ctx, "user_id", int64(7))
	log.Info(ctx, "contact created", "contact_id", 42)

	rec := records(t, buf)[0]
	assert.Equal(t, "contact created", rec["msg"])
	assert.Equal(t, "host/1", rec["request_id"])
	assert.Equal(t, float64(7), rec["user_id"])
	assert.Equal(t, float64(42), rec["contact_id"])
}

func TestContextWith_DoesNotLeakIntoParent(t *testing.T) {
	parent := ContextWith(context.Background(), "request_id", "a")
	child := ContextWith(parent, "user_id", 1)

	assert.Equal(t, []any{"request_id", "a"}, contextFields(parent))
	assert.Equal(t, []any{"request_id", "a", "user_id", 1}, contextFields(child))
	assert.Same(t, parent, ContextWith(parent))
}
