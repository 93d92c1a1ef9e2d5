package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
	attrs []slog.Attr
}

func newTestHandler() *testHandler {
	return &testHandler{buf: &bytes.Buffer{}, level: slog.LevelDebug}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &testHandler{buf: h.buf, level: h.level, attrs: merged}
}

func (h *testHandler) WithGroup(string) slog.Handler { return h }

func (h *testHandler) lastRecord() map[string]any {
	lines := bytes.Split(bytes.TrimSpace(h.buf.Bytes()), []byte("\n"))
	if len(lines) == 0 || len(lines[len(lines)-1]) == 0 {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		return nil
	}
	return m
}

func TestEnrichLogger(t *testing.T) {
	t.Run("adds token", func(t *testing.T) {
		h := newTestHandler()
		enriched := EnrichLogger(slog.New(h), "7")
		enriched.Info("entry received")

		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "7", record["token"])
		assert.Equal(t, "entry received", record["msg"])
	})

	t.Run("nil logger returns nil", func(t *testing.T) {
		assert.Nil(t, EnrichLogger(nil, "7"))
	})
}

func TestLogCorrelationOpened(t *testing.T) {
	h := newTestHandler()
	LogCorrelationOpened(slog.New(h), "7", []string{"AorListComplete", "AorDetail"}, time.Second)

	record := h.lastRecord()
	require.NotNil(t, record)
	assert.Equal(t, "DEBUG", record["level"])
	assert.Equal(t, "correlation opened", record["msg"])
	assert.Equal(t, "AorListComplete,AorDetail", record["terminators"])
}

func TestLogCorrelationFinalized(t *testing.T) {
	tests := []struct {
		status string
		level  string
	}{
		{"completed", "DEBUG"},
		{"timed_out", "WARN"},
		{"disconnected", "WARN"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			h := newTestHandler()
			LogCorrelationFinalized(slog.New(h), "7", tt.status, 3, 12)

			record := h.lastRecord()
			require.NotNil(t, record)
			assert.Equal(t, tt.level, record["level"])
			assert.Equal(t, tt.status, record["status"])
			assert.Equal(t, float64(3), record["entries"])
		})
	}
}

func TestLogHelpers(t *testing.T) {
	t.Run("late entry", func(t *testing.T) {
		h := newTestHandler()
		LogLateEntry(slog.New(h), "7", "AorDetail", "timed_out")
		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, "AorDetail", record["event"])
		assert.Equal(t, "timed_out", record["finished_as"])
	})

	t.Run("unknown event", func(t *testing.T) {
		h := newTestHandler()
		LogUnknownEvent(slog.New(h), "BrandNewEvent", "unknown", "tolerate")
		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "WARN", record["level"])
		assert.Equal(t, "BrandNewEvent", record["event"])
		assert.Equal(t, "tolerate", record["policy"])
	})

	t.Run("drop", func(t *testing.T) {
		h := newTestHandler()
		LogDrop(slog.New(h), "slow", "Newchannel")
		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "slow", record["subscriber"])
	})

	t.Run("handler error", func(t *testing.T) {
		h := newTestHandler()
		LogHandlerError(slog.New(h), "billing", "Hangup", errors.New("db down"))
		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "db down", record["error"])
	})

	t.Run("source error", func(t *testing.T) {
		h := newTestHandler()
		LogSourceError(slog.New(h), errors.New("connection reset"), 2)
		record := h.lastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "connection reset", record["error"])
		assert.Equal(t, float64(2), record["flushed"])
	})

	t.Run("nil logger is safe", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogCorrelationOpened(nil, "7", nil, 0)
			LogCorrelationFinalized(nil, "7", "completed", 0, 0)
			LogLateEntry(nil, "7", "AorDetail", "completed")
			LogUnknownEvent(nil, "X", "unknown", "reject")
			LogDrop(nil, "s", "X")
			LogHandlerError(nil, "s", "X", errors.New("x"))
			LogSourceError(nil, errors.New("x"), 0)
		})
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, done(), float64(5))
}
