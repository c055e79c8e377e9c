package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContextLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reqCtx := NewRequestContextWithID(logger, "req-1", "/api/v1/normalize")
	reqCtx.Info(context.Background(), "normalized", slog.Int(LogFieldMentions, 3))

	out := buf.String()
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "route=/api/v1/normalize")
	assert.Contains(t, out, "mentions=3")

	buf.Reset()
	reqCtx.WithFields(slog.String(LogFieldDocumentID, "d1")).Warn("slow")
	assert.Contains(t, buf.String(), "document_id=d1")
	assert.Contains(t, buf.String(), "request_id=req-1")
}

func TestRequestContextFromContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	reqCtx := NewRequestContext(nil, "/")
	assert.NotEmpty(t, reqCtx.RequestID)
	got, ok := FromContext(WithRequestContext(context.Background(), reqCtx))
	require.True(t, ok)
	assert.Same(t, reqCtx, got)
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, 100.0, m.Snapshot().SuccessRate())

	m.RecordRequest("/b", 10*time.Millisecond, false)
	m.RecordRequest("/a", 20*time.Millisecond, false)
	m.RecordRequest("/a", 40*time.Millisecond, true)
	m.RecordMentions(5, 2)

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.RequestTotal)
	assert.Equal(t, int64(1), s.RequestFailed)
	assert.Equal(t, int64(5), s.MentionTotal)
	assert.Equal(t, int64(2), s.MentionUnresolved)
	require.Len(t, s.Routes, 2)
	assert.Equal(t, "/a", s.Routes[0].Route)
	assert.Equal(t, int64(2), s.Routes[0].RequestCount)
	assert.Equal(t, int64(1), s.Routes[0].ErrorCount)
	assert.Equal(t, int64(30), s.Routes[0].AvgLatencyMs)
	assert.InDelta(t, 66.67, s.SuccessRate(), 0.01)

	m.Reset()
	assert.Zero(t, m.Snapshot().RequestTotal)
	assert.Empty(t, m.Snapshot().Routes)
}
