package v1

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/timenorm/internal/profile"
	"github.com/hrygo/timenorm/plugin/normalizer"
	"github.com/hrygo/timenorm/store"
	storetest "github.com/hrygo/timenorm/store/test"
)

const normalizeBody = `{
	"document_id": "doc-a",
	"reference": "2023-06-14",
	"mentions": [
		{"text": "next Friday", "expr": {"op": "NEXT", "args": [{"const": "FRIDAY"}]}},
		{"text": "yesterday", "expr": {"const": "YESTERDAY"}}
	]
}`

func newTestServer(t *testing.T, p *profile.Profile, st *store.Store) (*echo.Echo, *APIV1Service) {
	t.Helper()
	if p == nil {
		p = &profile.Profile{DefaultTimezone: "UTC"}
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n, err := normalizer.NewService(normalizer.Config{Logger: logger})
	require.NoError(t, err)
	s, err := NewAPIV1Service(p, st, n)
	require.NoError(t, err)
	s.Logger = logger

	e := echo.New()
	s.RegisterRoutes(e)
	return e, s
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestNormalize(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)

	rec := do(e, http.MethodPost, "/api/v1/normalize", normalizeBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc := decodeBody[normalizer.Document](t, rec)
	assert.Equal(t, "doc-a", doc.ID)
	assert.Equal(t, "UTC", doc.Timezone)
	require.Len(t, doc.Annotations, 2)
	assert.Equal(t, "t1", doc.Annotations[0].TID)
	assert.Equal(t, "DATE", doc.Annotations[0].Type)
	assert.Equal(t, "2023-06-16", doc.Annotations[0].Value)
	assert.Equal(t, "2023-06-13", doc.Annotations[1].Value)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestNormalizeErrors(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed body", `{"mentions":`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"bad reference", `{"reference":"soon","mentions":[]}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"bad timezone", `{"reference":"2023-06-14","timezone":"Mars/Olympus","mentions":[]}`, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"persist without storage", `{"reference":"2023-06-14","mentions":[],"persist":true}`, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/api/v1/normalize", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			resp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestNormalizeUnresolvedMention(t *testing.T) {
	e, s := newTestServer(t, nil, nil)

	rec := do(e, http.MethodPost, "/api/v1/normalize",
		`{"reference":"2023-06-14","mentions":[{"text":"someday","expr":{"const":"BLUE_MOON"}}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decodeBody[normalizer.Document](t, rec)
	require.Len(t, doc.Annotations, 1)
	assert.Contains(t, doc.Annotations[0].Error, "unknown constant")

	snapshot := s.Metrics.Snapshot()
	assert.Equal(t, int64(1), snapshot.MentionTotal)
	assert.Equal(t, int64(1), snapshot.MentionUnresolved)
}

func TestNormalizeBatch(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)

	rec := do(e, http.MethodPost, "/api/v1/normalize/batch", `{"documents":[
		{"document_id":"a","reference":"2023-06-14","mentions":[{"text":"tomorrow","expr":{"const":"TOMORROW"}}]},
		{"document_id":"b","reference":"2023-06-14","timezone":"Asia/Shanghai","mentions":[{"text":"today","expr":{"const":"TODAY"}}]}
	]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[BatchNormalizeResponse](t, rec)
	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "a", resp.Documents[0].ID)
	assert.Equal(t, "2023-06-15", resp.Documents[0].Annotations[0].Value)
	assert.Equal(t, "b", resp.Documents[1].ID)
	assert.Equal(t, "Asia/Shanghai", resp.Documents[1].Timezone)
	assert.Equal(t, "2023-06-14", resp.Documents[1].Annotations[0].Value)

	rec = do(e, http.MethodPost, "/api/v1/normalize/batch", `{"documents":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestServer(t, nil, storetest.NewTestingStore(ctx, t))

	body := strings.Replace(normalizeBody, `"document_id": "doc-a",`, `"document_id": "doc-a", "persist": true,`, 1)
	rec := do(e, http.MethodPost, "/api/v1/normalize", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/documents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	docs := decodeBody[[]*Document](t, rec)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-a", docs[0].ID)
	assert.Equal(t, "2023-06-14", docs[0].Reference)

	rec = do(e, http.MethodGet, "/api/v1/documents/doc-a", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decodeBody[Document](t, rec)
	require.Len(t, doc.Annotations, 2)
	assert.Equal(t, "next Friday", doc.Annotations[0].Text)
	assert.Equal(t, 0, doc.Annotations[0].Seq)
	assert.Equal(t, "yesterday", doc.Annotations[1].Text)
	assert.JSONEq(t, `{"op":"NEXT","args":[{"const":"FRIDAY"}]}`, doc.Annotations[0].Expression)

	filter := url.QueryEscape(`annotation.value == "2023-06-16"`)
	rec = do(e, http.MethodGet, "/api/v1/documents/doc-a/annotations?filter="+filter, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	annotations := decodeBody[[]*Annotation](t, rec)
	require.Len(t, annotations, 1)
	assert.Equal(t, "next Friday", annotations[0].Text)

	rec = do(e, http.MethodGet, "/api/v1/documents?limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(e, http.MethodDelete, "/api/v1/documents/doc-a", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(e, http.MethodGet, "/api/v1/documents/doc-a", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody[ErrorResponse](t, rec).Code)
}

func TestAnnotationFilterErrors(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestServer(t, nil, storetest.NewTestingStore(ctx, t))

	body := strings.Replace(normalizeBody, `"document_id": "doc-a",`, `"document_id": "doc-a", "persist": true,`, 1)
	require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/v1/normalize", body).Code)

	for _, expr := range []string{
		`annotation.type ==`,
		`annotation.seq`,
		`unknown.field == 1`,
	} {
		rec := do(e, http.MethodGet, "/api/v1/documents/doc-a/annotations?filter="+url.QueryEscape(expr), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, expr)
	}
}

func TestDocumentsWithoutStore(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)
	rec := do(e, http.MethodGet, "/api/v1/documents", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestListConstants(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)

	rec := do(e, http.MethodGet, "/api/v1/constants?prefix=fri", "")
	require.Equal(t, http.StatusOK, rec.Code)
	constants := decodeBody[[]*Constant](t, rec)
	require.NotEmpty(t, constants)
	assert.Equal(t, "FRIDAY", constants[0].Name)
	assert.Equal(t, "DATE", constants[0].Type)
	assert.Equal(t, "XXXX-WXX-5", constants[0].Value)

	rec = do(e, http.MethodGet, "/api/v1/constants", "")
	all := decodeBody[[]*Constant](t, rec)
	assert.Greater(t, len(all), len(constants))
}

func TestMetricsOverview(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)

	require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/v1/normalize", normalizeBody).Code)
	require.Equal(t, http.StatusBadRequest, do(e, http.MethodPost, "/api/v1/normalize", `{"reference":"soon"}`).Code)

	rec := do(e, http.MethodGet, "/api/v1/system/metrics/overview?range=1h", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[MetricsOverviewResponse](t, rec)
	assert.Equal(t, int64(2), resp.TotalRequests)
	assert.Equal(t, int64(1), resp.ErrorCount)
	assert.InDelta(t, 50.0, resp.SuccessRate, 0.001)
	assert.Equal(t, int64(2), resp.MentionTotal)
	assert.Equal(t, "1h", resp.TimeRange)
	require.Len(t, resp.Routes, 1)
	assert.Equal(t, "/api/v1/normalize", resp.Routes[0].Route)

	rec = do(e, http.MethodGet, "/api/v1/system/metrics/overview?range=1y", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDIsEchoed(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/constants", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
}

func TestRateLimit(t *testing.T) {
	e, _ := newTestServer(t, &profile.Profile{DefaultTimezone: "UTC", RateLimit: 0.001, RateBurst: 1}, nil)

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/v1/constants", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(e, http.MethodGet, "/api/v1/constants", "").Code)
}

func TestExpand(t *testing.T) {
	e, _ := newTestServer(t, nil, nil)

	rec := do(e, http.MethodPost, "/api/v1/expand", `{
		"expr": {"set": {"base": {"const": "MONDAY"}, "quant": "every"}},
		"from": "2023-06-01",
		"until": "2023-06-30"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[ExpandResponse](t, rec)
	assert.Equal(t, "FREQ=WEEKLY;UNTIL=20230630T235959Z;BYDAY=MO", resp.RRule)
	require.Len(t, resp.Occurrences, 4)
	assert.True(t, resp.Occurrences[0].Equal(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC)))

	rec = do(e, http.MethodPost, "/api/v1/expand", `{"expr": {"set": {"unit": "WEEK", "scale": 2}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decodeBody[ExpandResponse](t, rec)
	assert.Equal(t, "FREQ=WEEKLY;INTERVAL=2", resp.RRule)
	assert.Empty(t, resp.Occurrences)

	for _, body := range []string{
		`{"expr": {"const": "FRIDAY"}}`,
		`{"expr": {"set": {"unit": "WEEK"}}, "from": "someday"}`,
		`{"expr": {"set": {"unit": "WEEK"}}, "max": 5000}`,
		`{}`,
	} {
		rec = do(e, http.MethodPost, "/api/v1/expand", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestGetStats(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestServer(t, nil, storetest.NewTestingStore(ctx, t))

	body := strings.Replace(normalizeBody, `"document_id": "doc-a",`, `"document_id": "doc-a", "persist": true,`, 1)
	require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/v1/normalize", body).Code)

	rec := do(e, http.MethodGet, "/api/v1/system/stats?refresh=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[map[string]any](t, rec)
	assert.EqualValues(t, 1, resp["total_documents"])
	assert.EqualValues(t, 2, resp["total_annotations"])
	assert.Equal(t, map[string]any{"DATE": float64(2)}, resp["by_type"])

	e, _ = newTestServer(t, nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/api/v1/system/stats", "").Code)
}
