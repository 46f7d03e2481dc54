package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHealthz(t *testing.T) {
	h := NewHealthChecker(zap.NewNop())
	srv := httptest.NewServer(h.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	h.SetKafkaReady(false)
	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	h.SetKafkaReady(true)
	require.NoError(t, h.Shutdown(context.Background()))
	resp, err = http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestProgressEndpoint(t *testing.T) {
	h := NewHealthChecker(zap.NewNop())
	handler := h.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	p := &Progress{}
	p.SetTotalBytes(200)
	p.SetOffset(50)
	p.AddDecoded()
	p.AddDecoded()
	p.AddPublished()
	p.AddSkipped()
	h.SetProgress(p)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/progress", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t,
		`{"total_bytes":200,"offset":50,"percent":25,"decoded":2,"skipped":1,"published":1,"failed":0}`,
		rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	RecordDecoded("add_order")
	RecordPublished()
	RecordFramingError("truncated")

	handler := NewHealthChecker(zap.NewNop()).Handler()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `itch_records_decoded_total{kind="add_order"}`))
	assert.True(t, strings.Contains(body, "itch_records_published_total"))
	assert.True(t, strings.Contains(body, `itch_framing_errors_total{kind="truncated"}`))
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 0.0, ProgressSnapshot{}.Percent())
	assert.Equal(t, 100.0, ProgressSnapshot{TotalBytes: 4, Offset: 4}.Percent())
}
