package middlewares_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/middlewares"
	"github.com/dmitrymomot/anvil/pkg/logger"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	t.Run("generates new request ID when not present", func(t *testing.T) {
		t.Parallel()

		var seen string
		h := middlewares.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = middlewares.GetRequestID(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
		_, err := uuid.Parse(seen)
		require.NoError(t, err)
	})

	t.Run("uses existing request ID from header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Correlation-ID", "upstream-123")
		rec := httptest.NewRecorder()

		middlewares.RequestID()(http.NotFoundHandler()).ServeHTTP(rec, req)
		require.Equal(t, "upstream-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("custom headers and generator", func(t *testing.T) {
		t.Parallel()

		mw := middlewares.RequestID(
			middlewares.WithRequestIDHeaders("X-Trace"),
			middlewares.WithRequestIDGenerator(func() string { return "fixed" }),
			middlewares.WithRequestIDResponseHeader("X-Trace"),
		)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "ignored")
		rec := httptest.NewRecorder()
		mw(http.NotFoundHandler()).ServeHTTP(rec, req)

		require.Equal(t, "fixed", rec.Header().Get("X-Trace"))
		require.Empty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("GetRequestID on bare context", func(t *testing.T) {
		t.Parallel()
		require.Empty(t, middlewares.GetRequestID(context.Background()))
	})
}

func TestRequestIDExtractor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithExtractors(middlewares.RequestIDExtractor()),
	)

	h := middlewares.RequestID(
		middlewares.WithRequestIDGenerator(func() string { return "req-1" }),
	)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		log.InfoContext(r.Context(), "handled")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "req-1", entry["request_id"])

	_, ok := middlewares.RequestIDExtractor()(context.Background())
	require.False(t, ok)
}
