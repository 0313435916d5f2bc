package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/hook"
	"github.com/dmitrymomot/anvil/pkg/metrics"
)

type fakeResponse struct{ code int }

func (r fakeResponse) StatusCode() int { return r.code }

type fakeRequest struct{ module string }

func (r fakeRequest) Module() string { return r.module }

func TestCollector_Attach(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "test")
	bus := hook.New()
	m.Attach(bus)

	ctx := context.Background()
	for _, name := range []string{hook.AppBegin, hook.AppBegin} {
		decision, err := bus.Notify(ctx, name, dispatch.Module{})
		require.NoError(t, err)
		require.Nil(t, decision)
	}
	_, _ = bus.Notify(ctx, hook.AppBegin, dispatch.Redirect{URL: "/"})
	_, _ = bus.Notify(ctx, hook.ModuleInit, fakeRequest{module: "admin"})
	_, _ = bus.Notify(ctx, hook.AppEnd, fakeResponse{code: 404})

	assert.InDelta(t, 2, testutil.ToFloat64(m.Dispatches.WithLabelValues("module")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Dispatches.WithLabelValues("redirect")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ModuleInits.WithLabelValues("admin")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Responses.WithLabelValues("404")), 0)
}

func TestCollector_Middleware(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "test")

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
	assert.InDelta(t, 0, testutil.ToFloat64(m.RequestsInFlight), 0)

	rec := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `test_request_duration_seconds_count{method="GET",status="418"} 1`)
}
