package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/hook"
)

// Collector holds the pipeline metrics.
type Collector struct {
	Dispatches       *prometheus.CounterVec
	Responses        *prometheus.CounterVec
	ModuleInits      *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New registers the metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		Dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dispatches_total",
				Help:      "Dispatch descriptors resolved, by kind",
			},
			[]string{"kind"},
		),
		Responses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "responses_total",
				Help:      "Pipeline responses, by status code",
			},
			[]string{"status"},
		),
		ModuleInits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "module_init_total",
				Help:      "Requests entering a module",
			},
			[]string{"module"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "HTTP requests currently being served",
			},
		),
	}
}

type statusCoder interface {
	StatusCode() int
}

type moduleNamer interface {
	Module() string
}

// Attach subscribes the collector to the pipeline hooks. The subscribers
// never return a decision.
func (c *Collector) Attach(bus *hook.Bus) {
	bus.Listen(hook.AppBegin, hook.Observer(func(_ context.Context, payload any) {
		if d, ok := payload.(dispatch.Descriptor); ok && d != nil {
			c.Dispatches.WithLabelValues(string(d.Kind())).Inc()
		}
	}))
	bus.Listen(hook.ModuleInit, hook.Observer(func(_ context.Context, payload any) {
		if m, ok := payload.(moduleNamer); ok {
			c.ModuleInits.WithLabelValues(m.Module()).Inc()
		}
	}))
	bus.Listen(hook.AppEnd, hook.Observer(func(_ context.Context, payload any) {
		if r, ok := payload.(statusCoder); ok {
			c.Responses.WithLabelValues(strconv.Itoa(r.StatusCode())).Inc()
		}
	}))
}

// Middleware measures request duration and in-flight requests.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.RequestsInFlight.Inc()
		defer c.RequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.RequestDuration.WithLabelValues(r.Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
