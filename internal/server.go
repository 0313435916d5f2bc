package internal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/hostrouter"
	"github.com/dmitrymomot/anvil/pkg/metrics"
)

// ErrorHandler renders a pipeline error.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type mount struct {
	handler http.Handler
	pattern string
}

// Handler returns the HTTP handler of the app: middleware, health and
// metrics endpoints, extra mounts, and the pipeline for every other path.
func (a *App) Handler() http.Handler {
	r := chi.NewRouter()

	if a.metrics != nil {
		r.Use(a.metrics.Middleware)
	}
	for _, mw := range a.middlewares {
		r.Use(mw)
	}

	if a.healthConfig != nil {
		r.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		r.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}
	if a.gatherer != nil {
		r.Method(http.MethodGet, a.metricsPath, metrics.Handler(a.gatherer))
	}
	for _, m := range a.mounts {
		r.Mount(m.pattern, m.handler)
	}

	r.HandleFunc("/*", a.ServeHTTP)
	return r
}

// ServeHTTP runs the pipeline for r.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := a.Run(r.Context(), NewRequest(r))
	if err != nil {
		a.handleError(w, r, err)
		return
	}
	if err := resp.Write(w); err != nil {
		a.logger.ErrorContext(r.Context(), "write response", slog.Any("error", err))
	}
}

func (a *App) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "request failed", slog.Int("status", status), slog.Any("error", err))
	} else {
		a.logger.DebugContext(r.Context(), "request rejected", slog.Int("status", status), slog.Any("error", err))
	}

	if a.errorHandler != nil {
		a.errorHandler(w, r, err)
		return
	}
	DefaultErrorHandler(config.Bool(a.config, "app_debug"))(w, r, err)
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
	Code   int    `json:"code"`
}

// DefaultErrorHandler renders errors as JSON for JSON or AJAX clients and
// as plain text otherwise. Outside debug mode, server errors carry only the
// status text.
func DefaultErrorHandler(debug bool) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status := StatusOf(err)
		body := errorBody{Error: http.StatusText(status), Code: status}
		if httpErr := AsHTTPError(err); httpErr != nil && (status < http.StatusInternalServerError || debug) {
			body.Error = httpErr.Message
			body.Detail = httpErr.Detail
		}
		if debug {
			body.Detail = err.Error()
		}

		if wantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(body)
			return
		}
		http.Error(w, body.Error, status)
	}
}

func wantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// Serve starts a single-app HTTP server and blocks until shutdown. The app
// is initialized before the listener opens.
//
// Example:
//
//	err := app.Serve(":8080", anvil.Logger(log))
func (a *App) Serve(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if err := a.Init(cfg.context()); err != nil {
		return err
	}

	return runServer(runtimeConfig{
		handler:         a.Handler(),
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   append(cfg.shutdownHooks, a.Shutdown),
		baseCtx:         cfg.baseCtx,
	})
}

// Shutdown releases app resources. It closes the request cache.
func (a *App) Shutdown(context.Context) error {
	if a.cache == nil {
		return nil
	}
	return a.cache.Close()
}

// Serve starts a multi-domain HTTP server and blocks until shutdown.
//
// Example:
//
//	err := anvil.Serve(
//	    anvil.Domain("api.acme.com", api),
//	    anvil.Domain("*.acme.com", site),
//	    anvil.Address(":8080"),
//	)
func Serve(opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if len(cfg.domains) == 0 && cfg.fallback == nil {
		return errors.New("anvil.Serve: no domains or fallback configured")
	}

	var apps []*App
	table := hostrouter.NewTable[http.Handler]()
	for _, d := range cfg.domains {
		table.Set(d.pattern, d.app.Handler())
		apps = append(apps, d.app)
	}
	var fallback http.Handler = http.NotFoundHandler()
	if cfg.fallback != nil {
		fallback = cfg.fallback.Handler()
		apps = append(apps, cfg.fallback)
	}

	shutdownHooks := cfg.shutdownHooks
	seen := make(map[*App]bool, len(apps))
	for _, app := range apps {
		if seen[app] {
			continue
		}
		seen[app] = true
		if err := app.Init(cfg.context()); err != nil {
			return err
		}
		shutdownHooks = append(shutdownHooks, app.Shutdown)
	}

	var handler http.Handler = hostHandler{table: table, fallback: fallback}
	if len(cfg.domains) == 0 {
		handler = fallback
	}

	return runServer(runtimeConfig{
		handler:         handler,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// hostHandler routes requests by host: exact patterns first, then
// wildcards, then the fallback.
type hostHandler struct {
	table    *hostrouter.Table[http.Handler]
	fallback http.Handler
}

func (h hostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if next, ok := h.table.Lookup(r.Host); ok {
		next.ServeHTTP(w, r)
		return
	}
	h.fallback.ServeHTTP(w, r)
}
