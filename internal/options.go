package internal

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/anvil/pkg/cache"
	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/hook"
	"github.com/dmitrymomot/anvil/pkg/lang"
	"github.com/dmitrymomot/anvil/pkg/metrics"
	"github.com/dmitrymomot/anvil/pkg/route"
)

// Option configures the application.
type Option func(*App)

// WithAppFS sets the application root: module directories, config, route,
// tags and language files are read from it. Defaults to the working
// directory.
func WithAppFS(fsys fs.FS) Option {
	return func(a *App) {
		if fsys != nil {
			a.fsys = fsys
		}
	}
}

// WithConfig replaces the configuration store.
func WithConfig(store *config.Store) Option {
	return func(a *App) {
		if store != nil {
			a.config = store
		}
	}
}

// WithConfigValues sets configuration values by dotted key.
//
// Example:
//
//	anvil.WithConfigValues(map[string]any{
//	    "app_multi_module": false,
//	    "default_return_type": "json",
//	})
func WithConfigValues(values map[string]any) Option {
	return func(a *App) {
		for k, v := range values {
			_ = a.config.Set(k, v)
		}
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithBind binds every request to one module. It takes precedence over the
// bind_module setting.
func WithBind(module string) Option {
	return func(a *App) {
		a.bind = module
	}
}

// WithEntryName sets the entry name used by auto_bind_module.
// Defaults to the executable name without extension.
func WithEntryName(name string) Option {
	return func(a *App) {
		a.entryName = name
	}
}

// WithDispatch presets the descriptor of every run, skipping route
// resolution.
func WithDispatch(d dispatch.Descriptor) Option {
	return func(a *App) {
		a.preset = d
	}
}

// WithRuntimePath overrides the runtime_path setting.
func WithRuntimePath(dir string) Option {
	return func(a *App) {
		a.runtimeDir = dir
	}
}

// WithHook appends subscribers to a hook point.
func WithHook(name string, subs ...hook.Subscriber) Option {
	return func(a *App) {
		for _, s := range subs {
			a.hooks.Listen(name, s)
		}
	}
}

// WithBehavior registers a named subscriber that tags files can attach to
// hook points.
func WithBehavior(name string, s hook.Subscriber) Option {
	return func(a *App) {
		if name != "" && s != nil {
			a.behaviors[name] = s
		}
	}
}

// WithRoutes adds route rules ahead of the rules read from route files.
// It panics on an invalid rule.
func WithRoutes(rules ...route.Rule) Option {
	return func(a *App) {
		if err := a.routes.Import(rules); err != nil {
			panic(fmt.Sprintf("anvil: %v", err))
		}
	}
}

// WithController registers a controller factory in the default layer.
// Module is ignored in single-module mode lookups, so register such
// controllers with an empty module.
//
// Example:
//
//	anvil.WithController("admin", "user", func() any { return &admin.User{} })
func WithController(module, name string, f Factory) Option {
	return WithLayerController(module, DefaultLayer, name, f)
}

// WithLayerController registers a controller factory in a named layer.
func WithLayerController(module, layer, name string, f Factory) Option {
	return func(a *App) {
		a.registry.Register(module, layer, name, f)
	}
}

// WithService registers v in the service container under the type T.
func WithService[T any](v T) Option {
	return func(a *App) {
		Provide(a.container, v)
	}
}

// WithInit adds a function run once during app initialization.
func WithInit(fn InitFunc) Option {
	return func(a *App) {
		if fn != nil {
			a.initFuncs = append(a.initFuncs, fn)
		}
	}
}

// WithModuleInit adds a function run once when module is first resolved.
func WithModuleInit(module string, fn InitFunc) Option {
	return func(a *App) {
		if fn != nil {
			module = foldName(module)
			a.moduleInits[module] = append(a.moduleInits[module], fn)
		}
	}
}

// WithLangs replaces the language packs built from default_lang and
// lang_list.
func WithLangs(p *lang.Packs) Option {
	return func(a *App) {
		a.langs = p
	}
}

// WithCache sets the request cache backend. Without it an in-memory cache
// is created when request_cache is on.
func WithCache(c cache.Cache[CachedResponse]) Option {
	return func(a *App) {
		a.cache = c
	}
}

// WithMetrics registers Prometheus collectors on a dedicated registry and
// serves them at path (default "/metrics").
func WithMetrics(namespace, path string) Option {
	return func(a *App) {
		if path == "" {
			path = defaultMetricsPath
		}
		reg := prometheus.NewRegistry()
		a.metrics = metrics.New(reg, namespace)
		a.gatherer = reg
		a.metricsPath = path
	}
}

// WithMiddleware adds HTTP middleware to the handler returned by Handler.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithMount mounts an extra handler next to the pipeline.
func WithMount(pattern string, h http.Handler) Option {
	return func(a *App) {
		if pattern != "" && h != nil {
			a.mounts = append(a.mounts, mount{pattern: pattern, handler: h})
		}
	}
}

// WithErrorHandler sets a custom handler for pipeline errors.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithHealthChecks enables health check endpoints.
//
// Example:
//
//	anvil.WithHealthChecks(
//	    anvil.WithReadinessCheck("redis", cache.Ping(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
	defaultMetricsPath   = "/metrics"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if name != "" && fn != nil {
			c.checks[name] = fn
		}
	}
}
