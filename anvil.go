package anvil

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/anvil/internal"
	"github.com/dmitrymomot/anvil/pkg/cache"
	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/health"
	"github.com/dmitrymomot/anvil/pkg/hook"
	"github.com/dmitrymomot/anvil/pkg/lang"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/route"
)

// Type aliases - public API
type (
	// App owns configuration, hooks, routes and controllers and runs the
	// request pipeline.
	App = internal.App

	// Request is an incoming request plus the module, controller and action
	// it resolved to.
	Request = internal.Request

	// Response is the envelope written back to the client.
	Response = internal.Response

	// ResponseError carries a response that ends the run early.
	ResponseError = internal.ResponseError

	// ActionCall is the action_begin payload.
	ActionCall = internal.ActionCall

	// Args are the named and positional values bound to a callable.
	Args = internal.Args

	// Factory builds a controller instance per request.
	Factory = internal.Factory

	// InitFunc runs once at app or module initialization.
	InitFunc = internal.InitFunc

	// CachedResponse is an entry of the request cache.
	CachedResponse = internal.CachedResponse

	// ErrorHandler renders pipeline errors.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// HTTPError is an error carrying its HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// Subscriber handles a hook notification.
	Subscriber = hook.Subscriber

	// Descriptor is a tagged dispatch target.
	Descriptor = dispatch.Descriptor

	// Rule maps a path pattern to a dispatch target.
	Rule = route.Rule
)

// Response formats.
const (
	FormatHTML     = internal.FormatHTML
	FormatJSON     = internal.FormatJSON
	FormatText     = internal.FormatText
	FormatRedirect = internal.FormatRedirect
	FormatRaw      = internal.FormatRaw
)

// Version is the framework version.
const Version = internal.Version

// Pipeline errors.
var (
	ErrRouteNotFound             = internal.ErrRouteNotFound
	ErrModuleNotFound            = internal.ErrModuleNotFound
	ErrControllerNotFound        = internal.ErrControllerNotFound
	ErrActionNotFound            = internal.ErrActionNotFound
	ErrMissingRequiredArgument   = internal.ErrMissingRequiredArgument
	ErrInvalidArgument           = internal.ErrInvalidArgument
	ErrInvalidDispatchDescriptor = internal.ErrInvalidDispatchDescriptor
)

// Constructors

// New creates a new application with the given options.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithAppFS(os.DirFS("app")),
//	    anvil.WithController("index", "index", func() any { return &index.Index{} }),
//	)
//
//	err := app.Serve(":8080", anvil.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Serve starts a multi-domain HTTP server and blocks until shutdown.
// Use this for composing multiple Apps under different domain patterns.
//
// Example:
//
//	err := anvil.Serve(
//	    anvil.Domain("api.acme.com", api),
//	    anvil.Domain("*.acme.com", site),
//	    anvil.Address(":8080"),
//	)
func Serve(opts ...RunOption) error {
	return internal.Serve(opts...)
}

// NewRequest wraps an HTTP request for the pipeline.
func NewRequest(r *http.Request) *Request {
	return internal.NewRequest(r)
}

// NewResponse creates a response. Unknown formats fall back to HTML.
func NewResponse(data any, format string) *Response {
	return internal.NewResponse(data, format)
}

// Respond ends the current run with resp. Return it from an action or a
// callable as its error.
func Respond(resp *Response) error {
	return internal.Respond(resp)
}

// Redirect ends the current run with a redirect.
func Redirect(url string, code int) error {
	return internal.Respond(internal.NewResponse(url, FormatRedirect).WithCode(code))
}

// App options

// WithAppFS sets the application root holding module directories,
// config, route, tags and language files.
//
// Example:
//
//	//go:embed app
//	var appFS embed.FS
//
//	sub, _ := fs.Sub(appFS, "app")
//	anvil.New(anvil.WithAppFS(sub))
func WithAppFS(fsys fs.FS) Option {
	return internal.WithAppFS(fsys)
}

// WithConfig replaces the configuration store.
func WithConfig(store *config.Store) Option {
	return internal.WithConfig(store)
}

// WithConfigValues sets configuration values by dotted key.
func WithConfigValues(values map[string]any) Option {
	return internal.WithConfigValues(values)
}

// WithLogger sets the application logger.
//
// Example:
//
//	anvil.WithLogger(logger.New(
//	    logger.WithExtractors(anvil.DispatchExtractor(), middlewares.RequestIDExtractor()),
//	))
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithBind binds every request to one module.
func WithBind(module string) Option {
	return internal.WithBind(module)
}

// WithEntryName sets the entry name used by auto_bind_module.
func WithEntryName(name string) Option {
	return internal.WithEntryName(name)
}

// WithDispatch presets the descriptor of every run.
func WithDispatch(d Descriptor) Option {
	return internal.WithDispatch(d)
}

// WithRuntimePath overrides the runtime_path setting.
func WithRuntimePath(dir string) Option {
	return internal.WithRuntimePath(dir)
}

// WithHook appends subscribers to a hook point.
//
// Example:
//
//	anvil.WithHook(hook.AppBegin, func(ctx context.Context, _ any) (any, error) {
//	    if maintenance {
//	        return anvil.NewResponse("back soon", anvil.FormatText).WithCode(503), nil
//	    }
//	    return nil, nil
//	})
func WithHook(name string, subs ...Subscriber) Option {
	return internal.WithHook(name, subs...)
}

// WithBehavior registers a named subscriber for tags files.
func WithBehavior(name string, s Subscriber) Option {
	return internal.WithBehavior(name, s)
}

// WithRoutes adds route rules ahead of the rules read from route files.
func WithRoutes(rules ...Rule) Option {
	return internal.WithRoutes(rules...)
}

// WithController registers a controller factory.
func WithController(module, name string, f Factory) Option {
	return internal.WithController(module, name, f)
}

// WithLayerController registers a controller factory in a named layer.
func WithLayerController(module, layer, name string, f Factory) Option {
	return internal.WithLayerController(module, layer, name, f)
}

// WithService registers v as a service that actions receive by type.
//
// Example:
//
//	anvil.WithService[*sql.DB](db)
func WithService[T any](v T) Option {
	return internal.WithService(v)
}

// WithInit adds a function run once during app initialization.
func WithInit(fn InitFunc) Option {
	return internal.WithInit(fn)
}

// WithModuleInit adds a function run once when module is first resolved.
func WithModuleInit(module string, fn InitFunc) Option {
	return internal.WithModuleInit(module, fn)
}

// WithLangs replaces the language packs.
func WithLangs(p *lang.Packs) Option {
	return internal.WithLangs(p)
}

// WithCache sets the request cache backend.
//
// Example:
//
//	client, _ := cache.DialRedis(ctx, os.Getenv("REDIS_URL"), 3, time.Second)
//	anvil.WithCache(cache.NewRedis[anvil.CachedResponse](client, cache.WithPrefix("page:")))
func WithCache(c cache.Cache[CachedResponse]) Option {
	return internal.WithCache(c)
}

// WithMetrics serves Prometheus metrics at path (default "/metrics").
func WithMetrics(namespace, path string) Option {
	return internal.WithMetrics(namespace, path)
}

// WithMiddleware adds HTTP middleware, applied in the order provided.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithMiddleware(mw...)
}

// WithMount mounts an extra handler next to the pipeline.
func WithMount(pattern string, h http.Handler) Option {
	return internal.WithMount(pattern, h)
}

// WithErrorHandler sets a custom handler for pipeline errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithHealthChecks enables health check endpoints.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Address sets the server listen address.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the graceful shutdown timeout.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run before the listener opens.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a function run during graceful shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// Domain maps a host pattern to an app.
func Domain(pattern string, app *App) RunOption {
	return internal.Domain(pattern, app)
}

// Fallback sets the app for hosts matching no domain.
func Fallback(app *App) RunOption {
	return internal.Fallback(app)
}

// WithContext sets the base context of the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Request helpers

// Param returns a typed request parameter. Missing or unparsable values
// yield the zero value.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	return internal.Param[T](r, name)
}

// ParamDefault returns a typed request parameter or defaultValue.
func ParamDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string, defaultValue T) T {
	return internal.ParamDefault(r, name, defaultValue)
}

// RequestFromContext returns the request of the current run.
func RequestFromContext(ctx context.Context) (*Request, bool) {
	return internal.RequestFromContext(ctx)
}

// DispatchExtractor adds the resolved module, controller and action to
// log entries.
func DispatchExtractor() ContextExtractor {
	return internal.DispatchExtractor()
}

// LangsetExtractor adds the language set to log entries.
func LangsetExtractor() ContextExtractor {
	return internal.LangsetExtractor()
}

// Errors

// NewHTTPError creates an HTTP error.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// ErrBadRequest creates a 400 error.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrNotFound creates a 404 error.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrInternal creates a 500 error.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// WithError sets the underlying error.
func WithError(err error) HTTPErrorOption { return internal.WithError(err) }

// WithDetail sets the extended description.
func WithDetail(detail string) HTTPErrorOption { return internal.WithDetail(detail) }

// WithTitle sets the error title.
func WithTitle(title string) HTTPErrorOption { return internal.WithTitle(title) }

// WithErrorCode sets an application error code.
func WithErrorCode(code string) HTTPErrorOption { return internal.WithErrorCode(code) }

// IsHTTPError reports whether err is or wraps an HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// StatusOf returns the HTTP status for err.
func StatusOf(err error) int {
	return internal.StatusOf(err)
}

// DefaultErrorHandler renders errors as JSON or plain text.
func DefaultErrorHandler(debug bool) ErrorHandler {
	return internal.DefaultErrorHandler(debug)
}
