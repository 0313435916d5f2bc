package internal

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/anvil/pkg/cache"
	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/hook"
	"github.com/dmitrymomot/anvil/pkg/lang"
	"github.com/dmitrymomot/anvil/pkg/logger"
	"github.com/dmitrymomot/anvil/pkg/metrics"
	"github.com/dmitrymomot/anvil/pkg/route"
	"github.com/dmitrymomot/anvil/pkg/sanitizer"
)

// Version is the framework version.
const Version = "1.0.0"

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// InitFunc runs once during app or module initialization with the config
// view of that scope.
type InitFunc func(ctx context.Context, cfg config.Getter) error

// App resolves requests to application code and turns the results into
// responses. It holds the process-wide state: configuration, hooks, route
// table, controller registry, service container and language packs.
// All of it is populated at startup; lazily loaded parts are guarded and
// loaded once.
type App struct {
	config    *config.Store
	fsys      fs.FS
	hooks     *hook.Bus
	routes    *route.Table
	registry  *Registry
	container *Container
	invoker   *Invoker
	langs     *lang.Packs
	cache     cache.Cache[CachedResponse]
	metrics   *metrics.Collector
	logger    *slog.Logger
	filter    sanitizer.Filter

	bind        string
	entryName   string
	runtimeDir  string
	preset      dispatch.Descriptor
	initFuncs   []InitFunc
	moduleInits map[string][]InitFunc
	behaviors   map[string]hook.Subscriber

	override atomic.Pointer[routeOverride]

	initOnce sync.Once
	initErr  error

	routesOnce sync.Once
	routesErr  error

	modulesMu   sync.RWMutex
	modulesDone map[string]struct{}
	moduleHooks map[string]*hook.Bus
	moduleGroup singleflight.Group

	// HTTP adapter
	errorHandler ErrorHandler
	middlewares  []func(http.Handler) http.Handler
	healthConfig *healthConfig
	mounts       []mount
	gatherer     prometheus.Gatherer
	metricsPath  string
}

type routeOverride struct {
	check bool
	must  bool
}

// New creates an application with the given options.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithAppFS(os.DirFS("app")),
//	    anvil.WithController("index", "user", func() any { return &UserController{} }),
//	)
func New(opts ...Option) *App {
	a := &App{
		config:      config.New(),
		hooks:       hook.New(),
		routes:      route.New(),
		registry:    NewRegistry(),
		container:   NewContainer(),
		logger:      logger.NewNope(),
		entryName:   entryName(),
		moduleInits: make(map[string][]InitFunc),
		behaviors:   make(map[string]hook.Subscriber),
		modulesDone: make(map[string]struct{}),
		moduleHooks: make(map[string]*hook.Bus),
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.fsys == nil {
		a.fsys = os.DirFS(".")
	}
	a.invoker = NewInvoker(a.container)
	if a.metrics != nil {
		a.metrics.Attach(a.hooks)
	}
	return a
}

// entryName is the executable base name without extension.
func entryName() string {
	if len(os.Args) == 0 {
		return ""
	}
	base := filepath.Base(os.Args[0])
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Config returns the configuration store.
func (a *App) Config() *config.Store { return a.config }

// Hooks returns the hook bus.
func (a *App) Hooks() *hook.Bus { return a.hooks }

// Routes returns the route table.
func (a *App) Routes() *route.Table { return a.routes }

// Registry returns the controller registry.
func (a *App) Registry() *Registry { return a.registry }

// Container returns the service container.
func (a *App) Container() *Container { return a.container }

// Langs returns the language packs. It is nil before Init.
func (a *App) Langs() *lang.Packs { return a.langs }

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Version returns the framework version.
func (a *App) Version() string { return Version }

// SetRouteCheck overrides url_route_on and url_route_must.
func (a *App) SetRouteCheck(check, must bool) {
	a.override.Store(&routeOverride{check: check, must: must})
}

// Run executes one pipeline run for req.
//
// A run produces either a response or an error. Every run that produces a
// response fires app_end exactly once, including runs ended early by a hook
// decision, a request cache hit or Respond.
func (a *App) Run(ctx context.Context, req *Request) (*Response, error) {
	if err := a.Init(ctx); err != nil {
		return nil, err
	}
	if err := req.FormError(); err != nil {
		return nil, ErrBadRequest("malformed request parameters", WithError(err))
	}
	ctx = WithRequest(ctx, req)

	a.resolveBind(req)
	req.SetFilter(a.filter)
	if err := a.resolveLang(req); err != nil {
		return nil, err
	}

	d := req.Dispatch()
	if d == nil {
		d = a.preset
	}
	if d == nil {
		var err error
		if d, err = a.routeDispatch(req); err != nil {
			a.debug(ctx, req, nil, err)
			return nil, err
		}
	}
	req.SetDispatch(d)
	a.debug(ctx, req, d, nil)

	data, err := a.begin(ctx, req, d)
	if resp, ok := asResponseError(err); ok {
		data, err = resp, nil
	}
	if err != nil {
		return nil, err
	}

	resp := a.shape(req, data)
	a.store(ctx, req, resp)

	if _, err := a.notify(ctx, req, hook.AppEnd, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (a *App) begin(ctx context.Context, req *Request, d dispatch.Descriptor) (any, error) {
	if err := a.decide(ctx, req, hook.AppBegin, d); err != nil {
		return nil, err
	}
	if resp, ok := a.cached(ctx, req); ok {
		return nil, Respond(resp)
	}
	return a.Exec(ctx, req, d)
}

// decide fires a hook; a *Response decision ends the run with it.
func (a *App) decide(ctx context.Context, req *Request, name string, payload any) error {
	decision, err := a.notify(ctx, req, name, payload)
	if err != nil {
		return err
	}
	if resp, ok := decision.(*Response); ok && resp != nil {
		return Respond(resp)
	}
	return nil
}

// notify fires a hook on the app bus, then on the bus of the request
// module unless the app subscribers already decided.
func (a *App) notify(ctx context.Context, req *Request, name string, payload any) (any, error) {
	decision, err := a.hooks.Notify(ctx, name, payload)
	if err != nil || decision != nil {
		return decision, err
	}
	if bus := a.moduleBus(req.Module()); bus != nil {
		return bus.Notify(ctx, name, payload)
	}
	return nil, nil
}

func (a *App) moduleBus(module string) *hook.Bus {
	if module == "" {
		return nil
	}
	a.modulesMu.RLock()
	defer a.modulesMu.RUnlock()
	return a.moduleHooks[module]
}

// Message returns the language pack message for key in the request
// language set. The request module's pack wins over the app pack.
func (a *App) Message(req *Request, key string, args map[string]any) string {
	if a.langs == nil {
		return key
	}
	return a.langs.Module(req.Module()).Get(req.Langset(), key, args)
}

// resolveBind applies the configured module binding, if any.
func (a *App) resolveBind(req *Request) {
	switch {
	case a.bind != "":
		req.SetBind(foldName(a.bind))
	case config.String(a.config, "bind_module") != "":
		req.SetBind(foldName(config.String(a.config, "bind_module")))
	case config.Bool(a.config, "auto_bind_module"):
		name := foldName(a.entryName)
		if name != "" && name != "index" && validIdent(name) && a.moduleDirExists(name) {
			req.SetBind(name)
		}
	}
}

func (a *App) resolveLang(req *Request) error {
	var langset string
	if config.Bool(a.config, "lang_switch_on") {
		langset = a.langs.Detect(req.Raw())
	} else {
		langset = a.langs.Range(config.String(a.config, "default_lang"))
	}
	req.SetLangset(langset)
	return a.langs.Load(a.fsys, langset, "lang/"+langset+".yaml")
}

// shape converts an action result into a response.
func (a *App) shape(req *Request, data any) *Response {
	if resp, ok := data.(*Response); ok && resp != nil {
		return resp
	}
	cfg := a.config.Module(req.Module())
	format := config.String(cfg, "default_return_type")
	if req.IsAjax() {
		format = config.String(cfg, "default_ajax_return")
	}
	return NewResponse(data, format)
}

func (a *App) debug(ctx context.Context, req *Request, d dispatch.Descriptor, err error) {
	if !config.Bool(a.config, "app_debug") {
		return
	}
	attrs := []any{
		slog.String("path", req.Path()),
		slog.String("method", req.Method()),
		slog.String("dispatch", dispatch.String(d)),
		slog.Any("header", req.Headers()),
		slog.Any("params", req.Params()),
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
	}
	a.logger.InfoContext(ctx, "dispatch", attrs...)
}
