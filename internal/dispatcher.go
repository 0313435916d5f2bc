package internal

import (
	"context"

	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/route"
)

// routeDispatch resolves the request path into a descriptor: route rules
// first when the check is enabled, then positional parsing.
func (a *App) routeDispatch(req *Request) (dispatch.Descriptor, error) {
	check := config.Bool(a.config, "url_route_on")
	must := config.Bool(a.config, "url_route_must")
	if o := a.override.Load(); o != nil {
		check, must = o.check, o.must
	}

	depr := config.String(a.config, "pathinfo_depr")
	path := req.Path()

	if check {
		if err := a.loadRoutes(); err != nil {
			return nil, err
		}
		if m, ok := a.routes.Check(req, path, depr, config.Bool(a.config, "url_domain_deploy")); ok {
			if m.Bind != "" {
				req.SetBind(foldName(m.Bind))
			}
			req.SetRouteVars(m.Vars, nil)
			return m.Descriptor, nil
		}
		if must {
			return nil, notFound(ErrRouteNotFound, "/"+path)
		}
	}

	parsed := route.ParseURL(path, depr, route.ParseOptions{
		MultiModule: config.Bool(a.config, "app_multi_module"),
		Bound:       req.Bind() != "",
		AutoSearch:  config.Bool(a.config, "controller_auto_search"),
		Exists: func(module, controller string) bool {
			return a.controllerExists(req, module, controller)
		},
	})
	req.SetRouteVars(parsed.Named, parsed.Positional)
	return dispatch.Module{Path: parsed.Path}, nil
}

// loadRoutes imports rule files once per process. A compiled artifact in
// the runtime directory is used whenever it exists.
func (a *App) loadRoutes() error {
	a.routesOnce.Do(func() {
		var (
			rules []route.Rule
			err   error
		)
		a.routes.SetDomainRoot(config.String(a.config, "url_domain_root"))

		dir := a.runtimePath()
		if route.CacheExists(dir) {
			rules, err = route.ReadCache(dir)
		} else {
			rules, err = route.LoadFiles(a.fsys, config.Strings(a.config, "route_config_file"), a.ext())
		}
		if err == nil {
			err = a.routes.Import(rules)
		}
		a.routesErr = err
	})
	return a.routesErr
}

// RouteRules returns the rules read from the route files, ignoring any
// compiled artifact. It is what BuildRoutes writes.
func (a *App) RouteRules(ctx context.Context) ([]route.Rule, error) {
	if err := a.Init(ctx); err != nil {
		return nil, err
	}
	return route.LoadFiles(a.fsys, config.Strings(a.config, "route_config_file"), a.ext())
}

// BuildRoutes writes the compiled rule artifact into the runtime directory
// and returns the number of rules read.
func (a *App) BuildRoutes(ctx context.Context) (int, error) {
	rules, err := a.RouteRules(ctx)
	if err != nil {
		return 0, err
	}
	if err := route.WriteCache(a.runtimePath(), rules); err != nil {
		return 0, err
	}
	return len(rules), nil
}

// ClearRoutes removes the compiled rule artifact.
func (a *App) ClearRoutes() error {
	return route.ClearCache(a.runtimePath())
}

// RuntimePath returns the directory holding generated artifacts.
func (a *App) RuntimePath() string { return a.runtimePath() }

func (a *App) controllerExists(req *Request, module, controller string) bool {
	if module == "" {
		module = req.Bind()
	}
	if module == "" && config.Bool(a.config, "app_multi_module") {
		module = config.String(a.config, "default_module")
	}
	if !config.Bool(a.config, "app_multi_module") {
		module = ""
	}
	cfg := a.config.Module(module)
	layer := config.String(cfg, "url_controller_layer")
	return a.registry.Has(module, layer, controllerName(controller, layer, config.Bool(cfg, "controller_suffix")))
}
