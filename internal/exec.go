package internal

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/hook"
)

// Exec runs a descriptor and returns the raw result. Pointer descriptors
// are accepted; a nil descriptor is invalid.
func (a *App) Exec(ctx context.Context, req *Request, d dispatch.Descriptor) (any, error) {
	switch d := deref(d).(type) {
	case dispatch.Redirect:
		return NewResponse(d.URL, FormatRedirect).WithCode(d.Status), nil
	case dispatch.Module:
		return a.module(ctx, req, d.Path, d.Convert)
	case dispatch.Controller:
		return a.controllerAction(ctx, req, d.Name, d.Vars)
	case dispatch.Method:
		return a.invoker.Invoke(ctx, req, d.Callable, Args{
			Named:      merge(req.Params(), d.Vars),
			Positional: req.Positional(),
		})
	case dispatch.Function:
		return a.invoker.Invoke(ctx, req, d.Callable, Args{
			Named:      req.Params(),
			Positional: req.Positional(),
		})
	case dispatch.Response:
		return d.Value, nil
	}

	return nil, ErrInternal(ErrInvalidDispatchDescriptor.Error(),
		WithError(ErrInvalidDispatchDescriptor),
		WithDetail(fmt.Sprintf("%T", d)),
	)
}

func deref(d dispatch.Descriptor) dispatch.Descriptor {
	switch p := d.(type) {
	case *dispatch.Redirect:
		if p != nil {
			return *p
		}
	case *dispatch.Module:
		if p != nil {
			return *p
		}
	case *dispatch.Controller:
		if p != nil {
			return *p
		}
	case *dispatch.Method:
		if p != nil {
			return *p
		}
	case *dispatch.Function:
		if p != nil {
			return *p
		}
	case *dispatch.Response:
		if p != nil {
			return *p
		}
	default:
		return d
	}
	return nil
}

// controllerAction runs a "[module/]controller/action" target through the
// registry, without binding or deny-list checks. The module scope is
// initialized when its directory exists.
func (a *App) controllerAction(ctx context.Context, req *Request, name string, vars map[string]any) (any, error) {
	if strings.TrimSpace(name) == "" {
		return nil, notFound(ErrControllerNotFound, name)
	}
	p := dispatch.ParsePath(name)

	module := p.Module()
	if module == "" {
		module = req.Module()
	}
	if module == "" {
		module = req.Bind()
	}
	if module == "" && config.Bool(a.config, "app_multi_module") {
		module = config.String(a.config, "default_module")
	}
	if !config.Bool(a.config, "app_multi_module") {
		module = ""
	}
	module = foldName(module)
	if module != "" && !validIdent(module) {
		return nil, notFound(ErrModuleNotFound, module)
	}
	req.SetModule(module)
	if module != "" && a.moduleDirExists(module) {
		if err := a.initModule(ctx, module, req); err != nil {
			return nil, err
		}
	}
	cfg := a.config.Module(module)

	controller := p.Controller()
	if controller == "" {
		controller = req.Controller()
	}
	if controller == "" {
		controller = config.String(cfg, "default_controller")
	}
	if !validController(controller) {
		return nil, notFound(ErrControllerNotFound, controller)
	}
	action := p.Action()
	if !validIdent(action) {
		return nil, notFound(ErrActionNotFound, action)
	}
	req.SetController(camel(controller))
	req.SetAction(action)

	if resp, ok := a.cached(ctx, req); ok {
		return nil, Respond(resp)
	}

	instance := a.controller(module, controller, cfg)
	if instance == nil {
		return nil, notFound(ErrControllerNotFound, camel(controller))
	}

	req.SetRouteVars(stringVars(vars), nil)
	call, err := a.action(req, instance, action, cfg)
	if err != nil {
		return nil, err
	}
	call.Args.Named = merge(call.Args.Named, vars)

	if err := a.decide(ctx, req, hook.ActionBegin, call); err != nil {
		return nil, err
	}
	return a.invoker.Invoke(ctx, req, call.fn, call.Args)
}

func merge(params map[string]any, vars map[string]any) map[string]any {
	out := make(map[string]any, len(params)+len(vars))
	maps.Copy(out, params)
	maps.Copy(out, vars)
	return out
}

func stringVars(vars map[string]any) map[string]string {
	out := make(map[string]string, len(vars))
	for k, v := range vars {
		out[k] = fmt.Sprint(v)
	}
	return out
}
