package internal

import (
	"context"
	"io/fs"
	"reflect"
	"strings"

	"github.com/dmitrymomot/anvil/pkg/config"
	"github.com/dmitrymomot/anvil/pkg/dispatch"
	"github.com/dmitrymomot/anvil/pkg/hook"
)

// ActionCall is a resolved action, passed to action_begin subscribers
// before it is invoked.
type ActionCall struct {
	Controller any
	Method     string
	Args       Args
	fn         reflect.Value
}

// module resolves a module descriptor to a controller action and invokes it.
func (a *App) module(ctx context.Context, req *Request, p dispatch.Path, convert *bool) (any, error) {
	base := a.config.Module("")
	moduleName := p.Module()

	if config.Bool(base, "app_multi_module") {
		if moduleName == "" && req.Bind() == "" {
			moduleName = config.String(base, "default_module")
		}
		if moduleName != "" {
			moduleName = foldName(moduleName)
		}
		available, resolved := a.moduleAvailable(moduleName, req.Bind())
		if !available {
			return nil, notFound(ErrModuleNotFound, moduleName)
		}
		moduleName = resolved

		req.SetModule(moduleName)
		if err := a.initModule(ctx, moduleName, req); err != nil {
			return nil, err
		}
	} else {
		moduleName = ""
		req.SetModule("")
	}

	cfg := a.config.Module(moduleName)

	lower := config.Bool(cfg, "url_convert")
	if convert != nil {
		lower = *convert
	}

	controller := p.Controller()
	if controller == "" {
		controller = config.String(cfg, "default_controller")
	}
	action := p.Action()
	if action == "" {
		action = config.String(cfg, "default_action")
	}
	if !validController(controller) {
		return nil, notFound(ErrControllerNotFound, controller)
	}
	if !validIdent(action) {
		return nil, notFound(ErrActionNotFound, action)
	}
	if lower {
		controller = strings.ToLower(controller)
		action = strings.ToLower(action)
	}

	req.SetController(camel(controller))
	req.SetAction(action)

	// Module config and key placeholders are known from here on.
	if resp, ok := a.cached(ctx, req); ok {
		return nil, Respond(resp)
	}

	if err := a.decide(ctx, req, hook.ModuleInit, req); err != nil {
		return nil, err
	}

	instance := a.controller(moduleName, controller, cfg)
	if instance == nil {
		return nil, notFound(ErrControllerNotFound, req.Controller())
	}

	call, err := a.action(req, instance, action, cfg)
	if err != nil {
		return nil, err
	}

	if err := a.decide(ctx, req, hook.ActionBegin, call); err != nil {
		return nil, err
	}
	return a.invoker.Invoke(ctx, req, call.fn, call.Args)
}

// moduleAvailable applies the binding and the deny list. A binding is
// exclusive: only the bound module is reachable, directories or not.
func (a *App) moduleAvailable(module, bind string) (bool, string) {
	if bind != "" {
		switch module {
		case "":
			return true, bind
		case bind:
			return true, bind
		}
		return false, module
	}
	if !validIdent(module) {
		return false, module
	}
	for _, denied := range config.Strings(a.config, "deny_module_list") {
		if foldName(denied) == module {
			return false, module
		}
	}
	return a.moduleDirExists(module), module
}

func (a *App) moduleDirExists(module string) bool {
	info, err := fs.Stat(a.fsys, module)
	return err == nil && info.IsDir()
}

// controller builds the controller instance, falling back to the empty
// controller of the module.
func (a *App) controller(module, name string, cfg config.Getter) any {
	layer := config.String(cfg, "url_controller_layer")
	suffix := config.Bool(cfg, "controller_suffix")

	if c := a.registry.New(module, layer, controllerName(name, layer, suffix)); c != nil {
		return c
	}
	if empty := config.String(cfg, "empty_controller"); empty != "" {
		return a.registry.New(module, layer, controllerName(empty, layer, suffix))
	}
	return nil
}

// action picks the method for the action name: the method itself, then the
// empty action receiving the name.
func (a *App) action(req *Request, instance any, action string, cfg config.Getter) (*ActionCall, error) {
	v := reflect.ValueOf(instance)
	positional := req.Positional()

	method := camel(action + config.String(cfg, "action_suffix"))
	if m := v.MethodByName(method); m.IsValid() {
		named := req.Params()
		if config.Bool(cfg, "url_param_type") {
			named = req.RouteVars()
		}
		return &ActionCall{
			Controller: instance,
			Method:     method,
			Args:       Args{Named: named, Positional: positional},
			fn:         m,
		}, nil
	}

	empty := config.String(cfg, "empty_action")
	if empty == "" {
		empty = "Empty"
	}
	if m := v.MethodByName(camel(empty)); m.IsValid() {
		return &ActionCall{
			Controller: instance,
			Method:     camel(empty),
			Args:       Args{Named: req.Params(), Positional: []string{action}},
			fn:         m,
		}, nil
	}

	return nil, notFound(ErrActionNotFound, req.Controller()+"."+method)
}
