// Package anvil is a request-lifecycle orchestrator for modular MVC
// applications.
//
// An incoming request is resolved into a dispatch descriptor (a redirect, a
// module/controller/action path, a controller target, a bound callable, a
// closure or a prepared response), the target is invoked, and its result is
// shaped into a response. Hook points let application code observe the run
// or end it early.
//
// # Quick Start
//
//	type Index struct{}
//
//	func (Index) Index() string { return "hello" }
//
//	func (Index) Show(id int) (map[string]any, error) {
//	    return map[string]any{"id": id}, nil
//	}
//
//	app := anvil.New(
//	    anvil.WithAppFS(os.DirFS("app")),
//	    anvil.WithController("index", "index", func() any { return Index{} }),
//	)
//
//	if err := app.Serve(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// GET /index/index/show/5 calls Index.Show(5) in module "index".
//
// # Application Layout
//
// The application FS holds configuration and one directory per module:
//
//	app/
//	    config.yaml       framework and application settings
//	    database.yaml     loaded under the "database" key
//	    extra/*.yaml      loaded under the file name
//	    route.yaml        route rules
//	    tags.yaml         hook point -> behavior names
//	    lang/en.yaml      language pack
//	    admin/            module "admin"
//	        config.yaml   module config layer
//	        tags.yaml
//	        lang/en.yaml
//
// A module is reachable only if its directory exists, it is not listed in
// deny_module_list, and no other module is bound.
//
// # Routing
//
// With url_route_on, route rules are checked first; positional parsing is
// the fallback unless url_route_must is set:
//
//	- pattern: blog/:id$
//	  route: index/blog/show
//	  patterns:
//	    id: '\d+'
//	- pattern: old-home
//	  redirect: /
//	  status: 301
//
// With url_domain_deploy, rules carrying a domain are checked first. Set
// url_domain_root to key rules by subdomain ("blog", or "*" for any).
//
// "anvil route build" compiles the rule files into the runtime directory.
// The compiled file wins over the sources until it is cleared.
//
// # Actions
//
// Controllers are created per request by their factory. Action arguments
// are bound by type: context.Context, *anvil.Request, services registered
// with WithService, a struct with `param` tags, and scalars taken from the
// positional URL segments in order.
//
// Actions return nothing, a value, or a value and an error. Returning
// anvil.Respond(resp) as the error ends the run with resp.
//
// # Hooks
//
// The pipeline fires app_init, app_begin, module_init, action_begin and
// app_end. A subscriber returning a *Response from app_begin, module_init
// or action_begin ends the run with it; app_end still fires.
//
// Behaviors named in <module>/tags.yaml and messages in <module>/lang only
// apply to requests of that module. App.Message looks a key up for the
// request module, then the app.
//
// # Packages
//
//   - pkg/config: layered YAML configuration with module overrides
//   - pkg/route: route rules, URL parsing and the compiled rule file
//   - pkg/dispatch: dispatch descriptors
//   - pkg/hook: the hook bus
//   - pkg/lang: language packs
//   - pkg/cache: request cache backends (memory, Redis)
//   - pkg/sanitizer: parameter filters
//   - pkg/metrics: Prometheus collectors
//   - pkg/health: health endpoints
//   - pkg/logger: slog setup with Sentry fan-out
//   - middlewares: request ID and panic recovery
package anvil
