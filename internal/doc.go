// Package internal provides the core types and implementation for the Anvil
// framework.
//
// This package is internal and should not be used directly. Import
// "github.com/dmitrymomot/anvil" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns configuration, hooks, routes, controllers and runs the
//     request pipeline
//   - Request: the incoming request plus the module, controller and action
//     it resolved to
//   - Response: the envelope written back to the client
//   - Registry: controller factories keyed by module, layer and name
//   - Invoker: calls actions and callables with arguments bound by parameter
//     type or by param tag
//   - HTTPError: an error carrying its HTTP status
//
// # Pipeline
//
// A run goes through these steps:
//
//	init (once) -> bind -> language -> descriptor -> app_begin
//	    -> request cache -> Exec -> shape -> app_end
//
// The descriptor comes from the request, the app preset, a matching route
// rule or positional URL parsing, in that order. Exec turns it into a
// result:
//
//	redirect    redirect response
//	module      module/controller/action resolution, then the action
//	controller  registry lookup without module checks
//	method      callable invoked with route vars as named arguments
//	function    callable invoked with request params only
//	response    the value itself
//
// # Hooks
//
// Subscribers of app_begin, module_init and action_begin may return a
// *Response to end the run early. The response still goes through app_end.
// Returning an error ends the run with that error and app_end does not
// fire.
//
// # Actions
//
// Action methods take any mix of context.Context, *Request, registered
// services, a struct with param tags, and scalars filled from positional
// URL segments:
//
//	type Post struct{}
//
//	type showParams struct {
//	    ID   int    `param:"id"`
//	    Page int    `param:"page" default:"1"`
//	}
//
//	func (Post) Show(ctx context.Context, p showParams, repo *Repo) (*Item, error) {
//	    return repo.Find(ctx, p.ID)
//	}
//
// An action may stop the run with a prepared response:
//
//	return nil, anvil.Respond(anvil.NewResponse("/login", anvil.FormatRedirect))
package internal
