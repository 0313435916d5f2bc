// Package dispatch defines dispatch descriptors: tagged values describing
// what the request pipeline must execute for a request.
//
// Every descriptor kind is its own struct type, so a descriptor can only carry
// the fields of its own kind:
//
//   - Redirect: respond with a redirect to URL
//   - Module: resolve a module/controller/action path
//   - Controller: invoke a controller action by name through the registry
//   - Method: invoke a bound method value
//   - Function: invoke a closure with request parameters
//   - Response: return a pre-built value verbatim
//
// # Usage
//
//	d := dispatch.Module{Path: dispatch.ParsePath("admin/user/show")}
//	switch v := d.(type) {
//	case dispatch.Module:
//	    fmt.Println(v.Path.Controller())
//	}
//
// Callers may build a descriptor directly and hand it to the pipeline to
// bypass routing.
package dispatch
