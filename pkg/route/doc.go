// Package route holds the rule table that maps request paths to dispatch
// descriptors, and the positional parser used when no rule matches.
//
// # Rule Patterns
//
// Patterns are "/"-separated segments:
//
//   - literal: "blog" must equal the segment
//   - capture: ":id" binds the segment to var "id"
//   - optional: "[:page]" binds when present; only trailing segments may be optional
//   - a trailing "$" requires the whole path to be consumed
//
// Without "$", segments after the pattern are read as key/value pairs:
// "blog/:id" on "blog/5/sort/desc" yields {id: 5, sort: desc}.
//
// Captures may be constrained with regular expressions through Rule.Patterns.
//
// # Targets
//
// A rule has exactly one target. Capture names prefixed with ":" inside the
// target are replaced with the captured values:
//
//	route.Rule{Pattern: "blog/:id", Route: "index/blog/read"}      // module descriptor
//	route.Rule{Pattern: "old/:id$", Redirect: "/blog/:id", Status: 301}
//	route.Rule{Pattern: "api/user", Controller: "api/user/list"}   // controller descriptor
//	route.Rule{Pattern: "ping$", Handler: func() string { return "pong" }}
//
// # Domain Deployment
//
// Rules with a Domain are consulted only in domain-deploy mode, before the
// global rules, for requests whose host matches exactly or through a
// "*.example.com" wildcard. With a domain root set (url_domain_root), a
// Domain without dots names a subdomain of the root, and "*" names any
// subdomain:
//
//	table.SetDomainRoot("example.com")
//	route.Rule{Pattern: "home", Route: "blog/index/index", Domain: "blog"}
//
// # Rule Files and the Compiled Cache
//
// Rule files are YAML lists of rules. WriteCache stores the merged rule set
// as <runtime>/route.json; when that file exists it is loaded instead of the
// rule files. Validity is existence only: edit the rule files, then rebuild
// or clear the cache. Handler and Callable targets are code and never
// appear in files or the cache.
package route
