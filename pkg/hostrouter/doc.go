// Package hostrouter provides host-keyed lookup tables.
//
// A Table maps host patterns to values of any type, supporting both exact
// matches and wildcard patterns. It backs domain-deployed route rules, where
// each host carries its own rule subset.
//
// # Host Patterns
//
// Two pattern types are supported:
//
//   - Exact: "api.example.com" matches only that host
//   - Wildcard: "*.example.com" matches any subdomain (foo.example.com, bar.example.com)
//
// Exact matches take priority over wildcard matches. Host matching is case-insensitive,
// and ports are stripped before matching.
//
// # Usage
//
//	t := hostrouter.NewTable[[]string]()
//	t.Set("api.example.com", []string{"v1"})
//	t.Set("*.example.com", []string{"tenant"})
//	rules, ok := t.Lookup("foo.example.com:8080") // []string{"tenant"}, true
//
// # Subdomains
//
// Subdomain cuts a host down to its label under a root domain, which is how
// route rules keyed by a bare subdomain are found:
//
//	hostrouter.Subdomain("blog.example.com:8080", "example.com") // "blog"
//
// # IPv6 Support
//
// IPv6 addresses are supported. Addresses with ports like "[::1]:8080" keep
// their brackets during normalization.
package hostrouter
