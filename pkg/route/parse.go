package route

import (
	"strings"

	"github.com/dmitrymomot/anvil/pkg/dispatch"
)

// ParseOptions controls positional URL parsing.
type ParseOptions struct {
	// MultiModule reads the first segment as the module.
	MultiModule bool
	// Bound omits the module segment because a module binding is fixed.
	Bound bool
	// AutoSearch probes Exists for the longest dotted controller name.
	AutoSearch bool
	Exists     func(module, controller string) bool
}

// Parsed is the result of positional parsing.
type Parsed struct {
	Path dispatch.Path
	// Positional holds every segment after the action.
	Positional []string
	// Named holds complete key/value pairs from Positional.
	Named map[string]string
}

// ParseURL splits path into [module, controller, action, ...params].
// The result depends only on its inputs.
func ParseURL(path, depr string, opts ParseOptions) Parsed {
	parts := Split(path, depr)
	p := Parsed{Named: make(map[string]string)}

	if opts.MultiModule && !opts.Bound && len(parts) > 0 {
		p.Path[0] = parts[0]
		parts = parts[1:]
	}

	if len(parts) > 0 {
		n := 1
		controller := parts[0]
		if opts.AutoSearch && opts.Exists != nil {
			if name, used, ok := searchController(p.Path[0], parts, opts.Exists); ok {
				controller, n = name, used
			}
		}
		p.Path[1] = controller
		parts = parts[n:]
	}

	if len(parts) > 0 {
		p.Path[2] = parts[0]
		parts = parts[1:]
	}

	if len(parts) > 0 {
		p.Positional = parts
		for i := 0; i+1 < len(parts); i += 2 {
			p.Named[parts[i]] = parts[i+1]
		}
	}
	return p
}

// searchController tries "a.b.c", "a.b", "a" and their lower-case forms,
// returning the first existing name and the number of segments it uses.
func searchController(module string, parts []string, exists func(string, string) bool) (string, int, bool) {
	for n := len(parts); n >= 1; n-- {
		name := strings.Join(parts[:n], ".")
		for _, candidate := range []string{name, strings.ToLower(name)} {
			if exists(module, candidate) {
				return candidate, n, true
			}
		}
	}
	return "", 0, false
}
