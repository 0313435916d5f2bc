package sanitizer

import (
	"fmt"
	"html"
	"strings"
)

// Filter transforms a single parameter value.
type Filter func(string) string

var builtin = map[string]Filter{
	"trim":       strings.TrimSpace,
	"strip_tags": StripTags,
	"safe_html":  SafeHTML,
	"escape":     html.EscapeString,
	"lower":      strings.ToLower,
	"upper":      strings.ToUpper,
}

// Lookup returns a built-in filter by name.
func Lookup(name string) (Filter, bool) {
	f, ok := builtin[strings.TrimSpace(name)]
	return f, ok
}

// Names returns the built-in filter names.
func Names() []string {
	out := make([]string, 0, len(builtin))
	for name := range builtin {
		out = append(out, name)
	}
	return out
}

// Chain builds one filter from a comma separated list of names, applied
// left to right. An empty list yields nil.
func Chain(names string) (Filter, error) {
	var chain []Filter
	for name := range strings.SplitSeq(names, ",") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		f, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
		}
		chain = append(chain, f)
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return func(s string) string {
		for _, f := range chain {
			s = f(s)
		}
		return s
	}, nil
}

// Apply runs f over every value, recursing into slices and maps of
// strings. Non-string values pass through unchanged.
func Apply(f Filter, v any) any {
	if f == nil {
		return v
	}
	switch val := v.(type) {
	case string:
		return f(val)
	case []string:
		out := make([]string, len(val))
		for i, s := range val {
			out[i] = f(s)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Apply(f, item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Apply(f, item)
		}
		return out
	default:
		return v
	}
}
