package dispatch

import "strings"

// Path is the ordered triple [module, controller, action].
// Empty segments fall back to configured defaults during resolution.
type Path [3]string

// ParsePath splits s on "/" and right-aligns the segments, so "b/c" becomes
// ["", "b", "c"] and "c" becomes ["", "", "c"]. Only the last three segments
// are kept.
func ParsePath(s string) Path {
	var p Path
	s = strings.Trim(s, "/")
	if s == "" {
		return p
	}
	parts := strings.Split(s, "/")
	if len(parts) > len(p) {
		parts = parts[len(parts)-len(p):]
	}
	copy(p[len(p)-len(parts):], parts)
	return p
}

// NewPath builds a path from its segments.
func NewPath(module, controller, action string) Path {
	return Path{module, controller, action}
}

func (p Path) Module() string     { return p[0] }
func (p Path) Controller() string { return p[1] }
func (p Path) Action() string     { return p[2] }

// String joins the non-empty prefix-trimmed segments with "/".
func (p Path) String() string {
	start := 0
	for start < len(p)-1 && p[start] == "" {
		start++
	}
	return strings.Join(p[start:], "/")
}
