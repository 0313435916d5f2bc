package hostrouter

import (
	"strings"
	"sync"
)

// Table maps host patterns to values.
// Exact: "api.example.com"
// Wildcard: "*.example.com"
type Table[V any] struct {
	exact    map[string]V // "api.example.com" -> value
	wildcard map[string]V // "example.com" -> value (for *.example.com)
	mu       sync.RWMutex
}

// NewTable creates an empty host table.
func NewTable[V any]() *Table[V] {
	return &Table[V]{
		exact:    make(map[string]V),
		wildcard: make(map[string]V),
	}
}

// Set stores v under the host pattern. Empty patterns are ignored.
func (t *Table[V]) Set(pattern string, v V) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if strings.HasPrefix(pattern, "*.") {
		// Wildcard: "*.example.com" stored as "example.com"
		t.wildcard[pattern[2:]] = v
	} else {
		t.exact[pattern] = v
	}
}

// Get returns the value stored under the exact pattern, without wildcard
// resolution.
func (t *Table[V]) Get(pattern string) (V, bool) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))

	t.mu.RLock()
	defer t.mu.RUnlock()

	if strings.HasPrefix(pattern, "*.") {
		v, ok := t.wildcard[pattern[2:]]
		return v, ok
	}
	v, ok := t.exact[pattern]
	return v, ok
}

// Lookup resolves a request host: exact match first, then the wildcard of
// its parent domain.
func (t *Table[V]) Lookup(host string) (V, bool) {
	host = normalizeHost(host)

	t.mu.RLock()
	defer t.mu.RUnlock()

	if v, ok := t.exact[host]; ok {
		return v, true
	}

	// *.example.com matches foo.example.com
	if _, domain, ok := strings.Cut(host, "."); ok {
		if v, ok := t.wildcard[domain]; ok {
			return v, true
		}
	}

	var zero V
	return zero, false
}

// Len returns the number of stored patterns.
func (t *Table[V]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.exact) + len(t.wildcard)
}

// Patterns returns all stored patterns, wildcards in "*." form.
func (t *Table[V]) Patterns() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, 0, len(t.exact)+len(t.wildcard))
	for p := range t.exact {
		out = append(out, p)
	}
	for p := range t.wildcard {
		out = append(out, "*."+p)
	}
	return out
}

// normalizeHost strips the port and converts to lowercase.
func normalizeHost(host string) string {
	// Strip port if present
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		// Check it's not an IPv6 address
		if !strings.Contains(host[idx:], "]") {
			host = host[:idx]
		}
	}
	return strings.ToLower(host)
}
