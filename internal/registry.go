package internal

import (
	"slices"
	"strings"
	"sync"
)

// DefaultLayer is the controller layer used when none is configured.
const DefaultLayer = "controller"

// Factory builds a fresh controller instance for one request.
type Factory func() any

// Registry maps module/layer/name to controller factories. It is filled at
// startup and only read while requests are handled.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register stores a controller factory. The name is normalized the same way
// request controller names are, so "user_profile" and "UserProfile" are one
// entry. An empty layer means DefaultLayer.
func (r *Registry) Register(module, layer, name string, f Factory) {
	if f == nil || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[registryKey(module, layer, name)] = f
}

// Has reports whether a controller is registered.
func (r *Registry) Has(module, layer, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[registryKey(module, layer, name)]
	return ok
}

// New builds the named controller, or returns nil when it is unknown.
func (r *Registry) New(module, layer, name string) any {
	r.mu.RLock()
	f, ok := r.factories[registryKey(module, layer, name)]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	return f()
}

// Names lists registered controllers as "module/layer/Name", sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func registryKey(module, layer, name string) string {
	if layer == "" {
		layer = DefaultLayer
	}
	return foldName(module) + "/" + layer + "/" + camel(name)
}

// controllerName applies the class suffix convention: with suffix on,
// controller "user" in layer "controller" is looked up as "UserController".
func controllerName(name, layer string, suffix bool) string {
	if !suffix {
		return name
	}
	if layer == "" {
		layer = DefaultLayer
	}
	return name + "_" + strings.ToLower(layer)
}
