package internal

import (
	"reflect"
	"sync"
)

// Container holds singleton services injected into action parameters by
// type.
type Container struct {
	services map[reflect.Type]reflect.Value
	mu       sync.RWMutex
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{services: make(map[reflect.Type]reflect.Value)}
}

// Set registers v under its dynamic type. Nil values are ignored.
func (c *Container) Set(v any) {
	if v == nil {
		return
	}
	c.set(reflect.TypeOf(v), reflect.ValueOf(v))
}

// Provide registers v under the static type T, which lets interfaces be
// injected.
func Provide[T any](c *Container, v T) {
	c.set(reflect.TypeFor[T](), reflect.ValueOf(&v).Elem())
}

func (c *Container) set(t reflect.Type, v reflect.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[t] = v
}

// Resolve returns the service registered for t.
func (c *Container) Resolve(t reflect.Type) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.services[t]
	return v, ok
}

// Has reports whether a service is registered for t.
func (c *Container) Has(t reflect.Type) bool {
	_, ok := c.Resolve(t)
	return ok
}
