package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Getter is a read-only key-value lookup.
type Getter interface {
	Get(key string) any
}

// Store is a layered configuration store: defaults, loaded files, runtime
// values and per-module layers, with environment overrides on top.
type Store struct {
	base      map[string]any
	modules   map[string]map[string]any
	envPrefix string
	lookupEnv func(string) (string, bool)
	mu        sync.RWMutex
}

// Option configures the Store.
type Option func(*Store)

// WithEnvPrefix enables environment overrides: key "a.b" is read from
// <prefix>A_B. An empty prefix disables overrides.
func WithEnvPrefix(prefix string) Option {
	return func(s *Store) {
		s.envPrefix = prefix
	}
}

// WithEnvLookup replaces os.LookupEnv, mostly for tests.
func WithEnvLookup(fn func(string) (string, bool)) Option {
	return func(s *Store) {
		if fn != nil {
			s.lookupEnv = fn
		}
	}
}

// WithValues merges values over the defaults.
func WithValues(values map[string]any) Option {
	return func(s *Store) {
		merge(s.base, values)
	}
}

// New creates a Store seeded with Defaults().
func New(opts ...Option) *Store {
	s := &Store{
		base:      Defaults(),
		modules:   make(map[string]map[string]any),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value for a dotted key, or nil.
func (s *Store) Get(key string) any {
	if v, ok := s.env(key); ok {
		return v
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, _ := lookup(s.base, key)
	return v
}

// Has reports whether a dotted key is set.
func (s *Store) Has(key string) bool {
	if _, ok := s.env(key); ok {
		return true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := lookup(s.base, key)
	return ok
}

// Set stores a value under a dotted key in the base layer.
func (s *Store) Set(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	assign(s.base, key, value)
	return nil
}

// Load merges a YAML file into the base layer, under key when it is not
// empty. A missing file is not an error.
func (s *Store) Load(fsys fs.FS, name, key string) error {
	values, err := readFile(fsys, name)
	if err != nil || values == nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	mergeAt(s.base, key, values)
	return nil
}

// LoadModule merges a YAML file into the layer of module, under key when it
// is not empty. A missing file is not an error.
func (s *Store) LoadModule(module string, fsys fs.FS, name, key string) error {
	values, err := readFile(fsys, name)
	if err != nil || values == nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	layer, ok := s.modules[module]
	if !ok {
		layer = make(map[string]any)
		s.modules[module] = layer
	}
	mergeAt(layer, key, values)
	return nil
}

// Module returns a view reading the module layer first.
// An empty module name yields a view of the base layer.
func (s *Store) Module(name string) *View {
	return &View{store: s, module: name}
}

// All returns a deep copy of the base layer.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.base)
}

func (s *Store) env(key string) (any, bool) {
	if s.envPrefix == "" || key == "" {
		return nil, false
	}
	name := s.envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	raw, ok := s.lookupEnv(name)
	if !ok {
		return nil, false
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw, true
	}
	return v, true
}

// View reads a module layer with fallback to the base layer.
type View struct {
	store  *Store
	module string
}

// Get returns the value for a dotted key.
func (v *View) Get(key string) any {
	if val, ok := v.store.env(key); ok {
		return val
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	if layer, ok := v.store.modules[v.module]; ok {
		if val, ok := lookup(layer, key); ok {
			return val
		}
	}
	val, _ := lookup(v.store.base, key)
	return val
}

// Name returns the module the view reads.
func (v *View) Name() string { return v.module }

func readFile(fsys fs.FS, name string) (map[string]any, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrReadFile, name, err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParseFile, name, err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	values, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotMapping, name)
	}
	return values, nil
}

func lookup(m map[string]any, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	var cur any = m
	for part := range strings.SplitSeq(key, ".") {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = node[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func assign(m map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	node := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := node[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
}

func mergeAt(dst map[string]any, key string, values map[string]any) {
	if key == "" {
		merge(dst, values)
		return
	}
	existing, _ := lookup(dst, key)
	if node, ok := existing.(map[string]any); ok {
		merge(node, values)
		return
	}
	assign(dst, key, clone(values))
}

// merge deep-merges src into dst; nested mappings merge, everything else
// is replaced.
func merge(dst, src map[string]any) {
	for k, v := range src {
		if sv, ok := v.(map[string]any); ok {
			if dv, ok := dst[k].(map[string]any); ok {
				merge(dv, sv)
				continue
			}
			dst[k] = clone(sv)
			continue
		}
		dst[k] = v
	}
}

func clone(m map[string]any) map[string]any {
	out := maps.Clone(m)
	for k, v := range out {
		if nested, ok := v.(map[string]any); ok {
			out[k] = clone(nested)
		}
	}
	return out
}
