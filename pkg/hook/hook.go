package hook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"sync"
)

// Hook points fired by the request pipeline.
const (
	AppInit     = "app_init"
	AppBegin    = "app_begin"
	ModuleInit  = "module_init"
	ActionBegin = "action_begin"
	AppEnd      = "app_end"
)

// Subscriber handles a hook notification.
// A non-nil decision stops the remaining chain and is returned by Notify.
type Subscriber func(ctx context.Context, payload any) (decision any, err error)

// Observer adapts a function that never decides into a Subscriber.
func Observer(fn func(ctx context.Context, payload any)) Subscriber {
	return func(ctx context.Context, payload any) (any, error) {
		fn(ctx, payload)
		return nil, nil
	}
}

// Bus is an ordered observer list per hook name.
// Subscriber lists are expected to be populated at startup and only read
// while requests are handled.
type Bus struct {
	subscribers map[string][]Subscriber
	behaviors   map[string]Subscriber
	logger      *slog.Logger
	mu          sync.RWMutex
}

// Option configures the Bus.
type Option func(*Bus)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// New creates an empty Bus.
func New(opts ...Option) *Bus {
	b := &Bus{
		subscribers: make(map[string][]Subscriber),
		behaviors:   make(map[string]Subscriber),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Listen appends a subscriber to the list for name.
// Nil subscribers and empty names are ignored.
func (b *Bus) Listen(name string, s Subscriber) {
	if name == "" || s == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[name] = append(b.subscribers[name], s)
}

// Import registers subscribers in bulk.
// Lists are appended to existing ones, never replaced.
func (b *Bus) Import(m map[string][]Subscriber) {
	for name, subs := range m {
		for _, s := range subs {
			b.Listen(name, s)
		}
	}
}

// Register stores a subscriber under a behavior name for ImportNamed.
func (b *Bus) Register(behavior string, s Subscriber) error {
	if behavior == "" {
		return ErrEmptyName
	}
	if s == nil {
		return ErrNilSubscriber
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.behaviors[behavior] = s
	return nil
}

// ImportNamed attaches registered behaviors to hooks by name.
// Unknown behavior names fail the whole import before anything is attached.
func (b *Bus) ImportNamed(m map[string][]string) error {
	resolved := make(map[string][]Subscriber, len(m))

	b.mu.RLock()
	for name, behaviors := range m {
		for _, behavior := range behaviors {
			s, ok := b.behaviors[behavior]
			if !ok {
				b.mu.RUnlock()
				return fmt.Errorf("%w: %q on hook %q", ErrUnknownBehavior, behavior, name)
			}
			resolved[name] = append(resolved[name], s)
		}
	}
	b.mu.RUnlock()

	b.Import(resolved)
	return nil
}

// Fork returns an empty bus that resolves the behaviors registered on b so
// far. Subscribers attached to the fork are not seen by b, and the other
// way round.
func (b *Bus) Fork() *Bus {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return &Bus{
		subscribers: make(map[string][]Subscriber),
		behaviors:   maps.Clone(b.behaviors),
		logger:      b.logger,
	}
}

// Has reports whether any subscriber is registered for name.
func (b *Bus) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[name]) > 0
}

// Len returns the number of subscribers registered for name.
func (b *Bus) Len(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[name])
}

// Notify invokes the subscribers of name in registration order.
// It returns the first non-nil decision, or the first error.
func (b *Bus) Notify(ctx context.Context, name string, payload any) (any, error) {
	b.mu.RLock()
	subs := b.subscribers[name]
	b.mu.RUnlock()

	if len(subs) == 0 {
		return nil, nil
	}

	b.logger.DebugContext(ctx, "hook notify",
		slog.String("hook", name),
		slog.Int("subscribers", len(subs)),
	)

	for i, s := range subs {
		decision, err := s(ctx, payload)
		if err != nil {
			return nil, err
		}
		if decision != nil {
			b.logger.DebugContext(ctx, "hook chain stopped",
				slog.String("hook", name),
				slog.Int("position", i),
			)
			return decision, nil
		}
	}

	return nil, nil
}
