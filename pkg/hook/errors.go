package hook

import "errors"

var (
	ErrEmptyName       = errors.New("hook: name cannot be empty")
	ErrNilSubscriber   = errors.New("hook: subscriber cannot be nil")
	ErrUnknownBehavior = errors.New("hook: unknown behavior")
)
