package cache

import "errors"

var (
	// ErrNotFound is returned when a key does not exist or has expired.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned when a closed cache is written to.
	ErrClosed = errors.New("cache: closed")

	ErrMarshal   = errors.New("cache: failed to marshal value")
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")

	ErrEmptyURL      = errors.New("cache: empty redis URL")
	ErrInvalidURL    = errors.New("cache: invalid redis URL")
	ErrConnectFailed = errors.New("cache: failed to connect to redis")
	ErrPingFailed    = errors.New("cache: redis ping failed")
)
