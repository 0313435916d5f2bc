package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption configures the Redis cache.
type RedisOption func(*redisConfig)

// Redis is a cache stored in Redis with JSON-encoded values.
type Redis[V any] struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// WithPrefix namespaces keys as "<prefix>:<key>".
func WithPrefix(prefix string) RedisOption {
	return func(c *redisConfig) { c.prefix = prefix }
}

// WithRedisDefaultTTL sets the TTL used when Set gets a zero TTL.
// Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(c *redisConfig) { c.defaultTTL = d }
}

type redisConfig struct {
	prefix     string
	defaultTTL time.Duration
}

// NewRedis creates a Redis-backed cache over an open client.
// The client lifecycle stays with the caller.
func NewRedis[V any](client redis.UniversalClient, opts ...RedisOption) *Redis[V] {
	cfg := redisConfig{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Redis[V]{client: client, prefix: cfg.prefix, defaultTTL: cfg.defaultTTL}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		var zero V
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return decode[V](data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := encode(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.defaultTTL
	}
	// redis treats 0 as "keep forever"
	return r.client.Set(ctx, r.key(key), data, max(ttl, 0)).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Clear removes the prefixed keys with SCAN, or flushes the database when
// no prefix is set.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close is a no-op; the client is owned by the caller.
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

var _ Cache[any] = (*Redis[any])(nil)

// DialRedis parses a redis:// or rediss:// URL, connects and pings.
// Failed pings are retried up to attempts times, waiting n*interval before
// attempt n+1.
func DialRedis(ctx context.Context, url string, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrInvalidURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}

	var lastErr error
	for i := range max(attempts, 1) {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectFailed, ctx.Err())
		case <-time.After(time.Duration(i+1) * interval):
		}
	}
	return nil, errors.Join(ErrConnectFailed, lastErr)
}

// Ping returns a readiness check for the client.
func Ping(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrPingFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrPingFailed, err)
		}
		return nil
	}
}
