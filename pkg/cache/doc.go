// Package cache provides the storage behind the request cache: a generic
// Cache interface with in-memory and Redis implementations.
//
// TTL semantics for Set:
//   - Positive duration: entry expires after this duration
//   - Zero: use the backend default TTL
//   - Negative: entry never expires
//
// # In-Memory
//
//	c := cache.NewMemory[Entry](cache.WithDefaultTTL(time.Minute))
//	defer c.Close()
//
// # Redis
//
// DialRedis opens a client from a redis:// or rediss:// URL and pings it,
// retrying with a linear backoff:
//
//	client, err := cache.DialRedis(ctx, os.Getenv("REDIS_URL"), 3, time.Second)
//	c := cache.NewRedis[Entry](client, cache.WithPrefix("anvil:page"))
//
// Values are serialized as JSON.
//
// # Stampede Prevention
//
// GetOrSet computes a missing value once per key across concurrent callers:
//
//	e, err := cache.GetOrSet(ctx, c, key, func(ctx context.Context) (Entry, time.Duration, error) {
//	    return render(ctx), time.Minute, nil
//	})
package cache
