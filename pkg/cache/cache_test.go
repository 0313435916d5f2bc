package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/anvil/pkg/cache"
)

func TestMemory_GetSet(t *testing.T) {
	t.Parallel()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(context.Background(), "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("stored value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", 42, time.Minute))

		v, err := c.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("expired value", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "key", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		defer c.Close()

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "forever", "v", -1))
		require.NoError(t, c.Set(ctx, "default", "v", 0))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "forever")
		require.NoError(t, err)
		_, err = c.Get(ctx, "default")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})
}

func TestMemory_DeleteClearClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := cache.NewMemory[string]()

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	require.NoError(t, c.Set(ctx, "b", "2", 0))
	require.NoError(t, c.Delete(ctx, "a"))
	require.Equal(t, 1, c.Len())

	require.NoError(t, c.Clear(ctx))
	require.Equal(t, 0, c.Len())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	require.ErrorIs(t, c.Set(ctx, "c", "3", 0), cache.ErrClosed)
}

func TestMemory_Sweep(t *testing.T) {
	t.Parallel()

	c := cache.NewMemory[string](cache.WithCleanupInterval(5 * time.Millisecond))
	defer c.Close()

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Millisecond))
	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	t.Run("computes once under concurrency", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		var calls atomic.Int32
		release := make(chan struct{})
		fn := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			<-release
			return "value", time.Minute, nil
		}

		var wg sync.WaitGroup
		results := make([]string, 10)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrSet(context.Background(), c, "shared", fn)
				require.NoError(t, err)
				results[i] = v
			}()
		}

		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		require.Equal(t, int32(1), calls.Load())
		for _, v := range results {
			require.Equal(t, "value", v)
		}
	})

	t.Run("error is not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		boom := errors.New("boom")
		_, err := cache.GetOrSet(context.Background(), c, "err-key", func(context.Context) (string, time.Duration, error) {
			return "", 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(context.Background(), "err-key")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("hit skips fn", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()
		require.NoError(t, c.Set(context.Background(), "hit-key", "cached", 0))

		v, err := cache.GetOrSet(context.Background(), c, "hit-key", func(context.Context) (string, time.Duration, error) {
			t.Fatal("fn must not be called")
			return "", 0, nil
		})
		require.NoError(t, err)
		require.Equal(t, "cached", v)
	})
}

func TestDialRedis_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	_, err := cache.DialRedis(ctx, "", 1, 0)
	require.ErrorIs(t, err, cache.ErrEmptyURL)

	_, err = cache.DialRedis(ctx, "http://localhost:6379", 1, 0)
	require.ErrorIs(t, err, cache.ErrInvalidURL)

	require.ErrorIs(t, cache.Ping(nil)(ctx), cache.ErrPingFailed)
}
