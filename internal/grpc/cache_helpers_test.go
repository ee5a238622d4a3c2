package grpc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/diagnostico/internal/grpc/mocks"
	"github.com/godilite/diagnostico/pkg/cache"
)

func TestAddTTLJitter(t *testing.T) {
	assert.Equal(t, time.Duration(0), addTTLJitter(0))
	assert.Equal(t, -time.Second, addTTLJitter(-time.Second))
	assert.Equal(t, time.Nanosecond, addTTLJitter(time.Nanosecond))

	for i := 0; i < 100; i++ {
		got := addTTLJitter(10 * time.Second)
		assert.GreaterOrEqual(t, got, 9*time.Second)
		assert.Less(t, got, 11*time.Second)

		got = addTTLJitter(time.Hour)
		assert.GreaterOrEqual(t, got, time.Hour-maxTTLJitter)
		assert.Less(t, got, time.Hour+maxTTLJitter)
	}
}

func TestFindAndCache(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	policy := cachePolicy{ttl: time.Minute}

	t.Run("miss then hit with the memory cache", func(t *testing.T) {
		mem := cache.NewMemory()
		var sf singleflight.Group
		var calls atomic.Int32
		fetch := func(context.Context) ([]string, error) {
			calls.Add(1)
			return []string{"Marketing", "Vendas"}, nil
		}

		got, err := FindAndCache(ctx, mem, &sf, "k", policy, logger, fetch)
		require.NoError(t, err)
		assert.Equal(t, []string{"Marketing", "Vendas"}, got)

		var stored []string
		require.NoError(t, mem.Get(ctx, "k", &stored), "value is written back before returning")
		assert.Equal(t, got, stored)

		got, err = FindAndCache(ctx, mem, &sf, "k", policy, logger, fetch)
		require.NoError(t, err)
		assert.Equal(t, []string{"Marketing", "Vendas"}, got)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("cache errors are treated as misses", func(t *testing.T) {
		broken := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				return errors.New("connection reset")
			},
		}
		var sf singleflight.Group
		got, err := FindAndCache(ctx, broken, &sf, "k", policy, logger, func(context.Context) (int, error) {
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("fetch errors are returned and not cached", func(t *testing.T) {
		mem := cache.NewMemory()
		var sf singleflight.Group
		boom := errors.New("boom")

		_, err := FindAndCache(ctx, mem, &sf, "k", policy, logger, func(context.Context) (int, error) {
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)

		var v int
		assert.ErrorIs(t, mem.Get(ctx, "k", &v), cache.ErrMiss)
	})

	t.Run("concurrent misses share one fetch", func(t *testing.T) {
		var sf singleflight.Group
		var calls atomic.Int32
		release := make(chan struct{})
		fetch := func(context.Context) (string, error) {
			calls.Add(1)
			<-release
			return "v", nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				got, err := FindAndCache(ctx, &mocks.MockCacher{}, &sf, "shared", policy, logger, fetch)
				assert.NoError(t, err)
				assert.Equal(t, "v", got)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("invalidation during fetch skips the write back", func(t *testing.T) {
		mem := cache.NewMemory()
		gens := &keyGenerations{}
		var sf singleflight.Group

		got, err := FindAndCache(ctx, mem, &sf, "summary", cachePolicy{ttl: time.Minute, gens: gens}, logger, func(context.Context) (int, error) {
			invalidate(ctx, mem, gens, logger, "summary")
			return 1, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, got)

		var v int
		assert.ErrorIs(t, mem.Get(ctx, "summary", &v), cache.ErrMiss)

		got, err = FindAndCache(ctx, mem, &sf, "summary", cachePolicy{ttl: time.Minute, gens: gens}, logger, func(context.Context) (int, error) {
			return 2, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, got)
		require.NoError(t, mem.Get(ctx, "summary", &v))
		assert.Equal(t, 2, v)
	})

	t.Run("invalidating another key keeps the write back", func(t *testing.T) {
		mem := cache.NewMemory()
		gens := &keyGenerations{}
		var sf singleflight.Group

		_, err := FindAndCache(ctx, mem, &sf, "a", cachePolicy{ttl: time.Minute, gens: gens}, logger, func(context.Context) (int, error) {
			invalidate(ctx, mem, gens, logger, "b")
			return 1, nil
		})
		require.NoError(t, err)

		var v int
		assert.NoError(t, mem.Get(ctx, "a", &v))
	})

	t.Run("refresh ahead reloads after a hit", func(t *testing.T) {
		mem := cache.NewMemory()
		require.NoError(t, mem.Set(ctx, "warm", "old", time.Minute))

		var sf singleflight.Group
		got, err := FindAndCache(ctx, mem, &sf, "warm", cachePolicy{ttl: time.Minute, refreshAhead: true}, logger, func(context.Context) (string, error) {
			return "new", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "old", got)

		require.Eventually(t, func() bool {
			var v string
			return mem.Get(ctx, "warm", &v) == nil && v == "new"
		}, 3*time.Second, 10*time.Millisecond)
	})
}

func TestKeyGenerations(t *testing.T) {
	var nilGens *keyGenerations
	assert.Equal(t, uint64(0), nilGens.current("k"))
	assert.NotPanics(t, func() { nilGens.bump("k") })
	assert.True(t, nilGens.storeIfCurrent("k", 7, func() {}))

	var g keyGenerations
	seen := g.current("k")
	g.bump("k", "other")
	assert.Equal(t, uint64(1), g.current("k"))

	called := false
	assert.False(t, g.storeIfCurrent("k", seen, func() { called = true }))
	assert.False(t, called)
	assert.True(t, g.storeIfCurrent("k", g.current("k"), func() { called = true }))
	assert.True(t, called)
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemory()
	require.NoError(t, mem.Set(ctx, "a", 1, 0))

	invalidate(ctx, mem, nil, zaptest.NewLogger(t), "a")

	var v int
	assert.ErrorIs(t, mem.Get(ctx, "a", &v), cache.ErrMiss)

	failing := &mocks.MockCacher{
		DeleteFunc: func(ctx context.Context, keys ...string) error { return errors.New("down") },
	}
	assert.NotPanics(t, func() { invalidate(ctx, failing, &keyGenerations{}, zaptest.NewLogger(t), "a") })
}
