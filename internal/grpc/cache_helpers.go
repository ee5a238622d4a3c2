package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/diagnostico/pkg/cache"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
	maxTTLJitter        = 15 * time.Second
)

// cachePolicy controls how a single key is cached. Immutable values skip
// the refresh-ahead pass on hits. When gens is set, a value fetched before
// the key was invalidated is never written back.
type cachePolicy struct {
	ttl          time.Duration
	refreshAhead bool
	gens         *keyGenerations
}

// keyGenerations counts invalidations per key. The zero value is ready to
// use and a nil pointer disables the guard.
type keyGenerations struct {
	mu  sync.Mutex
	gen map[string]uint64
}

func (g *keyGenerations) current(key string) uint64 {
	if g == nil {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gen[key]
}

func (g *keyGenerations) bump(keys ...string) {
	if g == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen == nil {
		g.gen = make(map[string]uint64)
	}
	for _, k := range keys {
		g.gen[k]++
	}
}

// storeIfCurrent runs store while holding the lock, only if key has not
// been bumped since seen was read.
func (g *keyGenerations) storeIfCurrent(key string, seen uint64, store func()) bool {
	if g == nil {
		store()
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.gen[key] != seen {
		return false
	}
	store()
	return true
}

// addTTLJitter spreads expirations by up to a tenth of ttl, capped at 15s
// either way.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	spread := min(ttl/10, maxTTLJitter)
	if spread <= 0 {
		return ttl
	}
	return ttl + time.Duration(rand.Int63n(int64(2*spread))) - spread
}

func storeValue[T any](c Cacher, key string, policy cachePolicy, seen uint64, logger *zap.Logger, value T) {
	setCtx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
	defer cancel()

	ttlWithJitter := addTTLJitter(policy.ttl)
	var err error
	stored := policy.gens.storeIfCurrent(key, seen, func() {
		err = c.Set(setCtx, key, value, ttlWithJitter)
	})
	switch {
	case !stored:
		logger.Debug("cache write skipped, key invalidated during fetch", zap.String("key", key))
	case err != nil:
		logger.Warn("failed to set cache", zap.String("key", key), zap.Error(err))
	default:
		logger.Debug("cache populated", zap.String("key", key), zap.Duration("ttl", ttlWithJitter))
	}
}

func triggerBackgroundRefresh[T any](c Cacher, sf *singleflight.Group, key string, policy cachePolicy, logger *zap.Logger, fn FetchFunc[T]) {
	go func() {
		time.Sleep(time.Duration(rand.Intn(1000)) * time.Millisecond)

		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			defer cancel()

			seen := policy.gens.current(key)
			value, err := fn(ctx)
			if err != nil {
				logger.Warn("background refresh failed", zap.String("key", key), zap.Error(err))
				return nil, err
			}
			storeValue(c, key, policy, seen, logger, value)
			return value, nil
		})
	}()
}

// FindAndCache reads key through the cache. Concurrent misses for the
// same key share one fetch; the fetched value is written back before the
// callers return, unless the key was invalidated meanwhile. With refreshAhead, hits also schedule a background
// reload so popular keys stay warm.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	policy cachePolicy,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		logger.Debug("cache hit", zap.String("key", key))
		if policy.refreshAhead {
			triggerBackgroundRefresh(c, sf, key, policy, logger, fn)
		}
		return cached, nil

	case errors.Is(err, cache.ErrMiss):
		logger.Debug("cache miss", zap.String("key", key))

	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		seen := policy.gens.current(key)
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		storeValue(c, key, policy, seen, logger, value)
		return value, nil
	})
	if err != nil {
		return zero, err
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, fmt.Errorf("type mismatch for key %q", key)
	}
	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	}
	return value, nil
}

// invalidate drops keys, logging rather than failing on cache errors.
// Fetches already in flight for these keys will not write back.
func invalidate(ctx context.Context, c Cacher, gens *keyGenerations, logger *zap.Logger, keys ...string) {
	gens.bump(keys...)
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
