package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
	maxTTLJitter        = 15 * time.Second
)

type CacheKeyType string

const (
	cacheKeyProjectScore      CacheKeyType = "grpc:project_score"
	cacheKeyProjectBreakdown  CacheKeyType = "grpc:project_breakdown"
	cacheKeyProjectProgress   CacheKeyType = "grpc:project_progress"
	cacheKeyProjectGeneration CacheKeyType = "grpc:project_gen"
)

var projectKeyTypes = []CacheKeyType{
	cacheKeyProjectScore,
	cacheKeyProjectBreakdown,
	cacheKeyProjectProgress,
}

// projectKey names a cached read of a project at one generation. Every
// write bumps the generation, so a fill that started before the write lands
// under a key no reader asks for again.
func projectKey(kind CacheKeyType, projectID string, generation int64) string {
	return fmt.Sprintf("%s:%s:%d", kind, projectID, generation)
}

func generationKey(projectID string) string {
	return fmt.Sprintf("%s:%s", cacheKeyProjectGeneration, projectID)
}

// projectGeneration reads the project's current generation. A project that
// was never written is at generation zero.
func projectGeneration(ctx context.Context, c Cacher, projectID string) (int64, error) {
	var gen int64
	err := c.Get(ctx, generationKey(projectID), &gen)
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	return gen, nil
}

// addTTLJitter spreads expirations by up to ±15s. Short TTLs are left alone
// so the jitter never dominates them.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 4*maxTTLJitter {
		return ttl
	}
	jitter := time.Duration(rand.Int64N(int64(2*maxTTLJitter))) - maxTTLJitter
	return ttl + jitter
}

func triggerBackgroundRefresh[T any](
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) {
	go func() {
		time.Sleep(time.Duration(rand.IntN(1000)) * time.Millisecond)

		_, _, _ = sf.Do(key+":refresh", func() (any, error) {
			ctx, cancel := context.WithTimeout(context.Background(), defaultFetchTimeout)
			defer cancel()

			value, err := fn(ctx)
			if err != nil {
				logger.Warn("background refresh failed",
					zap.String("key", key),
					zap.Error(err))
				return nil, err
			}

			setCtx, cancelSet := context.WithTimeout(context.Background(), defaultSetTimeout)
			defer cancelSet()

			ttlWithJitter := addTTLJitter(ttl)
			if err := c.Set(setCtx, key, value, ttlWithJitter); err != nil {
				logger.Warn("failed to update cache in background",
					zap.String("key", key),
					zap.Error(err))
			} else {
				logger.Debug("cache refreshed in background",
					zap.String("key", key),
					zap.Duration("ttl", ttlWithJitter))
			}

			return value, nil
		})
	}()
}

// fetchAndCache loads the value and stores it before returning, so the
// fill completes inside the caller's singleflight call.
func fetchAndCache[T any](
	ctx context.Context,
	c Cacher,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T

	value, err := fn(ctx)
	if err != nil {
		return zero, err
	}

	setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultSetTimeout)
	defer cancel()

	if err := c.Set(setCtx, key, value, addTTLJitter(ttl)); err != nil {
		logger.Warn("failed to set cache on miss", zap.String("key", key), zap.Error(err))
	} else {
		logger.Debug("cache populated on miss", zap.String("key", key))
	}

	return value, nil
}

// FindAndCache implements read-through caching with singleflight and refresh-ahead logic.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		return fn(ctx)
	}

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		logger.Debug("cache hit", zap.String("key", key))
		triggerBackgroundRefresh(c, sf, key, ttl, logger, fn)
		return cached, nil

	case errors.Is(err, redis.Nil):
		logger.Debug("cache miss", zap.String("key", key))

	default:
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	v, err, shared := sf.Do(key, func() (any, error) {
		return fetchAndCache(ctx, c, key, ttl, logger, fn)
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

// findProject serves a project read through the cache at the project's
// current generation. When the generation cannot be read the cache is
// bypassed rather than risk a stale entry.
func findProject[T any](
	ctx context.Context,
	s *GRPCHandlers,
	kind CacheKeyType,
	projectID string,
	fn FetchFunc[T],
) (T, error) {
	if s.cache == nil {
		return fn(ctx)
	}

	gen, err := projectGeneration(ctx, s.cache, projectID)
	if err != nil {
		s.logger.Warn("cache generation lookup failed, reading from storage",
			zap.String("project_id", projectID),
			zap.Error(err))
		return fn(ctx)
	}

	return FindAndCache(ctx, s.cache, &s.sfGroup, projectKey(kind, projectID, gen), s.cacheTTL, s.logger, fn)
}

// invalidateProject moves a project to a new generation after a write and
// drops the reads cached under the previous one. Readers that fail to see
// the new generation fall back to storage.
func invalidateProject(ctx context.Context, c Cacher, projectID string, logger *zap.Logger) {
	if c == nil {
		return
	}

	setCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultSetTimeout)
	defer cancel()

	gen, err := c.Incr(setCtx, generationKey(projectID))
	if err != nil {
		logger.Error("cache generation bump failed",
			zap.String("project_id", projectID),
			zap.Error(err))
		return
	}

	keys := make([]string, len(projectKeyTypes))
	for i, t := range projectKeyTypes {
		keys[i] = projectKey(t, projectID, gen-1)
	}
	if err := c.Delete(setCtx, keys...); err != nil {
		logger.Warn("stale cache cleanup failed",
			zap.String("project_id", projectID),
			zap.Error(err))
	}
}
