package grpc

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/sync/singleflight"

	"github.com/portaudit/checklist-scoring/internal/grpc/mocks"
)

func TestProjectKey(t *testing.T) {
	assert.Equal(t, "grpc:project_score:p1:0", projectKey(cacheKeyProjectScore, "p1", 0))
	assert.Equal(t, "grpc:project_progress:abc:7", projectKey(cacheKeyProjectProgress, "abc", 7))
	assert.Equal(t, "grpc:project_gen:abc", generationKey("abc"))
}

func TestAddTTLJitter(t *testing.T) {
	t.Run("short TTL untouched", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, addTTLJitter(30*time.Second))
		assert.Equal(t, time.Minute, addTTLJitter(time.Minute))
	})

	t.Run("long TTL within bounds", func(t *testing.T) {
		ttl := 10 * time.Minute
		for range 100 {
			got := addTTLJitter(ttl)
			assert.GreaterOrEqual(t, got, ttl-maxTTLJitter)
			assert.Less(t, got, ttl+maxTTLJitter)
		}
	})
}

func TestFindAndCache(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("nil cache calls through", func(t *testing.T) {
		var sf singleflight.Group
		got, err := FindAndCache(context.Background(), nil, &sf, "k", time.Minute, logger, func(ctx context.Context) (int, error) {
			return 7, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 7, got)
	})

	t.Run("miss populates cache", func(t *testing.T) {
		var sf singleflight.Group
		setCh := make(chan any, 1)
		c := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				return redis.Nil
			},
			SetFunc: func(ctx context.Context, key string, value any, expiration time.Duration) error {
				assert.Equal(t, "k", key)
				assert.Equal(t, time.Minute, expiration)
				setCh <- value
				return nil
			},
		}

		got, err := FindAndCache(context.Background(), c, &sf, "k", time.Minute, logger, func(ctx context.Context) (string, error) {
			return "fresh", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "fresh", got)

		select {
		case v := <-setCh:
			assert.Equal(t, "fresh", v)
		default:
			t.Fatal("cache was not populated before returning")
		}
	})

	t.Run("fetch error is returned and nothing cached", func(t *testing.T) {
		var sf singleflight.Group
		var sets atomic.Int32
		c := &mocks.MockCacher{
			SetFunc: func(ctx context.Context, key string, value any, expiration time.Duration) error {
				sets.Add(1)
				return nil
			},
		}
		boom := errors.New("boom")

		_, err := FindAndCache(context.Background(), c, &sf, "k", time.Minute, logger, func(ctx context.Context) (int, error) {
			return 0, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, sets.Load())
	})

	t.Run("concurrent misses share one fetch", func(t *testing.T) {
		var sf singleflight.Group
		var calls atomic.Int32
		release := make(chan struct{})
		c := &mocks.MockCacher{}

		var wg sync.WaitGroup
		results := make([]int, 5)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := FindAndCache(context.Background(), c, &sf, "shared", time.Minute, logger, func(ctx context.Context) (int, error) {
					calls.Add(1)
					<-release
					return 42, nil
				})
				assert.NoError(t, err)
				results[i] = v
			}(i)
		}

		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, v := range results {
			assert.Equal(t, 42, v)
		}
	})
}

func TestInvalidateProject(t *testing.T) {
	t.Run("bumps generation and drops previous keys", func(t *testing.T) {
		c := &mocks.MockCacher{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		invalidateProject(ctx, c, "p9", zaptest.NewLogger(t))
		invalidateProject(ctx, c, "p9", zaptest.NewLogger(t))

		assert.Equal(t, []string{
			"grpc:project_score:p9:0",
			"grpc:project_breakdown:p9:0",
			"grpc:project_progress:p9:0",
			"grpc:project_score:p9:1",
			"grpc:project_breakdown:p9:1",
			"grpc:project_progress:p9:1",
		}, c.Deleted())
	})

	t.Run("failed bump skips cleanup", func(t *testing.T) {
		c := &mocks.MockCacher{
			IncrFunc: func(ctx context.Context, key string) (int64, error) {
				return 0, errors.New("redis down")
			},
		}
		invalidateProject(context.Background(), c, "p9", zaptest.NewLogger(t))
		assert.Empty(t, c.Deleted())
	})

	t.Run("nil cache", func(t *testing.T) {
		assert.NotPanics(t, func() { invalidateProject(context.Background(), nil, "p9", zaptest.NewLogger(t)) })
	})
}
