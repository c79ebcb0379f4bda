package grpc

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/portaudit/checklist-scoring/internal/grpc/mocks"
	"github.com/portaudit/checklist-scoring/internal/scoring"
	"github.com/portaudit/checklist-scoring/pkg/cache"
)

// slowSetCache delays every write so fills overlap with project writes.
type slowSetCache struct {
	*cache.Cache
	delay time.Duration
}

func (c *slowSetCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	time.Sleep(c.delay)
	return c.Cache.Set(ctx, key, value, expiration)
}

func newRedisCache(t *testing.T, delay time.Duration) *slowSetCache {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.New(context.Background(), cache.WithAddress(mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return &slowSetCache{Cache: c, delay: delay}
}

// scoreStore stands in for storage: reads see the latest recorded percent.
func scoreStore(percent *atomic.Int64, beforeRead func()) *mocks.MockScoringService {
	summary := func() scoring.ProjectScore {
		p := float64(percent.Load())
		return scoring.ProjectScore{CurrentScore: p, MaxScore: 100, Percent: p}
	}
	return &mocks.MockScoringService{
		GetProjectScoreFunc: func(ctx context.Context, projectID string) (scoring.ProjectScore, error) {
			s := summary()
			if beforeRead != nil {
				beforeRead()
			}
			return s, nil
		},
		RecordResponseFunc: func(ctx context.Context, projectID, questionID, option string) (scoring.ProjectScore, error) {
			percent.Store(90)
			return summary(), nil
		},
	}
}

func TestReadAfterWriteSeesWrite(t *testing.T) {
	var percent atomic.Int64
	percent.Store(10)

	handlers := NewGRPCHandlers(scoreStore(&percent, nil), newRedisCache(t, 30*time.Millisecond), zap.NewNop(), time.Minute)
	ctx := context.Background()
	read := mustStruct(t, map[string]any{"projectId": "p1"})

	resp, err := handlers.GetProjectScore(ctx, read)
	require.NoError(t, err)
	assert.Equal(t, 10.0, numberAt(t, resp, "percentual"))

	_, err = handlers.RecordResponse(ctx, mustStruct(t, map[string]any{
		"projectId": "p1", "questionId": "q1", "selectedOption": "yes",
	}))
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	resp, err = handlers.GetProjectScore(ctx, read)
	require.NoError(t, err)
	assert.Equal(t, 90.0, numberAt(t, resp, "percentual"))
}

func TestFillStartedBeforeWriteIsNotServedAfterIt(t *testing.T) {
	var percent atomic.Int64
	percent.Store(10)

	fetched := make(chan struct{})
	release := make(chan struct{})
	var first atomic.Bool
	first.Store(true)

	// Only the first read stalls after loading its value.
	stall := func() {
		if first.CompareAndSwap(true, false) {
			close(fetched)
			<-release
		}
	}

	handlers := NewGRPCHandlers(scoreStore(&percent, stall), newRedisCache(t, 0), zap.NewNop(), time.Minute)
	ctx := context.Background()
	read := mustStruct(t, map[string]any{"projectId": "p1"})

	stale := make(chan float64, 1)
	go func() {
		resp, err := handlers.GetProjectScore(ctx, read)
		if assert.NoError(t, err) {
			stale <- numberAt(t, resp, "percentual")
		}
	}()

	<-fetched
	_, err := handlers.RecordResponse(ctx, mustStruct(t, map[string]any{
		"projectId": "p1", "questionId": "q1", "selectedOption": "yes",
	}))
	require.NoError(t, err)
	close(release)

	select {
	case got := <-stale:
		assert.Equal(t, 10.0, got, "the overlapping read returns what it loaded")
	case <-time.After(5 * time.Second):
		t.Fatal("overlapping read did not finish")
	}

	resp, err := handlers.GetProjectScore(ctx, read)
	require.NoError(t, err)
	assert.Equal(t, 90.0, numberAt(t, resp, "percentual"))
}
