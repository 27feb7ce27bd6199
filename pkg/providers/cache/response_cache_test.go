package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	fail  error
}

func (p *countingProvider) GetName() string { return "counting" }

func (p *countingProvider) Submit(ctx context.Context, prompt, input, model string) (string, error) {
	p.calls++
	if p.fail != nil {
		return "", p.fail
	}
	return "out:" + input, nil
}

func (p *countingProvider) IsAvailable(ctx context.Context) error { return nil }

func TestResponseCache_HitsAfterFirstCall(t *testing.T) {
	backend := &countingProvider{}
	c, err := NewResponseCache(backend, CacheConfig{MaxSize: 8})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		out, err := c.Submit(ctx, "p", "body", "m")
		require.NoError(t, err)
		assert.Equal(t, "out:body", out)
	}

	assert.Equal(t, 1, backend.calls)
	s := c.Stats()
	assert.Equal(t, int64(2), s.Hits)
	assert.Equal(t, int64(1), s.Misses)
	assert.Equal(t, 1, s.Size)
	assert.InDelta(t, 2.0/3.0, s.HitRate, 1e-9)
	assert.Equal(t, "counting", c.GetName())
}

func TestResponseCache_KeyIncludesModelAndPrompt(t *testing.T) {
	backend := &countingProvider{}
	c, err := NewResponseCache(backend, CacheConfig{})
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = c.Submit(ctx, "p", "body", "m1")
	_, _ = c.Submit(ctx, "p", "body", "m2")
	_, _ = c.Submit(ctx, "q", "body", "m1")

	assert.Equal(t, 3, backend.calls)
}

func TestResponseCache_ErrorsNotCached(t *testing.T) {
	backend := &countingProvider{fail: errors.New("boom")}
	c, err := NewResponseCache(backend, CacheConfig{MaxSize: 4})
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), "p", "body", "m")
	assert.EqualError(t, err, "boom")
	_, err = c.Submit(context.Background(), "p", "body", "m")
	assert.Error(t, err)

	assert.Equal(t, 2, backend.calls)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestResponseCache_EvictsLeastRecentlyUsed(t *testing.T) {
	backend := &countingProvider{}
	c, err := NewResponseCache(backend, CacheConfig{MaxSize: 2})
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = c.Submit(ctx, "p", "a", "m")
	_, _ = c.Submit(ctx, "p", "b", "m")
	_, _ = c.Submit(ctx, "p", "c", "m") // evicts a
	_, _ = c.Submit(ctx, "p", "a", "m")

	assert.Equal(t, 4, backend.calls)
	assert.Equal(t, int64(2), c.Stats().Evictions)
}

func TestResponseCache_TTL(t *testing.T) {
	backend := &countingProvider{}
	c, err := NewResponseCache(backend, CacheConfig{MaxSize: 4, TTL: time.Minute})
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	_, _ = c.Submit(ctx, "p", "a", "m")
	now = now.Add(30 * time.Second)
	_, _ = c.Submit(ctx, "p", "a", "m")
	assert.Equal(t, 1, backend.calls)

	now = now.Add(2 * time.Minute)
	_, _ = c.Submit(ctx, "p", "a", "m")
	assert.Equal(t, 2, backend.calls)
}
