package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/alantheprice/codebaseai/pkg/interfaces"
	"github.com/alantheprice/codebaseai/pkg/utils"
)

// CacheEntry represents a cached response
type CacheEntry struct {
	Response  string    `json:"response"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	CreatedAt time.Time `json:"created_at"`
}

// CacheConfig configures the response cache
type CacheConfig struct {
	MaxSize int           `json:"max_size"` // maximum number of cached responses
	TTL     time.Duration `json:"ttl"`      // zero means entries never expire
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits      int64   `json:"hits"`
	Misses    int64   `json:"misses"`
	Evictions int64   `json:"evictions"`
	Size      int     `json:"size"`
	HitRate   float64 `json:"hit_rate"`
}

// ResponseCache wraps a provider and memoizes successful responses. Identical
// method bodies submitted with the same prompt and model reach the backend once.
type ResponseCache struct {
	next  interfaces.LLMProvider
	cache *lru.Cache[string, CacheEntry]
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	stats CacheStats
}

// TTL returns how long an entry stays valid; zero means until evicted.
func (c *ResponseCache) TTL() time.Duration {
	return c.ttl
}

// NewResponseCache wraps next with an LRU cache
func NewResponseCache(next interfaces.LLMProvider, config CacheConfig) (*ResponseCache, error) {
	if config.MaxSize <= 0 {
		config.MaxSize = 1000
	}

	c := &ResponseCache{
		next: next,
		ttl:  config.TTL,
		now:  time.Now,
	}

	l, err := lru.NewWithEvict[string, CacheEntry](config.MaxSize, func(string, CacheEntry) {
		c.mu.Lock()
		c.stats.Evictions++
		c.mu.Unlock()
	})
	if err != nil {
		return nil, err
	}
	c.cache = l

	return c, nil
}

// GetName returns the wrapped provider's name
func (c *ResponseCache) GetName() string {
	return c.next.GetName()
}

// IsAvailable delegates to the wrapped provider
func (c *ResponseCache) IsAvailable(ctx context.Context) error {
	return c.next.IsAvailable(ctx)
}

// Submit returns a cached response when one exists, otherwise calls the
// wrapped provider and caches a successful result. Errors are never cached.
func (c *ResponseCache) Submit(ctx context.Context, prompt, input, model string) (string, error) {
	key := c.generateKey(prompt, input, model)

	if entry, ok := c.cache.Get(key); ok {
		if !c.isExpired(entry) {
			c.recordHit()
			return entry.Response, nil
		}
		c.cache.Remove(key)
	}
	c.recordMiss()

	resp, err := c.next.Submit(ctx, prompt, input, model)
	if err != nil {
		return "", err
	}

	c.cache.Add(key, CacheEntry{
		Response:  resp,
		Provider:  c.next.GetName(),
		Model:     model,
		CreatedAt: c.now(),
	})

	return resp, nil
}

// Stats returns a snapshot of cache statistics
func (c *ResponseCache) Stats() CacheStats {
	size := c.cache.Len() // outside c.mu; the eviction callback takes c.mu under the LRU lock

	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = size
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Clear drops all cached responses
func (c *ResponseCache) Clear() {
	c.cache.Purge()
}

func (c *ResponseCache) generateKey(prompt, input, model string) string {
	return utils.GenerateRequestHash(c.next.GetName(), model, prompt, input)
}

func (c *ResponseCache) isExpired(entry CacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.CreatedAt) > c.ttl
}

func (c *ResponseCache) recordHit() {
	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
}

func (c *ResponseCache) recordMiss() {
	c.mu.Lock()
	c.stats.Misses++
	c.mu.Unlock()
}
