package tokens

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachingCounter memoizes counts by content hash. Prompt templates are
// prepended to every file, so the same long prefixes are counted repeatedly
// during one run.
type CachingCounter struct {
	next  Counter
	cache *lru.Cache[string, int]
}

// NewCachingCounter wraps next with an LRU of the given size.
func NewCachingCounter(next Counter, size int) (*CachingCounter, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[string, int](size)
	if err != nil {
		return nil, err
	}
	return &CachingCounter{next: next, cache: c}, nil
}

func (c *CachingCounter) Name() string { return c.next.Name() }

func (c *CachingCounter) Count(text string) int {
	sum := sha256.Sum256([]byte(text))
	key := hex.EncodeToString(sum[:])
	if n, ok := c.cache.Get(key); ok {
		return n
	}
	n := c.next.Count(text)
	c.cache.Add(key, n)
	return n
}

// Len reports how many distinct texts are cached.
func (c *CachingCounter) Len() int { return c.cache.Len() }
