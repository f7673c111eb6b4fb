package decider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tollan/detsched/internal/constraints/formula"
)

// CachingDecider memoizes decisions by the exact serialized formula text
// (C11, spec.md §4.11): when two rounds happen to emit byte-identical
// formulas, the second does not pay for a second process spawn. Errors
// are not cached.
type CachingDecider struct {
	next  Decider
	cache *lru.Cache[string, *Decision]
}

// NewCachingDecider wraps next with an LRU of the given size.
func NewCachingDecider(next Decider, size int) (*CachingDecider, error) {
	cache, err := lru.New[string, *Decision](size)
	if err != nil {
		return nil, err
	}
	return &CachingDecider{next: next, cache: cache}, nil
}

func (c *CachingDecider) Decide(ctx context.Context, f *formula.Formula) (*Decision, error) {
	key := digest(f.String())
	if hit, ok := c.cache.Get(key); ok {
		return hit, nil
	}
	d, err := c.next.Decide(ctx, f)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, d)
	return d, nil
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
