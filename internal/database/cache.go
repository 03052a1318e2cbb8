// Package database defines the comparison result cache and its storage interfaces.
// Concrete stores live in the badger, postgres, mariadb and mock subpackages.
package database

import (
	"context"
	"fmt"
)

// ComputeFunc produces a result on a cache miss.
type ComputeFunc func(ctx context.Context) (*ComparisonResult, error)

// Cache memoizes comparison results in a ResultStore.
//
// There is no locking across processes: two runs computing the same key both
// compute and the last writer wins.
type Cache struct {
	store ResultStore
}

func NewCache(store ResultStore) *Cache {
	return &Cache{store: store}
}

// GetOrCompute returns the stored result for key, or runs compute, stores its
// result and returns it. The boolean reports whether the result came from the
// store. A failed compute stores nothing.
func (c *Cache) GetOrCompute(ctx context.Context, key string, compute ComputeFunc) (*ComparisonResult, bool, error) {
	cached, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached result %s: %w", key, err)
	}
	if cached != nil {
		return cached, true, nil
	}

	result, err := compute(ctx)
	if err != nil {
		return nil, false, err
	}
	result.Key = key

	if err := c.store.Put(ctx, key, result); err != nil {
		return nil, false, fmt.Errorf("failed to store result %s: %w", key, err)
	}
	return result, false, nil
}

// Get returns the stored result for key, or nil.
func (c *Cache) Get(ctx context.Context, key string) (*ComparisonResult, error) {
	return c.store.Get(ctx, key)
}

// Keys lists the stored keys.
func (c *Cache) Keys(ctx context.Context) ([]string, error) {
	return c.store.Keys(ctx)
}
