package database

import (
	"context"
)

// ResultReader provides read-only access to cached comparison results
type ResultReader interface {
	// Get retrieves a result by key, returns nil if not found
	Get(ctx context.Context, key string) (*ComparisonResult, error)
	// Keys returns all stored keys in lexical order
	Keys(ctx context.Context) ([]string, error)
}

// ResultWriter stores comparison results
type ResultWriter interface {
	// Put stores a result under key, replacing any previous entry
	Put(ctx context.Context, key string, result *ComparisonResult) error
}

// ResultStore is a durable (or, in tests, in-memory) key-value store of results.
type ResultStore interface {
	ResultReader
	ResultWriter
	Close() error
}
