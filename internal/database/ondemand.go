package database

import (
	"context"
	"errors"
)

// OpenFunc opens a result store.
type OpenFunc func(ctx context.Context) (ResultStore, error)

// onDemandReader opens the store for every call and closes it before
// returning, so no lock is held between requests.
type onDemandReader struct {
	open OpenFunc
}

// NewOnDemandReader returns a ResultReader backed by open. Each Get or Keys
// call gets a fresh store that is closed when the call returns.
func NewOnDemandReader(open OpenFunc) ResultReader {
	return &onDemandReader{open: open}
}

func (r *onDemandReader) Get(ctx context.Context, key string) (result *ComparisonResult, err error) {
	store, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, store.Close()) }()
	return store.Get(ctx, key)
}

func (r *onDemandReader) Keys(ctx context.Context) (keys []string, err error) {
	store, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, store.Close()) }()
	return store.Keys(ctx)
}
