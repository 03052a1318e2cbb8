// Package mock provides mock implementations of database interfaces for testing.
package mock

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/kozaktomas/saliency-bias/internal/database"
)

// MockResultStore is an in-memory implementation of database.ResultStore
type MockResultStore struct {
	mu      sync.RWMutex
	results map[string][]byte
	closed  bool

	GetCalls int
	PutCalls int

	// Error injection
	GetError  error
	PutError  error
	KeysError error
}

// NewMockResultStore creates a new mock result store
func NewMockResultStore() *MockResultStore {
	return &MockResultStore{
		results: make(map[string][]byte),
	}
}

// Get retrieves a result by key. Results are stored serialized so callers never
// share memory with the store, like the real backends.
func (m *MockResultStore) Get(ctx context.Context, key string) (*database.ComparisonResult, error) {
	m.mu.Lock()
	m.GetCalls++
	m.mu.Unlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.results[key]
	if !ok {
		return nil, nil
	}
	var r database.ComparisonResult
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Put stores a result
func (m *MockResultStore) Put(ctx context.Context, key string, result *database.ComparisonResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCalls++

	if m.PutError != nil {
		return m.PutError
	}
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	m.results[key] = data
	return nil
}

// Keys returns all stored keys in lexical order
func (m *MockResultStore) Keys(ctx context.Context) ([]string, error) {
	if m.KeysError != nil {
		return nil, m.KeysError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.results))
	for k := range m.results {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

// Close marks the store as closed
func (m *MockResultStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called
func (m *MockResultStore) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
