package store

import (
	"context"

	"rpc-cache-proxy/internal/interfaces"
)

// Ensure NoOpStore implements interfaces.CacheStore
var _ interfaces.CacheStore = (*NoOpStore)(nil)

// NoOpStore is used when caching is disabled; every read misses and writes
// are discarded.
type NoOpStore struct{}

// NewNoOpStore creates a new no-operation store instance
func NewNoOpStore() interfaces.CacheStore {
	return &NoOpStore{}
}

// Get always returns a miss
func (n *NoOpStore) Get(_ context.Context, _ string) (string, bool, error) {
	return "", false, nil
}

// Set does nothing
func (n *NoOpStore) Set(_ context.Context, _, _ string) error {
	return nil
}
