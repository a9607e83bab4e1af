package store

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"rpc-cache-proxy/internal/interfaces"
)

// Ensure KeyDBStore implements interfaces.CacheStore
var _ interfaces.CacheStore = (*KeyDBStore)(nil)

// KeyDBStore is the remote cache tier backed by KeyDB/Redis. Values are the
// serialized RPC results stored as plain strings.
type KeyDBStore struct {
	client interfaces.KeyDbClient
	ttl    time.Duration // 0 keeps entries until evicted
	logger *zap.Logger
}

// NewKeyDBStore creates a KeyDB-backed cache store.
func NewKeyDBStore(client interfaces.KeyDbClient, ttl time.Duration, logger *zap.Logger) interfaces.CacheStore {
	return &KeyDBStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get retrieves the value stored under key. A redis.Nil reply is a plain
// miss; any other error surfaces to the caller.
func (s *KeyDBStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value under key with the configured TTL.
func (s *KeyDBStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

// Close closes the underlying client connection.
func (s *KeyDBStore) Close() error {
	return s.client.Close()
}
