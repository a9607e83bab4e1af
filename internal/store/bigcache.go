package store

import (
	"context"
	"errors"

	"github.com/allegro/bigcache/v3"
	"go.uber.org/zap"

	"rpc-cache-proxy/internal/config"
	"rpc-cache-proxy/internal/interfaces"
)

// Ensure BigCacheStore implements interfaces.CacheStore
var _ interfaces.CacheStore = (*BigCacheStore)(nil)

// BigCacheStore is the optional in-process cache tier in front of KeyDB.
type BigCacheStore struct {
	cache  *bigcache.BigCache
	logger *zap.Logger
}

// NewBigCacheStore creates an in-process cache store.
func NewBigCacheStore(cfg *config.BigCacheConfig, logger *zap.Logger) (interfaces.CacheStore, error) {
	bcConfig := bigcache.DefaultConfig(cfg.GetTTL())
	bcConfig.HardMaxCacheSize = cfg.Size // Size in MB
	bcConfig.Verbose = false
	bcConfig.MaxEntrySize = 1024 * 1024 // 1MB max entry size

	cache, err := bigcache.New(context.Background(), bcConfig)
	if err != nil {
		return nil, err
	}

	return &BigCacheStore{
		cache:  cache,
		logger: logger,
	}, nil
}

// Get retrieves the value stored under key.
func (s *BigCacheStore) Get(_ context.Context, key string) (string, bool, error) {
	data, err := s.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// Set stores value under key. Eviction is handled by bigcache's own TTL and
// size limits.
func (s *BigCacheStore) Set(_ context.Context, key, value string) error {
	return s.cache.Set(key, []byte(value))
}

// Close releases the cache's memory.
func (s *BigCacheStore) Close() error {
	return s.cache.Close()
}
