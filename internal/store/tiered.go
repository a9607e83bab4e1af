package store

import (
	"context"

	"go.uber.org/zap"

	"rpc-cache-proxy/internal/interfaces"
)

// Ensure TieredStore implements interfaces.CacheStore
var _ interfaces.CacheStore = (*TieredStore)(nil)

// TieredStore composes an ordered list of stores, fastest first. Reads walk
// the tiers until a hit and backfill the earlier tiers; writes go to every
// tier. A failing tier degrades to the next one instead of failing the read.
type TieredStore struct {
	tiers  []interfaces.CacheStore
	logger *zap.Logger
}

// NewTieredStore creates a composite store over the given tiers.
func NewTieredStore(tiers []interfaces.CacheStore, logger *zap.Logger) interfaces.CacheStore {
	return &TieredStore{
		tiers:  tiers,
		logger: logger,
	}
}

// Get returns the first hit across the tiers. The error of the last failing
// tier is reported only when no tier had the key.
func (s *TieredStore) Get(ctx context.Context, key string) (string, bool, error) {
	var lastErr error
	for i, tier := range s.tiers {
		val, found, err := tier.Get(ctx, key)
		if err != nil {
			s.logger.Warn("Cache tier get failed, trying next tier",
				zap.Int("tier", i), zap.String("key", key), zap.Error(err))
			lastErr = err
			continue
		}
		if found {
			s.backfill(ctx, key, val, i)
			return val, true, nil
		}
	}
	return "", false, lastErr
}

// Set stores the value in every tier. The first failure is returned after
// all tiers were attempted.
func (s *TieredStore) Set(ctx context.Context, key, value string) error {
	var firstErr error
	for i, tier := range s.tiers {
		if err := tier.Set(ctx, key, value); err != nil {
			s.logger.Warn("Cache tier set failed",
				zap.Int("tier", i), zap.String("key", key), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// backfill propagates a hit from tier hitIndex into the faster tiers.
func (s *TieredStore) backfill(ctx context.Context, key, value string, hitIndex int) {
	for i := 0; i < hitIndex; i++ {
		if err := s.tiers[i].Set(ctx, key, value); err != nil {
			s.logger.Warn("Cache tier backfill failed",
				zap.Int("tier", i), zap.String("key", key), zap.Error(err))
		}
	}
}
