package interfaces

import "context"

//go:generate mockgen -package=mock -source=cache_store.go -destination=mock/cache_store.go

// CacheStore is a string-keyed get/set view of the response cache.
type CacheStore interface {
	// Get retrieves the value stored under key. found is false on a miss.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set stores value under key. Implementations apply their own TTL policy.
	Set(ctx context.Context, key, value string) error
}
