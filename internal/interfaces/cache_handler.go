package interfaces

import "encoding/json"

//go:generate mockgen -package=mock -source=cache_handler.go -destination=mock/cache_handler.go

// CacheHandler is the per-method strategy deciding how a call maps onto the
// cache store.
type CacheHandler interface {
	// MethodName returns the JSON-RPC method this handler covers.
	MethodName() string

	// ExtractCacheKey derives the cache key for a call from its params.
	// ok is false when no key can be derived, meaning the call is not
	// cacheable regardless of what its result looks like.
	ExtractCacheKey(params json.RawMessage) (key string, ok bool, err error)

	// ExtractCacheValue decides whether a result may be cached and returns
	// the serialized string to store.
	ExtractCacheValue(result json.RawMessage) (cacheable bool, value string, err error)
}
