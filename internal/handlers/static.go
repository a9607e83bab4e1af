package handlers

import (
	"encoding/json"

	"rpc-cache-proxy/internal/interfaces"
)

// Ensure staticHandler implements interfaces.CacheHandler
var _ interfaces.CacheHandler = (*staticHandler)(nil)

// staticHandler covers methods whose params address immutable data, such as
// lookups by block or transaction hash. Every call has a key.
type staticHandler struct {
	method string
}

func newStaticHandler(method string) *staticHandler {
	return &staticHandler{method: method}
}

// MethodName returns the JSON-RPC method this handler covers.
func (h *staticHandler) MethodName() string {
	return h.method
}

// ExtractCacheKey derives the key from the canonized params.
func (h *staticHandler) ExtractCacheKey(params json.RawMessage) (string, bool, error) {
	key, err := cacheKey(h.method, params)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// ExtractCacheValue stores any non-null result verbatim.
func (h *staticHandler) ExtractCacheValue(result json.RawMessage) (bool, string, error) {
	return extractValue(result)
}
