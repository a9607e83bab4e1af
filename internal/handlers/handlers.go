// Package handlers ships the per-method cache strategies consumed by the
// reconciliation engine. A handler answers two questions: which key
// identifies a call's result, and whether a given result may be stored.
package handlers

import (
	"crypto/md5"
	"encoding/json"
	"fmt"

	"rpc-cache-proxy/internal/interfaces"
)

// Factory builds a fresh CacheHandler. The registry instantiates one handler
// per factory for every chain it serves.
type Factory func() interfaces.CacheHandler

// AllFactories returns the full set of shipped handler factories.
func AllFactories() []Factory {
	return []Factory{
		// Hash-addressed lookups; their results are immutable once present.
		func() interfaces.CacheHandler { return newStaticHandler("eth_getBlockByHash") },
		func() interfaces.CacheHandler { return newStaticHandler("eth_getTransactionByHash") },
		func() interfaces.CacheHandler { return newStaticHandler("eth_getTransactionReceipt") },
		func() interfaces.CacheHandler { return newStaticHandler("eth_getBlockTransactionCountByHash") },
		func() interfaces.CacheHandler { return newStaticHandler("eth_getTransactionByBlockHashAndIndex") },

		// Block-number-addressed lookups; cacheable only when the block
		// parameter pins a concrete height instead of a moving tag.
		func() interfaces.CacheHandler { return newBlockTagHandler("eth_getBlockByNumber", 0) },
		func() interfaces.CacheHandler { return newBlockTagHandler("eth_getBlockReceipts", 0) },
		func() interfaces.CacheHandler { return newBlockTagHandler("eth_getBalance", 1) },
		func() interfaces.CacheHandler { return newBlockTagHandler("eth_getCode", 1) },
		func() interfaces.CacheHandler { return newBlockTagHandler("eth_getTransactionCount", 1) },
		func() interfaces.CacheHandler { return newBlockTagHandler("eth_call", 1) },
		func() interfaces.CacheHandler { return newBlockTagHandler("eth_getStorageAt", 2) },
	}
}

// cacheKey derives the key for a call as method:md5(params). Marshaling the
// decoded params canonizes whitespace and object key order, so equivalent
// calls collapse onto one key.
func cacheKey(method string, params json.RawMessage) (string, error) {
	if len(params) == 0 {
		return fmt.Sprintf("%s:%x", method, md5.Sum(nil)), nil
	}

	var decoded interface{}
	if err := json.Unmarshal(params, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode params: %w", err)
	}

	canonical, err := json.Marshal(decoded)
	if err != nil {
		return "", fmt.Errorf("failed to canonize params: %w", err)
	}

	return fmt.Sprintf("%s:%x", method, md5.Sum(canonical)), nil
}

// extractValue is the shared result policy: null results are never stored
// (the entity may simply not exist yet), everything else is stored verbatim.
func extractValue(result json.RawMessage) (bool, string, error) {
	if isNullResult(result) {
		return false, "", nil
	}
	if !json.Valid(result) {
		return false, "", fmt.Errorf("result is not valid JSON")
	}
	return true, string(result), nil
}

func isNullResult(result json.RawMessage) bool {
	return len(result) == 0 || string(result) == "null"
}

// arrayParams decodes a positional params array.
func arrayParams(params json.RawMessage) ([]json.RawMessage, error) {
	if len(params) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(params, &items); err != nil {
		return nil, fmt.Errorf("params must be an array: %w", err)
	}
	return items, nil
}
