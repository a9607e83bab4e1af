package handlers

import (
	"encoding/json"
	"strings"

	"rpc-cache-proxy/internal/interfaces"
)

// Ensure blockTagHandler implements interfaces.CacheHandler
var _ interfaces.CacheHandler = (*blockTagHandler)(nil)

// blockTagHandler covers methods carrying a block parameter. Calls pinned to
// a concrete block number get a key; calls against moving tags (latest,
// pending, safe, finalized, earliest) or with the parameter omitted do not.
type blockTagHandler struct {
	method   string
	tagIndex int
}

func newBlockTagHandler(method string, tagIndex int) *blockTagHandler {
	return &blockTagHandler{method: method, tagIndex: tagIndex}
}

// MethodName returns the JSON-RPC method this handler covers.
func (h *blockTagHandler) MethodName() string {
	return h.method
}

// ExtractCacheKey derives a key only when the block parameter names a
// concrete height.
func (h *blockTagHandler) ExtractCacheKey(params json.RawMessage) (string, bool, error) {
	items, err := arrayParams(params)
	if err != nil {
		return "", false, err
	}

	// An omitted block parameter defaults to "latest" on the node.
	if h.tagIndex >= len(items) {
		return "", false, nil
	}

	var tag string
	if err := json.Unmarshal(items[h.tagIndex], &tag); err != nil {
		// Object form, e.g. {"blockHash": ...}, is hash-addressed and stable.
		if isBlockHashObject(items[h.tagIndex]) {
			key, err := cacheKey(h.method, params)
			if err != nil {
				return "", false, err
			}
			return key, true, nil
		}
		return "", false, err
	}

	if !isConcreteBlockNumber(tag) {
		return "", false, nil
	}

	key, err := cacheKey(h.method, params)
	if err != nil {
		return "", false, err
	}
	return key, true, nil
}

// ExtractCacheValue stores any non-null result verbatim.
func (h *blockTagHandler) ExtractCacheValue(result json.RawMessage) (bool, string, error) {
	return extractValue(result)
}

// dynamicBlockTags resolve differently over time and must never be cached.
var dynamicBlockTags = map[string]bool{
	"latest":    true,
	"pending":   true,
	"earliest":  true,
	"safe":      true,
	"finalized": true,
}

// isConcreteBlockNumber reports whether tag is a hex quantity like "0x1b4".
func isConcreteBlockNumber(tag string) bool {
	if dynamicBlockTags[strings.ToLower(tag)] {
		return false
	}
	if !strings.HasPrefix(tag, "0x") || len(tag) == 2 {
		return false
	}
	for _, c := range tag[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// isBlockHashObject reports whether the raw param is an EIP-1898 style
// {"blockHash": "0x..."} selector.
func isBlockHashObject(raw json.RawMessage) bool {
	var obj struct {
		BlockHash string `json:"blockHash"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return false
	}
	return obj.BlockHash != ""
}
