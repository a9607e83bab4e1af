package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllFactories_UniqueMethods(t *testing.T) {
	seen := make(map[string]bool)
	for _, factory := range AllFactories() {
		handler := factory()
		method := handler.MethodName()
		assert.False(t, seen[method], "duplicate handler for method %s", method)
		seen[method] = true
	}
	assert.NotEmpty(t, seen)
}

func TestStaticHandler_KeyIsDeterministic(t *testing.T) {
	h := newStaticHandler("eth_getBlockByHash")

	key1, ok, err := h.ExtractCacheKey(json.RawMessage(`["0xabc", true]`))
	require.NoError(t, err)
	require.True(t, ok)

	// Equivalent params with different whitespace collapse onto one key.
	key2, ok, err := h.ExtractCacheKey(json.RawMessage(`[ "0xabc" , true ]`))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, key1, key2)
	assert.Contains(t, key1, "eth_getBlockByHash:")
}

func TestStaticHandler_DifferentParamsDifferentKeys(t *testing.T) {
	h := newStaticHandler("eth_getTransactionByHash")

	key1, _, err := h.ExtractCacheKey(json.RawMessage(`["0xaaa"]`))
	require.NoError(t, err)
	key2, _, err := h.ExtractCacheKey(json.RawMessage(`["0xbbb"]`))
	require.NoError(t, err)

	assert.NotEqual(t, key1, key2)
}

func TestStaticHandler_InvalidParams(t *testing.T) {
	h := newStaticHandler("eth_getBlockByHash")

	_, _, err := h.ExtractCacheKey(json.RawMessage(`{broken`))
	assert.Error(t, err)
}

func TestBlockTagHandler_ConcreteNumberHasKey(t *testing.T) {
	h := newBlockTagHandler("eth_getBlockByNumber", 0)

	key, ok, err := h.ExtractCacheKey(json.RawMessage(`["0x1b4", false]`))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, key, "eth_getBlockByNumber:")
}

func TestBlockTagHandler_DynamicTagsHaveNoKey(t *testing.T) {
	h := newBlockTagHandler("eth_getBlockByNumber", 0)

	for _, tag := range []string{"latest", "pending", "earliest", "safe", "finalized", "LATEST"} {
		params, _ := json.Marshal([]interface{}{tag, false})
		_, ok, err := h.ExtractCacheKey(params)
		require.NoError(t, err, "tag %s", tag)
		assert.False(t, ok, "tag %s must not be cacheable", tag)
	}
}

func TestBlockTagHandler_MissingBlockParamHasNoKey(t *testing.T) {
	h := newBlockTagHandler("eth_getBalance", 1)

	// Omitted block parameter defaults to latest on the node.
	_, ok, err := h.ExtractCacheKey(json.RawMessage(`["0xdeadbeef"]`))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = h.ExtractCacheKey(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlockTagHandler_TagIndexRespected(t *testing.T) {
	h := newBlockTagHandler("eth_getStorageAt", 2)

	_, ok, err := h.ExtractCacheKey(json.RawMessage(`["0xaddr", "0x0", "0x10"]`))
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = h.ExtractCacheKey(json.RawMessage(`["0xaddr", "0x0", "latest"]`))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBlockTagHandler_BlockHashObjectHasKey(t *testing.T) {
	h := newBlockTagHandler("eth_call", 1)

	params := json.RawMessage(`[{"to":"0x1"}, {"blockHash":"0xabc"}]`)
	_, ok, err := h.ExtractCacheKey(params)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBlockTagHandler_NonArrayParams(t *testing.T) {
	h := newBlockTagHandler("eth_getBlockByNumber", 0)

	_, _, err := h.ExtractCacheKey(json.RawMessage(`{"block":"0x1"}`))
	assert.Error(t, err)
}

func TestExtractCacheValue_NullIsNotCacheable(t *testing.T) {
	h := newStaticHandler("eth_getTransactionReceipt")

	cacheable, _, err := h.ExtractCacheValue(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.False(t, cacheable)

	cacheable, _, err = h.ExtractCacheValue(nil)
	require.NoError(t, err)
	assert.False(t, cacheable)
}

func TestExtractCacheValue_StoresResultVerbatim(t *testing.T) {
	h := newStaticHandler("eth_getBlockByHash")

	result := json.RawMessage(`{"number":"0x1b4","hash":"0xabc"}`)
	cacheable, value, err := h.ExtractCacheValue(result)
	require.NoError(t, err)
	assert.True(t, cacheable)
	assert.Equal(t, string(result), value)
}

func TestIsConcreteBlockNumber(t *testing.T) {
	assert.True(t, isConcreteBlockNumber("0x0"))
	assert.True(t, isConcreteBlockNumber("0x1b4"))
	assert.True(t, isConcreteBlockNumber("0xABC"))

	assert.False(t, isConcreteBlockNumber("latest"))
	assert.False(t, isConcreteBlockNumber("0x"))
	assert.False(t, isConcreteBlockNumber("0xzz"))
	assert.False(t, isConcreteBlockNumber("123"))
}
