package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"rpc-cache-proxy/internal/handlers"
	"rpc-cache-proxy/internal/interfaces"
	"rpc-cache-proxy/internal/interfaces/mock"
	"rpc-cache-proxy/internal/models"
	"rpc-cache-proxy/internal/registry"
)

func uid(n uint64) *uint64 {
	return &n
}

func clientRequest(id uint64, method, params string) models.ClientRequest {
	req := models.ClientRequest{ID: uid(id), Method: method}
	if params != "" {
		req.Params = json.RawMessage(params)
	}
	return req
}

// newTestChain builds a single-chain registry around the given handlers.
func newTestChain(t *testing.T, chainHandlers ...interfaces.CacheHandler) *registry.ChainEndpoint {
	t.Helper()

	factories := make([]handlers.Factory, 0, len(chainHandlers))
	for _, h := range chainHandlers {
		factories = append(factories, func() interfaces.CacheHandler { return h })
	}

	reg, err := registry.New(map[string]string{"eth": "http://node.example/rpc"}, factories, zap.NewNop())
	require.NoError(t, err)

	chain, ok := reg.Lookup("eth")
	require.True(t, ok)
	return chain
}

// newCachedMethodHandler returns a mock handler that always derives a key.
func newCachedMethodHandler(ctrl *gomock.Controller, method string) *mock.MockCacheHandler {
	h := mock.NewMockCacheHandler(ctrl)
	h.EXPECT().MethodName().Return(method).AnyTimes()
	h.EXPECT().ExtractCacheKey(gomock.Any()).DoAndReturn(
		func(params json.RawMessage) (string, bool, error) {
			return fmt.Sprintf("%s:%s", method, string(params)), true, nil
		},
	).AnyTimes()
	return h
}

func TestExecute_OrderPreservedAcrossHitsAndMisses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	handler.EXPECT().ExtractCacheValue(gomock.Any()).Return(true, `"fresh"`, nil).AnyTimes()
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	// id 1 and 3 hit, id 2 misses.
	mockStore.EXPECT().Get(gomock.Any(), chain.StoreKey("m:[1]")).Return(`"one"`, true, nil)
	mockStore.EXPECT().Get(gomock.Any(), chain.StoreKey("m:[2]")).Return("", false, nil)
	mockStore.EXPECT().Get(gomock.Any(), chain.StoreKey("m:[3]")).Return(`"three"`, true, nil)
	mockStore.EXPECT().Set(gomock.Any(), chain.StoreKey("m:[2]"), `"fresh"`).Return(nil)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), "http://node.example/rpc", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, batch []models.BatchItem) ([]models.UpstreamResult, error) {
			require.Len(t, batch, 1)
			assert.Equal(t, uint64(2), batch[0].ID)
			assert.Equal(t, "m", batch[0].Method)
			return []models.UpstreamResult{
				{ID: uid(2), Result: json.RawMessage(`"fresh"`)},
			}, nil
		},
	)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[1]"),
		clientRequest(2, "m", "[2]"),
		clientRequest(3, "m", "[3]"),
	})
	require.NoError(t, err)
	require.Len(t, responses, 3)

	assert.Equal(t, uint64(1), responses[0].ID)
	assert.Equal(t, `"one"`, string(responses[0].Result))
	assert.Equal(t, uint64(2), responses[1].ID)
	assert.Equal(t, `"fresh"`, string(responses[1].Result))
	assert.Equal(t, uint64(3), responses[2].ID)
	assert.Equal(t, `"three"`, string(responses[2].Result))
	for _, resp := range responses {
		assert.Equal(t, models.Version, resp.Jsonrpc)
	}
}

func TestExecute_AllHitsSkipUpstream(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return(`{"ok":true}`, true, nil).Times(2)

	// No CallBatch expectation: the upstream must never be contacted.
	mockUpstream := mock.NewMockUpstreamClient(ctrl)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(10, "m", "[1]"),
		clientRequest(11, "m", "[2]"),
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, uint64(10), responses[0].ID)
	assert.Equal(t, uint64(11), responses[1].ID)
}

func TestExecute_NoHandlersForwardsEverythingUncached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)

	// No Get/Set expectations: the store must never be touched.
	mockStore := mock.NewMockCacheStore(ctrl)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, batch []models.BatchItem) ([]models.UpstreamResult, error) {
			require.Len(t, batch, 2)
			assert.Equal(t, "eth_chainId", batch[0].Method)
			assert.Equal(t, "eth_blockNumber", batch[1].Method)
			return []models.UpstreamResult{
				{ID: uid(1), Result: json.RawMessage(`"0x1"`)},
				{ID: uid(2), Result: json.RawMessage(`"0x10"`)},
			}, nil
		},
	)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "eth_chainId", "[]"),
		clientRequest(2, "eth_blockNumber", "[]"),
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.Equal(t, `"0x1"`, string(responses[0].Result))
	assert.Equal(t, `"0x10"`, string(responses[1].Result))
}

func TestExecute_MissingIDRejectsWholeCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)
	eng := New(mock.NewMockCacheStore(ctrl), mock.NewMockUpstreamClient(ctrl), zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[]"),
		{Method: "m"}, // no id
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestExecute_MissingMethodRejectsWholeCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)
	eng := New(mock.NewMockCacheStore(ctrl), mock.NewMockUpstreamClient(ctrl), zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		{ID: uid(1)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestExecute_UpstreamSubErrorFailsWholeBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{ID: uid(1), Result: json.RawMessage(`"ok"`)},
			{ID: uid(2), Error: &models.RPCError{Code: -32000, Message: "execution reverted"}},
			{ID: uid(3), Result: json.RawMessage(`"ok"`)},
		}, nil)

	eng := New(mock.NewMockCacheStore(ctrl), mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "a", "[]"),
		clientRequest(2, "b", "[]"),
		clientRequest(3, "c", "[]"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, responses)
}

func TestExecute_UpstreamTransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	eng := New(mock.NewMockCacheStore(ctrl), mockUpstream, zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[]"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestExecute_UnknownUpstreamID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{ID: uid(99), Result: json.RawMessage(`"ok"`)},
		}, nil)

	eng := New(mock.NewMockCacheStore(ctrl), mockUpstream, zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[]"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadCorrelation)
}

func TestExecute_UpstreamItemWithoutID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{Result: json.RawMessage(`"ok"`)},
		}, nil)

	eng := New(mock.NewMockCacheStore(ctrl), mockUpstream, zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[]"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadCorrelation)
}

func TestExecute_CorruptCacheEntryFailsCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return("{not json", true, nil)

	eng := New(mockStore, mock.NewMockUpstreamClient(ctrl), zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[1]"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptCache)
}

func TestExecute_StoreReadErrorDegradesToUncached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, errors.New("store unreachable"))

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, batch []models.BatchItem) ([]models.UpstreamResult, error) {
			require.Len(t, batch, 1)
			return []models.UpstreamResult{
				{ID: uid(1), Result: json.RawMessage(`"ok"`)},
			}, nil
		},
	)
	// No Set expectation: a degraded request carries no cache key.

	eng := New(mockStore, mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[1]"),
	})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.Equal(t, `"ok"`, string(responses[0].Result))
}

func TestExecute_KeyExtractionErrorDegradesToUncached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mock.NewMockCacheHandler(ctrl)
	handler.EXPECT().MethodName().Return("m").AnyTimes()
	handler.EXPECT().ExtractCacheKey(gomock.Any()).Return("", false, errors.New("bad params"))
	chain := newTestChain(t, handler)

	// The store must not be consulted when no key could be derived.
	mockStore := mock.NewMockCacheStore(ctrl)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{ID: uid(1), Result: json.RawMessage(`"ok"`)},
		}, nil)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[1]"),
	})
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(responses[0].Result))
}

func TestExecute_ValueExtractionErrorSkipsWriteButSucceeds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	handler.EXPECT().ExtractCacheValue(gomock.Any()).Return(false, "", errors.New("unexpected shape"))
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, nil)
	// No Set expectation: the failed extraction skips the write.

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{ID: uid(1), Result: json.RawMessage(`"ok"`)},
		}, nil)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[1]"),
	})
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(responses[0].Result))
}

func TestExecute_NonCacheableResultSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	handler.EXPECT().ExtractCacheValue(gomock.Any()).Return(false, "", nil)
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, nil)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{ID: uid(1), Result: json.RawMessage(`null`)},
		}, nil)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[1]"),
	})
	require.NoError(t, err)
}

func TestExecute_CacheWriteFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	handler.EXPECT().ExtractCacheValue(gomock.Any()).Return(true, `"ok"`, nil)
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", false, nil)
	mockStore.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("store unreachable"))

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{ID: uid(1), Result: json.RawMessage(`"ok"`)},
		}, nil)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[1]"),
	})
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(responses[0].Result))
}

func TestExecute_WriteBackUsesChainScopedKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := newCachedMethodHandler(ctrl, "m")
	handler.EXPECT().ExtractCacheValue(gomock.Any()).Return(true, `{"n":1}`, nil)
	chain := newTestChain(t, handler)

	mockStore := mock.NewMockCacheStore(ctrl)
	mockStore.EXPECT().Get(gomock.Any(), "ETH:m:[7]").Return("", false, nil)
	mockStore.EXPECT().Set(gomock.Any(), "ETH:m:[7]", `{"n":1}`).Return(nil)

	mockUpstream := mock.NewMockUpstreamClient(ctrl)
	mockUpstream.EXPECT().CallBatch(gomock.Any(), gomock.Any(), gomock.Any()).Return(
		[]models.UpstreamResult{
			{ID: uid(1), Result: json.RawMessage(`{"n":1}`)},
		}, nil)

	eng := New(mockStore, mockUpstream, zap.NewNop())

	_, err := eng.Execute(context.Background(), chain, []models.ClientRequest{
		clientRequest(1, "m", "[7]"),
	})
	require.NoError(t, err)
}

func TestExecute_EmptyBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	chain := newTestChain(t)
	eng := New(mock.NewMockCacheStore(ctrl), mock.NewMockUpstreamClient(ctrl), zap.NewNop())

	responses, err := eng.Execute(context.Background(), chain, nil)
	require.NoError(t, err)
	assert.Empty(t, responses)
}
