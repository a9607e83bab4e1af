// Package engine implements the batch reconciliation core: it splits a
// client batch into cache hits, misses and uncacheable calls, forwards the
// remainder as one upstream batch, writes fresh results back to the store
// and reassembles the response in the client's original order.
package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"rpc-cache-proxy/internal/interfaces"
	"rpc-cache-proxy/internal/metrics"
	"rpc-cache-proxy/internal/models"
	"rpc-cache-proxy/internal/registry"
)

// Engine orchestrates cache lookups, the upstream miss batch and response
// reassembly for one client call at a time. It is stateless and safe for
// concurrent use.
type Engine struct {
	store    interfaces.CacheStore
	upstream interfaces.UpstreamClient
	logger   *zap.Logger
}

// New creates a reconciliation engine.
func New(store interfaces.CacheStore, upstream interfaces.UpstreamClient, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		upstream: upstream,
		logger:   logger,
	}
}

// pendingRequest is a client request that must be forwarded upstream. A
// non-empty storeKey means the result should be written back on success.
type pendingRequest struct {
	id       uint64
	method   string
	params   json.RawMessage
	storeKey string
	handler  interfaces.CacheHandler
}

// lookupOutcome is the per-request classification of the cache-read phase.
type lookupOutcome struct {
	hit     bool
	result  json.RawMessage
	pending pendingRequest
}

// Execute runs the full reconciliation for one ordered client batch and
// returns the responses in the same order.
//
// Failure policy: cache-layer problems degrade single requests to uncached;
// a corrupt cached value, any upstream failure and any upstream per-item
// error fail the whole call.
func (e *Engine) Execute(ctx context.Context, chain *registry.ChainEndpoint, requests []models.ClientRequest) ([]models.Response, error) {
	// Validate everything up front; no partial processing on bad input.
	for i := range requests {
		if requests[i].ID == nil {
			return nil, fmt.Errorf("%w: request %d has no id", ErrInvalidRequest, i)
		}
		if requests[i].Method == "" {
			return nil, fmt.Errorf("%w: request %d has no method", ErrInvalidRequest, i)
		}
	}

	// The result table iterates in no useful order; orderedIDs alone decides
	// the output order.
	orderedIDs := make([]uint64, 0, len(requests))
	results := make(map[uint64]json.RawMessage, len(requests))

	outcomes, err := e.lookupAll(ctx, chain, requests)
	if err != nil {
		return nil, err
	}

	var pending []pendingRequest
	for i := range requests {
		orderedIDs = append(orderedIDs, *requests[i].ID)
		if outcomes[i].hit {
			results[*requests[i].ID] = outcomes[i].result
		} else {
			pending = append(pending, outcomes[i].pending)
		}
	}

	if len(pending) > 0 {
		if err := e.resolveUpstream(ctx, chain, pending, results); err != nil {
			return nil, err
		}
	}

	responses := make([]models.Response, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		result, ok := results[id]
		if !ok {
			// Reaching this point with an unresolved id is a reconciliation
			// bug, not bad input.
			e.logger.DPanic("No result for request id after reconciliation",
				zap.String("chain", chain.Name), zap.Uint64("id", id))
			return nil, fmt.Errorf("%w: no result for id %d", ErrInternal, id)
		}
		responses = append(responses, models.Response{
			Jsonrpc: models.Version,
			ID:      id,
			Result:  result,
		})
	}

	return responses, nil
}

// lookupAll runs the cache-read phase for every request concurrently. All
// lookups complete before the miss batch is built. Only cache corruption
// aborts; every other cache-layer problem degrades the request to uncached.
func (e *Engine) lookupAll(ctx context.Context, chain *registry.ChainEndpoint, requests []models.ClientRequest) ([]lookupOutcome, error) {
	outcomes := make([]lookupOutcome, len(requests))

	g, gctx := errgroup.WithContext(ctx)
	for i := range requests {
		i := i
		g.Go(func() error {
			outcome, err := e.lookup(gctx, chain, &requests[i])
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// lookup classifies one request against the cache.
func (e *Engine) lookup(ctx context.Context, chain *registry.ChainEndpoint, req *models.ClientRequest) (lookupOutcome, error) {
	forward := lookupOutcome{pending: pendingRequest{
		id:     *req.ID,
		method: req.Method,
		params: req.Params,
	}}

	handler, ok := chain.Handler(req.Method)
	if !ok {
		metrics.RecordCacheBypass(chain.Name, req.Method)
		return forward, nil
	}

	key, ok, err := handler.ExtractCacheKey(req.Params)
	if err != nil {
		e.logger.Warn("Failed to extract cache key, forwarding uncached",
			zap.String("chain", chain.Name),
			zap.String("method", req.Method),
			zap.Error(err))
		metrics.RecordCacheBypass(chain.Name, req.Method)
		return forward, nil
	}
	if !ok {
		e.logger.Debug("Cache not available for request",
			zap.String("chain", chain.Name),
			zap.String("method", req.Method))
		metrics.RecordCacheBypass(chain.Name, req.Method)
		return forward, nil
	}

	storeKey := chain.StoreKey(key)

	value, found, err := e.store.Get(ctx, storeKey)
	if err != nil {
		e.logger.Error("Cache read failed, forwarding uncached",
			zap.String("chain", chain.Name),
			zap.String("key", storeKey),
			zap.Error(err))
		metrics.RecordCacheBypass(chain.Name, req.Method)
		return forward, nil
	}

	if found {
		// A stored value that no longer parses must not be served and must
		// not silently turn into a miss either.
		if !json.Valid([]byte(value)) {
			return lookupOutcome{}, fmt.Errorf("%w: key %s", ErrCorruptCache, storeKey)
		}
		e.logger.Debug("Cache hit",
			zap.String("chain", chain.Name),
			zap.String("method", req.Method),
			zap.String("key", storeKey))
		metrics.RecordCacheHit(chain.Name, req.Method)
		return lookupOutcome{hit: true, result: json.RawMessage(value)}, nil
	}

	e.logger.Debug("Cache miss",
		zap.String("chain", chain.Name),
		zap.String("method", req.Method),
		zap.String("key", storeKey))
	metrics.RecordCacheMiss(chain.Name, req.Method)

	forward.pending.storeKey = storeKey
	forward.pending.handler = handler
	return forward, nil
}

// resolveUpstream forwards the pending requests as one batch, reconciles the
// per-item results into the result table and writes cacheable results back.
func (e *Engine) resolveUpstream(ctx context.Context, chain *registry.ChainEndpoint, pending []pendingRequest, results map[uint64]json.RawMessage) error {
	batch := make([]models.BatchItem, len(pending))
	byID := make(map[uint64]*pendingRequest, len(pending))
	for i := range pending {
		batch[i] = models.BatchItem{
			Jsonrpc: models.Version,
			ID:      pending[i].id,
			Method:  pending[i].method,
			Params:  pending[i].params,
		}
		byID[pending[i].id] = &pending[i]
	}

	metrics.RecordUpstreamBatch(chain.Name, len(batch))

	items, err := e.upstream.CallBatch(ctx, chain.UpstreamURL.String(), batch)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	for i := range items {
		item := &items[i]
		if item.ID == nil {
			return fmt.Errorf("%w: upstream response item %d has no id", ErrBadCorrelation, i)
		}
		req, ok := byID[*item.ID]
		if !ok {
			return fmt.Errorf("%w: id %d", ErrBadCorrelation, *item.ID)
		}

		// One failing sub-call fails the whole batch; no partial success.
		if item.Error != nil {
			e.logger.Error("Upstream RPC error",
				zap.String("chain", chain.Name),
				zap.String("method", req.method),
				zap.Int("code", item.Error.Code),
				zap.String("message", item.Error.Message))
			return fmt.Errorf("%w: remote rpc error for method %s", ErrUpstream, req.method)
		}

		results[req.id] = item.Result

		if req.storeKey == "" {
			continue
		}

		cacheable, value, err := req.handler.ExtractCacheValue(item.Result)
		if err != nil {
			e.logger.Warn("Failed to extract cache value, skipping cache write",
				zap.String("chain", chain.Name),
				zap.String("method", req.method),
				zap.Error(err))
			continue
		}
		if !cacheable {
			continue
		}

		// Cache writes are best-effort and never fail the call.
		if err := e.store.Set(ctx, req.storeKey, value); err != nil {
			e.logger.Error("Cache write failed",
				zap.String("chain", chain.Name),
				zap.String("key", req.storeKey),
				zap.Error(err))
			metrics.RecordCacheWriteError(chain.Name)
		}
	}

	return nil
}
