package interfaces

import (
	"context"

	"rpc-cache-proxy/internal/models"
)

//go:generate mockgen -package=mock -source=upstream.go -destination=mock/upstream.go

// UpstreamClient sends one JSON-RPC batch to an upstream node.
type UpstreamClient interface {
	// CallBatch posts the batch to rpcURL and returns the parsed per-item
	// results. The response must be a JSON array.
	CallBatch(ctx context.Context, rpcURL string, batch []models.BatchItem) ([]models.UpstreamResult, error)
}
