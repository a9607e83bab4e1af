// Package upstream implements the HTTP JSON-RPC batch client used to reach
// chain nodes.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"rpc-cache-proxy/internal/interfaces"
	"rpc-cache-proxy/internal/models"
)

// Ensure Client implements interfaces.UpstreamClient
var _ interfaces.UpstreamClient = (*Client)(nil)

// Client posts JSON-RPC batches to upstream nodes over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an upstream client with the given request timeout.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CallBatch posts the batch to rpcURL and parses the batch response. A batch
// request must be answered with a JSON array; anything else is an error.
func (c *Client) CallBatch(ctx context.Context, rpcURL string, batch []models.BatchItem) ([]models.UpstreamResult, error) {
	body, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Upstream returned non-OK status",
			zap.String("url", rpcURL),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	var results []models.UpstreamResult
	if err := json.Unmarshal(data, &results); err != nil {
		c.logger.Error("Invalid upstream batch response",
			zap.String("url", rpcURL),
			zap.Error(err))
		return nil, fmt.Errorf("invalid upstream batch response: %w", err)
	}

	return results, nil
}
