// Package registry holds the static chain table built at startup: chain name
// to upstream URL plus the method-to-handler table. It is read-only after
// boot and shared by every in-flight call without locking.
package registry

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"rpc-cache-proxy/internal/handlers"
	"rpc-cache-proxy/internal/interfaces"
)

// ChainEndpoint describes one upstream chain.
type ChainEndpoint struct {
	Name        string
	UpstreamURL *url.URL
	handlers    map[string]interfaces.CacheHandler
}

// Handler returns the cache handler registered for method, if any.
func (c *ChainEndpoint) Handler(method string) (interfaces.CacheHandler, bool) {
	h, ok := c.handlers[method]
	return h, ok
}

// StoreKey namespaces a handler-derived cache key for this chain, so chains
// sharing one store never collide.
func (c *ChainEndpoint) StoreKey(handlerKey string) string {
	return c.Name + ":" + handlerKey
}

// Registry maps uppercased chain names to their endpoints.
type Registry struct {
	chains map[string]*ChainEndpoint
}

// New builds the registry from a name-to-URL table and the handler factory
// list. Each chain gets its own handler instances. If two factories claim
// the same method, the later registration wins; this is logged because it
// usually points at a duplicated factory.
func New(endpoints map[string]string, factories []handlers.Factory, logger *zap.Logger) (*Registry, error) {
	if len(endpoints) == 0 {
		return nil, fmt.Errorf("no chain endpoints configured")
	}

	chains := make(map[string]*ChainEndpoint, len(endpoints))
	for name, rawURL := range endpoints {
		upstreamURL, err := url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid upstream URL for chain %s: %w", name, err)
		}
		if upstreamURL.Scheme == "" || upstreamURL.Host == "" {
			return nil, fmt.Errorf("invalid upstream URL for chain %s: %s", name, rawURL)
		}

		chain := &ChainEndpoint{
			Name:        strings.ToUpper(name),
			UpstreamURL: upstreamURL,
			handlers:    make(map[string]interfaces.CacheHandler, len(factories)),
		}

		for _, factory := range factories {
			handler := factory()
			method := handler.MethodName()
			if _, exists := chain.handlers[method]; exists {
				logger.Warn("Duplicate cache handler registration, later one wins",
					zap.String("chain", chain.Name),
					zap.String("method", method))
			}
			chain.handlers[method] = handler
		}

		chains[chain.Name] = chain

		logger.Info("Registered chain endpoint",
			zap.String("chain", chain.Name),
			zap.String("upstream_url", upstreamURL.String()),
			zap.Int("cache_handlers", len(chain.handlers)))
	}

	return &Registry{chains: chains}, nil
}

// Lookup resolves a chain by name, case-insensitively.
func (r *Registry) Lookup(name string) (*ChainEndpoint, bool) {
	chain, ok := r.chains[strings.ToUpper(name)]
	return chain, ok
}
