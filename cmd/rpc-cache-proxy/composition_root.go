package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"rpc-cache-proxy/internal/config"
	"rpc-cache-proxy/internal/engine"
	"rpc-cache-proxy/internal/handlers"
	"rpc-cache-proxy/internal/httpserver"
	"rpc-cache-proxy/internal/interfaces"
	"rpc-cache-proxy/internal/registry"
	"rpc-cache-proxy/internal/store"
	"rpc-cache-proxy/internal/upstream"
)

// CompositionRoot holds all application dependencies and provides a
// centralized place for dependency injection: every component is constructed
// once at startup and passed down explicitly, never reached through globals.
type CompositionRoot struct {
	Config *config.Config
	Logger *zap.Logger

	Store    interfaces.CacheStore
	Registry *registry.Registry
	Engine   *engine.Engine

	HTTPServer *httpserver.Server

	keydbClient interfaces.KeyDbClient
	l1Store     interfaces.CacheStore
}

// NewCompositionRoot creates and wires all application dependencies.
//
// Initialization order:
// 1. Logger (needed by all other components)
// 2. Configuration
// 3. Cache store (L1/KeyDB tiers)
// 4. Chain registry (endpoints + cache handler tables)
// 5. Engine and HTTP server
func NewCompositionRoot(endpointArgs []string, configPath string) (*CompositionRoot, error) {
	root := &CompositionRoot{}

	if err := root.initLogger(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := root.loadConfig(configPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := root.initStore(); err != nil {
		return nil, fmt.Errorf("failed to initialize cache store: %w", err)
	}

	if err := root.initRegistry(endpointArgs); err != nil {
		return nil, fmt.Errorf("failed to initialize chain registry: %w", err)
	}

	root.Engine = engine.New(
		root.Store,
		upstream.NewClient(root.Config.Upstream.GetTimeout(), root.Logger),
		root.Logger,
	)

	root.HTTPServer = httpserver.NewServer(root.Registry, root.Engine, root.Logger)

	return root, nil
}

// initLogger initializes the application logger
func (r *CompositionRoot) initLogger() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	r.Logger = logger
	return nil
}

// loadConfig loads the application configuration
func (r *CompositionRoot) loadConfig(configPath string) error {
	if configPath == "" {
		configPath = os.Getenv("CACHE_CONFIG_FILE")
	}
	if configPath == "" {
		configPath = "/app/cache_config.yaml"
	}

	cfg, err := config.LoadConfig(configPath, r.Logger)
	if err != nil {
		return err
	}

	r.Config = cfg
	return nil
}

// initStore builds the cache store from the configured tiers. A KeyDB
// connection failure degrades to the remaining tiers instead of refusing to
// start; the proxy still works, just uncached.
func (r *CompositionRoot) initStore() error {
	var tiers []interfaces.CacheStore

	if r.Config.BigCache.Enabled {
		l1, err := store.NewBigCacheStore(&r.Config.BigCache, r.Logger)
		if err != nil {
			return err
		}
		r.l1Store = l1
		tiers = append(tiers, l1)
		r.Logger.Info("BigCache (L1) initialized", zap.Int("size_mb", r.Config.BigCache.Size))
	}

	if r.Config.KeyDB.Enabled {
		keydbURL := GetKeyDBURL(r.Logger)

		keydbClient, err := store.NewRedisKeyDbClient(&r.Config.KeyDB, keydbURL, r.Logger)
		if err != nil {
			r.Logger.Warn("Failed to connect to KeyDB, continuing without it",
				zap.String("keydb_url", keydbURL),
				zap.Error(err))
		} else {
			r.keydbClient = keydbClient
			tiers = append(tiers, store.NewKeyDBStore(keydbClient, r.Config.KeyDB.GetTTL(), r.Logger))
			r.Logger.Info("KeyDB initialized", zap.String("keydb_url", keydbURL))
		}
	}

	switch len(tiers) {
	case 0:
		r.Logger.Warn("All cache tiers disabled, responses will not be cached")
		r.Store = store.NewNoOpStore()
	case 1:
		r.Store = tiers[0]
	default:
		r.Store = store.NewTieredStore(tiers, r.Logger)
	}

	return nil
}

// initRegistry builds the chain registry from the --endpoint flags.
func (r *CompositionRoot) initRegistry(endpointArgs []string) error {
	endpoints, err := parseEndpoints(endpointArgs)
	if err != nil {
		return err
	}

	reg, err := registry.New(endpoints, handlers.AllFactories(), r.Logger)
	if err != nil {
		return err
	}

	r.Registry = reg
	return nil
}

// parseEndpoints turns repeated NAME=URL flag values into the endpoint table.
func parseEndpoints(args []string) (map[string]string, error) {
	endpoints := make(map[string]string, len(args))
	for _, arg := range args {
		name, rawURL, ok := strings.Cut(arg, "=")
		if !ok || name == "" || rawURL == "" {
			return nil, fmt.Errorf("invalid endpoint %q, expected NAME=URL", arg)
		}
		endpoints[name] = rawURL
	}
	return endpoints, nil
}

// Cleanup performs cleanup of all resources
func (r *CompositionRoot) Cleanup() error {
	var errs []error

	if r.Logger != nil {
		if err := r.Logger.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("failed to sync logger: %w", err))
		}
	}

	if r.l1Store != nil {
		if closer, ok := r.l1Store.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close L1 store: %w", err))
			}
		}
	}

	if r.keydbClient != nil {
		if err := r.keydbClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close KeyDB client: %w", err))
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
