package config

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents the main configuration structure
type Config struct {
	BigCache BigCacheConfig `yaml:"bigcache"`
	KeyDB    KeyDBConfig    `yaml:"keydb"`
	Upstream UpstreamConfig `yaml:"upstream"`
}

// BigCacheConfig configures the optional in-process cache tier.
type BigCacheConfig struct {
	Enabled    bool `yaml:"enabled"`
	Size       int  `yaml:"size_mb"`
	TTLSeconds int  `yaml:"ttl_seconds"`
}

// KeyDBConfig configures the remote KeyDB/Redis cache tier.
type KeyDBConfig struct {
	Enabled    bool             `yaml:"enabled"`
	TTLSeconds int              `yaml:"ttl_seconds"` // 0 keeps entries until evicted
	Connection ConnectionConfig `yaml:"connection"`
	Keepalive  KeepaliveConfig  `yaml:"keepalive"`
}

// ConnectionConfig holds KeyDB connection timeouts in seconds.
type ConnectionConfig struct {
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
	ReadTimeoutSeconds    int `yaml:"read_timeout_seconds"`
	SendTimeoutSeconds    int `yaml:"send_timeout_seconds"`
}

// KeepaliveConfig holds KeyDB connection pool settings.
type KeepaliveConfig struct {
	PoolSize              int `yaml:"pool_size"`
	MaxIdleTimeoutSeconds int `yaml:"max_idle_timeout_seconds"`
}

// UpstreamConfig configures the upstream JSON-RPC HTTP client.
type UpstreamConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{
		KeyDB: KeyDBConfig{Enabled: true},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads configuration from file path. A missing file is not an
// error; the defaults apply.
func LoadConfig(configPath string, logger *zap.Logger) (*Config, error) {
	config := DefaultConfig()

	file, err := os.Open(configPath)
	if os.IsNotExist(err) {
		logger.Info("No config file found, using defaults", zap.String("path", configPath))
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer func() { _ = file.Close() }()

	logger.Info("Loading configuration", zap.String("path", configPath))

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	config.applyDefaults()
	return config, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.BigCache.Size <= 0 {
		c.BigCache.Size = 64
	}
	if c.BigCache.TTLSeconds <= 0 {
		c.BigCache.TTLSeconds = 600
	}
	if c.KeyDB.Connection.ConnectTimeoutSeconds <= 0 {
		c.KeyDB.Connection.ConnectTimeoutSeconds = 5
	}
	if c.KeyDB.Connection.ReadTimeoutSeconds <= 0 {
		c.KeyDB.Connection.ReadTimeoutSeconds = 3
	}
	if c.KeyDB.Connection.SendTimeoutSeconds <= 0 {
		c.KeyDB.Connection.SendTimeoutSeconds = 3
	}
	if c.KeyDB.Keepalive.PoolSize <= 0 {
		c.KeyDB.Keepalive.PoolSize = 10
	}
	if c.KeyDB.Keepalive.MaxIdleTimeoutSeconds <= 0 {
		c.KeyDB.Keepalive.MaxIdleTimeoutSeconds = 60
	}
	if c.Upstream.TimeoutSeconds <= 0 {
		c.Upstream.TimeoutSeconds = 30
	}
}

// GetTTL returns the value TTL for BigCache entries.
func (c *BigCacheConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// GetTTL returns the value TTL for KeyDB entries. Zero means no expiry.
func (c *KeyDBConfig) GetTTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// GetConnectTimeout returns the KeyDB dial timeout.
func (c *ConnectionConfig) GetConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// GetReadTimeout returns the KeyDB read timeout.
func (c *ConnectionConfig) GetReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// GetSendTimeout returns the KeyDB write timeout.
func (c *ConnectionConfig) GetSendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// GetMaxIdleTimeout returns how long idle pooled connections are kept.
func (c *KeepaliveConfig) GetMaxIdleTimeout() time.Duration {
	return time.Duration(c.MaxIdleTimeoutSeconds) * time.Second
}

// GetTimeout returns the end-to-end upstream request timeout.
func (c *UpstreamConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
