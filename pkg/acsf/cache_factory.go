package acsf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// CacheType represents the type of cache backend.
type CacheType string

const (
	// CacheTypeMemory represents in-memory cache.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeNATS represents NATS KV cache.
	CacheTypeNATS CacheType = "nats"

	// CacheTypeTiered puts a memory cache in front of a NATS KV cache.
	CacheTypeTiered CacheType = "tiered"

	// CacheTypeNone represents no caching.
	CacheTypeNone CacheType = "none"
)

// Defaults for the memory backend.
const (
	DefaultCacheSize = 128
	DefaultCacheTTL  = 5 * time.Minute
)

// Static errors for err113 compliance.
var (
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
)

// CacheConfig configures cache backend.
type CacheConfig struct {
	// Type is the cache backend type
	Type CacheType

	// Memory cache configuration
	Memory *MemoryCacheConfig

	// NATS KV cache configuration
	NATS *NATSKVConfig
}

// MemoryCacheConfig configures memory cache.
type MemoryCacheConfig struct {
	// MaxSize is the maximum number of items in the cache
	MaxSize int

	// TTL is how long an entry stays valid, as a duration string like "5m".
	TTL string
}

// DefaultCacheConfig returns default cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type: CacheTypeMemory,
		Memory: &MemoryCacheConfig{
			MaxSize: DefaultCacheSize,
			TTL:     DefaultCacheTTL.String(),
		},
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		return NewMemoryCacheFromConfig(config.Memory)

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeTiered:
		return newTieredCache(config)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// NewMemoryCacheFromConfig creates a memory cache from configuration.
func NewMemoryCacheFromConfig(config *MemoryCacheConfig) (Cache, error) {
	if config == nil {
		return NewMemoryCache(DefaultCacheSize, DefaultCacheTTL), nil
	}

	ttl := DefaultCacheTTL

	if config.TTL != "" {
		parsed, err := time.ParseDuration(config.TTL)
		if err != nil {
			return nil, fmt.Errorf("parsing cache TTL: %w", err)
		}

		ttl = parsed
	}

	maxSize := config.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	return NewMemoryCache(maxSize, ttl), nil
}

// newTieredCache chains a memory L1 in front of a NATS KV L2.
func newTieredCache(config *CacheConfig) (Cache, error) {
	if config.NATS == nil {
		return nil, ErrNATSConfigRequired
	}

	memory, err := NewMemoryCacheFromConfig(config.Memory)
	if err != nil {
		return nil, err
	}

	shared, err := NewNATSKVCache(config.NATS)
	if err != nil {
		return nil, err
	}

	return NewCacheChain(memory, shared), nil
}

// CacheChain implements a chain of cache backends (L1, L2, etc.)
type CacheChain struct {
	caches []Cache
	logger Logger
}

// NewCacheChain creates a new cache chain.
func NewCacheChain(caches ...Cache) *CacheChain {
	return &CacheChain{
		caches: caches,
	}
}

// WithLogger reports failed write-backs to logger.
func (c *CacheChain) WithLogger(logger Logger) *CacheChain {
	c.logger = logger

	return c
}

// Get retrieves an item from the cache chain. A hit in a lower level is
// written back to the levels above it; write-back failures do not fail the
// lookup.
func (c *CacheChain) Get(ctx context.Context, key string) ([]byte, error) {
	for i, cache := range c.caches {
		value, err := cache.Get(ctx, key)
		if err != nil {
			continue
		}

		for j := range i {
			if err := c.caches[j].Set(ctx, key, value); err != nil && c.logger != nil {
				c.logger.Warn("cache write-back failed", map[string]interface{}{
					"key":   key,
					"level": j + 1,
					"error": err.Error(),
				})
			}
		}

		return value, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrCacheMiss, ErrKeyNotFoundInAnyCache)
}

// Set stores an item in all caches.
func (c *CacheChain) Set(ctx context.Context, key string, value []byte) error {
	var lastErr error

	for _, cache := range c.caches {
		err := cache.Set(ctx, key, value)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// Delete removes an item from all caches.
func (c *CacheChain) Delete(ctx context.Context, key string) error {
	var lastErr error

	for _, cache := range c.caches {
		err := cache.Delete(ctx, key)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// Clear removes all items from all caches.
func (c *CacheChain) Clear(ctx context.Context) error {
	var lastErr error

	for _, cache := range c.caches {
		err := cache.Clear(ctx)
		if err != nil {
			lastErr = err
		}
	}

	return lastErr
}

// Close closes every level that holds a connection.
func (c *CacheChain) Close() error {
	var errs []error

	for _, cache := range c.caches {
		if closer, ok := cache.(io.Closer); ok {
			errs = append(errs, closer.Close())
		}
	}

	return errors.Join(errs...)
}
