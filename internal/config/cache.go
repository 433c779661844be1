package config

import (
	"context"
	"fmt"

	"github.com/matzehuels/bilateral/pkg/cache"
)

// Open creates the configured cache backend.
func (c CacheConfig) Open(ctx context.Context) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		mc, err := cache.NewMemoryCache(c.MemorySize)
		if err != nil {
			return nil, err
		}
		return mc, nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.RedisAddr)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case BackendFile, "":
		fc, err := cache.NewFileCache(c.Dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", c.Backend)
	}
}

// Keyer returns the cache keyer, scoped when a prefix is configured.
func (c CacheConfig) Keyer() cache.Keyer {
	if c.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Prefix)
}
