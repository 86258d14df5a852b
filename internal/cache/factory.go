// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Backend names reported by Info.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and configures a cache backend.
type Config struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL        string
	Prefix          string
	DefaultTTL      time.Duration
	MaxSize         int
	CleanupInterval time.Duration
}

// Info describes the backend New ended up using.
type Info struct {
	Backend    string
	IsFallback bool
}

// New creates a Redis cache when cfg.RedisURL is set and reachable, and a
// memory cache otherwise. A Redis connection failure is logged and falls
// back to memory so the site keeps working without Redis.
func New(cfg Config, logger *slog.Logger) (Cache, Info) {
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		rc, err := NewRedisCache(opts)
		if err == nil {
			return rc, Info{Backend: BackendRedis}
		}
		logger.Warn("redis cache unavailable, falling back to memory", "error", err)
		return newMemoryFromConfig(cfg), Info{Backend: BackendMemory, IsFallback: true}
	}

	return newMemoryFromConfig(cfg), Info{Backend: BackendMemory}
}

func newMemoryFromConfig(cfg Config) *MemoryCache {
	interval := cfg.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: interval,
	})
}
