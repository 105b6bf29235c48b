// Package cache keeps transcripts of recently processed audio so that
// regenerating minutes for the same recording skips transcription.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	DefaultTTL  = time.Hour
	DefaultSize = 128

	keyPrefix = "mom:transcript:"
)

// TranscriptCache stores formatted transcripts by audio key
type TranscriptCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
}

// Key derives a cache key from the audio bytes and the speech language
func Key(audio []byte, speechLanguage string) string {
	h := sha256.New()
	h.Write(audio)
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(speechLanguage)))
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache is an in-process LRU with per-entry expiry
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

// NewMemoryCache creates an in-process cache
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	return c.lru.Get(key)
}

func (c *MemoryCache) Set(_ context.Context, key, value string) {
	c.lru.Add(key, value)
}

// Len returns the number of live entries
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// RedisCache stores transcripts in redis with a TTL. Every lookup also goes
// through a local LRU so a redis outage degrades to per-process caching.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	local  *MemoryCache
	logger *zap.Logger
}

// NewRedisCache wraps client
func NewRedisCache(client *redis.Client, ttl time.Duration, local *MemoryCache, logger *zap.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if local == nil {
		local = NewMemoryCache(DefaultSize, ttl)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{client: client, ttl: ttl, local: local, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	if v, ok := c.local.Get(ctx, key); ok {
		return v, true
	}
	v, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	c.local.Set(ctx, key, v)
	return v, true
}

func (c *RedisCache) Set(ctx context.Context, key, value string) {
	c.local.Set(ctx, key, value)
	if err := c.client.Set(ctx, keyPrefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// Options configure New
type Options struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
	Size          int
}

// New returns a redis-backed cache when an address is configured and
// reachable, otherwise an in-process one.
func New(ctx context.Context, opts Options, logger *zap.Logger) TranscriptCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	local := NewMemoryCache(opts.Size, opts.TTL)
	if opts.RedisAddr == "" {
		return local
	}

	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process transcript cache",
			zap.String("addr", opts.RedisAddr), zap.Error(err))
		client.Close()
		return local
	}

	logger.Info("transcript cache using redis", zap.String("addr", opts.RedisAddr))
	return NewRedisCache(client, opts.TTL, local, logger)
}
