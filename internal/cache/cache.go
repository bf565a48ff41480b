// Package cache memoizes pipeline.Analyze results behind a Redis-backed
// cache keyed by document text and resolver configuration, so a batch
// run over an unchanged corpus never re-runs the resolver chain on a
// document it has already analyzed. It is an ambient performance
// collaborator, not part of the core: internal/pipeline never imports
// this package.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/layeredcontracts/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/layeredcontracts/internal/pipeline"
	"github.com/turtacn/layeredcontracts/pkg/errors"
)

// ErrClientClosed is returned by any operation issued after Close.
var ErrClientClosed = errors.New(errors.CodeCacheError, "cache: client is closed")

// Config holds Redis connection parameters for the memoization cache.
type Config struct {
	Addr        string
	Password    string
	DB          int
	PoolSize    int
	DialTimeout time.Duration
	DefaultTTL  time.Duration
	KeyPrefix   string
}

// Cache wraps a Redis client scoped to one logical purpose: mapping a
// (document text, pipeline config) pair to its already-computed
// snapshot JSON.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// New connects to Redis and verifies reachability with a Ping, matching
// the fail-fast-at-startup convention the rest of the collaborator
// stack follows.
func New(cfg Config, logger logging.Logger) (*Cache, error) {
	if cfg.PoolSize == 0 {
		cfg.PoolSize = 10
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = time.Hour
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, errors.CodeCacheError, "cache: redis ping failed")
	}

	logger.Info("cache connected", logging.String("addr", cfg.Addr))

	return &Cache{rdb: rdb, ttl: cfg.DefaultTTL, prefix: cfg.KeyPrefix, logger: logger}, nil
}

// Close releases the underlying Redis connection pool.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rdb.Close()
}

// Key derives the cache key for a document under a given resolver
// configuration fingerprint: two documents with identical text analyzed
// under different tunables must never collide.
func (c *Cache) Key(text string, cfg pipeline.Config) string {
	h := sha256.New()
	h.Write([]byte(text))
	h.Write([]byte(Fingerprint(cfg)))
	return c.prefix + hex.EncodeToString(h.Sum(nil))
}

// Fingerprint renders the whole pipeline.Config into a stable JSON
// string, so bumping a threshold
// invalidates stale cache entries without a manual flush.
func Fingerprint(cfg pipeline.Config) string {
	b, _ := json.Marshal(cfg)
	return string(b)
}

// GetSnapshot returns the cached snapshot JSON for key, and whether it
// was present.
func (c *Cache) GetSnapshot(ctx context.Context, key string) ([]byte, bool, error) {
	if c.isClosed() {
		return nil, false, ErrClientClosed
	}
	val, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.CodeCacheError, "cache: get failed")
	}
	return val, true, nil
}

// PutSnapshot stores data under key with the cache's default TTL.
func (c *Cache) PutSnapshot(ctx context.Context, key string, data []byte) error {
	if c.isClosed() {
		return ErrClientClosed
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "cache: set failed")
	}
	return nil
}

// AnalyzeSnapshot is the convenience entry point: it either returns a
// cached snapshot for (text, cfg) or runs pipeline.Analyze, caches the
// fresh snapshot, and returns that instead. The bool result reports
// whether the result was served from cache.
func (c *Cache) AnalyzeSnapshot(ctx context.Context, text string, cfg pipeline.Config) ([]pipeline.SnapshotEntry, bool, error) {
	key := c.Key(text, cfg)

	if raw, hit, err := c.GetSnapshot(ctx, key); err != nil {
		c.logger.Warn("cache lookup failed, falling back to analysis", logging.Err(err))
	} else if hit {
		var entries []pipeline.SnapshotEntry
		if err := json.Unmarshal(raw, &entries); err == nil {
			return entries, true, nil
		}
		c.logger.Warn("cached snapshot failed to decode, re-analyzing")
	}

	doc := pipeline.Analyze(text, cfg)
	entries := pipeline.Snapshot(doc)

	if raw, err := json.Marshal(entries); err == nil {
		if err := c.PutSnapshot(ctx, key, raw); err != nil {
			c.logger.Warn("failed to populate cache", logging.Err(err))
		}
	}

	return entries, false, nil
}

func (c *Cache) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
