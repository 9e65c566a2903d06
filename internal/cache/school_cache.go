package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ujjwalsingh108/sms-web-sub003/internal/models"
)

const keyPrefix = "school:subdomain:"

// SchoolCache caches active school instance lookups by subdomain. It layers a
// small in-process TTL cache over Redis; either layer may be absent. Cache
// failures are logged and reads fall through to the database.
type SchoolCache struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	ttl         time.Duration

	mu    sync.RWMutex
	local map[string]localEntry
}

type localEntry struct {
	instance  *models.SchoolInstance
	expiresAt time.Time
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	RedisClient *redis.Client
	Logger      *logrus.Logger
	TTL         time.Duration
}

// NewSchoolCache creates a new school instance cache
func NewSchoolCache(cfg CacheConfig) *SchoolCache {
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &SchoolCache{
		redisClient: cfg.RedisClient,
		logger:      cfg.Logger,
		ttl:         ttl,
		local:       make(map[string]localEntry),
	}
}

// Get returns the cached school instance for a subdomain, if present
func (c *SchoolCache) Get(ctx context.Context, subdomain string) (*models.SchoolInstance, bool) {
	c.mu.RLock()
	entry, ok := c.local[subdomain]
	c.mu.RUnlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.instance, true
	}

	if c.redisClient == nil {
		return nil, false
	}

	data, err := c.redisClient.Get(ctx, keyPrefix+subdomain).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		c.logger.WithError(err).WithField("subdomain", subdomain).Warn("School cache read failed")
		return nil, false
	}

	var instance models.SchoolInstance
	if err := json.Unmarshal(data, &instance); err != nil {
		c.logger.WithError(err).WithField("subdomain", subdomain).Warn("School cache entry corrupt")
		return nil, false
	}

	c.setLocal(subdomain, &instance)
	return &instance, true
}

// Set stores a school instance under its subdomain
func (c *SchoolCache) Set(ctx context.Context, subdomain string, instance *models.SchoolInstance) {
	c.setLocal(subdomain, instance)

	if c.redisClient == nil {
		return
	}

	data, err := json.Marshal(instance)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal school instance for cache")
		return
	}
	if err := c.redisClient.Set(ctx, keyPrefix+subdomain, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("subdomain", subdomain).Warn("School cache write failed")
	}
}

// Invalidate drops the cache entry for a subdomain. Called on school update,
// status change, and delete.
func (c *SchoolCache) Invalidate(ctx context.Context, subdomain string) {
	c.mu.Lock()
	delete(c.local, subdomain)
	c.mu.Unlock()

	if c.redisClient == nil {
		return
	}
	if err := c.redisClient.Del(ctx, keyPrefix+subdomain).Err(); err != nil {
		c.logger.WithError(err).WithField("subdomain", subdomain).Warn("School cache invalidation failed")
	}
}

func (c *SchoolCache) setLocal(subdomain string, instance *models.SchoolInstance) {
	c.mu.Lock()
	c.local[subdomain] = localEntry{instance: instance, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
