package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"alfredoptarigan/skillsync/internal/models"
)

// JobCache remembers job search results per query.
type JobCache interface {
	Get(ctx context.Context, key string) ([]models.JobRecommendation, bool)
	Set(ctx context.Context, key string, jobs []models.JobRecommendation)
}

// tieredJobCache keeps entries in memory (L1) and, when configured, in
// Redis (L2) so they survive restarts.
type tieredJobCache struct {
	l1         sync.Map
	rdb        *redis.Client
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

const defaultJobCacheEntries = 1000

type cacheEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewJobCache builds the cache. An empty or unreachable redisURL leaves
// only the in-memory tier.
func NewJobCache(ctx context.Context, redisURL string, ttl time.Duration) JobCache {
	c := &tieredJobCache{ttl: ttl, maxEntries: defaultJobCacheEntries, now: time.Now}

	if redisURL == "" {
		return c
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("⚠️ Invalid REDIS_URL, job cache is memory-only: %v\n", err)
		return c
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("⚠️ Redis unreachable, job cache is memory-only: %v\n", err)
		_ = rdb.Close()
		return c
	}

	c.rdb = rdb
	log.Printf("✅ Job cache connected to Redis at %s\n", opts.Addr)
	return c
}

// JobCacheKey builds a deterministic key for a search query and country.
func JobCacheKey(query, country string) string {
	joined := strings.ToLower(strings.TrimSpace(query)) + "|" + strings.ToLower(country)
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("skillsync:jobs:%x", hash[:12])
}

func (c *tieredJobCache) Get(ctx context.Context, key string) ([]models.JobRecommendation, bool) {
	if val, ok := c.l1.Load(key); ok {
		entry := val.(*cacheEntry)
		if c.now().Before(entry.expiresAt) {
			var jobs []models.JobRecommendation
			if json.Unmarshal(entry.data, &jobs) == nil {
				return jobs, true
			}
		}
		c.l1.Delete(key)
	}

	if c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var jobs []models.JobRecommendation
	if json.Unmarshal(data, &jobs) != nil {
		return nil, false
	}

	c.evictIfNeeded()
	c.l1.Store(key, &cacheEntry{data: data, expiresAt: c.now().Add(c.ttl)})
	return jobs, true
}

func (c *tieredJobCache) Set(ctx context.Context, key string, jobs []models.JobRecommendation) {
	if c.ttl <= 0 {
		return
	}

	data, err := json.Marshal(jobs)
	if err != nil {
		return
	}

	c.evictIfNeeded()
	c.l1.Store(key, &cacheEntry{data: data, expiresAt: c.now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			log.Printf("⚠️ Job cache Redis set failed: %v\n", err)
		}
	}
}

// evictIfNeeded makes room for one more L1 entry. Expired entries go first,
// then the ones closest to expiry.
func (c *tieredJobCache) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	now := c.now()
	c.l1.Range(func(key, val any) bool {
		if entry, ok := val.(*cacheEntry); ok && !now.Before(entry.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return true
	})

	for count >= c.maxEntries {
		var (
			oldestKey any
			oldestAt  time.Time
		)
		c.l1.Range(func(key, val any) bool {
			entry, ok := val.(*cacheEntry)
			if ok && (oldestKey == nil || entry.expiresAt.Before(oldestAt)) {
				oldestKey = key
				oldestAt = entry.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			return
		}
		c.l1.Delete(oldestKey)
		count--
	}
}
