package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// Default: client IP
	KeyFunc   func(*gin.Context) string
	KeyPrefix string
	// Reject instead of falling back to memory when Redis errors
	FailClosed bool
}

// rateLimitEntry tracks request count for a key (in-memory fallback)
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	mu      sync.Mutex
}

// Atomic increment with TTL on first hit. Returns {count, ttl_seconds}.
var rateLimitScript = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`)

// RateLimiter counts requests in Redis when a client is given, in memory otherwise.
type RateLimiter struct {
	client      *goredis.Client
	store       sync.Map
	cleanupOnce sync.Once
	now         func() time.Time
}

func NewRateLimiter(client *goredis.Client) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

func clientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// userOrIPKey prefers the authenticated user so shared NATs don't collide.
func userOrIPKey(c *gin.Context) string {
	if id := c.GetString(string(domain.KeyUserID)); id != "" {
		return "u:" + id
	}
	return "ip:" + c.ClientIP()
}

func GlobalRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ip:", KeyFunc: clientIPKey}
}

// UploadRateLimitConfig guards resume uploads, which hit storage and the LLM.
func UploadRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	return RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:upload:", KeyFunc: userOrIPKey}
}

// AdminActionRateLimitConfig guards manual syncs and digest sends.
func AdminActionRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 5, Window: time.Minute, KeyPrefix: "rl:admin:", KeyFunc: userOrIPKey, FailClosed: true}
}

func (rl *RateLimiter) Middleware(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyFunc == nil {
		config.KeyFunc = clientIPKey
	}
	if rl.client == nil {
		rl.cleanupOnce.Do(rl.startCleanup)
	}

	return func(c *gin.Context) {
		fullKey := config.KeyPrefix + config.KeyFunc(c)
		now := rl.now()

		var count int
		var resetAt time.Time

		if rl.client != nil {
			var err error
			count, resetAt, err = rl.checkRedis(c.Request.Context(), fullKey, config)
			if err != nil {
				logger.Log.Warn("Rate limit store unavailable", "error", err, "key_prefix", config.KeyPrefix)
				if config.FailClosed {
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				rl.cleanupOnce.Do(rl.startCleanup)
				count, resetAt = rl.checkInMemory(fullKey, config, now)
			}
		} else {
			count, resetAt = rl.checkInMemory(fullKey, config, now)
		}

		remaining := config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(resetAt.Sub(now).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			logger.Log.Warn("Rate limit triggered",
				"ip", c.ClientIP(),
				"path", c.FullPath(),
				"key_prefix", config.KeyPrefix,
				"request_id", c.GetString(string(domain.KeyRequestID)),
			)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) checkRedis(ctx context.Context, key string, config RateLimitConfig) (int, time.Time, error) {
	ttlSeconds := int(config.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rateLimitScript.Run(ctx, rl.client, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

func (rl *RateLimiter) checkInMemory(key string, config RateLimitConfig, now time.Time) (int, time.Time) {
	entryI, _ := rl.store.LoadOrStore(key, &rateLimitEntry{resetAt: now.Add(config.Window)})
	entry := entryI.(*rateLimitEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(config.Window)
	}
	entry.count++

	return entry.count, entry.resetAt
}

// startCleanup drops expired in-memory entries every few minutes
func (rl *RateLimiter) startCleanup() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			now := rl.now()
			rl.store.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimitEntry)
				entry.mu.Lock()
				if now.After(entry.resetAt) {
					rl.store.Delete(key)
				}
				entry.mu.Unlock()
				return true
			})
		}
	}()
}
