package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"pixvault/backend/common"

	"github.com/gin-gonic/gin"
)

// inMemoryRateLimiter keeps a sliding window of request timestamps per key.
// It is only used when redis is not configured, so losing state on restart
// is acceptable.
type inMemoryRateLimiter struct {
	mu      sync.Mutex
	entries map[string][]int64
}

var memoryLimiter = &inMemoryRateLimiter{entries: make(map[string][]int64)}

func (l *inMemoryRateLimiter) allow(key string, maxRequests int, duration time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now().Unix()
	cutoff := now - int64(duration.Seconds())
	timestamps := l.entries[key]
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if ts > cutoff {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= maxRequests {
		l.entries[key] = kept
		return false
	}
	l.entries[key] = append(kept, now)
	return true
}

func redisRateLimitAllow(key string, maxRequests int, duration time.Duration) bool {
	ctx := context.Background()
	count, err := common.RDB.Incr(ctx, key).Result()
	if err != nil {
		// When redis misbehaves the request goes through; rate limiting
		// is protection, not a correctness gate.
		common.SysError("rate limit redis error: " + err.Error())
		return true
	}
	if count == 1 {
		common.RDB.Expire(ctx, key, duration)
	}
	return count <= int64(maxRequests)
}

func rateLimitFactory(maxRequests int, duration time.Duration, mark string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("rateLimit:%s:%s", mark, c.ClientIP())
		var allowed bool
		if common.RedisEnabled {
			allowed = redisRateLimitAllow(key, maxRequests, duration)
		} else {
			allowed = memoryLimiter.allow(key, maxRequests, duration)
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GlobalAPIRateLimit() gin.HandlerFunc {
	return rateLimitFactory(common.GlobalApiRateLimitNum, common.GlobalApiRateLimitDuration, "GA")
}

// CriticalRateLimit protects login, registration and link issuance.
func CriticalRateLimit() gin.HandlerFunc {
	return rateLimitFactory(common.CriticalRateLimitNum, common.CriticalRateLimitDuration, "CT")
}
