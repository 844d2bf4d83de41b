package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/varshinivarma16/booksbackend/pkg/logger"
	"github.com/varshinivarma16/booksbackend/pkg/metrics"
)

var requestSeq atomic.Uint64

// RedisRateLimitMiddleware keeps a sliding window log per key in a Redis
// sorted set so every replica shares one budget of floor(rps*window)+burst
// requests. Redis failures let the request through.
func RedisRateLimitMiddleware(client *redis.Client, rps float64, burst int, window time.Duration) gin.HandlerFunc {
	if client == nil {
		return RateLimitMiddleware(rps, burst)
	}
	if window < time.Second {
		window = time.Second
	}
	limit := int64(rps*window.Seconds()) + int64(burst)
	retryAfter := strconv.Itoa(int(window.Seconds()))

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := "rl:" + limiterKey(c)
		now := time.Now()
		member := fmt.Sprintf("%d-%d", now.UnixNano(), requestSeq.Add(1))

		var count *redis.IntCmd
		_, err := client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.ZRemRangeByScore(ctx, key, "-inf", strconv.FormatInt(now.Add(-window).UnixMilli(), 10))
			p.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixMilli()), Member: member})
			count = p.ZCard(ctx, key)
			p.PExpire(ctx, key, window)
			return nil
		})
		if err != nil {
			logger.Warnf("rate limit check failed, allowing request: %v", err)
			c.Next()
			return
		}

		used := count.Val()
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		if used > limit {
			// rejected hits do not consume the budget
			_ = client.ZRem(ctx, key, member).Err()
			c.Header("Retry-After", retryAfter)
			metrics.RateLimitRejected.WithLabelValues("redis").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later."})
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}
