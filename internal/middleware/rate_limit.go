package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/lead-scheduler/internal/httperr"
)

// RateLimit caps requests per client IP in fixed windows stored in Redis.
// With no client, or when Redis errors, requests pass through.
func RateLimit(client redis.UniversalClient, prefix string, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	if window < time.Second {
		window = time.Minute
	}
	retryAfter := fmt.Sprintf("%d", int(window.Seconds()))

	return func(c *gin.Context) {
		if client == nil || limit <= 0 {
			c.Next()
			return
		}

		bucket := time.Now().Unix() / int64(window.Seconds())
		key := fmt.Sprintf("leadsched:rl:%s:%s:%d", prefix, c.ClientIP(), bucket)

		ctx := c.Request.Context()
		pipe := client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, window)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Warn("rate limit unavailable", zap.Error(err))
			c.Next()
			return
		}

		if incr.Val() > int64(limit) {
			c.Header("Retry-After", retryAfter)
			httperr.Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
