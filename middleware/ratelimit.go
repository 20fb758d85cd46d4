package middleware

import (
	"context"
	"fmt"
	"time"

	apperrors "rewards/errors"
	"rewards/monitoring"
	"rewards/response"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// WindowCounter counts hits for key in the current fixed window.
type WindowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisWindowCounter struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisWindowCounter(rdb *redis.Client) *RedisWindowCounter {
	return &RedisWindowCounter{rdb: rdb, now: time.Now}
}

// Incr uses one key per window so a counter never outlives its window.
func (r *RedisWindowCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	bucket := r.now().UnixNano() / int64(window)
	windowKey := fmt.Sprintf("%s:%d", key, bucket)

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// RateLimit rejects a client IP once it exceeds limit requests in window.
// A nil counter disables the check; counter errors let the request through.
func RateLimit(counter WindowCounter, scope string, limit int, window time.Duration, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if counter == nil || limit <= 0 || window <= 0 {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:%s:%s", scope, c.ClientIP())
		count, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			log.Error("❌ rate limiter unavailable: %v", err)
			c.Next()
			return
		}

		if count > int64(limit) {
			monitoring.RateLimitedTotal.WithLabelValues(scope).Inc()
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.FromError(c, log, apperrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
