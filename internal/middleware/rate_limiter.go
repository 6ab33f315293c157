package middleware

import (
	"fmt"
	"net/http"
	"time"

	"shoptrack/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit applies a fixed-window per-IP cap backed by Redis. The scope
// keeps stacked limiters (a general API cap plus a stricter login cap)
// counting independently. Fails open when Redis is unreachable; requests
// still go through, just unthrottled.
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("shoptrack:ratelimit:%s:%s:%s", scope, c.FullPath(), c.ClientIP())

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.APIError{Detail: "too many requests"})
			return
		}
		c.Next()
	}
}
