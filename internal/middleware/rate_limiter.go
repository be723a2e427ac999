package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/tarekelsergany/gold-ecommerce/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimiter returns a fixed-window per-IP limiter backed by Redis
// (INCR + EXPIRE on the first hit of each window). Counters live in Redis so
// every replica shares the same budget; this is infrastructure accounting,
// no domain data is ever cached here.
//
// Fail-open: when Redis is unreachable the request is allowed — losing rate
// limiting must not take the storefront down with it.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%d", c.ClientIP(), time.Now().Unix()/int64(window.Seconds()))

		count, err := rdb.Incr(c.Request.Context(), key).Result()
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			rdb.Expire(c.Request.Context(), key, window)
		}

		if count > int64(limit) {
			c.Header("Retry-After", time.Now().Add(window).Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
			return
		}
		c.Next()
	}
}
