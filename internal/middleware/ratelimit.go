package middleware

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"anoa.com/unimanage/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
)

// RateLimitByIP allows one request per window for each client IP.
func RateLimitByIP(limiter *ratelimiter.Limiter, action string, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ctx := c.Request.Context()

		allowed, err := limiter.Allow(ctx, action, ip, window)
		if err != nil {
			log.Printf("[RateLimit] %s: %v", action, err)
			c.Next()
			return
		}

		if !allowed {
			ttl, _ := limiter.RetryAfter(ctx, action, ip)
			c.Header("Retry-After", fmt.Sprintf("%d", int(math.Ceil(ttl.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later"})
			return
		}

		c.Next()

		// A rejected attempt should not lock the client out.
		if c.Writer.Status() >= http.StatusBadRequest {
			_ = limiter.Clear(ctx, action, ip)
		}
	}
}
