package middlewares

import (
	"log"
	"net/http"

	"cognigenx/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware limits authenticated users on expensive routes. It must run after
// AuthMiddleware. Limiter errors let the request through.
func RateLimitMiddleware(limiter *ratelimit.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			c.Next()
			return
		}
		allowed, err := limiter.Allow(c.Request.Context(), userID.Hex())
		if err != nil {
			log.Printf("[%s] Rate limiter unavailable: %v", RequestID(c), err)
			c.Next()
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests. Please wait a minute and try again.",
			})
			return
		}
		c.Next()
	}
}
