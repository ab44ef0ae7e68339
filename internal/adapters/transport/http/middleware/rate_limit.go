package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fastskeleton/backend/internal/adapters/transport/http/dto"
	"github.com/fastskeleton/backend/internal/infra/ratelimit"
)

// RateLimitPerIP rejects requests with 429 once the client IP has used up its bucket.
func RateLimitPerIP(limiter *ratelimit.PerKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{Detail: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
