package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/utils/ratelimit"
)

// RateLimitMiddleware enforces a per-client request budget for an endpoint
// class, keyed by profile when authenticated and by client IP otherwise.
func RateLimitMiddleware(limiter ratelimit.Limiter, endpoint string, config *ratelimit.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		rule := ratelimit.GetRuleForEndpoint(endpoint, config)

		key := c.ClientIP()
		if profileID, exists := c.Get("profile_id"); exists {
			key = "profile:" + c.GetString("username")
			_ = profileID
		}

		allowed, err := limiter.Allow(c.Request.Context(), endpoint+":"+key, rule.Limit, rule.Window)
		if err != nil || !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too Many Requests - please try again later",
			})
			return
		}
		c.Next()
	}
}

// MaxConcurrencyMiddleware caps in-flight requests with a buffered-channel
// semaphore, refusing work beyond the cap instead of queueing it.
func MaxConcurrencyMiddleware(maxConcurrent int) gin.HandlerFunc {
	sem := make(chan struct{}, maxConcurrent)

	return func(c *gin.Context) {
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
			c.Next()
		case <-time.After(50 * time.Millisecond):
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Service Unavailable - Too many concurrent requests",
			})
		}
	}
}
