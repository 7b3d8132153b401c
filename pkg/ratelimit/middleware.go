package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"tourbook/internal/shared/utils/response"
	"tourbook/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware applies the limiter to every route except those in exempt,
// which are matched against the registered route path.
func Middleware(rateLimiter *RateLimiter, exempt ...string) gin.HandlerFunc {
	log := logger.GetDefault()
	skip := make(map[string]struct{}, len(exempt))
	for _, path := range exempt {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.FullPath()
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, getRateLimitType(path))
		if err != nil {
			// Redis trouble should not take the API down with it
			log.WarnWithContext(c.Request.Context(), "Rate limit check failed, allowing request", map[string]interface{}{
				"ip":    clientIP,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, path)
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/bookings"),
		strings.Contains(path, "/checkout"):
		return RateLimitTypeBooking

	case strings.Contains(path, "/tours"),
		strings.Contains(path, "/availability"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}
