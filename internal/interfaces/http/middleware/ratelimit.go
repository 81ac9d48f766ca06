package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"civic-writer-api/internal/interfaces/http/dto"
	"civic-writer-api/pkg/logger"
	"civic-writer-api/pkg/metrics"
)

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond int
	// Burst is the number of requests admitted at once; defaults to
	// RequestsPerSecond.
	Burst int
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit admits Burst requests per client and path in a window of
// Burst/RequestsPerSecond seconds. Limiter errors fail open.
func RateLimit(cfg RateLimitConfig, limiter RateLimiter) gin.HandlerFunc {
	if !cfg.Enabled || limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
	window := time.Duration(float64(time.Second) * float64(cfg.Burst) / float64(cfg.RequestsPerSecond))

	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := c.ClientIP() + ":" + path

		allowed, err := limiter.Allow(c.Request.Context(), key, cfg.Burst, window)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limiter unavailable", "error", err.Error())
			c.Next()
			return
		}

		if !allowed {
			metrics.RateLimitRejected.WithLabelValues(path).Inc()
			dto.TooManyRequests(c, "rate limit exceeded")
			c.Abort()
			return
		}

		c.Next()
	}
}
