package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/verone/backoffice/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Counter counts hits on a key over a fixed window
type Counter interface {
	Increment(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimitConfig configures RateLimit
type RateLimitConfig struct {
	Counter Counter
	Limit   int
	Window  time.Duration
	// KeyFunc derives the client key, client IP plus actor when nil
	KeyFunc func(*gin.Context) string
	Logger  *zap.Logger
}

// RateLimit rejects clients exceeding Limit requests per Window. The
// counter lives in the shared store, so limits hold across instances.
// When the store fails, requests are let through.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = defaultRateLimitKey
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	limit := strconv.Itoa(cfg.Limit)

	return func(c *gin.Context) {
		key := "ratelimit:" + cfg.KeyFunc(c)
		count, err := cfg.Counter.Increment(c.Request.Context(), key, cfg.Window)
		if err != nil {
			cfg.Logger.Warn("Rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(cfg.Limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Limit) {
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited, "Too many requests. Please try again later.", GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func defaultRateLimitKey(c *gin.Context) string {
	key := c.ClientIP()
	if actor := GetActorID(c); actor != "" {
		key = actor + ":" + key
	}
	return key
}
