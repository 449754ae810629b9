package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/instihub/instihub-backend/internal/config"
	"github.com/instihub/instihub-backend/internal/response"
)

// RateLimitResult is the outcome of one rate-limit decision.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter is an injected capability: handlers receive whichever
// implementation the deployment configured, never a process-wide global.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

// NewRateLimiter returns a Redis-backed limiter, or a no-op limiter when
// Redis is not configured (rdb == nil).
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) RateLimiter {
	if rdb == nil {
		return noopLimiter{}
	}
	return &redisLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Logger(),
	}
}

// noopLimiter admits everything. Used when no Redis is configured.
type noopLimiter struct{}

func (noopLimiter) Allow(context.Context, string) (RateLimitResult, error) {
	return RateLimitResult{Allowed: true, Limit: 0, Remaining: 0}, nil
}

// redisLimiter implements a fixed-window counter per key.
type redisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    zerolog.Logger
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return RateLimitResult{}, err
	}
	if count == 1 {
		// First hit in this window starts the clock.
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return RateLimitResult{}, err
		}
	}

	res := RateLimitResult{
		Limit:     l.limit,
		Remaining: l.limit - int(count),
		Allowed:   count <= int64(l.limit),
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		ttl, err := l.rdb.TTL(ctx, key).Result()
		if err == nil && ttl > 0 {
			res.RetryAfter = ttl
		} else {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}

// RateLimit limits requests per client IP within a named scope. Limiter
// errors fail open: an unreachable Redis must never take down logins.
func RateLimit(limiter RateLimiter, scope string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := config.CacheKey.RateLimitKey(scope, c.ClientIP())

		res, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Warn().Err(err).Str("scope", scope).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		if res.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		}

		if !res.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}
