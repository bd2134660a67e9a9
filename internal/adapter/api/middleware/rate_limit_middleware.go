package middleware

import (
	"fmt"
	"math"

	"github.com/labstack/echo/v4"

	"laburo/internal/infrastructure/ratelimit"
	"laburo/pkg/errors"
	"laburo/pkg/logger"
	"laburo/pkg/response"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// Limit throttles action per caller: the authenticated uid when present,
// otherwise the client IP.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key, ok := c.Get("uid").(string)
			if !ok || key == "" {
				key = c.RealIP()
			}

			allowed, wait := m.limiter.Allow(key, action)
			if !allowed {
				logger.Warn("Rate limit hit: action=%s, key=%s", action, key)
				retry := int(math.Ceil(wait.Seconds()))
				c.Response().Header().Set("Retry-After", fmt.Sprint(retry))
				return response.Error(c, errors.TooManyRequests(fmt.Sprintf("Too many requests, retry in %d seconds", retry)))
			}

			return next(c)
		}
	}
}
