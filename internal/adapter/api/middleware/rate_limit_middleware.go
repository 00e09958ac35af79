package middleware

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"microtask/internal/infrastructure/ratelimit"
	"microtask/pkg/errors"
	"microtask/pkg/logger"
	"microtask/pkg/response"
)

// RateLimit throttles action per authenticated email, or per client IP on
// public routes.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := Email(c)
			if caller == "" {
				caller = c.RealIP()
			}

			if ok, wait := limiter.Allow(caller, action); !ok {
				logger.Warn("Rate limit hit for %s on %s", caller, action)
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}
