package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"microtask/pkg/logger"
)

// RequestLogger writes one structured line per request.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", res.Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			}
			if email := Email(c); email != "" {
				fields = append(fields, zap.String("email", email))
			}

			switch {
			case res.Status >= 500:
				logger.L().Error("request", fields...)
			case res.Status >= 400:
				logger.L().Warn("request", fields...)
			default:
				logger.L().Info("request", fields...)
			}
			return nil
		}
	}
}
