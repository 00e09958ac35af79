package middleware

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/domain/entity"
	"microtask/pkg/errors"
	"microtask/pkg/response"
)

// RequireRole rejects actors holding none of roles. Must run after LoadActor.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := Actor(c)
			for _, role := range roles {
				if actor.Role == role {
					return next(c)
				}
			}
			return response.Error(c, errors.Forbidden("Forbidden access", nil))
		}
	}
}

func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireRole(entity.RoleAdmin)(next)
}
