package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"microtask/internal/domain/repository"
	"microtask/internal/usecase"
	"microtask/pkg/errors"
	"microtask/pkg/response"
)

// Context keys
const (
	EmailKey = "email"
	ActorKey = "actor"
)

// TokenVerifier validates an API session token and returns its email.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	userRepo repository.UserRepository
}

func NewAuthMiddleware(verifier TokenVerifier, userRepo repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		userRepo: userRepo,
	}
}

func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		// Browsers cannot set headers on a WebSocket handshake.
		if c.IsWebSocket() {
			return c.QueryParam("token")
		}
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Authenticate verifies the bearer token and stores the caller's email.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return response.Error(c, errors.Unauthorized("Unauthorized access", nil))
		}

		email, err := m.verifier.Verify(token)
		if err != nil {
			return response.Error(c, errors.Unauthorized("Unauthorized access", err))
		}

		c.Set(EmailKey, email)
		return next(c)
	}
}

// LoadActor resolves the authenticated email to a stored user and exposes
// it as the request actor. Must run after Authenticate.
func (m *AuthMiddleware) LoadActor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		email, ok := c.Get(EmailKey).(string)
		if !ok || email == "" {
			return response.Error(c, errors.Unauthorized("Unauthorized access", nil))
		}

		user, err := m.userRepo.GetByEmail(c.Request().Context(), email)
		if err != nil {
			if errors.IsNotFound(err) {
				return response.Error(c, errors.UserNotFound(err))
			}
			return response.Error(c, errors.Internal("Failed to load user", err))
		}

		c.Set(ActorKey, usecase.Actor{Email: user.Email, Role: user.Role})
		return next(c)
	}
}

// Actor returns the actor stored by LoadActor.
func Actor(c echo.Context) usecase.Actor {
	actor, _ := c.Get(ActorKey).(usecase.Actor)
	return actor
}

// Email returns the email stored by Authenticate.
func Email(c echo.Context) string {
	email, _ := c.Get(EmailKey).(string)
	return email
}
