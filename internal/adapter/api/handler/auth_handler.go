package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type issueTokenRequest struct {
	Email   string `json:"email" validate:"omitempty,email"`
	IDToken string `json:"idToken"`
}

// IssueToken exchanges an identity token (or, in development, a bare email)
// for an API token.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req issueTokenRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.IssueToken(c.Request().Context(), usecase.IssueTokenInput{
		Email:   req.Email,
		IDToken: req.IDToken,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
