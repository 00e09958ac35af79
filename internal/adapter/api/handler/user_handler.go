package handler

import (
	"github.com/labstack/echo/v4"

	"microtask/internal/adapter/api/middleware"
	"microtask/internal/usecase"
	"microtask/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
	Role     string `json:"role" validate:"required,oneof=buyer worker"`
}

// Register creates the account for the email in the caller's token.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.Register(c.Request().Context(), usecase.RegisterInput{
		Email:    middleware.Email(c),
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     req.Role,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetUserByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

// GetMe returns the caller's own account, balance included.
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.userUseCase.GetUserByEmail(c.Request().Context(), actorOf(c).Email)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
