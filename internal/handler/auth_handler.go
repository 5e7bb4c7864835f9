package handler

import (
	"context"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthService interface {
	Login(ctx context.Context, in usecase.LoginInput) (usecase.LoginOutput, error)
}

type AuthHandler struct {
	svc AuthService
}

// DI
func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/login", h.login)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.LoginInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.svc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
