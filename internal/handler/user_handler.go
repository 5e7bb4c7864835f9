package handler

import (
	"context"
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	Register(ctx context.Context, in usecase.RegisterUserInput) (usecase.UserOutput, error)
	Get(ctx context.Context, userID int64) (usecase.UserOutput, error)
	List(ctx context.Context, limit int, offset int) (usecase.UserListOutput, error)
}

type UserHandler struct {
	svc UserService
}

// DI
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/users", h.register)
	e.GET("/users", h.list)
	e.GET("/users/:id", h.detail)
}

func (h *UserHandler) register(c echo.Context) error {
	var req usecase.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.svc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *UserHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) list(c echo.Context) error {
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		offset = o
	}

	out, err := h.svc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
