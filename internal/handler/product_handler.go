package handler

import (
	"context"
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ProductService interface {
	Create(ctx context.Context, in usecase.ProductInput) (usecase.ProductOutput, error)
	Update(ctx context.Context, id int64, in usecase.ProductInput) (usecase.ProductOutput, error)
	Get(ctx context.Context, id int64) (usecase.ProductOutput, error)
	List(ctx context.Context, limit int, offset int) (usecase.ProductListOutput, error)
}

type ProductHandler struct {
	svc ProductService
}

// DI
func NewProductHandler(svc ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func (h *ProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/products", h.list)
	e.GET("/products/:id", h.detail)

	//カタログの変更は要認証
	e.POST("/products", h.create, middleware.AuthJWT(cfg))
	e.PUT("/products/:id", h.update, middleware.AuthJWT(cfg))
}

func (h *ProductHandler) list(c echo.Context) error {
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

func (h *ProductHandler) detail(c echo.Context) error {
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

func (h *ProductHandler) create(c echo.Context) error {
	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.svc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.svc.Update(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
