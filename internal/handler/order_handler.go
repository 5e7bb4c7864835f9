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

// ハンドラが必要とするusecase操作だけを見る
type OrderService interface {
	ListOrders(ctx context.Context, in usecase.ListOrdersInput) (usecase.OrderListOutput, error)
	GetOrder(ctx context.Context, orderID int64) (usecase.OrderOutput, error)
	CreateOrder(ctx context.Context, in usecase.CreateOrderInput) (usecase.OrderOutput, error)
	UpdateOrderStatus(ctx context.Context, actorUserID int64, orderID int64, status string) (usecase.OrderStatusOutput, error)
	DeleteOrder(ctx context.Context, orderID int64) error
}

type OrderHandler struct {
	svc OrderService
}

// DI
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	e.GET("/orders", h.list)
	e.GET("/orders/:id", h.detail)
	e.POST("/orders", h.create)

	//ステータス変更・削除は要認証
	e.PUT("/orders/:id/status", h.updateStatus, middleware.AuthJWT(cfg))
	e.DELETE("/orders/:id", h.delete, middleware.AuthJWT(cfg))
}

func (h *OrderHandler) list(c echo.Context) error {
	in := usecase.ListOrdersInput{
		Status:    c.QueryParam("status"),
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
	}

	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		in.UserID = &id
	}

	if v := c.QueryParam("product_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
		}
		in.ProductID = &id
	}

	// limit（default 20）
	in.Limit = 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}

	// offset（default 0）
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		in.Offset = o
	}

	out, err := h.svc.ListOrders(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.svc.GetOrder(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req usecase.CreateOrderInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.svc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if req.Status == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "status is required"})
	}

	actorID, _ := c.Get(middleware.CtxUserIDKey).(int64)

	out, err := h.svc.UpdateOrderStatus(c.Request().Context(), actorID, id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.svc.DeleteOrder(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
