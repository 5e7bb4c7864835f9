package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はミドルウェアとルートを組み立てたechoを返す。
func New(
	cfg config.Config,
	orderH *handler.OrderHandler,
	productH *handler.ProductHandler,
	userH *handler.UserHandler,
	authH *handler.AuthHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	registerRoutes(e, cfg, orderH, productH, userH, authH)

	return e
}

// Start はブロックして待ち受ける。
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
