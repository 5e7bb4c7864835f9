package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func registerRoutes(
	e *echo.Echo,
	cfg config.Config,
	orderH *handler.OrderHandler,
	productH *handler.ProductHandler,
	userH *handler.UserHandler,
	authH *handler.AuthHandler,
) {
	orderH.RegisterRoutes(e, cfg)
	productH.RegisterRoutes(e, cfg)
	userH.RegisterRoutes(e)
	authH.RegisterRoutes(e)
}
