package server

import (
	"github.com/labstack/echo/v4"

	"app/internal/config"
)

func registerRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e)
	h.Store.RegisterRoutes(e)
	h.Admin.RegisterRoutes(e, cfg)
	h.Stock.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg)
	h.CustomerOrder.RegisterRoutes(e, cfg)
	h.SupplierOrder.RegisterRoutes(e, cfg)
}
