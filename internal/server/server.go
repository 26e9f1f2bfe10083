package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"app/internal/config"
	"app/internal/handler"
)

// Handlers はルート登録対象の一式
type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Store         *handler.StoreHandler
	Admin         *handler.AdminHandler
	Stock         *handler.StockHandler
	Checkout      *handler.CheckoutHandler
	CustomerOrder *handler.CustomerOrderHandler
	SupplierOrder *handler.SupplierOrderHandler
}

func New(cfg config.Config, log *logrus.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = handler.NewRequestValidator()

	e.Use(echomw.Recover())
	e.Use(requestLogger(log))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	registerRoutes(e, cfg, h)

	return e
}

func Start(e *echo.Echo, cfg config.Config) error {
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	return e.Start(addr)
}

// logrusでのアクセスログ
func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogMethod: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := logrus.Fields{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			}
			if v.Error != nil {
				log.WithFields(fields).WithError(v.Error).Error("request")
				return nil
			}
			log.WithFields(fields).Info("request")
			return nil
		},
	})
}
