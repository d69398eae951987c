package httpserver

import (
	"log/slog"

	loggingmw "github.com/Skotchmaster/incident_service/pkg/middleware/logging"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New builds the echo instance with the standard middleware chain and all
// routes registered.
func New(logger *slog.Logger, corsOrigins []string, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  corsOrigins,
		AllowHeaders:  []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderOrigin},
		ExposeHeaders: []string{echo.HeaderContentDisposition, echo.HeaderWWWAuthenticate},
	}))

	Register(e, d)
	return e
}
