package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/incident_service/internal/service"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/labstack/echo/v4"
)

type pathFunc func(ctx context.Context, id uint) (string, error)

func serveMedia(c echo.Context, handler, notFound string, fn pathFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", handler)

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	path, err := fn(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("media_not_found", "status", 404, "incident_id", id, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, notFound)
		}
		l.Error("media_error", "status", 500, "incident_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load media")
	}
	return c.File(path)
}
