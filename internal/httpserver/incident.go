package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Skotchmaster/incident_service/internal/middleware"
	"github.com/Skotchmaster/incident_service/internal/service"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/labstack/echo/v4"
)

type IncidentHTTP struct {
	Svc *service.IncidentService
}

func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint(id), nil
}

// incidentForm reads the multipart fields shared by every report form.
func incidentForm(c echo.Context) (service.IncidentInput, error) {
	in := service.IncidentInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"latitude", &in.Latitude},
		{"longitude", &in.Longitude},
	} {
		raw := strings.TrimSpace(c.FormValue(f.name))
		if raw == "" {
			return in, fmt.Errorf("%s is required", f.name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, fmt.Errorf("%s must be a number", f.name)
		}
		*f.dst = v
	}
	return in, nil
}

func incidentError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "Incident not found")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Error creating incident")
	}
}

func (h *IncidentHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "incident_create")
	user := middleware.CurrentUser(c)

	in, err := incidentForm(c)
	if err != nil {
		l.Warn("incident_create_error", "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	media, err := c.FormFile("media_file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			l.Warn("incident_create_error", "status", 400, "reason", "bad media_file", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid media_file")
		}
		media = nil
	}

	inc, err := h.Svc.CreateIncident(ctx, user, in, media)
	if err != nil {
		return incidentError(l, "incident_create_error", err)
	}

	l.Info("incident_created", "incident_id", inc.ID)
	return c.JSON(http.StatusOK, inc)
}

func (h *IncidentHTTP) CreateMultiple(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "incident_create_multiple")
	user := middleware.CurrentUser(c)

	in, err := incidentForm(c)
	if err != nil {
		l.Warn("incident_create_error", "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	form, err := c.MultipartForm()
	if err != nil {
		l.Warn("incident_create_error", "status", 400, "reason", "not multipart", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "multipart form expected")
	}

	inc, err := h.Svc.CreateWithFiles(ctx, user, in, form.File["files"])
	if err != nil {
		return incidentError(l, "incident_create_error", err)
	}

	l.Info("incident_created", "incident_id", inc.ID, "files", len(form.File["files"]))
	return c.JSON(http.StatusOK, inc)
}

func (h *IncidentHTTP) CreateLivestream(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "incident_create_livestream")
	user := middleware.CurrentUser(c)

	in, err := incidentForm(c)
	if err != nil {
		l.Warn("incident_create_error", "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	inc, err := h.Svc.CreateLivestream(ctx, user, in, c.FormValue("livestream_url"))
	if err != nil {
		return incidentError(l, "incident_create_error", err)
	}

	l.Info("incident_created", "incident_id", inc.ID, "livestream", true)
	return c.JSON(http.StatusOK, inc)
}

func (h *IncidentHTTP) ListMine(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "incident_list_user")
	user := middleware.CurrentUser(c)

	items, err := h.Svc.ListUserIncidents(ctx, user)
	if err != nil {
		l.Error("incident_list_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list incidents")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *IncidentHTTP) Media(c echo.Context) error {
	return serveMedia(c, "incident_media", "Media not found", h.Svc.MediaPath)
}

func (h *IncidentHTTP) Video(c echo.Context) error {
	return serveMedia(c, "incident_video", "Video not found", h.Svc.VideoPath)
}

func (h *IncidentHTTP) AdditionalMedia(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "incident_additional_media")

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "index must be an integer")
	}

	path, err := h.Svc.AdditionalMediaPath(ctx, id, index)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("media_not_found", "status", 404, "incident_id", id, "index", index)
			return echo.NewHTTPError(http.StatusNotFound, "Media not found")
		}
		l.Error("media_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot load media")
	}
	return c.File(path)
}
