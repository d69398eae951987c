package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/incident_service/internal/search"
	"github.com/Skotchmaster/incident_service/internal/service"
	"github.com/Skotchmaster/incident_service/internal/transport"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/labstack/echo/v4"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) ListIncidents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_list_incidents")

	items, err := h.Svc.ListIncidents(ctx, c.QueryParam("status"))
	if err != nil {
		l.Error("list_incidents_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list incidents")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *AdminHTTP) GetIncident(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_get_incident")

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	inc, err := h.Svc.GetIncident(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_incident_error", "status", 404, "incident_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Incident not found")
		}
		l.Error("get_incident_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get incident")
	}
	return c.JSON(http.StatusOK, inc)
}

func (h *AdminHTTP) UpdateIncident(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_update_incident")

	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	var req transport.IncidentUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_incident_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	// An empty status means "leave unchanged".
	if req.Status != nil && *req.Status == "" {
		req.Status = nil
	}

	inc, err := h.Svc.UpdateIncident(ctx, id, service.IncidentUpdate{
		Status:       req.Status,
		AdminRemarks: req.AdminRemarks,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_incident_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid status value")
		case errors.Is(err, service.ErrNotFound):
			l.Warn("update_incident_error", "status", 404, "incident_id", id)
			return echo.NewHTTPError(http.StatusNotFound, "Incident not found")
		default:
			l.Error("update_incident_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update incident")
		}
	}

	l.Info("incident_updated", "incident_id", inc.ID, "incident_status", inc.Status)
	return c.JSON(http.StatusOK, inc)
}

func (h *AdminHTTP) IncidentFile(c echo.Context) error {
	return serveMedia(c, "admin_incident_file", "File not found", h.Svc.IncidentFile)
}

func (h *AdminHTTP) IncidentVideo(c echo.Context) error {
	return serveMedia(c, "admin_incident_video", "Video not found", h.Svc.IncidentVideo)
}

func (h *AdminHTTP) SearchIncidents(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_search_incidents")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), search.DefaultPageSize)

	total, items, err := h.Svc.SearchIncidents(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		if errors.Is(err, service.ErrUnavailable) {
			l.Warn("search_error", "status", 503, "reason", "search disabled")
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
		}
		l.Error("search_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}

	_, limit := search.Calculate(page, size)
	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		l.Error("stats_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build stats")
	}
	return c.JSON(http.StatusOK, st)
}
