package httpserver

import (
	"errors"
	"net/http"

	"github.com/Skotchmaster/incident_service/internal/service"
	"github.com/Skotchmaster/incident_service/internal/transport"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/labstack/echo/v4"
)

func userError(c echo.Context, event string, err error) error {
	l := logging.FromContext(c.Request().Context())
	switch {
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 400, "reason", "email already registered")
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}

func (h *AdminHTTP) ListUsers(c echo.Context) error {
	users, err := h.Svc.ListUsers(c.Request().Context())
	if err != nil {
		return userError(c, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHTTP) GetUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	user, err := h.Svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return userError(c, "get_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHTTP) CreateUser(c echo.Context) error {
	var req transport.UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.CreateUser(c.Request().Context(), service.UserInput(req))
	if err != nil {
		return userError(c, "create_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHTTP) UpdateUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	var req transport.UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.UpdateUser(c.Request().Context(), id, service.UserInput(req))
	if err != nil {
		return userError(c, "update_user_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AdminHTTP) DeleteUser(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if err := h.Svc.DeleteUser(c.Request().Context(), id); err != nil {
		return userError(c, "delete_user_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
