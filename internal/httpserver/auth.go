package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/Skotchmaster/incident_service/internal/service"
	"github.com/Skotchmaster/incident_service/internal/transport"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/labstack/echo/v4"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_error", "status", 400, "reason", "email already registered")
			return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 422, "error", err)
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			l.Error("register_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot register user")
		}
	}

	l.Info("register_successful", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.RegisterResponse{Msg: "User registered", UserID: user.ID})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	return h.login(c, "auth_login", h.Svc.Login)
}

func (h *AuthHTTP) AdminLogin(c echo.Context) error {
	return h.login(c, "admin_login", h.Svc.AdminLogin)
}

type loginFunc func(ctx context.Context, email, password string) (*service.LoginResult, error)

func (h *AuthHTTP) login(c echo.Context, name string, fn loginFunc) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := fn(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401, "reason", "invalid credentials")
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, service.ErrNotAdmin):
			l.Warn("login_failed", "status", 403, "reason", "not an admin")
			return echo.NewHTTPError(http.StatusForbidden, "User does not have admin privileges")
		default:
			l.Error("login_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot log in")
		}
	}

	l.Info("login_successful", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, transport.TokenResponse{
		Msg:         "Login successful",
		UserID:      res.User.ID,
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   res.ExpiresAt.Unix(),
	})
}
