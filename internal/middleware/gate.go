package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/Skotchmaster/incident_service/pkg/tokens"
	"github.com/labstack/echo/v4"
)

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

const (
	msgUnauthenticated = "Could not validate credentials"
	msgForbidden       = "Not enough permissions"
)

// UserLoader resolves the token subject to the current account state.
// It must return repo.ErrUserNotFound for unknown emails.
type UserLoader interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type TokenVerifier interface {
	Verify(raw string) (*tokens.AccessClaims, error)
}

// Gate authenticates bearer tokens and enforces admin tiers. The user record
// is reloaded on every request, so demoting or deleting an account takes
// effect before its tokens expire.
type Gate struct {
	Tokens TokenVerifier
	Users  UserLoader
}

func NewGate(t TokenVerifier, users UserLoader) *Gate {
	return &Gate{Tokens: t, Users: users}
}

// Authorize runs verify, subject lookup and, when adminRequired, the tier
// check. Failures are ErrUnauthenticated or ErrForbidden; anything else is a
// store error.
func (g *Gate) Authorize(ctx context.Context, raw string, minLevel int, adminRequired bool) (*models.User, error) {
	l := logging.FromContext(ctx).With("component", "gate")

	claims, err := g.Tokens.Verify(raw)
	if err != nil {
		l.Info("token_rejected", "reason", err.Error())
		return nil, ErrUnauthenticated
	}
	if claims.Subject == "" {
		l.Info("token_rejected", "reason", "missing subject")
		return nil, ErrUnauthenticated
	}

	user, err := g.Users.GetUserByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			l.Info("token_rejected", "reason", "subject not found")
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("gate: load user: %w", err)
	}

	if adminRequired && (!user.IsAdmin || user.AdminLevel < minLevel) {
		l.Info("access_denied", "user_id", user.ID, "admin_level", user.AdminLevel, "required_level", minLevel)
		return nil, ErrForbidden
	}
	return user, nil
}

// RequireUser admits any resolvable identity.
func (g *Gate) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return g.guard(next, 0, false)
}

// RequireAdmin admits admins whose tier is at least minLevel.
func (g *Gate) RequireAdmin(minLevel int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return g.guard(next, minLevel, true)
	}
}

func (g *Gate) guard(next echo.HandlerFunc, minLevel int, adminRequired bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		raw, ok := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return unauthenticated(c)
		}

		user, err := g.Authorize(ctx, raw, minLevel, adminRequired)
		switch {
		case err == nil:
		case errors.Is(err, ErrUnauthenticated):
			return unauthenticated(c)
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, msgForbidden)
		default:
			logging.FromContext(ctx).Error("gate_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
		}

		setUserContext(c, user)
		return next(c)
	}
}

func unauthenticated(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, msgUnauthenticated)
}
