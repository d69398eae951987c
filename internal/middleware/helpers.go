package middleware

import (
	"strings"

	"github.com/Skotchmaster/incident_service/internal/models"
	"github.com/labstack/echo/v4"
)

const userKey = "user"

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

func setUserContext(c echo.Context, u *models.User) {
	c.Set(userKey, u)
	c.Set("user_id", u.ID)
}

// CurrentUser returns the account admitted by the gate, or nil on routes
// the gate does not cover.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(userKey).(*models.User)
	return u
}
