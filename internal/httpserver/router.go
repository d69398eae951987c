package httpserver

import (
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Skotchmaster/incident_service/internal/middleware"
	"github.com/Skotchmaster/incident_service/internal/models"
	pkgdb "github.com/Skotchmaster/incident_service/pkg/db"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

type Deps struct {
	AuthHandler     *AuthHTTP
	IncidentHandler *IncidentHTTP
	AdminHandler    *AdminHTTP
	Gate            *middleware.Gate
	DB              *gorm.DB

	UploadDir      string
	AdminStaticDir string

	// Per-client limit on credential endpoints. Zero disables it.
	LoginRate  rate.Limit
	LoginBurst int
}

func (d *Deps) loginLimiter() []echo.MiddlewareFunc {
	if d.LoginRate <= 0 {
		return nil
	}
	burst := d.LoginBurst
	if burst <= 0 {
		burst = 1
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      d.LoginRate,
		Burst:     burst,
		ExpiresIn: 10 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomw.RateLimiter(store)}
}

func parseIntDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if err := pkgdb.Ping(c.Request().Context(), d.DB); err != nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	})

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"message":       "Welcome to Incident Reporting API",
			"documentation": "/docs",
			"admin_panel":   "/admin",
		})
	})
	e.GET("/test", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "working"})
	})

	if d.UploadDir != "" {
		e.Static("/uploads", d.UploadDir)
	}
	if d.AdminStaticDir != "" {
		e.Static("/admin-static", d.AdminStaticDir)
		e.File("/admin", filepath.Join(d.AdminStaticDir, "index.html"))
	}

	limited := d.loginLimiter()

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register, limited...)
	auth.POST("/login", d.AuthHandler.Login, limited...)

	incidents := e.Group("/incidents")
	incidents.GET("/media/:id", d.IncidentHandler.Media)
	incidents.GET("/video/:id", d.IncidentHandler.Video)
	incidents.GET("/additional-media/:id/:index", d.IncidentHandler.AdditionalMedia)

	// Gates are attached per route so unknown paths stay 404.
	user := d.Gate.RequireUser
	incidents.POST("", d.IncidentHandler.Create, user)
	incidents.POST("/multiple", d.IncidentHandler.CreateMultiple, user)
	incidents.POST("/livestream", d.IncidentHandler.CreateLivestream, user)
	incidents.GET("/user", d.IncidentHandler.ListMine, user)

	admin := e.Group("/admin")
	admin.POST("/login", d.AuthHandler.AdminLogin, limited...)

	operator := d.Gate.RequireAdmin(models.LevelOperator)
	admin.GET("/incidents", d.AdminHandler.ListIncidents, operator)
	admin.GET("/incidents/search", d.AdminHandler.SearchIncidents, operator)
	admin.GET("/incidents/:id", d.AdminHandler.GetIncident, operator)
	admin.PATCH("/incidents/:id", d.AdminHandler.UpdateIncident, operator)
	admin.GET("/incidents/file/:id", d.AdminHandler.IncidentFile, operator)
	admin.GET("/incidents/video/:id", d.AdminHandler.IncidentVideo, operator)
	admin.GET("/stats", d.AdminHandler.Stats, operator)
	admin.GET("/reports/incidents", d.AdminHandler.Report, operator)
	admin.GET("/reports/incidents/csv", d.AdminHandler.ReportCSV, operator)

	full := d.Gate.RequireAdmin(models.LevelAdmin)
	admin.GET("/users", d.AdminHandler.ListUsers, full)
	admin.POST("/users", d.AdminHandler.CreateUser, full)
	admin.GET("/users/:id", d.AdminHandler.GetUser, full)
	admin.PUT("/users/:id", d.AdminHandler.UpdateUser, full)
	admin.DELETE("/users/:id", d.AdminHandler.DeleteUser, full)
}
