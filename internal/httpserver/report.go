package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/incident_service/internal/repo"
	"github.com/Skotchmaster/incident_service/internal/service"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/labstack/echo/v4"
)

func reportFilter(c echo.Context) (repo.IncidentFilter, error) {
	f, err := service.ReportFilter(c.QueryParam("status"), c.QueryParam("from_date"), c.QueryParam("to_date"))
	if err != nil && errors.Is(err, service.ErrValidation) {
		return f, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return f, err
}

func (h *AdminHTTP) Report(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_report")

	f, err := reportFilter(c)
	if err != nil {
		l.Warn("report_error", "status", 400, "error", err)
		return err
	}

	rep, err := h.Svc.Report(ctx, f)
	if err != nil {
		l.Error("report_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot build report")
	}
	return c.JSON(http.StatusOK, rep)
}

func (h *AdminHTTP) ReportCSV(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_report_csv")

	f, err := reportFilter(c)
	if err != nil {
		l.Warn("report_csv_error", "status", 400, "error", err)
		return err
	}

	data, name, err := h.Svc.ExportCSV(ctx, f)
	if err != nil {
		l.Error("report_csv_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot export report")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}
