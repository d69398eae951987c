package httpserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/incident_service/internal/transport"
	"github.com/Skotchmaster/incident_service/pkg/logging"
	"github.com/labstack/echo/v4"
)

// ErrorHandler renders every error as {"detail": "..."}. Headers set before
// the error, such as the bearer challenge, are kept.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	detail := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			detail = m
		case error:
			detail = m.Error()
		case nil:
			detail = http.StatusText(code)
		default:
			detail = fmt.Sprint(m)
		}
	} else {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "error", err)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, transport.ErrorResponse{Detail: detail})
	}
	if werr != nil {
		logging.FromContext(c.Request().Context()).Error("write_error_response", "error", werr)
	}
}
