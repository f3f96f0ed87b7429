package server

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"
	appmiddleware "github.com/nfrund/passreset/internal/middleware"
)

// setupErrorHandling installs an error handler that logs unhandled errors
// with a stack trace before delegating to echo's default response.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code >= http.StatusInternalServerError {
			appmiddleware.FromContext(c.Request().Context()).Error("Internal Server Error (Unhandled)",
				"error", err.Error(),
				"path", c.Request().URL.Path,
				"stack_trace", string(debug.Stack()),
			)
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}
