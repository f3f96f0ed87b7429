package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
)

type contextKey string

const loggerKey = contextKey("logger")

// Logger is a middleware that injects a request-scoped logger into the context
// and logs each finished request. The logger carries the request ID, so it
// must run after the RequestID middleware.
func Logger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		reqID := c.Response().Header().Get(echo.HeaderXRequestID)
		requestLogger := slog.Default().With("request_id", reqID)

		newCtx := context.WithValue(c.Request().Context(), loggerKey, requestLogger)
		c.SetRequest(c.Request().WithContext(newCtx))

		err := next(c)
		if err != nil {
			// Let echo write the error response so the logged status is the real one.
			c.Error(err)
		}

		requestLogger.Info("request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration", time.Since(start),
		)
		return nil
	}
}

// FromContext returns the request-scoped logger, or the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
