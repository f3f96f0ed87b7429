package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/passreset/internal/i18n"
	"golang.org/x/time/rate"
)

// RateLimiter creates a new rate limiter middleware with a sensible default configuration.
// It limits requests to 10 per minute per IP address for the routes it's applied to.
func RateLimiter() echo.MiddlewareFunc {
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  rate.Every(6 * time.Second),
			Burst: 10,
		}),

		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			p := i18n.Printer(c.Request().Header.Get("Accept-Language"))
			return c.String(http.StatusTooManyRequests, p.Sprintf(i18n.MsgTooManyRequests))
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
