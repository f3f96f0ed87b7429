package server

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/passreset/internal/middleware"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/", s.homeHandler.HomeGet)

	s.E.GET("/changepassword", s.resetPasswordHandler.ResetPasswordGet)
	s.E.POST("/changepassword", s.resetPasswordHandler.ResetPasswordPost, rateLimiter)

	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})
	s.E.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.registry,
	}))
}
