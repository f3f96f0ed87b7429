package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nfrund/passreset/internal/audit"
	"github.com/nfrund/passreset/internal/backend"
	"github.com/nfrund/passreset/internal/config"
	"github.com/nfrund/passreset/internal/handlers"
	"github.com/nfrund/passreset/internal/metrics"
	appmiddleware "github.com/nfrund/passreset/internal/middleware"
	"github.com/nfrund/passreset/internal/pubsub"
	"github.com/nfrund/passreset/internal/recovery"
	"github.com/nfrund/passreset/internal/rendering"
	"github.com/nfrund/passreset/web"
	"github.com/prometheus/client_golang/prometheus"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	E                    *echo.Echo
	Cfg                  config.Provider
	bus                  *pubsub.WatermillBridge
	registry             *prometheus.Registry
	homeHandler          *handlers.HomeHandler
	resetPasswordHandler *handlers.ResetPasswordHandler
	cancel               context.CancelFunc
}

// New creates a new Server talking to the backend configured in cfg.
func New(cfg config.Provider) (*Server, error) {
	return NewWithChanger(cfg, backend.NewClient(cfg.GetBackendURL(), nil))
}

// NewWithChanger creates a Server with a custom password changer, which tests
// use to stand in for the backend.
func NewWithChanger(cfg config.Provider, changer recovery.PasswordChanger) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	bus := pubsub.NewWatermillBridge()
	if err := audit.Subscribe(ctx, bus, slog.Default().With("component", "audit")); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe audit log: %w", err)
	}

	reg := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(reg)

	e := echo.New()
	e.HideBanner = true
	e.Renderer = rendering.NewUniversalRenderer()
	setupErrorHandling(e)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmiddleware.Logger)
	e.Use(middleware.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "passreset",
		Registerer: reg,
	}))

	store := sessions.NewCookieStore([]byte(cfg.GetSessionSecret()))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // flashes only live across one redirect
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	e.StaticFS("/static", echo.MustSubFS(web.FS, "static"))

	return &Server{
		E:                    e,
		Cfg:                  cfg,
		bus:                  bus,
		registry:             reg,
		homeHandler:          handlers.NewHomeHandler(),
		resetPasswordHandler: handlers.NewResetPasswordHandler(changer, bus, recorder),
		cancel:               cancel,
	}, nil
}
