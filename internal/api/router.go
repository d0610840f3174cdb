package api

import (
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/carjai/marketplace-client/internal/api/docs"
	"github.com/carjai/marketplace-client/internal/api/handler"
	"github.com/carjai/marketplace-client/internal/api/middleware"
	"github.com/carjai/marketplace-client/internal/core/domain"
)

const defaultSessionTTL = 24 * time.Hour

// Options configures the mock backend.
type Options struct {
	Store       *handler.Store
	JWTSecret   string
	SessionTTL  time.Duration
	AdminPrefix string
	Log         zerolog.Logger
	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	// The admin whitelist checks the peer address; forwarding headers are not trusted.
	e.IPExtractor = echo.ExtractIPDirect()
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(opts.Log))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "carjai_mock",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	sessions := middleware.NewSessions(opts.JWTSecret, ttl)
	authHandler := handler.NewAuthHandler(opts.Store, sessions)
	adminHandler := handler.NewAdminHandler(opts.Store, sessions)
	carHandler := handler.NewCarHandler(opts.Store)
	requireUser := sessions.Require(domain.IdentityUser)
	requireAdmin := sessions.Require(domain.IdentityAdmin)

	// --- User auth routes ---
	e.POST("/api/auth/signup", authHandler.Signup)
	e.POST("/api/auth/signin", authHandler.Signin)
	e.POST("/api/auth/signout", authHandler.Signout)
	e.GET("/api/auth/me", authHandler.Me, requireUser)
	e.POST("/api/auth/refresh", authHandler.Refresh, requireUser)

	// --- Catalog ---
	e.GET("/api/cars/search", carHandler.Search)
	e.GET("/api/cars/:id", carHandler.Get)
	e.GET("/api/recent-views", carHandler.RecentViews, requireUser)
	e.POST("/api/recent-views", carHandler.RecordView, requireUser)

	// --- Admin console ---
	prefix := "/" + strings.Trim(opts.AdminPrefix, "/")
	if prefix == "/" {
		prefix = domain.DefaultAdminRoute
	}
	e.POST(prefix+"/auth/signout", adminHandler.Signout)

	admin := e.Group(prefix, middleware.IPWhitelist(opts.Store.IPAllowed))
	admin.POST("/auth/signin", adminHandler.Signin)
	admin.GET("/auth/me", adminHandler.Me, requireAdmin)
	admin.GET("/ip-whitelist", adminHandler.ListIPs, requireAdmin)
	admin.POST("/ip-whitelist/add", adminHandler.AddIP, requireAdmin)
	admin.GET("/ip-whitelist/check", adminHandler.CheckIP, requireAdmin)
	admin.DELETE("/ip-whitelist/remove", adminHandler.RemoveIP, requireAdmin)

	// --- Health, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
