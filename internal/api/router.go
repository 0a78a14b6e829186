package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/antifraud/antifraud-system/docs"
	"github.com/antifraud/antifraud-system/internal/api/handler"
	"github.com/antifraud/antifraud-system/internal/api/middleware"
	"github.com/antifraud/antifraud-system/internal/core/ports"
)

// Dependencies are the collaborators NewRouter mounts behind HTTP.
type Dependencies struct {
	Accounts     ports.AccountService
	Auth         ports.AuthService
	Transactions ports.TransactionService
	Blocklist    ports.BlocklistService
	Audit        ports.AuditService

	// Readiness lists the dependencies /health/ready pings.
	Readiness map[string]handler.Pinger

	// RegisterRateLimit caps registrations per client IP per second;
	// zero disables the limiter.
	RegisterRateLimit float64

	// Registry receives HTTP metrics and backs /metrics. Nil selects the
	// process-wide default registry.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// perms decides who may call each route; routes it does not list are denied.
func NewRouter(deps Dependencies, perms *middleware.PermissionTable) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "antifraud",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(middleware.Auth(deps.Auth))
	e.Use(middleware.Guard(perms))

	// --- Handlers ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Audit)
	transactionHandler := handler.NewTransactionHandler(deps.Transactions)
	blocklistHandler := handler.NewBlocklistHandler(deps.Blocklist)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	if deps.RegisterRateLimit > 0 {
		auth.POST("/user", accountHandler.Register, registrationLimiter(deps.RegisterRateLimit))
	} else {
		auth.POST("/user", accountHandler.Register)
	}
	auth.POST("/token", authHandler.Token)
	auth.GET("/list", accountHandler.List)
	auth.DELETE("/user/:username", accountHandler.Delete)
	auth.PUT("/role", accountHandler.ChangeRole)
	auth.PUT("/access", accountHandler.ChangeAccess)
	auth.GET("/audit/:username", authHandler.Audit)

	// --- Anti-fraud routes ---
	af := e.Group("/api/antifraud")
	af.POST("/transaction", transactionHandler.Classify)
	af.POST("/suspicious-ip", blocklistHandler.AddSuspiciousIP)
	af.GET("/suspicious-ip", blocklistHandler.ListSuspiciousIPs)
	af.DELETE("/suspicious-ip/:ip", blocklistHandler.RemoveSuspiciousIP)
	af.POST("/stolencard", blocklistHandler.AddStolenCard)
	af.GET("/stolencard", blocklistHandler.ListStolenCards)
	af.DELETE("/stolencard/:number", blocklistHandler.RemoveStolenCard)

	// --- Operations (no auth required) ---
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
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
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// registrationLimiter throttles account creation per client IP.
func registrationLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiter(store)
}
