package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gabchak/weather-auth/docs"
	"github.com/gabchak/weather-auth/internal/api/handler"
	"github.com/gabchak/weather-auth/internal/api/middleware"
	"github.com/gabchak/weather-auth/internal/core/domain"
	"github.com/gabchak/weather-auth/internal/core/ports"
	infrahttp "github.com/gabchak/weather-auth/internal/infrastructure/http"
	"github.com/gabchak/weather-auth/internal/infrastructure/http/handlers"
)

// APIPrefix is the path prefix of every REST endpoint.
const APIPrefix = "/api/v1"

// Dependencies are the services the router exposes.
type Dependencies struct {
	Auth          ports.AuthService
	Users         ports.UserDirectory
	Subscriptions ports.SubscriptionService
	Authenticator ports.Authenticator

	// Probes are pinged by /health/ready.
	Probes []handlers.Check
	// LoginRatePerMinute throttles register and login per client IP; 0 disables it.
	LoginRatePerMinute int
	// Registry receives the HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

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
	e.Use(requestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "weather_auth",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	subscriptionHandler := handler.NewSubscriptionHandler(deps.Subscriptions)
	userHandler := handler.NewUserHandler(deps.Users)

	authenticated := middleware.Auth(deps.Authenticator, log)
	anyRole := middleware.RBAC(domain.RoleFreeUser, domain.RolePaidUser, domain.RoleAdmin)
	throttle := middleware.LoginRateLimit(deps.LoginRatePerMinute)

	v1 := e.Group(APIPrefix)

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register, throttle)
	v1.POST("/auth/login", authHandler.Login, throttle)
	v1.POST("/auth/logout", authHandler.Logout, authenticated)

	// --- Protected routes ---
	v1.POST("/subscription", subscriptionHandler.Subscribe, authenticated, anyRole)
	v1.GET("/subscription", subscriptionHandler.Status, authenticated, anyRole)
	v1.GET("/users/me", userHandler.Me, authenticated, anyRole)
	v1.PUT("/users/me/password", userHandler.ChangePassword, authenticated, anyRole)

	// --- Operational endpoints ---
	infrahttp.RegisterProbes(e, deps.Probes...)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one structured line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
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
