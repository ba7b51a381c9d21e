// Package api exposes the CorpsBoard services over HTTP with huma operations on a chi router.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/corpsboard/corpsboard-server/internal/ratelimit"
)

// HealthChecker reports whether the database answers.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options configures optional server behavior.
type Options struct {
	// CORSAllowedOrigins enables CORS for these origins. Empty disables CORS headers.
	CORSAllowedOrigins []string
	// AuthLimiter throttles login and registration per client IP. Nil disables throttling.
	AuthLimiter *ratelimit.KeyedRateLimiter
	// TrustProxyHeaders takes the client IP from X-Forwarded-For/X-Real-IP.
	// Off by default, since clients can set those headers freely.
	TrustProxyHeaders bool
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services    *Services
	health      HealthChecker
	authLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, health HealthChecker, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := chi.NewRouter()
	router.Use(requestID)
	router.Use(middleware.RequestID)
	if opts.TrustProxyHeaders {
		router.Use(middleware.RealIP)
	}
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)
	if len(opts.CORSAllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	router.Use(authMiddleware(services.Auth))

	humaConfig := huma.DefaultConfig("CorpsBoard API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	RegisterErrorHandler()
	api := humachi.New(router, humaConfig)

	s := &Server{
		services:    services,
		health:      health,
		authLimiter: opts.AuthLimiter,
		router:      router,
		api:         api,
		logger:      logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerShowRoutes()
	s.registerEngagementRoutes()
	s.registerLeaderboardRoutes()
	s.registerProfileRoutes()
	s.registerAdminShowRoutes()
	s.registerAdminRoleRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mainly for OpenAPI export and tests.
func (s *Server) API() huma.API {
	return s.api
}

// bearer marks an operation as taking a bearer token.
var bearer = []map[string][]string{{"bearer": {}}}
