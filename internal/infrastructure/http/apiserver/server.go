// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mealsmith/v2/internal/infrastructure/config"
	"github.com/mealsmith/v2/internal/infrastructure/http/handlers"
	"github.com/mealsmith/v2/internal/infrastructure/http/middleware"
	"github.com/mealsmith/v2/internal/infrastructure/monitoring"
	"github.com/mealsmith/v2/internal/ports/inbound"
	"github.com/mealsmith/v2/pkg/healthcheck"
)

// APIServer serves the meal-planning JSON API
type APIServer struct {
	config         *config.Config
	logger         *zap.Logger
	server         *http.Server
	router         *chi.Mux
	plannerService inbound.PlannerService
	health         *healthcheck.HealthCheck
	metrics        *monitoring.MetricsCollector
	tracing        *monitoring.TracingProvider
	openAPIHandler *OpenAPIHandler
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	plannerService inbound.PlannerService,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
	tracing *monitoring.TracingProvider,
) *APIServer {
	server := &APIServer{
		config:         cfg,
		logger:         log,
		plannerService: plannerService,
		health:         health,
		metrics:        metrics,
		tracing:        tracing,
		openAPIHandler: NewOpenAPIHandler(log),
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        server.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return server
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}
	r.Use(s.tracing.HTTPMiddleware)
	r.Use(s.metrics.HTTPMiddleware)

	// API-specific middleware
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(chimiddleware.Compress(5))

	// Operational endpoints
	r.Get("/health", s.health.Handler())
	r.Get("/ready", s.health.ReadinessHandler())
	r.Get("/live", s.health.LivenessHandler())
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// OpenAPI documentation endpoints
	r.Get("/api/v1/openapi.yaml", s.openAPIHandler.ServeOpenAPISpec)
	r.Get("/api/v1/docs", s.openAPIHandler.ServeSwaggerUI)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.JSONOnly())
		s.setupAPIV1Routes(r)
	})

	return r
}

// setupAPIV1Routes configures API v1 endpoints
func (s *APIServer) setupAPIV1Routes(r chi.Router) {
	h := handlers.NewAPIHandlers(s.plannerService, s.logger)

	r.Route("/meal-plans", func(r chi.Router) {
		r.Post("/", h.GenerateMealPlan)
		r.Get("/", h.ListMealPlans)
		r.Get("/{id}", h.GetMealPlan)
		r.Delete("/{id}", h.DeleteMealPlan)
		r.Post("/{id}/archive", h.ArchiveMealPlan)
		r.Get("/{id}/shopping-list", h.GetShoppingList)
	})

	r.Get("/diet-profiles", h.ListDietProfiles)
}

// Start starts the API HTTP server
func (s *APIServer) Start() error {
	s.logger.Info("Starting JSON API server",
		zap.String("address", s.server.Addr),
	)

	return s.server.ListenAndServe()
}

// Server returns the underlying HTTP server instance
func (s *APIServer) Server() *http.Server {
	return s.server
}

// Router returns the configured router, used by tests to drive the
// server without binding a port
func (s *APIServer) Router() http.Handler {
	return s.router
}

// Shutdown gracefully shuts down the API server
func (s *APIServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server...")
	return s.server.Shutdown(ctx)
}
