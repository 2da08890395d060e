// Package api exposes the bakery services over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/config"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/api/handlers"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/services"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// Dependencies holds what the handlers are built from
type Dependencies struct {
	Orders    *services.OrderService
	Plans     *services.PlanService
	Planning  *services.PlanningService
	Analytics *services.AnalyticsService
	Catalog   repositories.CatalogRepository
	Metrics   *metrics.Metrics
	Tracer    tracing.Tracer
}

// Server represents the HTTP server
type Server struct {
	config     config.Config
	deps       Dependencies
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg config.Config, deps Dependencies) *Server {
	server := &Server{
		config: cfg,
		deps:   deps,
	}
	server.router = server.setupRouter()
	server.httpServer = &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server
}

// Handler returns the configured router
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRouter configures the HTTP router
func (s *Server) setupRouter() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(Logger())
	router.Use(Metrics(s.deps.Metrics))
	if app := s.deps.Tracer.Application(); app != nil {
		router.Use(nrgin.Middleware(app))
	}
	if s.config.Server.CorsEnabled {
		router.Use(CORS(s.config.Server.CorsOrigins))
	}

	handlers.NewMetricsHandler(s.deps.Metrics).RegisterRoutes(router, s.config.MetricsEnabled)

	v1 := router.Group("/api/v1")
	if s.config.Server.Timeout > 0 {
		v1.Use(requestTimeout(s.config.Server.Timeout))
	}
	handlers.NewOrderHandler(s.deps.Orders, s.deps.Tracer).RegisterRoutes(v1)
	handlers.NewCatalogHandler(s.deps.Catalog).RegisterRoutes(v1)
	handlers.NewPlanHandler(s.deps.Plans).RegisterRoutes(v1)
	handlers.NewPlanningHandler(s.deps.Planning, s.deps.Analytics, s.deps.Tracer).RegisterRoutes(v1)

	return router
}

// requestTimeout bounds the context handed to the services
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	log.Info().Str("address", s.config.Server.Address).Msg("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "HTTP server error")
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "HTTP server shutdown error")
	}

	log.Info().Msg("HTTP server shut down successfully")
	return nil
}
