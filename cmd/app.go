package cmd

import (
	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/config"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/messaging"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/seed"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/services"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// app holds the components shared by every command
type app struct {
	backend   store.Backend
	repos     *repositories.Repositories
	tracer    tracing.Tracer
	metrics   *metrics.Metrics
	publisher messaging.Publisher

	planning  *services.PlanningService
	orders    *services.OrderService
	plans     *services.PlanService
	analytics *services.AnalyticsService
}

// newApp connects the store and builds the services. Tracing and the event
// publisher degrade to no-ops when they cannot start.
func newApp(cfg config.Config) (*app, error) {
	m := metrics.NewMetrics()

	backend, err := store.Open(cfg)
	if err != nil {
		m.SetHealth("store", false)
		return nil, err
	}
	m.SetHealth("store", true)

	source, err := seed.New(cfg.Seed)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	var tracer tracing.Tracer
	nr, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		tracer = tracing.Disabled()
	} else {
		tracer = nr
	}

	publisher, err := messaging.NewPublisher(cfg.Azure)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize event publisher, continuing without events")
		publisher = messaging.NoopPublisher{}
	}

	repos := repositories.New(backend, source, repositories.WithKeyFunc(cfg.Store.StoreKey))
	planning := services.NewPlanningService(repos.Plans, repos.Catalog, cfg.Planning.MaxRangeDays, tracer, m)

	return &app{
		backend:   backend,
		repos:     repos,
		tracer:    tracer,
		metrics:   m,
		publisher: publisher,
		planning:  planning,
		orders:    services.NewOrderService(repos.Orders, publisher, tracer, m),
		plans:     services.NewPlanService(repos.Plans, repos.Catalog, publisher, tracer, m),
		analytics: services.NewAnalyticsService(planning),
	}, nil
}

// Close releases every connection
func (a *app) Close() {
	if err := a.publisher.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close event publisher")
	}
	a.tracer.Close()
	if err := a.backend.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close store")
	}
}
