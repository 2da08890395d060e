package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/messaging"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// PlanService handles saved production plans
type PlanService struct {
	plans     repositories.PlanRepository
	catalog   repositories.CatalogRepository
	publisher messaging.Publisher
	tracer    tracing.Tracer
	metrics   *metrics.Metrics
}

// NewPlanService creates a new plan service
func NewPlanService(
	plans repositories.PlanRepository,
	catalog repositories.CatalogRepository,
	publisher messaging.Publisher,
	tracer tracing.Tracer,
	m *metrics.Metrics,
) *PlanService {
	return &PlanService{
		plans:     plans,
		catalog:   catalog,
		publisher: publisher,
		tracer:    tracer,
		metrics:   m,
	}
}

// List returns every saved plan
func (s *PlanService) List(ctx context.Context) ([]models.ProductionPlan, error) {
	return s.plans.List(ctx)
}

// Get returns the plan saved for date, or nil
func (s *PlanService) Get(ctx context.Context, date string) (*models.ProductionPlan, error) {
	return s.plans.GetByDate(ctx, date)
}

// GetOrDefault returns the saved plan for date or an unsaved catalog copy
func (s *PlanService) GetOrDefault(ctx context.Context, date string) (*models.ProductionPlan, error) {
	return s.plans.GetOrCreateDefault(ctx, date, s.catalog)
}

// Save upserts plan
func (s *PlanService) Save(ctx context.Context, plan models.ProductionPlan) (*models.ProductionPlan, error) {
	defer s.tracer.StartSegment(ctx, "plans.save")()

	saved, err := s.plans.Save(ctx, plan)
	if err != nil {
		s.tracer.RecordError(ctx, err)
		return nil, err
	}
	s.metrics.IncrementCounter(metrics.PlansSaved)
	log.Info().Str("date", saved.Date).Int("items", len(saved.Items)).Msg("Production plan saved")
	publish(ctx, s.publisher, s.metrics, messaging.EventPlanSaved, saved)
	return saved, nil
}

// Delete removes the plan saved for date
func (s *PlanService) Delete(ctx context.Context, date string) error {
	key, err := dates.NormalizeKey(date)
	if err != nil {
		return err
	}
	if err := s.plans.DeleteForDate(ctx, key); err != nil {
		s.tracer.RecordError(ctx, err)
		return err
	}
	s.metrics.IncrementCounter(metrics.PlansDeleted)
	log.Info().Str("date", key).Msg("Production plan deleted")
	publish(ctx, s.publisher, s.metrics, messaging.EventPlanDeleted, map[string]string{"date": key})
	return nil
}
