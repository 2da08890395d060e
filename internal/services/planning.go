package services

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// ErrInvalidRange is returned for an inverted or oversized date range
var ErrInvalidRange = errors.New("invalid date range")

// DefaultMaxRangeDays caps ResolveRange when no limit is configured
const DefaultMaxRangeDays = 366

// PlanningService resolves the production plan that applies to a day
type PlanningService struct {
	plans        repositories.PlanRepository
	catalog      repositories.CatalogRepository
	maxRangeDays int
	tracer       tracing.Tracer
	metrics      *metrics.Metrics
}

// NewPlanningService creates a new planning service
func NewPlanningService(
	plans repositories.PlanRepository,
	catalog repositories.CatalogRepository,
	maxRangeDays int,
	tracer tracing.Tracer,
	m *metrics.Metrics,
) *PlanningService {
	if maxRangeDays <= 0 {
		maxRangeDays = DefaultMaxRangeDays
	}
	return &PlanningService{
		plans:        plans,
		catalog:      catalog,
		maxRangeDays: maxRangeDays,
		tracer:       tracer,
		metrics:      m,
	}
}

// MaxRangeDays returns the longest range ResolveRange accepts
func (s *PlanningService) MaxRangeDays() int {
	return s.maxRangeDays
}

// Resolve returns the plan for the day date falls on. The first match wins:
// a saved plan, a personalized entry of the reference file, the non-empty
// weekday default, then the full production item catalog.
func (s *PlanningService) Resolve(ctx context.Context, date string) (*models.ResolvedPlan, error) {
	day, err := dates.ParseDay(date)
	if err != nil {
		return nil, err
	}
	defer s.tracer.StartSegment(ctx, "planning.resolve")()

	plan, err := newResolver(s.plans, s.catalog).resolve(ctx, day)
	if err != nil {
		s.tracer.RecordError(ctx, err)
		return nil, err
	}
	s.metrics.IncrementCounter(metrics.DaysResolved)
	return plan, nil
}

// ResolveRange resolves every day from start to end inclusive, ascending
func (s *PlanningService) ResolveRange(ctx context.Context, start, end string) ([]models.DayPlan, error) {
	from, to, err := s.ParseRange(start, end)
	if err != nil {
		return nil, err
	}
	return s.ResolveDays(ctx, from, to)
}

// ParseRange parses and checks range bounds
func (s *PlanningService) ParseRange(start, end string) (time.Time, time.Time, error) {
	from, err := dates.ParseDay(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := dates.ParseDay(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, errors.Wrapf(ErrInvalidRange, "start %s is after end %s", dates.Key(from), dates.Key(to))
	}
	if n := dates.DaysBetween(from, to); n > s.maxRangeDays {
		return time.Time{}, time.Time{}, errors.Wrapf(ErrInvalidRange, "%d days exceeds the limit of %d", n, s.maxRangeDays)
	}
	return from, to, nil
}

// ResolveDays resolves every civil day between two parsed bounds
func (s *PlanningService) ResolveDays(ctx context.Context, from, to time.Time) ([]models.DayPlan, error) {
	days := dates.Days(from, to)
	if days == nil {
		return nil, errors.Wrapf(ErrInvalidRange, "start %s is after end %s", dates.Key(from), dates.Key(to))
	}
	defer s.tracer.StartSegment(ctx, "planning.resolve_range")()

	r := newResolver(s.plans, s.catalog)
	out := make([]models.DayPlan, 0, len(days))
	for _, day := range days {
		plan, err := r.resolve(ctx, day)
		if err != nil {
			s.tracer.RecordError(ctx, err)
			return nil, err
		}
		out = append(out, models.DayPlan{
			DateKey:     plan.DateKey,
			DisplayDate: dates.ToDayMonthYear(day),
			Items:       plan.Items,
			Source:      plan.Source,
		})
	}
	s.metrics.IncrementCounterBy(metrics.DaysResolved, int64(len(out)))
	return out, nil
}

// resolver loads each collection at most once while resolving a set of days
type resolver struct {
	plans   repositories.PlanRepository
	catalog repositories.CatalogRepository

	saved     map[string]models.ProductionPlan
	reference *models.PlanningReference
	fallback  []models.ProductionItem
}

func newResolver(plans repositories.PlanRepository, catalog repositories.CatalogRepository) *resolver {
	return &resolver{plans: plans, catalog: catalog}
}

func (r *resolver) resolve(ctx context.Context, day time.Time) (*models.ResolvedPlan, error) {
	key := dates.Key(day)

	if r.saved == nil {
		plans, err := r.plans.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load saved plans")
		}
		r.saved = make(map[string]models.ProductionPlan, len(plans))
		for _, p := range plans {
			r.saved[p.Date] = p
		}
	}
	if saved, ok := r.saved[key]; ok {
		return resolved(key, saved.Items, models.PlanSourceSaved), nil
	}

	if r.reference == nil {
		ref, err := r.catalog.PlanningReference(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load planning reference")
		}
		r.reference = ref
	}
	display := dates.ToDayMonthYear(day)
	for _, p := range r.reference.PersonalizedPlanning {
		if p.Day == display {
			return resolved(key, p.Items, models.PlanSourcePersonalized), nil
		}
	}
	if items := r.reference.DefaultPlanning[dates.WeekdayKey(day)]; len(items) > 0 {
		return resolved(key, items, models.PlanSourceDefault), nil
	}

	if r.fallback == nil {
		items, err := r.catalog.ProductionItems(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load production items")
		}
		r.fallback = items
	}
	return resolved(key, r.fallback, models.PlanSourceFallback), nil
}

func resolved(key string, items []models.ProductionItem, source models.PlanSource) *models.ResolvedPlan {
	out := models.CloneItems(items)
	if out == nil {
		out = []models.ProductionItem{}
	}
	return &models.ResolvedPlan{DateKey: key, Items: out, Source: source}
}
