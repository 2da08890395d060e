package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

// PlanRepository defines the interface for production plan persistence
type PlanRepository interface {
	// GetByDate returns nil without error when no plan is saved for date
	GetByDate(ctx context.Context, date string) (*models.ProductionPlan, error)
	Save(ctx context.Context, plan models.ProductionPlan) (*models.ProductionPlan, error)
	DeleteForDate(ctx context.Context, date string) error
	GetOrCreateDefault(ctx context.Context, date string, catalog CatalogRepository) (*models.ProductionPlan, error)
	List(ctx context.Context) ([]models.ProductionPlan, error)
}

// planRepository implements PlanRepository
type planRepository struct {
	mu    sync.Mutex
	plans *store.Collection[[]models.ProductionPlan]
	now   func() time.Time
}

// NewPlanRepository creates a new plan repository. Plans have no seed: an absent
// collection is empty.
func NewPlanRepository(kv store.KV, opts ...Option) PlanRepository {
	o := buildOptions(opts)
	return &planRepository{
		plans: store.NewCollection[[]models.ProductionPlan](kv, o.keyFunc(KeyPlans), store.Critical()),
		now:   o.now,
	}
}

// GetByDate returns the plan saved for the day date falls on
func (r *planRepository) GetByDate(ctx context.Context, date string) (*models.ProductionPlan, error) {
	key, err := dates.NormalizeKey(date)
	if err != nil {
		return nil, err
	}
	plans, err := r.plans.Get(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range plans {
		if p.Date == key {
			c := p.Clone()
			return &c, nil
		}
	}
	return nil, nil
}

// Save inserts or replaces the plan for plan.Date
func (r *planRepository) Save(ctx context.Context, plan models.ProductionPlan) (*models.ProductionPlan, error) {
	key, err := dates.NormalizeKey(plan.Date)
	if err != nil {
		return nil, errors.Wrap(ErrValidation, err.Error())
	}
	plan = plan.Clone()
	plan.Date = key
	if plan.Items == nil {
		plan.Items = []models.ProductionItem{}
	}
	if err := ValidateStruct(plan); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	plans, err := r.plans.Get(ctx)
	if err != nil {
		return nil, err
	}

	now := dates.Canonical(r.now())
	updated := make([]models.ProductionPlan, len(plans), len(plans)+1)
	copy(updated, plans)

	idx := -1
	for i := range updated {
		if updated[i].Date == key {
			idx = i
			break
		}
	}

	var saved models.ProductionPlan
	if idx == -1 {
		saved = plan
		saved.CreatedAt = now
		saved.UpdatedAt = now
		updated = append(updated, saved)
	} else {
		saved = plan
		saved.CreatedAt = updated[idx].CreatedAt
		saved.UpdatedAt = now
		updated[idx] = saved
	}

	if err := r.plans.Put(ctx, updated); err != nil {
		return nil, errors.Wrapf(err, "failed to save plan %s", key)
	}
	out := saved.Clone()
	return &out, nil
}

// DeleteForDate removes the plan saved for the day date falls on
func (r *planRepository) DeleteForDate(ctx context.Context, date string) error {
	key, err := dates.NormalizeKey(date)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	plans, err := r.plans.Get(ctx)
	if err != nil {
		return err
	}
	kept := make([]models.ProductionPlan, 0, len(plans))
	for _, p := range plans {
		if p.Date != key {
			kept = append(kept, p)
		}
	}
	if err := r.plans.Put(ctx, kept); err != nil {
		return errors.Wrapf(err, "failed to delete plan %s", key)
	}
	return nil
}

// GetOrCreateDefault returns the saved plan for date, or an unsaved plan holding a
// copy of the full production item catalog
func (r *planRepository) GetOrCreateDefault(ctx context.Context, date string, catalog CatalogRepository) (*models.ProductionPlan, error) {
	existing, err := r.GetByDate(ctx, date)
	if err != nil || existing != nil {
		return existing, err
	}

	key, err := dates.NormalizeKey(date)
	if err != nil {
		return nil, err
	}
	items, err := catalog.ProductionItems(ctx)
	if err != nil {
		return nil, err
	}
	now := dates.Canonical(r.now())
	return &models.ProductionPlan{
		Date:      key,
		Items:     items,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// List returns every saved plan in storage order
func (r *planRepository) List(ctx context.Context) ([]models.ProductionPlan, error) {
	plans, err := r.plans.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.ProductionPlan, len(plans))
	for i, p := range plans {
		out[i] = p.Clone()
	}
	return out, nil
}
