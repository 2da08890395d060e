package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/seed"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	List(ctx context.Context) ([]models.Order, error)
	Get(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, draft models.OrderDraft, creator *models.Creator) (*models.Order, error)
	Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)
	Clear(ctx context.Context) error
}

// orderRepository implements OrderRepository
type orderRepository struct {
	mu     sync.Mutex
	orders *store.Collection[[]models.Order]
	now    func() time.Time
	newID  func() string
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(kv store.KV, seeder store.Seeder, opts ...Option) OrderRepository {
	o := buildOptions(opts)
	collOpts := []store.CollectionOption{store.Critical()}
	if seeder != nil {
		collOpts = append(collOpts, store.WithSeed(seeder, seed.ResourceOrders))
	}
	return &orderRepository{
		orders: store.NewCollection[[]models.Order](kv, o.keyFunc(KeyOrders), collOpts...),
		now:    o.now,
		newID:  o.newID,
	}
}

// List returns every order, seeding the collection on first use
func (r *orderRepository) List(ctx context.Context) ([]models.Order, error) {
	orders, err := r.orders.Get(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out, nil
}

// Get returns the order with id
func (r *orderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	orders, err := r.orders.Get(ctx)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.ID == id {
			c := o.Clone()
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

// Create stores a new order built from draft
func (r *orderRepository) Create(ctx context.Context, draft models.OrderDraft, creator *models.Creator) (*models.Order, error) {
	if err := ValidateStruct(draft); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.orders.Get(ctx)
	if err != nil {
		return nil, err
	}

	status := draft.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	items := draft.Items
	if items == nil {
		items = []models.OrderItem{}
	}

	order := models.Order{
		ID:           r.newID(),
		CustomerName: draft.CustomerName,
		Items:        items,
		Total:        draft.Total,
		Status:       status,
		CreatedAt:    dates.Canonical(r.now()),
		PickupAt:     normalizePickup(draft.PickupAt),
		Note:         draft.Note,
	}
	if creator != nil {
		if creator.ID != "" {
			order.CreatedByID = &creator.ID
		}
		if creator.Name != "" {
			order.CreatedByName = &creator.Name
		}
	}
	order = order.Clone()

	updated := append(append(make([]models.Order, 0, len(orders)+1), orders...), order)
	if err := r.orders.Put(ctx, updated); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	out := order.Clone()
	return &out, nil
}

// Update merges patch into the order with id
func (r *orderRepository) Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	if err := ValidateStruct(patch); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	orders, err := r.orders.Get(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, errors.Wrapf(ErrNotFound, "order %s", id)
	}

	merged := applyPatch(orders[idx].Clone(), patch)

	updated := make([]models.Order, len(orders))
	copy(updated, orders)
	updated[idx] = merged
	if err := r.orders.Put(ctx, updated); err != nil {
		return nil, errors.Wrap(err, "failed to update order")
	}

	out := merged.Clone()
	return &out, nil
}

// Clear empties the order collection
func (r *orderRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.orders.Put(ctx, []models.Order{}); err != nil {
		return errors.Wrap(err, "failed to clear orders")
	}
	return nil
}

func applyPatch(o models.Order, p models.OrderPatch) models.Order {
	if p.CustomerName != nil {
		o.CustomerName = *p.CustomerName
	}
	if p.Items != nil {
		o.Items = append([]models.OrderItem{}, (*p.Items)...)
	}
	if p.Total != nil {
		o.Total = *p.Total
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.PickupAt.Set {
		o.PickupAt = normalizePickup(p.PickupAt.Value)
	}
	if p.Note != nil {
		o.Note = *p.Note
	}
	return o
}

// normalizePickup re-serializes a parseable pickup time and keeps anything else
// verbatim
func normalizePickup(v *string) *string {
	if v == nil {
		return nil
	}
	s := dates.NormalizeTimestamp(*v)
	return &s
}
