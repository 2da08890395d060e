package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/filter"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/messaging"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// OrderService handles order business logic
type OrderService struct {
	orders    repositories.OrderRepository
	publisher messaging.Publisher
	tracer    tracing.Tracer
	metrics   *metrics.Metrics
	location  *time.Location
}

// NewOrderService creates a new order service. Date filters and date groups use
// the local time zone.
func NewOrderService(
	orders repositories.OrderRepository,
	publisher messaging.Publisher,
	tracer tracing.Tracer,
	m *metrics.Metrics,
) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		tracer:    tracer,
		metrics:   m,
		location:  time.Local,
	}
}

// List returns the orders matching f; a nil filter returns every order
func (s *OrderService) List(ctx context.Context, f *models.OrderFilter) ([]models.Order, error) {
	defer s.tracer.StartSegment(ctx, "orders.list")()

	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if filter.MatchesIn(o, f, s.location) {
			out = append(out, o)
		}
	}
	return out, nil
}

// Get returns one order
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

// Create stores a new order on behalf of creator
func (s *OrderService) Create(ctx context.Context, draft models.OrderDraft, creator *models.Creator) (*models.Order, error) {
	defer s.tracer.StartSegment(ctx, "orders.create")()

	order, err := s.orders.Create(ctx, draft, creator)
	if err != nil {
		s.tracer.RecordError(ctx, err)
		return nil, err
	}

	s.metrics.IncrementCounter(metrics.OrdersCreated)
	log.Info().
		Str("order_id", order.ID).
		Str("customer", order.CustomerName).
		Float64("total", order.Total).
		Msg("Order created")
	publish(ctx, s.publisher, s.metrics, messaging.EventOrderCreated, order)
	return order, nil
}

// Update applies patch to the order with id
func (s *OrderService) Update(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	defer s.tracer.StartSegment(ctx, "orders.update")()

	order, err := s.orders.Update(ctx, id, patch)
	if err != nil {
		s.tracer.RecordError(ctx, err)
		return nil, err
	}

	s.metrics.IncrementCounter(metrics.OrdersUpdated)
	log.Info().Str("order_id", order.ID).Msg("Order updated")
	publish(ctx, s.publisher, s.metrics, messaging.EventOrderUpdated, order)
	return order, nil
}

// Clear deletes every order
func (s *OrderService) Clear(ctx context.Context) error {
	if err := s.orders.Clear(ctx); err != nil {
		return err
	}
	s.metrics.IncrementCounter(metrics.OrdersCleared)
	log.Warn().Msg("All orders cleared")
	publish(ctx, s.publisher, s.metrics, messaging.EventOrdersCleared, nil)
	return nil
}

// ByCustomer groups the orders matching f by customer name
func (s *OrderService) ByCustomer(ctx context.Context, f *models.OrderFilter) ([]models.OrderGroup, error) {
	orders, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return filter.GroupByCustomer(orders), nil
}

// ByDate groups the orders matching f by creation day, newest first
func (s *OrderService) ByDate(ctx context.Context, f *models.OrderFilter) ([]models.OrderGroup, error) {
	orders, err := s.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return filter.GroupByDate(orders, s.location), nil
}
