// Package repositories exposes the order, production plan and catalog
// collections. Every collection is a JSON document in the KV store and each
// mutation rewrites the whole collection.
package repositories

import (
	"time"

	"github.com/google/uuid"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
)

// Store keys
const (
	KeyOrders           = "mock_orders_v1"
	KeyProducts         = "mock_products_v1"
	KeyEmployees        = "mock_employees_v1"
	KeyProductionItems  = "mock_production_items_v1"
	KeyProductionOrders = "mock_production_orders_v1"
	KeyPlans            = "production_plans_v1"
)

// Option configures a repository
type Option func(*options)

type options struct {
	keyFunc func(string) string
	now     func() time.Time
	newID   func() string
}

func defaultOptions() options {
	return options{
		keyFunc: func(k string) string { return k },
		now:     time.Now,
		newID:   newOrderID,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithKeyFunc maps collection keys to storage keys, e.g. to add a namespace
func WithKeyFunc(fn func(string) string) Option {
	return func(o *options) { o.keyFunc = fn }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides order id generation
func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// Time-ordered ids
func newOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Repositories groups every repository over one store
type Repositories struct {
	Orders  OrderRepository
	Plans   PlanRepository
	Catalog CatalogRepository
}

// New builds every repository over kv, seeding from seeder
func New(kv store.KV, seeder store.Seeder, opts ...Option) *Repositories {
	return &Repositories{
		Orders:  NewOrderRepository(kv, seeder, opts...),
		Plans:   NewPlanRepository(kv, opts...),
		Catalog: NewCatalogRepository(kv, seeder, opts...),
	}
}
