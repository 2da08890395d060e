package services

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/messaging"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/seed"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/store"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

// 2025-02-01 is a saturday, 2025-01-27 a monday
const (
	testCatalog = `{"items": [
		{"id": "bread", "name": "Bread", "category": "breads", "method": "forno", "unit": "units", "quantity": 100, "cost": 0.2, "price": 0.5}
	]}`
	testReference = `{
		"defaultPlanning": {
			"monday": [{"id": "donut", "name": "Donut", "category": "sweets", "method": "fritura", "unit": "units", "quantity": 50, "cost": 1, "price": 3}],
			"wednesday": []
		},
		"personalizedPlanning": [
			{"day": "01/02/2025", "items": [{"id": "cake", "name": "Cake", "category": "sweets", "unit": "units", "quantity": 10, "cost": 12, "price": 10}]}
		]
	}`
)

type testEnv struct {
	repos     *repositories.Repositories
	planning  *PlanningService
	orders    *OrderService
	plans     *PlanService
	analytics *AnalyticsService
	events    *messaging.RecordingPublisher
	metrics   *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	src := seed.NewFSSource(fstest.MapFS{
		seed.ResourceProduction:       &fstest.MapFile{Data: []byte(testCatalog)},
		seed.ResourceProductionOrders: &fstest.MapFile{Data: []byte(testReference)},
		seed.ResourceOrders:           &fstest.MapFile{Data: []byte(`[]`)},
	})
	repos := repositories.New(store.NewMemoryKV(), src)
	tracer := tracing.Disabled()
	m := metrics.NewMetrics()
	events := &messaging.RecordingPublisher{}

	planning := NewPlanningService(repos.Plans, repos.Catalog, 31, tracer, m)
	return &testEnv{
		repos:     repos,
		planning:  planning,
		orders:    NewOrderService(repos.Orders, events, tracer, m),
		plans:     NewPlanService(repos.Plans, repos.Catalog, events, tracer, m),
		analytics: NewAnalyticsService(planning),
		events:    events,
		metrics:   m,
	}
}

func (e *testEnv) ctx() context.Context {
	return context.Background()
}
