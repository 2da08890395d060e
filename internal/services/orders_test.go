package services

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/filter"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/messaging"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/repositories"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/tracing"
)

func draft(customer string) models.OrderDraft {
	return models.OrderDraft{
		CustomerName: customer,
		Items:        []models.OrderItem{{ProductID: "p-1", ProductName: "Sonho", Quantity: 1, Price: 6, Total: 6}},
		Total:        6,
	}
}

func TestOrderServiceCreatePublishes(t *testing.T) {
	env := newTestEnv(t)

	order, err := env.orders.Create(env.ctx(), draft("Ana"), &models.Creator{ID: "e-1", Name: "Joana"})
	require.NoError(t, err)

	events := env.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, messaging.EventOrderCreated, events[0].Type)
	assert.Equal(t, order, events[0].Payload)
	assert.Equal(t, int64(1), env.metrics.GetCounters()[metrics.OrdersCreated])
}

func TestOrderServiceListFilters(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.orders.Create(env.ctx(), draft("Ana"), &models.Creator{Name: "Joana"})
	require.NoError(t, err)
	_, err = env.orders.Create(env.ctx(), draft("Bruno"), nil)
	require.NoError(t, err)

	all, err := env.orders.List(env.ctx(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byName, err := env.orders.List(env.ctx(), &models.OrderFilter{CustomerName: "BRU"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Bruno", byName[0].CustomerName)

	anonymous, err := env.orders.List(env.ctx(), &models.OrderFilter{CreatedBy: models.NoCreator})
	require.NoError(t, err)
	require.Len(t, anonymous, 1)
	assert.Equal(t, "Bruno", anonymous[0].CustomerName)
}

func TestOrderServiceUpdateNotFoundDoesNotPublish(t *testing.T) {
	env := newTestEnv(t)
	note := "x"
	_, err := env.orders.Update(env.ctx(), "nope", models.OrderPatch{Note: &note})
	require.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Empty(t, env.events.Events())
}

func TestOrderServiceGroupsAndClear(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"bruno", "Ana", "Bruno"} {
		_, err := env.orders.Create(env.ctx(), draft(name), nil)
		require.NoError(t, err)
	}

	groups, err := env.orders.ByCustomer(env.ctx(), nil)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "Ana", groups[0].Key)

	byDate, err := env.orders.ByDate(env.ctx(), nil)
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.NotEqual(t, filter.NoDate, byDate[0].Key)
	assert.Len(t, byDate[0].Orders, 3)

	require.NoError(t, env.orders.Clear(env.ctx()))
	all, err := env.orders.List(env.ctx(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
	events := env.events.Events()
	assert.Equal(t, messaging.EventOrdersCleared, events[len(events)-1].Type)
}

// failingPublisher rejects every event
type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, messaging.Event) error {
	return errors.New("broker unavailable")
}

func (failingPublisher) Close() error { return nil }

func TestOrderServicePublishFailureKeepsWrite(t *testing.T) {
	env := newTestEnv(t)
	svc := NewOrderService(env.repos.Orders, failingPublisher{}, tracing.Disabled(), env.metrics)

	order, err := svc.Create(env.ctx(), draft("Ana"), nil)
	require.NoError(t, err)

	stored, err := svc.Get(env.ctx(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.CustomerName)
	assert.Equal(t, int64(1), env.metrics.GetCounters()[metrics.EventsFailed])
}
