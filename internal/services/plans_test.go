package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/messaging"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
)

func TestPlanServiceSaveAndDelete(t *testing.T) {
	env := newTestEnv(t)

	saved, err := env.plans.Save(env.ctx(), models.ProductionPlan{
		Date:  "2025-01-27T08:00:00.000Z",
		Items: []models.ProductionItem{{ID: "bread", Name: "Bread", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-01-27", saved.Date)

	resolved, err := env.planning.Resolve(env.ctx(), "2025-01-27")
	require.NoError(t, err)
	assert.Equal(t, models.PlanSourceSaved, resolved.Source)

	require.NoError(t, env.plans.Delete(env.ctx(), "2025-01-27"))
	resolved, err = env.planning.Resolve(env.ctx(), "2025-01-27")
	require.NoError(t, err)
	assert.Equal(t, models.PlanSourceDefault, resolved.Source)

	events := env.events.Events()
	require.Len(t, events, 2)
	assert.Equal(t, messaging.EventPlanSaved, events[0].Type)
	assert.Equal(t, messaging.EventPlanDeleted, events[1].Type)
	assert.Equal(t, map[string]string{"date": "2025-01-27"}, events[1].Payload)
}

func TestPlanServiceGetOrDefault(t *testing.T) {
	env := newTestEnv(t)

	none, err := env.plans.Get(env.ctx(), "2025-01-28")
	require.NoError(t, err)
	assert.Nil(t, none)

	plan, err := env.plans.GetOrDefault(env.ctx(), "2025-01-28")
	require.NoError(t, err)
	require.Len(t, plan.Items, 1)
	assert.Equal(t, "bread", plan.Items[0].ID)

	plans, err := env.plans.List(env.ctx())
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestPlanServiceDeleteInvalidDate(t *testing.T) {
	env := newTestEnv(t)
	err := env.plans.Delete(env.ctx(), "tomorrow")
	require.ErrorIs(t, err, dates.ErrInvalidDate)
	assert.Empty(t, env.events.Events())
}
