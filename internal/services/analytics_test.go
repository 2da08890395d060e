package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/production"
)

// monday uses the weekday default, tuesday and wednesday fall back to the catalog
const (
	rangeStart = "2025-01-27"
	rangeEnd   = "2025-01-29"
)

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t)

	summary, err := env.analytics.Summary(env.ctx(), rangeStart, rangeEnd)
	require.NoError(t, err)

	assert.Equal(t, rangeStart, summary.Start)
	assert.Equal(t, rangeEnd, summary.End)
	assert.Equal(t, 3, summary.Days)
	assert.Equal(t, 2, summary.DistinctItems)
	assert.InDelta(t, 250, summary.TotalUnits, 0.001)
	assert.InDelta(t, 250, summary.TotalRevenue, 0.001)
	assert.InDelta(t, 90, summary.TotalCost, 0.001)
	assert.InDelta(t, 160, summary.Profit, 0.001)
	assert.InDelta(t, 20, summary.FryingShare, 0.001)
	require.NotNil(t, summary.TopCategory)
	assert.Equal(t, "sweets", summary.TopCategory.Name)
}

func TestAnalyticsTimelineAndTopItems(t *testing.T) {
	env := newTestEnv(t)

	points, err := env.analytics.Timeline(env.ctx(), rangeStart, rangeEnd, production.PeriodDay)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 150, points[0].Revenue, 0.001)
	assert.InDelta(t, 50, points[1].Revenue, 0.001)

	top, err := env.analytics.TopItems(env.ctx(), rangeStart, rangeEnd, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "donut", top[0].ID)
}

func TestAnalyticsExportCSV(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	require.NoError(t, env.analytics.ExportCSV(env.ctx(), &buf, rangeStart, rangeEnd))
	assert.Equal(t,
		"Item,Units,Revenue,Cost,Profit\n"+
			"Donut,50,150.00,50.00,100.00\n"+
			"Bread,200,100.00,40.00,60.00\n",
		buf.String())
}

func TestAnalyticsRejectsInvertedRange(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.analytics.Summary(env.ctx(), rangeEnd, rangeStart)
	require.ErrorIs(t, err, ErrInvalidRange)
}
