package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/search"
)

func TestWritePlanTable(t *testing.T) {
	days := []models.DayPlan{
		{
			DateKey:     "2025-01-27",
			DisplayDate: "27/01/2025",
			Source:      models.PlanSourceDefault,
			Items:       []models.ProductionItem{{ID: "a", Name: "A", Quantity: 10, Price: 2, Cost: 1}},
		},
		{
			DateKey:     "2025-01-28",
			DisplayDate: "28/01/2025",
			Source:      models.PlanSourceFallback,
			Items:       []models.ProductionItem{{ID: "a", Name: "A", Quantity: 5, Price: 2, Cost: 1}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, writePlanTable(&buf, days))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "WEEKDAY")
	assert.Contains(t, lines[1], "27/01/2025")
	assert.Contains(t, lines[1], "monday")
	assert.Contains(t, lines[1], "default")
	assert.Contains(t, lines[2], "fallback")
	assert.Contains(t, lines[3], "TOTAL")
	assert.Contains(t, lines[3], "30.00")
}

func TestWriteIndexTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeIndexTable(&buf, []search.DayDocument{
		{DateKey: "2025-12-24", DisplayDate: "24/12/2025", Weekday: "wednesday", Source: "personalized", Items: 3, IndexedAt: "2025-12-20T10:00:00.000Z"},
	}))
	assert.Contains(t, buf.String(), "personalized")
	assert.Contains(t, buf.String(), "2025-12-20T10:00:00.000Z")
}

func TestSetupLogging(t *testing.T) {
	require.NoError(t, setupLogging(cfg.Logging, "debug"))
	require.Error(t, setupLogging(cfg.Logging, "loud"))
}

func TestPlanRejectsUnknownFormat(t *testing.T) {
	planFormat = "xml"
	defer func() { planFormat = FormatTable }()
	require.Error(t, runPlan(planCmd, nil))
}
