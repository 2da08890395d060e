package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/metrics"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/production"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/search"
)

// Indexer pushes the summary of upcoming production days to the search index
type Indexer struct {
	planning *PlanningService
	index    search.DayIndex
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewIndexer creates a new indexer
func NewIndexer(planning *PlanningService, index search.DayIndex, m *metrics.Metrics) *Indexer {
	return &Indexer{planning: planning, index: index, metrics: m, now: time.Now}
}

// IndexUpcoming indexes today and the following days. It returns the number
// of days indexed.
func (i *Indexer) IndexUpcoming(ctx context.Context, days int) (int, error) {
	if days < 1 {
		days = 1
	}
	start := time.Now()

	today, err := dates.ParseDay(i.now().Format(dates.KeyLayout))
	if err != nil {
		return 0, err
	}
	plans, err := i.planning.ResolveDays(ctx, today, today.AddDate(0, 0, days-1))
	if err != nil {
		i.metrics.Observe("index_upcoming", start, err)
		return 0, err
	}

	indexedAt := dates.Canonical(i.now())
	indexed := 0
	for _, day := range plans {
		summary := production.Summarize(day.Items)
		doc := search.DayDocument{
			DateKey:      day.DateKey,
			DisplayDate:  day.DisplayDate,
			Weekday:      dates.WeekdayKey(mustDay(day.DateKey)),
			Source:       string(day.Source),
			Items:        summary.DistinctItems,
			TotalUnits:   summary.TotalUnits,
			TotalRevenue: summary.TotalRevenue,
			TotalCost:    summary.TotalCost,
			Profit:       summary.Profit,
			FryingShare:  summary.FryingShare,
			IndexedAt:    indexedAt,
		}
		if summary.TopCategory != nil {
			doc.TopCategory = summary.TopCategory.Name
		}
		if err := i.index.IndexDay(ctx, doc); err != nil {
			i.metrics.Observe("index_upcoming", start, err)
			return indexed, errors.Wrapf(err, "failed to index %s", day.DateKey)
		}
		indexed++
	}

	i.metrics.IncrementCounterBy(metrics.DaysIndexed, int64(indexed))
	i.metrics.Observe("index_upcoming", start, nil)
	log.Info().Int("days", indexed).Str("from", dates.Key(today)).Msg("Indexed upcoming production days")
	return indexed, nil
}

func mustDay(key string) time.Time {
	t, _ := time.Parse(dates.KeyLayout, key)
	return t
}
