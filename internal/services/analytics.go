package services

import (
	"context"
	"io"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/production"
)

// RangeSummary is the production summary of a date range
type RangeSummary struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
	production.Summary
}

// AnalyticsService computes cost and revenue indicators over resolved plans
type AnalyticsService struct {
	planning *PlanningService
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(planning *PlanningService) *AnalyticsService {
	return &AnalyticsService{planning: planning}
}

// Summary aggregates every item planned between start and end
func (s *AnalyticsService) Summary(ctx context.Context, start, end string) (*RangeSummary, error) {
	days, err := s.planning.ResolveRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &RangeSummary{
		Start:   days[0].DateKey,
		End:     days[len(days)-1].DateKey,
		Days:    len(days),
		Summary: production.Summarize(production.Flatten(days)),
	}, nil
}

// Timeline buckets cost, revenue and profit by period
func (s *AnalyticsService) Timeline(ctx context.Context, start, end string, period production.Period) ([]production.TimelinePoint, error) {
	days, err := s.planning.ResolveRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return production.Timeline(days, period), nil
}

// TopItems ranks the items planned between start and end by revenue
func (s *AnalyticsService) TopItems(ctx context.Context, start, end string, n int) ([]production.ItemTotals, error) {
	days, err := s.planning.ResolveRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return production.TopItems(production.Flatten(days), n), nil
}

// ExportCSV writes the per-item totals between start and end as CSV
func (s *AnalyticsService) ExportCSV(ctx context.Context, w io.Writer, start, end string) error {
	days, err := s.planning.ResolveRange(ctx, start, end)
	if err != nil {
		return err
	}
	return production.WriteCSV(w, production.Flatten(days))
}

// Days resolves the range for callers that render it themselves
func (s *AnalyticsService) Days(ctx context.Context, start, end string) ([]models.DayPlan, error) {
	return s.planning.ResolveRange(ctx, start, end)
}
