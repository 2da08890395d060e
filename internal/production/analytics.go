package production

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
)

// Period is the bucket size of a cost timeline
type Period string

const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

const (
	uncategorized     = "uncategorized"
	maxNegativeMargin = 6
)

// ParsePeriod validates a timeline period, defaulting to day
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodYear:
		return PeriodYear, nil
	}
	return "", errors.Errorf("unknown period %q", s)
}

// Totals aggregates units and money for a group of items
type Totals struct {
	Units   float64 `json:"units"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
}

// Profit is revenue minus cost
func (t Totals) Profit() float64 {
	return t.Revenue - t.Cost
}

func (t *Totals) add(item models.ProductionItem) {
	units := ComputeTotalUnits(item)
	t.Units += units
	t.Revenue += item.Price * units
	t.Cost += item.Cost * units
}

// CategoryTotals is the aggregate of one category
type CategoryTotals struct {
	Name string `json:"name"`
	Totals
}

// MarginAlert flags an item whose average price is below its average cost
type MarginAlert struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	AvgPrice float64 `json:"avgPrice"`
	AvgCost  float64 `json:"avgCost"`
	Units    float64 `json:"units"`
}

// Summary holds the headline indicators of a set of production items
type Summary struct {
	DistinctItems  int             `json:"distinctItems"`
	TotalUnits     float64         `json:"totalUnits"`
	TotalRevenue   float64         `json:"totalRevenue"`
	TotalCost      float64         `json:"totalCost"`
	Profit         float64         `json:"profit"`
	AvgPrice       float64         `json:"avgPrice"`
	AvgCost        float64         `json:"avgCost"`
	TopCategory    *CategoryTotals `json:"topCategory"`
	NegativeMargin []MarginAlert   `json:"negativeMarginItems"`
	FryingShare    float64         `json:"fryingShare"`
}

// ItemTotals is the aggregate of one production item across a set
type ItemTotals struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Units   float64 `json:"units"`
	Revenue float64 `json:"revenue"`
	Cost    float64 `json:"cost"`
	Profit  float64 `json:"profit"`
	Share   float64 `json:"share"`
}

// TimelinePoint is one bucket of a cost timeline
type TimelinePoint struct {
	Key     string  `json:"x"`
	Cost    float64 `json:"cost"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// Flatten concatenates the items of several day plans
func Flatten(days []models.DayPlan) []models.ProductionItem {
	var out []models.ProductionItem
	for _, d := range days {
		out = append(out, d.Items...)
	}
	return out
}

// Summarize computes the headline indicators of items
func Summarize(items []models.ProductionItem) Summary {
	var (
		total       Totals
		fryingUnits float64
		categories  = map[string]*Totals{}
	)
	for _, it := range items {
		total.add(it)
		if strings.EqualFold(it.Method, models.MethodFrying) {
			fryingUnits += ComputeTotalUnits(it)
		}
		cat := it.Category
		if cat == "" {
			cat = uncategorized
		}
		if categories[cat] == nil {
			categories[cat] = &Totals{}
		}
		categories[cat].add(it)
	}

	perItem := aggregateItems(items)
	s := Summary{
		DistinctItems: len(perItem),
		TotalUnits:    total.Units,
		TotalRevenue:  total.Revenue,
		TotalCost:     total.Cost,
		Profit:        total.Profit(),
	}
	if total.Units > 0 {
		s.AvgPrice = total.Revenue / total.Units
		s.AvgCost = total.Cost / total.Units
		s.FryingShare = fryingUnits / total.Units * 100
	}

	for name, t := range categories {
		if s.TopCategory == nil ||
			t.Revenue > s.TopCategory.Revenue ||
			(t.Revenue == s.TopCategory.Revenue && name < s.TopCategory.Name) {
			s.TopCategory = &CategoryTotals{Name: name, Totals: *t}
		}
	}

	for _, it := range perItem {
		if it.Units <= 0 {
			continue
		}
		avgPrice := it.Revenue / it.Units
		avgCost := it.Cost / it.Units
		if avgPrice < avgCost {
			s.NegativeMargin = append(s.NegativeMargin, MarginAlert{
				ID: it.ID, Name: it.Name, AvgPrice: avgPrice, AvgCost: avgCost, Units: it.Units,
			})
			if len(s.NegativeMargin) == maxNegativeMargin {
				break
			}
		}
	}
	return s
}

// TopItems ranks items by revenue. n <= 0 returns every item.
func TopItems(items []models.ProductionItem, n int) []ItemTotals {
	rows := aggregateItems(items)
	var totalRevenue float64
	for _, r := range rows {
		totalRevenue += r.Revenue
	}
	for i := range rows {
		if totalRevenue > 0 {
			rows[i].Share = rows[i].Revenue / totalRevenue * 100
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Revenue > rows[j].Revenue })
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Timeline buckets the cost and revenue of day plans by period, ascending
func Timeline(days []models.DayPlan, period Period) []TimelinePoint {
	buckets := map[string]*Totals{}
	for _, d := range days {
		key := bucketKey(d.DateKey, period)
		if buckets[key] == nil {
			buckets[key] = &Totals{}
		}
		for _, it := range d.Items {
			buckets[key].add(it)
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]TimelinePoint, 0, len(keys))
	for _, k := range keys {
		t := buckets[k]
		out = append(out, TimelinePoint{
			Key:     k,
			Cost:    round2(t.Cost),
			Revenue: round2(t.Revenue),
			Profit:  round2(t.Profit()),
		})
	}
	return out
}

// WriteCSV exports per-item units, revenue, cost and profit
func WriteCSV(w io.Writer, items []models.ProductionItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item", "Units", "Revenue", "Cost", "Profit"}); err != nil {
		return errors.Wrap(err, "failed to write csv header")
	}
	for _, r := range aggregateItems(items) {
		row := []string{
			r.Name,
			formatCount(r.Units),
			fmt.Sprintf("%.2f", r.Revenue),
			fmt.Sprintf("%.2f", r.Cost),
			fmt.Sprintf("%.2f", r.Profit),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "failed to write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "failed to flush csv")
}

// aggregateItems sums items by id, keeping first-seen order
func aggregateItems(items []models.ProductionItem) []ItemTotals {
	index := map[string]int{}
	var rows []ItemTotals
	for _, it := range items {
		var t Totals
		t.add(it)
		i, ok := index[it.ID]
		if !ok {
			index[it.ID] = len(rows)
			rows = append(rows, ItemTotals{ID: it.ID, Name: it.Name})
			i = len(rows) - 1
		}
		rows[i].Units += t.Units
		rows[i].Revenue += t.Revenue
		rows[i].Cost += t.Cost
		rows[i].Profit += t.Profit()
	}
	return rows
}

func bucketKey(dateKey string, period Period) string {
	switch period {
	case PeriodMonth:
		if len(dateKey) >= 7 {
			return dateKey[:7]
		}
	case PeriodYear:
		if len(dateKey) >= 4 {
			return dateKey[:4]
		}
	}
	return dateKey
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
