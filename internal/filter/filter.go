// Package filter selects and groups orders for the order listing views.
package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/dates"
	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
)

const (
	// NoCustomer groups orders without a customer name
	NoCustomer = "no customer"
	// NoDate groups orders whose creation timestamp cannot be parsed
	NoDate = "no date"
)

// Matches reports whether order satisfies every configured dimension of f. Range
// bounds are interpreted in local time.
func Matches(order models.Order, f *models.OrderFilter) bool {
	return MatchesIn(order, f, time.Local)
}

// MatchesIn is Matches with date-only bounds resolved in loc
func MatchesIn(order models.Order, f *models.OrderFilter, loc *time.Location) bool {
	if f == nil {
		return true
	}

	// any non-empty needle, even blank, excludes orders without a customer name
	if f.CustomerName != "" {
		if order.CustomerName == "" {
			return false
		}
		name := strings.ToLower(strings.TrimSpace(f.CustomerName))
		if name != "" && !strings.Contains(strings.ToLower(order.CustomerName), name) {
			return false
		}
	}

	if f.PickupFrom != "" || f.PickupTo != "" {
		pickup := ""
		if order.PickupAt != nil {
			pickup = *order.PickupAt
		}
		if !inRange(pickup, f.PickupFrom, f.PickupTo, loc) {
			return false
		}
	}

	if f.CreatedFrom != "" || f.CreatedTo != "" {
		if !inRange(order.CreatedAt, f.CreatedFrom, f.CreatedTo, loc) {
			return false
		}
	}

	if f.CreatedBy != "" {
		creator := order.Creator()
		if creator == "" {
			creator = models.NoCreator
		}
		if creator != f.CreatedBy {
			return false
		}
	}
	return true
}

// Apply returns the orders matching f, preserving order
func Apply(orders []models.Order, f *models.OrderFilter) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if Matches(o, f) {
			out = append(out, o)
		}
	}
	return out
}

func inRange(value, from, to string, loc *time.Location) bool {
	t, ok := dates.ParseTimestamp(value)
	if !ok {
		return false
	}
	if from != "" {
		if lo, ok := lowerBound(from, loc); ok && t.Before(lo) {
			return false
		}
	}
	if to != "" {
		if hi, ok := upperBound(to, loc); ok && t.After(hi) {
			return false
		}
	}
	return true
}

func lowerBound(s string, loc *time.Location) (time.Time, bool) {
	if day, ok := dateOnly(s, loc); ok {
		return day, true
	}
	return dates.ParseTimestamp(s)
}

func upperBound(s string, loc *time.Location) (time.Time, bool) {
	if day, ok := dateOnly(s, loc); ok {
		return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), loc), true
	}
	return dates.ParseTimestamp(s)
}

func dateOnly(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len(dates.KeyLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(dates.KeyLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// GroupByCustomer buckets orders by customer name, groups sorted by name
func GroupByCustomer(orders []models.Order) []models.OrderGroup {
	return group(orders, func(o models.Order) string {
		if name := strings.TrimSpace(o.CustomerName); name != "" {
			return name
		}
		return NoCustomer
	}, func(a, b string) bool {
		return strings.ToLower(a) < strings.ToLower(b)
	})
}

// GroupByDate buckets orders by the calendar day of their creation in loc,
// newest day first. Unparseable timestamps land in the last group.
func GroupByDate(orders []models.Order, loc *time.Location) []models.OrderGroup {
	if loc == nil {
		loc = time.Local
	}
	return group(orders, func(o models.Order) string {
		t, ok := dates.ParseTimestamp(o.CreatedAt)
		if !ok {
			return NoDate
		}
		return t.In(loc).Format(dates.KeyLayout)
	}, func(a, b string) bool {
		if a == NoDate || b == NoDate {
			return b == NoDate && a != NoDate
		}
		return a > b
	})
}

func group(orders []models.Order, key func(models.Order) string, less func(a, b string) bool) []models.OrderGroup {
	index := map[string]int{}
	var groups []models.OrderGroup
	for _, o := range orders {
		k := key(o)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, models.OrderGroup{Key: k})
		}
		groups[i].Orders = append(groups[i].Orders, o)
	}
	sort.SliceStable(groups, func(i, j int) bool { return less(groups[i].Key, groups[j].Key) })
	return groups
}
