package production

import (
	"strconv"
	"strings"

	"github.com/elpiaio/elpiaio-ERP-prototype/internal/models"
)

// ComputeTotalUnits converts an item's declared quantity to base units.
// Without a breakdown the quantity is already in base units. Missing counts in a
// breakdown default to 1, and a missing level-1 count falls back to the quantity.
func ComputeTotalUnits(item models.ProductionItem) float64 {
	b := item.Breakdown
	if b == nil {
		return item.Quantity
	}
	return level1Count(item) * valueOr(b.Level2PerLevel1, 1) * valueOr(b.UnitsPerLevel2, 1)
}

// BreakdownLabel describes the packaging hierarchy of an item, e.g.
// "3 cabinets → 4 trays per cabinet → 12 units per tray". It returns false when the
// item has no breakdown.
func BreakdownLabel(item models.ProductionItem) (string, bool) {
	b := item.Breakdown
	if b == nil {
		return "", false
	}

	n := level1Count(item)
	var sb strings.Builder
	sb.WriteString(formatCount(n))
	sb.WriteByte(' ')
	sb.WriteString(plural(b.Level1Name, n))

	if b.Complete() {
		perL1 := *b.Level2PerLevel1
		sb.WriteString(" → ")
		sb.WriteString(formatCount(perL1))
		sb.WriteByte(' ')
		sb.WriteString(plural(b.Level2Name, perL1))
		sb.WriteString(" per ")
		sb.WriteString(b.Level1Name)
		sb.WriteString(" → ")
		sb.WriteString(formatCount(*b.UnitsPerLevel2))
		sb.WriteString(" units per ")
		sb.WriteString(b.Level2Name)
	}
	return sb.String(), true
}

func level1Count(item models.ProductionItem) float64 {
	return valueOr(item.Breakdown.Level1Count, item.Quantity)
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func plural(name string, n float64) string {
	if n > 1 {
		return name + "s"
	}
	return name
}

func formatCount(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
