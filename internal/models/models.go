package models

// Product represents a sellable product from the reference catalog
type Product struct {
	ID       string  `json:"id"`
	SKU      string  `json:"sku,omitempty"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Unit     string  `json:"unit,omitempty"`
	Category string  `json:"category,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

// Employee represents a staff member that can create orders
type Employee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Production methods used by the reference data
const (
	MethodOven   = "forno"
	MethodFrying = "fritura"
)

// Breakdown describes a three-level packaging hierarchy, e.g. cabinets -> trays -> units.
// Optional counts are pointers so an absent count differs from zero.
type Breakdown struct {
	Level1Name      string   `json:"level1Name"`
	Level1Count     *float64 `json:"level1Count,omitempty"`
	Level2Name      string   `json:"level2Name,omitempty"`
	Level2PerLevel1 *float64 `json:"level2PerLevel1,omitempty"`
	UnitsPerLevel2  *float64 `json:"unitsPerLevel2,omitempty"`
}

// Complete reports whether all three levels are declared
func (b *Breakdown) Complete() bool {
	if b == nil {
		return false
	}
	return b.Level2Name != "" &&
		b.Level2PerLevel1 != nil && *b.Level2PerLevel1 != 0 &&
		b.UnitsPerLevel2 != nil && *b.UnitsPerLevel2 != 0
}

// Clone returns a deep copy of the breakdown
func (b *Breakdown) Clone() *Breakdown {
	if b == nil {
		return nil
	}
	out := *b
	out.Level1Count = cloneFloat(b.Level1Count)
	out.Level2PerLevel1 = cloneFloat(b.Level2PerLevel1)
	out.UnitsPerLevel2 = cloneFloat(b.UnitsPerLevel2)
	return &out
}

// ProductionItem is a producible item. Quantity is expressed in Unit, which may be a
// packaging level (e.g. cabinets) rather than base units.
type ProductionItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Method      string     `json:"method,omitempty"`
	Unit        string     `json:"unit"`
	Quantity    float64    `json:"quantity"`
	Breakdown   *Breakdown `json:"breakdown,omitempty"`
	Cost        float64    `json:"cost,omitempty"`
	Price       float64    `json:"price,omitempty"`
}

// Clone returns a deep copy of the item
func (i ProductionItem) Clone() ProductionItem {
	i.Breakdown = i.Breakdown.Clone()
	return i
}

// CloneItems deep-copies a list of production items
func CloneItems(items []ProductionItem) []ProductionItem {
	if items == nil {
		return nil
	}
	out := make([]ProductionItem, len(items))
	for idx, it := range items {
		out[idx] = it.Clone()
	}
	return out
}

// ProductionCatalog is the shape of the production item reference resource
type ProductionCatalog struct {
	Items []ProductionItem `json:"items"`
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
