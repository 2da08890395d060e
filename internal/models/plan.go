package models

// ProductionPlan holds the production items assigned to one calendar day.
// Date is the YYYY-MM-DD key and is unique across stored plans.
type ProductionPlan struct {
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Items     []ProductionItem `json:"items" validate:"dive"`
	CreatedAt string           `json:"createdAt"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy of the plan
func (p ProductionPlan) Clone() ProductionPlan {
	p.Items = CloneItems(p.Items)
	return p
}

// PersonalizedPlanning is a one-off plan for a specific day of the reference file.
// Day uses the DD/MM/YYYY convention of that file.
type PersonalizedPlanning struct {
	Day   string           `json:"day"`
	Items []ProductionItem `json:"items"`
}

// PlanningReference is the production orders reference resource
type PlanningReference struct {
	DefaultPlanning      map[string][]ProductionItem `json:"defaultPlanning"`
	PersonalizedPlanning []PersonalizedPlanning      `json:"personalizedPlanning"`
}

// PlanSource names the step of the resolution cascade that supplied a plan
type PlanSource string

const (
	PlanSourceSaved        PlanSource = "saved"
	PlanSourcePersonalized PlanSource = "personalized"
	PlanSourceDefault      PlanSource = "default"
	PlanSourceFallback     PlanSource = "fallback"
)

// ResolvedPlan is the applicable plan for one date
type ResolvedPlan struct {
	DateKey string           `json:"dateKey"`
	Items   []ProductionItem `json:"items"`
	Source  PlanSource       `json:"source"`
}

// DayPlan is a resolved plan labelled for display in range views
type DayPlan struct {
	DateKey     string           `json:"dateKey"`
	DisplayDate string           `json:"displayDate"`
	Items       []ProductionItem `json:"items"`
	Source      PlanSource       `json:"source"`
}
