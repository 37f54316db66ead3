package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ItemID is a unique identifier for an estimate item
type ItemID string

// Category is one of the fixed work categories; anything else folds into CategoryOther
type Category string

const (
	CategoryContent    Category = "content"
	CategoryAssessment Category = "assessment"
	CategoryService    Category = "service"
	CategoryOther      Category = "other"
)

// Categories is the canonical ordering of the fixed categories
var Categories = []Category{CategoryContent, CategoryAssessment, CategoryService, CategoryOther}

// CategoryLabels maps categories to display labels
var CategoryLabels = map[Category]string{
	CategoryContent:    "Content",
	CategoryAssessment: "Assessment",
	CategoryService:    "Support services",
	CategoryOther:      "Other",
}

// RoleType identifies who performs the work on an item
type RoleType string

const (
	RoleAuthor   RoleType = "author"
	RoleEditor   RoleType = "editor"
	RoleReviewer RoleType = "reviewer"
	RoleCustom   RoleType = "custom"
)

// DefaultRoleMultipliers are the suggested hour multipliers per role
var DefaultRoleMultipliers = map[RoleType]float64{
	RoleAuthor:   1.0,
	RoleEditor:   0.5,
	RoleReviewer: 0.3,
}

// PricingModel selects how a non-container item is priced
type PricingModel string

const (
	PricingTimeBased  PricingModel = "time_based"
	PricingFixedPrice PricingModel = "fixed_price"
)

// ContainerMode selects how a container derives its cost
type ContainerMode string

const (
	// ContainerSumChildren is a purely visual grouping; cost is the sum of its children
	ContainerSumChildren ContainerMode = "sum_children"
	// ContainerFixedTotal is a billing boundary; cost is fixed and descendants
	// are excluded from all billing computations
	ContainerFixedTotal ContainerMode = "fixed_total"
)

// ItemSource records how an item entered the estimate
type ItemSource string

const (
	SourceManual         ItemSource = "manual"
	SourceLibraryElement ItemSource = "library_element"
	SourceLibrarySet     ItemSource = "library_set"
)

// QualityLevel presets offered by the UI layer
var QualityLevels = []struct {
	Value float64
	Label string
}{
	{0.7, "Basic"},
	{1.0, "Standard"},
	{1.5, "Premium"},
}

// EffortRange is an optional three-point (PERT) range of hours per unit.
// A range only yields an estimate when both Min and Max are present;
// Expected falls back to the item's raw HoursPerUnit.
type EffortRange struct {
	Min      *float64 `yaml:"min" json:"min"`
	Expected *float64 `yaml:"expected" json:"expected"`
	Max      *float64 `yaml:"max" json:"max"`
}

// Complete reports whether the range carries both bounds
func (r *EffortRange) Complete() bool {
	return r != nil && r.Min != nil && r.Max != nil
}

// ItemOverrides marks fields whose derived value has been manually pinned
// and must not be recomputed. Cost is special: when set, the item's billed
// cost comes from the project's cost-override map, not from any formula.
type ItemOverrides struct {
	HoursPerUnit   bool `yaml:"hoursPerUnit,omitempty" json:"hoursPerUnit,omitempty"`
	QualityLevel   bool `yaml:"qualityLevel,omitempty" json:"qualityLevel,omitempty"`
	RoleMultiplier bool `yaml:"roleMultiplier,omitempty" json:"roleMultiplier,omitempty"`
	FixedPrice     bool `yaml:"fixedPrice,omitempty" json:"fixedPrice,omitempty"`
	Cost           bool `yaml:"cost,omitempty" json:"cost,omitempty"`
}

// EstimateItem is a node in the work-breakdown tree. The tree is modelled as
// a flat list with parent references; sibling order is defined by SortOrder.
type EstimateItem struct {
	ID        ItemID  `yaml:"id"`
	ParentID  *ItemID `yaml:"parentId,omitempty"`
	SortOrder int     `yaml:"sortOrder"`

	Name     string   `yaml:"name"`
	Quantity int      `yaml:"quantity"`
	Unit     string   `yaml:"unit,omitempty"`
	Category Category `yaml:"category"`

	HoursPerUnit   float64  `yaml:"hoursPerUnit"`
	Role           RoleType `yaml:"role"`
	RoleMultiplier float64  `yaml:"roleMultiplier"`
	QualityLevel   float64  `yaml:"qualityLevel"`
	Revisionable   bool     `yaml:"revisionable"`

	PricingModel PricingModel `yaml:"pricingModel"`
	FixedPrice   *float64     `yaml:"fixedPrice,omitempty"`

	IsContainer         bool          `yaml:"isContainer,omitempty"`
	ContainerMode       ContainerMode `yaml:"containerMode,omitempty"`
	ContainerFixedTotal *float64      `yaml:"containerFixedTotal,omitempty"`

	Source           ItemSource `yaml:"source,omitempty"`
	LibraryElementID string     `yaml:"libraryElementId,omitempty"`
	Notes            string     `yaml:"notes,omitempty"`
	ClientName       string     `yaml:"clientName,omitempty"`

	EffortRange *EffortRange `yaml:"effortRange,omitempty"`
	Confidence  *int         `yaml:"confidence,omitempty"` // 1-5 scale; nil = not rated

	Overrides ItemOverrides `yaml:"overrides,omitempty"`
}

// NewItem creates a new atomic item with the given name and category
func NewItem(name string, category Category) *EstimateItem {
	return &EstimateItem{
		ID:             ItemID(generateID()),
		Name:           name,
		Quantity:       1,
		Category:       category,
		Role:           RoleAuthor,
		RoleMultiplier: 1.0,
		QualityLevel:   1.0,
		Revisionable:   true,
		PricingModel:   PricingTimeBased,
		ContainerMode:  ContainerSumChildren,
		Source:         SourceManual,
	}
}

// NewContainer creates a new grouping container with the given name and mode
func NewContainer(name string, mode ContainerMode) *EstimateItem {
	item := NewItem(name, CategoryOther)
	item.IsContainer = true
	item.ContainerMode = mode
	return item
}

// Validate checks the item fields for internal consistency
func (i *EstimateItem) Validate() []string {
	var errors []string

	if i.Quantity < 1 {
		errors = append(errors, "quantity must be >= 1")
	}
	if i.HoursPerUnit < 0 {
		errors = append(errors, "hours per unit must be >= 0")
	}
	if i.RoleMultiplier < 0 {
		errors = append(errors, "role multiplier must be >= 0")
	}
	if i.QualityLevel < 0 {
		errors = append(errors, "quality level must be >= 0")
	}
	if i.PricingModel == PricingFixedPrice && !i.IsContainer && i.FixedPrice == nil {
		errors = append(errors, "fixed-price items need a fixed price")
	}
	if i.IsContainer && i.ContainerMode != ContainerSumChildren && i.ContainerMode != ContainerFixedTotal {
		errors = append(errors, fmt.Sprintf("unknown container mode %q", i.ContainerMode))
	}
	if i.Confidence != nil && (*i.Confidence < 1 || *i.Confidence > 5) {
		errors = append(errors, "confidence must be between 1 and 5")
	}
	if r := i.EffortRange; r.Complete() && *r.Min > *r.Max {
		errors = append(errors, "effort range min must be <= max")
	}

	return errors
}

func generateID() string {
	return uuid.New().String()[:8]
}
