package model

// DiscountType selects how the project-level discount/surcharge is applied
type DiscountType string

const (
	DiscountNone     DiscountType = "none"
	DiscountPercent  DiscountType = "percent"
	DiscountAbsolute DiscountType = "absolute"
)

// Discount is a project-level discount or surcharge. Values are signed:
// negative for a discount, positive for a surcharge.
type Discount struct {
	Type          DiscountType `yaml:"type"`
	PercentValue  float64      `yaml:"percentValue"`
	AbsoluteValue float64      `yaml:"absoluteValue"`
	Comment       string       `yaml:"comment,omitempty"`
}

// Tax is the tax applied after all discounts and adjustments. ShowSeparately
// only affects presentation, never the math.
type Tax struct {
	Rate           float64 `yaml:"rate"`
	ShowSeparately bool    `yaml:"showSeparately"`
}

// VolumeDiscountTier maps a cumulative quantity threshold to a discount percent
type VolumeDiscountTier struct {
	MinQty          int     `yaml:"minQty"`
	DiscountPercent float64 `yaml:"discountPercent"`
}

// VolumeGroupingMode selects the grouping key for volume discounts
type VolumeGroupingMode string

const (
	VolumeByElement  VolumeGroupingMode = "by_element"
	VolumeByCategory VolumeGroupingMode = "by_category"
)

// VolumeDiscounts configures tiered discounts by cumulative quantity
type VolumeDiscounts struct {
	Enabled bool                 `yaml:"enabled"`
	Mode    VolumeGroupingMode   `yaml:"mode"`
	Tiers   []VolumeDiscountTier `yaml:"tiers"`
}

// AdditionalAdjustment is a free-form signed monetary line applied after
// the discount stage
type AdditionalAdjustment struct {
	ID     string  `yaml:"id"`
	Label  string  `yaml:"label"`
	Amount float64 `yaml:"amount"`
}

// NewAdjustment creates an adjustment with a fresh id
func NewAdjustment(label string, amount float64) AdditionalAdjustment {
	return AdditionalAdjustment{ID: generateID(), Label: label, Amount: amount}
}

// TargetPrice configures the target-price comparison diagnostic
type TargetPrice struct {
	Enabled     bool    `yaml:"enabled"`
	Value       float64 `yaml:"value"`
	IncludesTax bool    `yaml:"includesTax"`
}

// ResourceBudget configures the time-budget fit diagnostic
type ResourceBudget struct {
	Enabled         bool    `yaml:"enabled"`
	PeriodMonthsMin float64 `yaml:"periodMonthsMin"`
	PeriodMonthsMax float64 `yaml:"periodMonthsMax"`
	HoursPerWeekMin float64 `yaml:"hoursPerWeekMin"`
	HoursPerWeekMax float64 `yaml:"hoursPerWeekMax"`
}

// RateHelper derives a suggested hourly rate from a salary
type RateHelper struct {
	Salary        *float64 `yaml:"salary,omitempty"`
	HoursPerMonth float64  `yaml:"hoursPerMonth"`
	ProjectType   string   `yaml:"projectType"`
	Multiplier    float64  `yaml:"multiplier"`
}

// SuggestedRate returns salary / hoursPerMonth * multiplier, or 0 when
// no salary is set
func (h RateHelper) SuggestedRate() float64 {
	if h.Salary == nil || h.HoursPerMonth <= 0 {
		return 0
	}
	return *h.Salary / h.HoursPerMonth * h.Multiplier
}

// Pricing bundles every financial policy of a project
type Pricing struct {
	HourlyRate              float64                `yaml:"hourlyRate"`
	RateHelper              RateHelper             `yaml:"rateHelper"`
	ResourceBudget          ResourceBudget         `yaml:"resourceBudget"`
	RevisionPercent         float64                `yaml:"revisionPercent"`
	RevisionPercentIsManual bool                   `yaml:"revisionPercentIsManual"`
	Discount                Discount               `yaml:"discount"`
	Tax                     Tax                    `yaml:"tax"`
	VolumeDiscounts         VolumeDiscounts        `yaml:"volumeDiscounts"`
	AdditionalAdjustments   []AdditionalAdjustment `yaml:"additionalAdjustments,omitempty"`
	TargetPrice             TargetPrice            `yaml:"targetPrice"`
}

// DefaultVolumeTiers is the built-in tier ladder
var DefaultVolumeTiers = []VolumeDiscountTier{
	{MinQty: 1, DiscountPercent: 0},
	{MinQty: 6, DiscountPercent: 10},
	{MinQty: 16, DiscountPercent: 20},
	{MinQty: 31, DiscountPercent: 30},
}

// RevisionPresets are the suggested revision percent values
var RevisionPresets = []struct {
	Value float64
	Label string
}{
	{0, "No revisions"},
	{0.1, "Minimal (10%)"},
	{0.2, "Standard (20%)"},
	{0.25, "Elevated (25%)"},
	{0.3, "Elevated (30%)"},
}

// TaxPresets are the suggested tax rates
var TaxPresets = []struct {
	Value float64
	Label string
}{
	{0, "No tax"},
	{4, "Self-employed (4%)"},
	{6, "Sole proprietor (6%)"},
	{13, "Income tax (13%)"},
	{15, "Simplified (15%)"},
	{20, "VAT (20%)"},
}

// DefaultPricing returns the starting pricing configuration
func DefaultPricing() Pricing {
	tiers := make([]VolumeDiscountTier, len(DefaultVolumeTiers))
	copy(tiers, DefaultVolumeTiers)
	return Pricing{
		HourlyRate: 0,
		RateHelper: RateHelper{
			HoursPerMonth: 160,
			ProjectType:   "freelance",
			Multiplier:    1.5,
		},
		ResourceBudget: ResourceBudget{
			PeriodMonthsMin: 1,
			PeriodMonthsMax: 2,
			HoursPerWeekMin: 10,
			HoursPerWeekMax: 20,
		},
		RevisionPercent: 0.1,
		Discount:        Discount{Type: DiscountNone},
		VolumeDiscounts: VolumeDiscounts{
			Mode:  VolumeByElement,
			Tiers: tiers,
		},
		TargetPrice: TargetPrice{IncludesTax: true},
	}
}

// CostOverrides maps item ids to manually pinned monetary costs. It is
// consulted only for items whose Overrides.Cost flag is set.
type CostOverrides map[ItemID]float64
