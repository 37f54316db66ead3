package calc

import "github.com/mkuznecov/estima/internal/model"

// PertHours returns the three-point weighted estimate (min + 4*expected + max) / 6
// for the item's effort range, or nil when the range is absent or incomplete.
// A missing expected value falls back to the item's raw hours per unit.
func PertHours(item *model.EstimateItem) *float64 {
	r := item.EffortRange
	if !r.Complete() {
		return nil
	}
	expected := item.HoursPerUnit
	if r.Expected != nil {
		expected = *r.Expected
	}
	h := (*r.Min + 4*expected + *r.Max) / 6
	return &h
}

// EffectiveHours returns the item's hours per unit after the PERT estimate,
// role multiplier and quality level are applied. A manual hours override
// suppresses the PERT estimate.
func EffectiveHours(item *model.EstimateItem) float64 {
	baseHours := item.HoursPerUnit
	if !item.Overrides.HoursPerUnit {
		if pert := PertHours(item); pert != nil {
			baseHours = *pert
		}
	}
	return baseHours * item.RoleMultiplier * item.QualityLevel
}
