package calc

import "github.com/mkuznecov/estima/internal/model"

// CostRange is the optimistic-to-pessimistic spread of the estimate
type CostRange struct {
	MinCost  float64
	MaxCost  float64
	MinHours float64
	MaxHours float64
}

// ComputeCostRange walks the billable lines and spreads time-based lines
// with a complete effort range between their min and max hours. Pinned
// costs, fixed totals and fixed prices contribute the same amount to both
// ends. Returns nil when no line carries an active range.
func ComputeCostRange(
	items []*model.EstimateItem,
	hourlyRate float64,
	contextMultiplier float64,
	overrides model.CostOverrides,
) *CostRange {
	hasActiveRange := false
	var r CostRange

	for _, item := range Leaves(items) {
		if item.Overrides.Cost {
			if c, ok := overrides[item.ID]; ok {
				r.MinCost += c
				r.MaxCost += c
				continue
			}
		}
		if item.IsContainer && item.ContainerMode == model.ContainerFixedTotal && item.ContainerFixedTotal != nil {
			r.MinCost += *item.ContainerFixedTotal
			r.MaxCost += *item.ContainerFixedTotal
			continue
		}
		if item.PricingModel == model.PricingFixedPrice && item.FixedPrice != nil {
			c := *item.FixedPrice * float64(item.Quantity)
			r.MinCost += c
			r.MaxCost += c
			continue
		}

		if !item.Overrides.HoursPerUnit && item.EffortRange.Complete() {
			hasActiveRange = true
			minH := *item.EffortRange.Min * item.RoleMultiplier * item.QualityLevel * float64(item.Quantity)
			maxH := *item.EffortRange.Max * item.RoleMultiplier * item.QualityLevel * float64(item.Quantity)
			r.MinHours += minH
			r.MaxHours += maxH
			r.MinCost += minH * hourlyRate * contextMultiplier
			r.MaxCost += maxH * hourlyRate * contextMultiplier
		} else {
			c := ItemCost(item, hourlyRate, contextMultiplier, overrides)
			h := EffectiveHours(item) * float64(item.Quantity)
			r.MinCost += c
			r.MaxCost += c
			r.MinHours += h
			r.MaxHours += h
		}
	}

	if !hasActiveRange {
		return nil
	}
	return &r
}
