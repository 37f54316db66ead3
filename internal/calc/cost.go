package calc

import "github.com/mkuznecov/estima/internal/model"

// ItemCost returns the billed cost of a single item.
//
// A pinned cost wins over every formula and is read straight from the
// override map; an item flagged as overridden but missing from the map
// costs 0. Containers cost their fixed total in fixed_total mode and 0
// otherwise (sum_children groups are priced through ContainerCost).
// Fixed-price items cost price times quantity with no context multiplier.
// Everything else is time based: effective hours times quantity, rate and
// context multiplier.
func ItemCost(
	item *model.EstimateItem,
	hourlyRate float64,
	contextMultiplier float64,
	overrides model.CostOverrides,
) float64 {
	if item.Overrides.Cost {
		return overrides[item.ID]
	}

	if item.IsContainer {
		if item.ContainerMode == model.ContainerFixedTotal && item.ContainerFixedTotal != nil {
			return *item.ContainerFixedTotal
		}
		return 0
	}

	if item.PricingModel == model.PricingFixedPrice && item.FixedPrice != nil {
		return *item.FixedPrice * float64(item.Quantity)
	}

	return EffectiveHours(item) * float64(item.Quantity) * hourlyRate * contextMultiplier
}

// ContainerCost returns the displayed cost of a container: the fixed total
// in fixed_total mode, otherwise the recursive sum of its direct children.
func ContainerCost(
	container *model.EstimateItem,
	items []*model.EstimateItem,
	hourlyRate float64,
	contextMultiplier float64,
	overrides model.CostOverrides,
) float64 {
	if container.ContainerMode == model.ContainerFixedTotal && container.ContainerFixedTotal != nil {
		return *container.ContainerFixedTotal
	}

	var total float64
	for _, child := range items {
		if child.ParentID == nil || *child.ParentID != container.ID {
			continue
		}
		if child.IsContainer {
			total += ContainerCost(child, items, hourlyRate, contextMultiplier, overrides)
		} else {
			total += ItemCost(child, hourlyRate, contextMultiplier, overrides)
		}
	}
	return total
}
