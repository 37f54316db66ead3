package calc

import "github.com/mkuznecov/estima/internal/model"

// LeafCost pairs a billable line with its computed cost
type LeafCost struct {
	Item *model.EstimateItem
	Cost float64
}

// AllLeafCosts computes the cost of every billable line
func AllLeafCosts(
	items []*model.EstimateItem,
	hourlyRate float64,
	contextMultiplier float64,
	overrides model.CostOverrides,
) []LeafCost {
	leaves := Leaves(items)
	costs := make([]LeafCost, 0, len(leaves))
	for _, item := range leaves {
		costs = append(costs, LeafCost{
			Item: item,
			Cost: ItemCost(item, hourlyRate, contextMultiplier, overrides),
		})
	}
	return costs
}

// CategoryTotals holds the gross cost of each work category
type CategoryTotals struct {
	Content    float64
	Assessment float64
	Service    float64
	Other      float64
}

// Sum returns the total across all categories
func (t CategoryTotals) Sum() float64 {
	return t.Content + t.Assessment + t.Service + t.Other
}

// ByCategory returns the total for one category; unknown categories fold
// into Other
func (t CategoryTotals) ByCategory(cat model.Category) float64 {
	switch cat {
	case model.CategoryContent:
		return t.Content
	case model.CategoryAssessment:
		return t.Assessment
	case model.CategoryService:
		return t.Service
	default:
		return t.Other
	}
}

// SumCategoryTotals groups leaf costs into the four category buckets
func SumCategoryTotals(leafCosts []LeafCost) CategoryTotals {
	var totals CategoryTotals
	for _, lc := range leafCosts {
		switch lc.Item.Category {
		case model.CategoryContent:
			totals.Content += lc.Cost
		case model.CategoryAssessment:
			totals.Assessment += lc.Cost
		case model.CategoryService:
			totals.Service += lc.Cost
		default:
			totals.Other += lc.Cost
		}
	}
	return totals
}

// TotalHours sums effective hours across time-based billable lines.
// Fixed-price items and fixed_total containers carry no hours.
func TotalHours(items []*model.EstimateItem) float64 {
	var total float64
	for _, item := range Leaves(items) {
		if !item.IsContainer && item.PricingModel == model.PricingTimeBased {
			total += EffectiveHours(item) * float64(item.Quantity)
		}
	}
	return total
}

// Revisions returns the revision reserve: the given share of the gross
// cost of all revisionable lines.
func Revisions(leafCosts []LeafCost, revisionPercent float64) float64 {
	var revisionable float64
	for _, lc := range leafCosts {
		if lc.Item.Revisionable {
			revisionable += lc.Cost
		}
	}
	return revisionable * revisionPercent
}
