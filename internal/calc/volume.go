package calc

import (
	"sort"
	"strings"

	"github.com/mkuznecov/estima/internal/model"
)

// LookupDiscount returns the discount fraction for a cumulative quantity:
// the rate of the highest tier whose threshold the quantity reaches.
func LookupDiscount(qty int, tiers []model.VolumeDiscountTier) float64 {
	sorted := make([]model.VolumeDiscountTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinQty > sorted[j].MinQty
	})
	for _, tier := range sorted {
		if qty >= tier.MinQty {
			return tier.DiscountPercent / 100
		}
	}
	return 0
}

type volumeGroup struct {
	libraryElementID string
	names            []string
	totalQty         int
	costs            []LeafCost
}

// Volume discounts only apply to time-based atomic lines. Fixed prices and
// containers keep their stated amounts; a pinned cost does not change a
// line's eligibility.
func volumeEligible(item *model.EstimateItem) bool {
	return !item.IsContainer && item.PricingModel == model.PricingTimeBased
}

func groupForVolume(leafCosts []LeafCost, mode model.VolumeGroupingMode) map[string]*volumeGroup {
	groups := make(map[string]*volumeGroup)
	for _, lc := range leafCosts {
		if !volumeEligible(lc.Item) {
			continue
		}
		var key string
		if mode == model.VolumeByCategory {
			key = string(lc.Item.Category)
		} else {
			key = lc.Item.LibraryElementID
			if key == "" {
				key = lc.Item.Name
			}
		}
		group := groups[key]
		if group == nil {
			group = &volumeGroup{libraryElementID: lc.Item.LibraryElementID}
			groups[key] = group
		}
		if !containsName(group.names, lc.Item.Name) {
			group.names = append(group.names, lc.Item.Name)
		}
		group.totalQty += lc.Item.Quantity
		group.costs = append(group.costs, lc)
	}
	return groups
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// VolumeDiscountTotal returns the total volume discount across all groups.
// Lines sharing a library element (or name, or category in by_category mode)
// pool their quantities to reach tier thresholds together.
func VolumeDiscountTotal(
	leafCosts []LeafCost,
	mode model.VolumeGroupingMode,
	tiers []model.VolumeDiscountTier,
) float64 {
	var total float64
	for _, group := range groupForVolume(leafCosts, mode) {
		rate := LookupDiscount(group.totalQty, tiers)
		for _, lc := range group.costs {
			total += lc.Cost * rate
		}
	}
	return total
}

// VolumeDiscountGroup describes one pooled group in the discount breakdown
type VolumeDiscountGroup struct {
	Key              string
	LibraryElementID string
	DisplayName      string
	TotalQty         int
	TotalCost        float64
	DiscountRate     float64
	DiscountAmount   float64
	ItemCount        int
}

// VolumeDiscountBreakdown returns the per-group discount detail sorted by
// descending discount amount. Only by_element mode produces a breakdown.
func VolumeDiscountBreakdown(
	leafCosts []LeafCost,
	mode model.VolumeGroupingMode,
	tiers []model.VolumeDiscountTier,
) []VolumeDiscountGroup {
	if mode != model.VolumeByElement {
		return nil
	}

	var result []VolumeDiscountGroup
	for key, group := range groupForVolume(leafCosts, mode) {
		rate := LookupDiscount(group.totalQty, tiers)
		var totalCost float64
		for _, lc := range group.costs {
			totalCost += lc.Cost
		}
		result = append(result, VolumeDiscountGroup{
			Key:              key,
			LibraryElementID: group.libraryElementID,
			DisplayName:      strings.Join(group.names, ", "),
			TotalQty:         group.totalQty,
			TotalCost:        totalCost,
			DiscountRate:     rate,
			DiscountAmount:   totalCost * rate,
			ItemCount:        len(group.costs),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DiscountAmount > result[j].DiscountAmount
	})
	return result
}
