package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/estima/internal/model"
)

func TestLookupDiscount(t *testing.T) {
	tiers := []model.VolumeDiscountTier{
		{MinQty: 1, DiscountPercent: 0},
		{MinQty: 6, DiscountPercent: 10},
		{MinQty: 16, DiscountPercent: 20},
		{MinQty: 31, DiscountPercent: 30},
	}

	tests := []struct {
		name string
		qty  int
		want float64
	}{
		{"below first threshold with discount", 3, 0},
		{"mid tier", 10, 0.1},
		{"exactly on a threshold", 16, 0.2},
		{"beyond the top tier", 50, 0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LookupDiscount(tt.qty, tiers), 1e-9)
		})
	}

	t.Run("no tiers means no discount", func(t *testing.T) {
		assert.Zero(t, LookupDiscount(100, nil))
	})
}

func TestVolumeDiscountTotal(t *testing.T) {
	tiers := []model.VolumeDiscountTier{
		{MinQty: 1, DiscountPercent: 0},
		{MinQty: 6, DiscountPercent: 10},
	}

	t.Run("by element pools quantities across lines", func(t *testing.T) {
		// Two lines of the same library element: 4 + 3 = 7 units reach
		// the 10% tier even though neither line does alone.
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) { i.LibraryElementID = "lib-quiz"; i.Quantity = 4 }), Cost: 4000},
			{Item: testItem("2", func(i *model.EstimateItem) { i.LibraryElementID = "lib-quiz"; i.Quantity = 3 }), Cost: 3000},
			{Item: testItem("3", func(i *model.EstimateItem) { i.Name = "One-off"; i.Quantity = 2 }), Cost: 2000},
		}
		got := VolumeDiscountTotal(leafCosts, model.VolumeByElement, tiers)
		assert.InDelta(t, 700, got, 1e-9)
	})

	t.Run("lines without a library element group by name", func(t *testing.T) {
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) { i.Name = "Quizzes"; i.Quantity = 3 }), Cost: 3000},
			{Item: testItem("2", func(i *model.EstimateItem) { i.Name = "Quizzes"; i.Quantity = 3 }), Cost: 3000},
		}
		got := VolumeDiscountTotal(leafCosts, model.VolumeByElement, tiers)
		assert.InDelta(t, 600, got, 1e-9)
	})

	t.Run("by category pools the whole category", func(t *testing.T) {
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) { i.Name = "A"; i.Quantity = 4 }), Cost: 4000},
			{Item: testItem("2", func(i *model.EstimateItem) { i.Name = "B"; i.Quantity = 4 }), Cost: 4000},
		}
		got := VolumeDiscountTotal(leafCosts, model.VolumeByCategory, tiers)
		assert.InDelta(t, 800, got, 1e-9)
	})

	t.Run("fixed prices and containers are exempt", func(t *testing.T) {
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) {
				i.PricingModel = model.PricingFixedPrice
				i.FixedPrice = f64(1000)
				i.Quantity = 10
			}), Cost: 10000},
			{Item: testItem("c1", func(i *model.EstimateItem) {
				i.IsContainer = true
				i.ContainerMode = model.ContainerFixedTotal
				i.ContainerFixedTotal = f64(20000)
				i.Quantity = 10
			}), Cost: 20000},
		}
		assert.Zero(t, VolumeDiscountTotal(leafCosts, model.VolumeByElement, tiers))
	})

	t.Run("pinned time-based lines still count toward the tier", func(t *testing.T) {
		// The pin replaces the line's cost, not its eligibility: 4 + 3 = 7
		// units reach the 10% tier, applied to the pinned amount too.
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) {
				i.LibraryElementID = "lib-quiz"
				i.Quantity = 4
				i.Overrides.Cost = true
			}), Cost: 5000},
			{Item: testItem("2", func(i *model.EstimateItem) { i.LibraryElementID = "lib-quiz"; i.Quantity = 3 }), Cost: 3000},
		}
		got := VolumeDiscountTotal(leafCosts, model.VolumeByElement, tiers)
		assert.InDelta(t, 800, got, 1e-9)
	})
}

func TestVolumeDiscountBreakdown(t *testing.T) {
	tiers := []model.VolumeDiscountTier{
		{MinQty: 1, DiscountPercent: 0},
		{MinQty: 6, DiscountPercent: 10},
	}

	t.Run("by_category mode yields no breakdown", func(t *testing.T) {
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) { i.Quantity = 10 }), Cost: 10000},
		}
		assert.Nil(t, VolumeDiscountBreakdown(leafCosts, model.VolumeByCategory, tiers))
	})

	t.Run("groups sorted by descending discount", func(t *testing.T) {
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) { i.Name = "Small"; i.Quantity = 6 }), Cost: 1000},
			{Item: testItem("2", func(i *model.EstimateItem) { i.Name = "Big"; i.Quantity = 6 }), Cost: 9000},
			{Item: testItem("3", func(i *model.EstimateItem) { i.Name = "None"; i.Quantity = 1 }), Cost: 500},
		}
		groups := VolumeDiscountBreakdown(leafCosts, model.VolumeByElement, tiers)
		require.Len(t, groups, 3)
		assert.Equal(t, "Big", groups[0].DisplayName)
		assert.InDelta(t, 900, groups[0].DiscountAmount, 1e-9)
		assert.Equal(t, "Small", groups[1].DisplayName)
		assert.InDelta(t, 100, groups[1].DiscountAmount, 1e-9)
		assert.Zero(t, groups[2].DiscountAmount)
	})

	t.Run("group detail fields", func(t *testing.T) {
		leafCosts := []LeafCost{
			{Item: testItem("1", func(i *model.EstimateItem) {
				i.LibraryElementID = "lib-quiz"
				i.Name = "Module 1 quizzes"
				i.Quantity = 4
			}), Cost: 4000},
			{Item: testItem("2", func(i *model.EstimateItem) {
				i.LibraryElementID = "lib-quiz"
				i.Name = "Module 2 quizzes"
				i.Quantity = 3
			}), Cost: 3000},
		}
		groups := VolumeDiscountBreakdown(leafCosts, model.VolumeByElement, tiers)
		require.Len(t, groups, 1)
		g := groups[0]
		assert.Equal(t, "lib-quiz", g.Key)
		assert.Equal(t, "lib-quiz", g.LibraryElementID)
		assert.Equal(t, "Module 1 quizzes, Module 2 quizzes", g.DisplayName)
		assert.Equal(t, 7, g.TotalQty)
		assert.InDelta(t, 7000, g.TotalCost, 1e-9)
		assert.InDelta(t, 0.1, g.DiscountRate, 1e-9)
		assert.InDelta(t, 700, g.DiscountAmount, 1e-9)
		assert.Equal(t, 2, g.ItemCount)
	})
}
