package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/estima/internal/model"
)

func f64(v float64) *float64 { return &v }

func testItem(id string, mutate func(*model.EstimateItem)) *model.EstimateItem {
	item := &model.EstimateItem{
		ID:             model.ItemID(id),
		Name:           "Test Item",
		Quantity:       1,
		HoursPerUnit:   2,
		Category:       model.CategoryContent,
		Role:           model.RoleAuthor,
		RoleMultiplier: 1.0,
		QualityLevel:   1.0,
		Revisionable:   true,
		PricingModel:   model.PricingTimeBased,
		ContainerMode:  model.ContainerSumChildren,
		Source:         model.SourceManual,
	}
	if mutate != nil {
		mutate(item)
	}
	return item
}

func childOf(parent model.ItemID) *model.ItemID { return &parent }

func TestContextMultiplier(t *testing.T) {
	t.Run("product of all multipliers", func(t *testing.T) {
		ctx := model.DefaultContext()
		ctx.Domain.Multiplier = 1.3
		ctx.Methodology.Multiplier = 1.2
		ctx.Client.Multiplier = 1.1
		ctx.Deadline.Multiplier = 1.2
		assert.InDelta(t, 1.3*1.2*1.1*1.2, ContextMultiplier(ctx), 1e-9)
	})

	t.Run("manual value wins", func(t *testing.T) {
		ctx := model.DefaultContext()
		ctx.Domain.Multiplier = 1.3
		ctx.ContextMultiplier = 2.5
		ctx.ContextMultiplierIsManual = true
		assert.Equal(t, 2.5, ContextMultiplier(ctx))
	})
}

func TestCheckContextMultiplier(t *testing.T) {
	assert.Nil(t, CheckContextMultiplier(1.5))
	assert.Nil(t, CheckContextMultiplier(3.0))

	yellow := CheckContextMultiplier(3.1)
	require.NotNil(t, yellow)
	assert.Equal(t, WarningYellow, yellow.Level)

	red := CheckContextMultiplier(5.1)
	require.NotNil(t, red)
	assert.Equal(t, WarningRed, red.Level)
}

func TestPertHours(t *testing.T) {
	t.Run("nil without range", func(t *testing.T) {
		assert.Nil(t, PertHours(testItem("1", nil)))
	})

	t.Run("nil when a bound is missing", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.EffortRange = &model.EffortRange{Max: f64(8)}
		})
		assert.Nil(t, PertHours(item))

		item.EffortRange = &model.EffortRange{Min: f64(2)}
		assert.Nil(t, PertHours(item))
	})

	t.Run("expected falls back to hoursPerUnit", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.HoursPerUnit = 4
			i.EffortRange = &model.EffortRange{Min: f64(2), Max: f64(8)}
		})
		got := PertHours(item)
		require.NotNil(t, got)
		assert.InDelta(t, (2+4*4+8)/6.0, *got, 1e-9)
	})

	t.Run("explicit expected value", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.HoursPerUnit = 4
			i.EffortRange = &model.EffortRange{Min: f64(1), Expected: f64(3), Max: f64(9)}
		})
		got := PertHours(item)
		require.NotNil(t, got)
		assert.InDelta(t, (1+4*3+9)/6.0, *got, 1e-9)
	})
}

func TestEffectiveHours(t *testing.T) {
	t.Run("role and quality multipliers apply", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.HoursPerUnit = 2.5
			i.RoleMultiplier = 0.5
			i.QualityLevel = 1.5
		})
		assert.InDelta(t, 2.5*0.5*1.5, EffectiveHours(item), 1e-9)
	})

	t.Run("PERT replaces hoursPerUnit", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.HoursPerUnit = 4
			i.EffortRange = &model.EffortRange{Min: f64(2), Max: f64(8)}
		})
		assert.InDelta(t, (2+4*4+8)/6.0, EffectiveHours(item), 1e-9)
	})

	t.Run("manual hours override suppresses PERT", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.HoursPerUnit = 4
			i.EffortRange = &model.EffortRange{Min: f64(2), Max: f64(8)}
			i.Overrides.HoursPerUnit = true
		})
		assert.InDelta(t, 4.0, EffectiveHours(item), 1e-9)
	})
}

func TestItemCost(t *testing.T) {
	t.Run("time based", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.HoursPerUnit = 2
			i.Quantity = 5
		})
		assert.InDelta(t, 15000, ItemCost(item, 1000, 1.5, nil), 1e-9)
	})

	t.Run("fixed price skips context multiplier", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.PricingModel = model.PricingFixedPrice
			i.FixedPrice = f64(5000)
			i.Quantity = 3
		})
		assert.InDelta(t, 15000, ItemCost(item, 1000, 1.5, nil), 1e-9)
	})

	t.Run("fixed_total container", func(t *testing.T) {
		item := testItem("c1", func(i *model.EstimateItem) {
			i.IsContainer = true
			i.ContainerMode = model.ContainerFixedTotal
			i.ContainerFixedTotal = f64(20000)
		})
		assert.InDelta(t, 20000, ItemCost(item, 1000, 1.5, nil), 1e-9)
	})

	t.Run("sum_children container costs nothing directly", func(t *testing.T) {
		item := testItem("c1", func(i *model.EstimateItem) {
			i.IsContainer = true
		})
		assert.Zero(t, ItemCost(item, 1000, 1.5, nil))
	})

	t.Run("pinned cost read from override map", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.HoursPerUnit = 2
			i.Overrides.Cost = true
		})
		overrides := model.CostOverrides{"1": 7777}
		assert.InDelta(t, 7777, ItemCost(item, 1000, 1.5, overrides), 1e-9)
	})

	t.Run("pinned cost missing from map is zero", func(t *testing.T) {
		item := testItem("1", func(i *model.EstimateItem) {
			i.Overrides.Cost = true
		})
		assert.Zero(t, ItemCost(item, 1000, 1.5, model.CostOverrides{}))
	})
}

func TestContainerCost(t *testing.T) {
	t.Run("fixed total wins", func(t *testing.T) {
		container := testItem("c1", func(i *model.EstimateItem) {
			i.IsContainer = true
			i.ContainerMode = model.ContainerFixedTotal
			i.ContainerFixedTotal = f64(20000)
		})
		items := []*model.EstimateItem{
			container,
			testItem("1", func(i *model.EstimateItem) { i.ParentID = childOf("c1"); i.HoursPerUnit = 100 }),
		}
		assert.InDelta(t, 20000, ContainerCost(container, items, 1000, 1.0, nil), 1e-9)
	})

	t.Run("fixed total without a value sums children", func(t *testing.T) {
		container := testItem("c1", func(i *model.EstimateItem) {
			i.IsContainer = true
			i.ContainerMode = model.ContainerFixedTotal
		})
		items := []*model.EstimateItem{
			container,
			testItem("1", func(i *model.EstimateItem) { i.ParentID = childOf("c1"); i.HoursPerUnit = 2 }),
		}
		assert.InDelta(t, 2000, ContainerCost(container, items, 1000, 1.0, nil), 1e-9)
	})

	t.Run("sum_children recurses through nested groups", func(t *testing.T) {
		outer := testItem("c1", func(i *model.EstimateItem) { i.IsContainer = true })
		inner := testItem("c2", func(i *model.EstimateItem) { i.IsContainer = true; i.ParentID = childOf("c1") })
		items := []*model.EstimateItem{
			outer,
			inner,
			testItem("1", func(i *model.EstimateItem) { i.ParentID = childOf("c1"); i.HoursPerUnit = 3 }),
			testItem("2", func(i *model.EstimateItem) { i.ParentID = childOf("c2"); i.HoursPerUnit = 5 }),
		}
		assert.InDelta(t, 8000, ContainerCost(outer, items, 1000, 1.0, nil), 1e-9)
	})

	t.Run("pinned child uses the override map", func(t *testing.T) {
		container := testItem("c1", func(i *model.EstimateItem) { i.IsContainer = true })
		items := []*model.EstimateItem{
			container,
			testItem("1", func(i *model.EstimateItem) {
				i.ParentID = childOf("c1")
				i.HoursPerUnit = 2
				i.Overrides.Cost = true
			}),
		}
		got := ContainerCost(container, items, 1000, 1.0, model.CostOverrides{"1": 500})
		assert.InDelta(t, 500, got, 1e-9)
	})
}

func TestLeaves(t *testing.T) {
	t.Run("atomic items are leaves", func(t *testing.T) {
		items := []*model.EstimateItem{testItem("1", nil), testItem("2", nil)}
		assert.Len(t, Leaves(items), 2)
	})

	t.Run("sum_children containers are skipped", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("c1", func(i *model.EstimateItem) { i.IsContainer = true }),
			testItem("1", func(i *model.EstimateItem) { i.ParentID = childOf("c1") }),
			testItem("2", func(i *model.EstimateItem) { i.ParentID = childOf("c1") }),
		}
		leaves := Leaves(items)
		require.Len(t, leaves, 2)
		assert.Equal(t, model.ItemID("1"), leaves[0].ID)
		assert.Equal(t, model.ItemID("2"), leaves[1].ID)
	})

	t.Run("fixed_total containers are leaves and hide descendants", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("c1", func(i *model.EstimateItem) {
				i.IsContainer = true
				i.ContainerMode = model.ContainerFixedTotal
				i.ContainerFixedTotal = f64(15000)
			}),
			testItem("1", func(i *model.EstimateItem) { i.ParentID = childOf("c1") }),
			testItem("2", nil),
		}
		leaves := Leaves(items)
		require.Len(t, leaves, 2)
		assert.Equal(t, model.ItemID("c1"), leaves[0].ID)
		assert.Equal(t, model.ItemID("2"), leaves[1].ID)
	})

	t.Run("grandchildren of fixed_total containers are hidden too", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("c1", func(i *model.EstimateItem) {
				i.IsContainer = true
				i.ContainerMode = model.ContainerFixedTotal
				i.ContainerFixedTotal = f64(15000)
			}),
			testItem("c2", func(i *model.EstimateItem) { i.IsContainer = true; i.ParentID = childOf("c1") }),
			testItem("1", func(i *model.EstimateItem) { i.ParentID = childOf("c2") }),
		}
		leaves := Leaves(items)
		require.Len(t, leaves, 1)
		assert.Equal(t, model.ItemID("c1"), leaves[0].ID)
	})
}

func TestSumCategoryTotals(t *testing.T) {
	leafCosts := []LeafCost{
		{Item: testItem("1", nil), Cost: 1000},
		{Item: testItem("2", nil), Cost: 2000},
		{Item: testItem("3", func(i *model.EstimateItem) { i.Category = model.CategoryAssessment }), Cost: 500},
		{Item: testItem("4", func(i *model.EstimateItem) { i.Category = model.CategoryService }), Cost: 300},
		{Item: testItem("5", func(i *model.EstimateItem) { i.Category = model.CategoryOther }), Cost: 200},
	}
	totals := SumCategoryTotals(leafCosts)
	assert.Equal(t, 3000.0, totals.Content)
	assert.Equal(t, 500.0, totals.Assessment)
	assert.Equal(t, 300.0, totals.Service)
	assert.Equal(t, 200.0, totals.Other)
	assert.Equal(t, 4000.0, totals.Sum())
}

func TestTotalHours(t *testing.T) {
	items := []*model.EstimateItem{
		testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 2; i.Quantity = 5 }),
		testItem("2", func(i *model.EstimateItem) { i.HoursPerUnit = 3; i.Quantity = 2; i.RoleMultiplier = 0.5 }),
		testItem("3", func(i *model.EstimateItem) {
			i.PricingModel = model.PricingFixedPrice
			i.FixedPrice = f64(5000)
			i.HoursPerUnit = 10
		}),
	}
	// fixed-price line carries no hours
	assert.InDelta(t, 13, TotalHours(items), 1e-9)
}

func TestRevisions(t *testing.T) {
	leafCosts := []LeafCost{
		{Item: testItem("1", nil), Cost: 10000},
		{Item: testItem("2", func(i *model.EstimateItem) { i.Revisionable = false }), Cost: 5000},
		{Item: testItem("3", nil), Cost: 3000},
	}
	assert.InDelta(t, 2600, Revisions(leafCosts, 0.2), 1e-9)
}
