package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/estima/internal/model"
)

func TestComputeCostRange(t *testing.T) {
	t.Run("nil without any effort range", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 4; i.Quantity = 5 }),
		}
		assert.Nil(t, ComputeCostRange(items, 1000, 1.0, nil))
	})

	t.Run("nil when hours are manually overridden", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) {
				i.HoursPerUnit = 4
				i.Quantity = 5
				i.EffortRange = &model.EffortRange{Min: f64(2), Max: f64(8)}
				i.Overrides.HoursPerUnit = true
			}),
		}
		assert.Nil(t, ComputeCostRange(items, 1000, 1.0, nil))
	})

	t.Run("spread follows the range bounds", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) {
				i.HoursPerUnit = 4
				i.Quantity = 5
				i.EffortRange = &model.EffortRange{Min: f64(2), Max: f64(8)}
			}),
		}
		r := ComputeCostRange(items, 1000, 1.5, nil)
		require.NotNil(t, r)
		assert.InDelta(t, 15000, r.MinCost, 1e-9)
		assert.InDelta(t, 60000, r.MaxCost, 1e-9)
		assert.InDelta(t, 10, r.MinHours, 1e-9)
		assert.InDelta(t, 40, r.MaxHours, 1e-9)
	})

	t.Run("fixed prices contribute equally to both ends", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) {
				i.HoursPerUnit = 4
				i.Quantity = 2
				i.EffortRange = &model.EffortRange{Min: f64(2), Max: f64(6)}
			}),
			testItem("2", func(i *model.EstimateItem) {
				i.PricingModel = model.PricingFixedPrice
				i.FixedPrice = f64(5000)
			}),
		}
		r := ComputeCostRange(items, 1000, 1.0, nil)
		require.NotNil(t, r)
		assert.InDelta(t, 9000, r.MinCost, 1e-9)
		assert.InDelta(t, 17000, r.MaxCost, 1e-9)
	})

	t.Run("pinned costs and fixed totals stay flat", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) {
				i.EffortRange = &model.EffortRange{Min: f64(1), Max: f64(2)}
			}),
			testItem("2", func(i *model.EstimateItem) { i.Overrides.Cost = true }),
			testItem("c1", func(i *model.EstimateItem) {
				i.IsContainer = true
				i.ContainerMode = model.ContainerFixedTotal
				i.ContainerFixedTotal = f64(3000)
			}),
		}
		r := ComputeCostRange(items, 1000, 1.0, model.CostOverrides{"2": 2000})
		require.NotNil(t, r)
		assert.InDelta(t, 1000+2000+3000, r.MinCost, 1e-9)
		assert.InDelta(t, 2000+2000+3000, r.MaxCost, 1e-9)
	})

	t.Run("flagged item missing from the map falls back to its range", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) {
				i.Overrides.Cost = true
				i.EffortRange = &model.EffortRange{Min: f64(1), Max: f64(3)}
			}),
		}
		r := ComputeCostRange(items, 1000, 1.0, model.CostOverrides{})
		require.NotNil(t, r)
		assert.InDelta(t, 1000, r.MinCost, 1e-9)
		assert.InDelta(t, 3000, r.MaxCost, 1e-9)
	})
}

func TestComputeResourceBudget(t *testing.T) {
	t.Run("corridor math", func(t *testing.T) {
		budget := model.ResourceBudget{
			PeriodMonthsMin: 1.5,
			PeriodMonthsMax: 2,
			HoursPerWeekMin: 10,
			HoursPerWeekMax: 15,
		}
		result := ComputeResourceBudget(budget, 1350, 91)
		assert.InDelta(t, 64.5, result.MinHours, 1e-9)
		assert.InDelta(t, 129, result.MaxHours, 1e-9)
		assert.InDelta(t, 64.5*1350, result.MinCost, 1e-9)
		assert.InDelta(t, 129*1350, result.MaxCost, 1e-9)
		assert.Equal(t, BudgetBorderline, result.Fit)
	})

	t.Run("fits below the corridor", func(t *testing.T) {
		budget := model.ResourceBudget{PeriodMonthsMin: 2, PeriodMonthsMax: 3, HoursPerWeekMin: 20, HoursPerWeekMax: 30}
		assert.Equal(t, BudgetFits, ComputeResourceBudget(budget, 1000, 50).Fit)
	})

	t.Run("exceeds above the corridor", func(t *testing.T) {
		budget := model.ResourceBudget{PeriodMonthsMin: 1, PeriodMonthsMax: 1, HoursPerWeekMin: 5, HoursPerWeekMax: 5}
		assert.Equal(t, BudgetExceeds, ComputeResourceBudget(budget, 1000, 100).Fit)
	})
}

func TestComputeTargetDiff(t *testing.T) {
	t.Run("target includes tax", func(t *testing.T) {
		target := model.TargetPrice{Value: 120000, IncludesTax: true}
		result := ComputeTargetDiff(target, 98400, 90000)
		assert.InDelta(t, 21600, result.Difference, 1e-9)
		assert.InDelta(t, 82, result.PercentUsed, 0.5)
	})

	t.Run("target excludes tax", func(t *testing.T) {
		target := model.TargetPrice{Value: 100000, IncludesTax: false}
		result := ComputeTargetDiff(target, 106000, 100000)
		assert.Zero(t, result.Difference)
	})

	t.Run("zero target avoids division", func(t *testing.T) {
		target := model.TargetPrice{IncludesTax: true}
		result := ComputeTargetDiff(target, 5000, 5000)
		assert.Zero(t, result.PercentUsed)
		assert.InDelta(t, -5000, result.Difference, 1e-9)
	})
}
