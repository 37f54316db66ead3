package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/estima/internal/model"
)

func pipelineParams(items []*model.EstimateItem) GrandTotalParams {
	return GrandTotalParams{
		Items:             items,
		HourlyRate:        1000,
		ContextMultiplier: 1.0,
		CostOverrides:     model.CostOverrides{},
		Discount:          model.Discount{Type: model.DiscountNone},
		VolumeDiscounts:   model.VolumeDiscounts{Mode: model.VolumeByElement},
	}
}

func TestGrandTotal(t *testing.T) {
	t.Run("full pipeline", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 2; i.Quantity = 5 }),
			testItem("2", func(i *model.EstimateItem) {
				i.HoursPerUnit = 3
				i.Quantity = 2
				i.Category = model.CategoryAssessment
			}),
			testItem("3", func(i *model.EstimateItem) {
				i.HoursPerUnit = 4
				i.Category = model.CategoryService
				i.Revisionable = false
			}),
		}
		params := pipelineParams(items)
		params.RevisionPercent = 0.2

		result := GrandTotal(params)
		assert.InDelta(t, 10000, result.CategoryTotals.Content, 1e-9)
		assert.InDelta(t, 6000, result.CategoryTotals.Assessment, 1e-9)
		assert.InDelta(t, 4000, result.CategoryTotals.Service, 1e-9)
		assert.InDelta(t, 20000, result.BaseTotal, 1e-9)
		assert.InDelta(t, 3200, result.Revisions, 1e-9)
		assert.InDelta(t, 23200, result.GrandTotal, 1e-9)
	})

	t.Run("tax applied after everything else", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 10; i.Revisionable = false }),
		}
		params := pipelineParams(items)
		params.Tax = model.Tax{Rate: 6, ShowSeparately: true}

		result := GrandTotal(params)
		assert.InDelta(t, 600, result.TaxAmount, 1e-9)
		assert.InDelta(t, 10600, result.GrandTotal, 1e-9)
	})

	t.Run("percent discount is signed", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 10; i.Revisionable = false }),
		}
		params := pipelineParams(items)
		params.Discount = model.Discount{Type: model.DiscountPercent, PercentValue: -10}

		result := GrandTotal(params)
		assert.InDelta(t, -1000, result.DiscountAmount, 1e-9)
		assert.InDelta(t, 9000, result.GrandTotal, 1e-9)
	})

	t.Run("absolute surcharge", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 10; i.Revisionable = false }),
		}
		params := pipelineParams(items)
		params.Discount = model.Discount{Type: model.DiscountAbsolute, AbsoluteValue: 2500}

		result := GrandTotal(params)
		assert.InDelta(t, 12500, result.GrandTotal, 1e-9)
	})

	t.Run("adjustments land between discount and tax", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 10; i.Revisionable = false }),
		}
		params := pipelineParams(items)
		params.Adjustments = []model.AdditionalAdjustment{
			{ID: "a1", Label: "Rush fee", Amount: 1500},
			{ID: "a2", Label: "Goodwill", Amount: -500},
		}
		params.Tax = model.Tax{Rate: 10}

		result := GrandTotal(params)
		assert.InDelta(t, 1000, result.AdjustmentsTotal, 1e-9)
		assert.InDelta(t, 11000, result.AfterAdjustments, 1e-9)
		assert.InDelta(t, 1100, result.TaxAmount, 1e-9)
		assert.InDelta(t, 12100, result.GrandTotal, 1e-9)
	})

	t.Run("revisions computed from gross costs before volume discounts", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 1; i.Quantity = 10; i.Name = "Quizzes" }),
		}
		params := pipelineParams(items)
		params.RevisionPercent = 0.1
		params.VolumeDiscounts = model.VolumeDiscounts{
			Enabled: true,
			Mode:    model.VolumeByElement,
			Tiers: []model.VolumeDiscountTier{
				{MinQty: 1, DiscountPercent: 0},
				{MinQty: 6, DiscountPercent: 10},
			},
		}

		result := GrandTotal(params)
		// base 10000, volume discount 1000, revisions 10% of the gross 10000
		assert.InDelta(t, 10000, result.BaseTotal, 1e-9)
		assert.InDelta(t, 1000, result.VolumeDiscountAmount, 1e-9)
		assert.InDelta(t, 1000, result.Revisions, 1e-9)
		assert.InDelta(t, 10000, result.Subtotal, 1e-9)
		require.Len(t, result.VolumeDiscountBreakdown, 1)
	})

	t.Run("volume discounts disabled leave no trace", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.Quantity = 50 }),
		}
		result := GrandTotal(pipelineParams(items))
		assert.Zero(t, result.VolumeDiscountAmount)
		assert.Empty(t, result.VolumeDiscountBreakdown)
	})

	t.Run("aggregate confidence is cost weighted", func(t *testing.T) {
		five, three := 5, 3
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 3; i.Confidence = &five }),
			testItem("2", func(i *model.EstimateItem) { i.HoursPerUnit = 1; i.Confidence = &three }),
			testItem("3", func(i *model.EstimateItem) { i.HoursPerUnit = 10 }),
		}
		result := GrandTotal(pipelineParams(items))
		require.NotNil(t, result.AggregateConfidence)
		// (5*3000 + 3*1000) / 4000 = 4.5
		assert.InDelta(t, 4.5, *result.AggregateConfidence, 1e-9)
	})

	t.Run("identical inputs give identical results", func(t *testing.T) {
		items := []*model.EstimateItem{
			testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 2; i.Quantity = 5 }),
		}
		params := pipelineParams(items)
		params.RevisionPercent = 0.2
		params.Tax = model.Tax{Rate: 6}

		first := GrandTotal(params)
		second := GrandTotal(params)
		assert.Equal(t, first, second)
	})

	t.Run("no rated lines means no aggregate confidence", func(t *testing.T) {
		items := []*model.EstimateItem{testItem("1", nil)}
		result := GrandTotal(pipelineParams(items))
		assert.Nil(t, result.AggregateConfidence)
	})
}

func TestProjectGrandTotal(t *testing.T) {
	p := model.NewProject("Course estimate")
	p.Pricing.HourlyRate = 1000
	p.AddItem(testItem("1", func(i *model.EstimateItem) { i.HoursPerUnit = 2; i.Quantity = 5 }))

	result := ProjectGrandTotal(p)
	assert.InDelta(t, 10000, result.BaseTotal, 1e-9)
	// default revision percent is 10%
	assert.InDelta(t, 1000, result.Revisions, 1e-9)
	assert.InDelta(t, 11000, result.GrandTotal, 1e-9)
}
