package share

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/estima/internal/model"
)

func f64(v float64) *float64 { return &v }

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ctx := model.DefaultContext()
	ctx.Domain.Multiplier = 1.3
	ctx.RecomputeMultiplier()

	group := model.NewContainer("Module 1", model.ContainerSumChildren)
	lesson := model.NewItem("Video lesson", model.CategoryContent)
	lesson.ParentID = &group.ID
	lesson.HoursPerUnit = 4
	lesson.Quantity = 3
	lesson.Unit = "~15 min video"
	lesson.LibraryElementID = "lib-script"
	lesson.EffortRange = &model.EffortRange{Min: f64(2), Max: f64(8)}
	lesson.Overrides.HoursPerUnit = true
	exam := model.NewItem("Final assessment", model.CategoryAssessment)
	exam.PricingModel = model.PricingFixedPrice
	exam.FixedPrice = f64(5000)
	exam.Revisionable = false

	pricing := model.DefaultPricing()
	pricing.HourlyRate = 1200
	pricing.RevisionPercent = 0.2
	pricing.Discount = model.Discount{Type: model.DiscountPercent, PercentValue: -10}
	pricing.Tax = model.Tax{Rate: 6, ShowSeparately: true}
	pricing.VolumeDiscounts = model.VolumeDiscounts{
		Enabled: true,
		Mode:    model.VolumeByElement,
		Tiers:   model.DefaultVolumeTiers,
	}
	pricing.AdditionalAdjustments = []model.AdditionalAdjustment{
		{ID: "a1", Label: "Rush fee", Amount: 1500},
	}

	payload, err := Encode(ctx, []*model.EstimateItem{group, lesson, exam}, pricing)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(payload, Prefix))

	decoded, err := Decode(payload)
	require.NoError(t, err)

	assert.InDelta(t, 1.3, decoded.Context.ContextMultiplier, 1e-9)
	assert.Equal(t, ctx.Domain.Value, decoded.Context.Domain.Value)

	require.Len(t, decoded.Items, 3)
	assert.True(t, decoded.Items[0].IsContainer)

	got := decoded.Items[1]
	assert.Equal(t, lesson.ID, got.ID)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, group.ID, *got.ParentID)
	assert.Equal(t, 3, got.Quantity)
	assert.Equal(t, 4.0, got.HoursPerUnit)
	assert.Equal(t, "lib-script", got.LibraryElementID)
	require.NotNil(t, got.EffortRange)
	assert.Equal(t, 2.0, *got.EffortRange.Min)
	assert.Equal(t, 8.0, *got.EffortRange.Max)
	assert.True(t, got.Overrides.HoursPerUnit)
	assert.False(t, got.Overrides.Cost)

	fixed := decoded.Items[2]
	assert.Equal(t, model.PricingFixedPrice, fixed.PricingModel)
	require.NotNil(t, fixed.FixedPrice)
	assert.Equal(t, 5000.0, *fixed.FixedPrice)
	assert.False(t, fixed.Revisionable)

	assert.Equal(t, 1200.0, decoded.Pricing.HourlyRate)
	assert.Equal(t, 0.2, decoded.Pricing.RevisionPercent)
	assert.Equal(t, model.DiscountPercent, decoded.Pricing.Discount.Type)
	assert.Equal(t, -10.0, decoded.Pricing.Discount.PercentValue)
	assert.Equal(t, 6.0, decoded.Pricing.Tax.Rate)
	assert.True(t, decoded.Pricing.Tax.ShowSeparately)
	assert.True(t, decoded.Pricing.VolumeDiscounts.Enabled)
	assert.Len(t, decoded.Pricing.VolumeDiscounts.Tiers, 4)
	require.Len(t, decoded.Pricing.AdditionalAdjustments, 1)
	assert.Equal(t, "Rush fee", decoded.Pricing.AdditionalAdjustments[0].Label)
	assert.Equal(t, 1500.0, decoded.Pricing.AdditionalAdjustments[0].Amount)
}

func TestDecodeDefaults(t *testing.T) {
	// An empty pricing/context carries the defaults back
	items := []*model.EstimateItem{model.NewItem("Quiz", model.CategoryContent)}
	payload, err := Encode(model.DefaultContext(), items, model.DefaultPricing())
	require.NoError(t, err)

	decoded, err := Decode(payload)
	require.NoError(t, err)
	require.Len(t, decoded.Items, 1)
	assert.Equal(t, 1, decoded.Items[0].Quantity)
	assert.Equal(t, 1.0, decoded.Items[0].RoleMultiplier)
	assert.Equal(t, model.CategoryContent, decoded.Items[0].Category)
	assert.True(t, decoded.Items[0].Revisionable)
	assert.Equal(t, model.DiscountNone, decoded.Pricing.Discount.Type)
	assert.False(t, decoded.Pricing.VolumeDiscounts.Enabled)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"not-a-link",
		"estima1:",
		"estima1:!!!not-base64!!!",
		Prefix + "aGVsbG8", // valid base64, not a DEFLATE stream
	}
	for _, payload := range cases {
		_, err := Decode(payload)
		assert.Error(t, err, payload)
	}
}
