package calc

import "github.com/mkuznecov/estima/internal/model"

// GrandTotalParams carries every input of the full pricing pipeline
type GrandTotalParams struct {
	Items             []*model.EstimateItem
	HourlyRate        float64
	ContextMultiplier float64
	CostOverrides     model.CostOverrides
	RevisionPercent   float64
	Discount          model.Discount
	Tax               model.Tax
	VolumeDiscounts   model.VolumeDiscounts
	Adjustments       []model.AdditionalAdjustment
}

// GrandTotalResult is the full pricing pipeline output, stage by stage
type GrandTotalResult struct {
	LeafCosts      []LeafCost
	CategoryTotals CategoryTotals
	TotalHours     float64

	BaseTotal               float64
	VolumeDiscountAmount    float64
	VolumeDiscountBreakdown []VolumeDiscountGroup
	Revisions               float64
	Subtotal                float64
	DiscountAmount          float64
	AfterDiscounts          float64
	AdjustmentsTotal        float64
	AfterAdjustments        float64
	TaxAmount               float64
	GrandTotal              float64

	CostRange           *CostRange
	AggregateConfidence *float64
}

// GrandTotal runs the pricing pipeline: gross category totals, volume
// discounts, revision reserve, project discount, adjustments, then tax.
// The revision reserve is computed from gross line costs so that volume
// discounts never shrink it.
func GrandTotal(params GrandTotalParams) GrandTotalResult {
	leafCosts := AllLeafCosts(params.Items, params.HourlyRate, params.ContextMultiplier, params.CostOverrides)
	categoryTotals := SumCategoryTotals(leafCosts)

	res := GrandTotalResult{
		LeafCosts:      leafCosts,
		CategoryTotals: categoryTotals,
		TotalHours:     TotalHours(params.Items),
		BaseTotal:      categoryTotals.Sum(),
	}

	if params.VolumeDiscounts.Enabled {
		res.VolumeDiscountAmount = VolumeDiscountTotal(leafCosts, params.VolumeDiscounts.Mode, params.VolumeDiscounts.Tiers)
		res.VolumeDiscountBreakdown = VolumeDiscountBreakdown(leafCosts, params.VolumeDiscounts.Mode, params.VolumeDiscounts.Tiers)
	}

	res.CostRange = ComputeCostRange(params.Items, params.HourlyRate, params.ContextMultiplier, params.CostOverrides)
	res.AggregateConfidence = aggregateConfidence(leafCosts)

	afterVolumeDiscounts := res.BaseTotal - res.VolumeDiscountAmount

	res.Revisions = Revisions(leafCosts, params.RevisionPercent)
	res.Subtotal = afterVolumeDiscounts + res.Revisions

	// The discount value is signed: negative for discounts, positive for
	// surcharges, so both flow through addition.
	res.AfterDiscounts = res.Subtotal
	switch params.Discount.Type {
	case model.DiscountPercent:
		res.DiscountAmount = res.Subtotal * (params.Discount.PercentValue / 100)
		res.AfterDiscounts = res.Subtotal + res.DiscountAmount
	case model.DiscountAbsolute:
		res.DiscountAmount = params.Discount.AbsoluteValue
		res.AfterDiscounts = res.Subtotal + res.DiscountAmount
	}

	for _, a := range params.Adjustments {
		res.AdjustmentsTotal += a.Amount
	}
	res.AfterAdjustments = res.AfterDiscounts + res.AdjustmentsTotal

	res.TaxAmount = res.AfterAdjustments * (params.Tax.Rate / 100)
	res.GrandTotal = res.AfterAdjustments + res.TaxAmount

	return res
}

// ProjectGrandTotal runs the pipeline with a project's own settings
func ProjectGrandTotal(p *model.Project) GrandTotalResult {
	return GrandTotal(GrandTotalParams{
		Items:             p.Items,
		HourlyRate:        p.Pricing.HourlyRate,
		ContextMultiplier: ContextMultiplier(p.Context),
		CostOverrides:     p.CostOverrides,
		RevisionPercent:   p.Pricing.RevisionPercent,
		Discount:          p.Pricing.Discount,
		Tax:               p.Pricing.Tax,
		VolumeDiscounts:   p.Pricing.VolumeDiscounts,
		Adjustments:       p.Pricing.AdditionalAdjustments,
	})
}

// aggregateConfidence is the cost-weighted mean of per-line confidence
// ratings, or nil when no rated line carries a positive cost
func aggregateConfidence(leafCosts []LeafCost) *float64 {
	var weightedSum, totalWeight float64
	for _, lc := range leafCosts {
		if lc.Item.Confidence != nil && lc.Cost > 0 {
			weightedSum += float64(*lc.Item.Confidence) * lc.Cost
			totalWeight += lc.Cost
		}
	}
	if totalWeight <= 0 {
		return nil
	}
	v := weightedSum / totalWeight
	return &v
}
