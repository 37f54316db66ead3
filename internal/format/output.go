package format

import (
	"github.com/mkuznecov/estima/internal/calc"
	"github.com/mkuznecov/estima/internal/model"
)

// Output represents the complete estimate output with calculated values
type Output struct {
	// Project information
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	CreatedAt   string `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   string `json:"updatedAt" yaml:"updatedAt"`

	Context ContextOutput `json:"context" yaml:"context"`

	// Work breakdown in display order
	Items []ItemOutput `json:"items" yaml:"items"`

	// Pipeline totals, stage by stage
	Totals TotalsOutput `json:"totals" yaml:"totals"`

	// Optional sections
	VolumeDiscounts []VolumeGroupOutput `json:"volumeDiscounts,omitempty" yaml:"volumeDiscounts,omitempty"`
	CostRange       *CostRangeOutput    `json:"costRange,omitempty" yaml:"costRange,omitempty"`
	ResourceBudget  *BudgetOutput       `json:"resourceBudget,omitempty" yaml:"resourceBudget,omitempty"`
	TargetPrice     *TargetOutput       `json:"targetPrice,omitempty" yaml:"targetPrice,omitempty"`

	Currency string `json:"currency" yaml:"currency"`
}

// ContextOutput summarizes the project context and its multiplier
type ContextOutput struct {
	ProjectType string  `json:"projectType" yaml:"projectType"`
	Domain      string  `json:"domain" yaml:"domain"`
	Methodology string  `json:"methodology" yaml:"methodology"`
	Client      string  `json:"client" yaml:"client"`
	Deadline    string  `json:"deadline" yaml:"deadline"`
	Multiplier  float64 `json:"multiplier" yaml:"multiplier"`
	Manual      bool    `json:"manual,omitempty" yaml:"manual,omitempty"`
	Warning     string  `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// ItemOutput represents one work line with its calculated values
type ItemOutput struct {
	ID            string  `json:"id" yaml:"id"`
	ParentID      string  `json:"parentId,omitempty" yaml:"parentId,omitempty"`
	Depth         int     `json:"depth" yaml:"depth"`
	Name          string  `json:"name" yaml:"name"`
	Category      string  `json:"category" yaml:"category"`
	CategoryLabel string  `json:"categoryLabel" yaml:"categoryLabel"`
	Quantity      int     `json:"quantity" yaml:"quantity"`
	Unit          string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	IsContainer   bool    `json:"isContainer,omitempty" yaml:"isContainer,omitempty"`
	PricingModel  string  `json:"pricingModel" yaml:"pricingModel"`
	Hours         float64 `json:"hours" yaml:"hours"`
	Cost          float64 `json:"cost" yaml:"cost"`
	Billable      bool    `json:"billable" yaml:"billable"`
	Notes         string  `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// TotalsOutput represents the financial pipeline stage by stage
type TotalsOutput struct {
	TotalHours           float64            `json:"totalHours" yaml:"totalHours"`
	ByCategory           map[string]float64 `json:"byCategory" yaml:"byCategory"`
	BaseTotal            float64            `json:"baseTotal" yaml:"baseTotal"`
	VolumeDiscountAmount float64            `json:"volumeDiscountAmount" yaml:"volumeDiscountAmount"`
	Revisions            float64            `json:"revisions" yaml:"revisions"`
	Subtotal             float64            `json:"subtotal" yaml:"subtotal"`
	DiscountAmount       float64            `json:"discountAmount" yaml:"discountAmount"`
	AdjustmentsTotal     float64            `json:"adjustmentsTotal" yaml:"adjustmentsTotal"`
	AfterAdjustments     float64            `json:"afterAdjustments" yaml:"afterAdjustments"`
	TaxAmount            float64            `json:"taxAmount" yaml:"taxAmount"`
	GrandTotal           float64            `json:"grandTotal" yaml:"grandTotal"`
	AggregateConfidence  *float64           `json:"aggregateConfidence,omitempty" yaml:"aggregateConfidence,omitempty"`
}

// VolumeGroupOutput represents one pooled volume-discount group
type VolumeGroupOutput struct {
	Name           string  `json:"name" yaml:"name"`
	TotalQty       int     `json:"totalQty" yaml:"totalQty"`
	TotalCost      float64 `json:"totalCost" yaml:"totalCost"`
	DiscountRate   float64 `json:"discountRate" yaml:"discountRate"`
	DiscountAmount float64 `json:"discountAmount" yaml:"discountAmount"`
}

// CostRangeOutput represents the optimistic-to-pessimistic spread
type CostRangeOutput struct {
	MinCost  float64 `json:"minCost" yaml:"minCost"`
	MaxCost  float64 `json:"maxCost" yaml:"maxCost"`
	MinHours float64 `json:"minHours" yaml:"minHours"`
	MaxHours float64 `json:"maxHours" yaml:"maxHours"`
}

// BudgetOutput represents the time-budget fit diagnostic
type BudgetOutput struct {
	MinHours float64 `json:"minHours" yaml:"minHours"`
	MaxHours float64 `json:"maxHours" yaml:"maxHours"`
	MinCost  float64 `json:"minCost" yaml:"minCost"`
	MaxCost  float64 `json:"maxCost" yaml:"maxCost"`
	Fit      string  `json:"fit" yaml:"fit"`
}

// TargetOutput represents the target-price comparison
type TargetOutput struct {
	Value       float64 `json:"value" yaml:"value"`
	IncludesTax bool    `json:"includesTax" yaml:"includesTax"`
	Difference  float64 `json:"difference" yaml:"difference"`
	PercentUsed float64 `json:"percentUsed" yaml:"percentUsed"`
}

// BuildOutput runs the pricing pipeline and assembles the full output
func BuildOutput(project *model.Project, config *model.Config) *Output {
	multiplier := calc.ContextMultiplier(project.Context)
	result := calc.ProjectGrandTotal(project)

	out := &Output{
		ID:          string(project.ID),
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   project.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		Currency:    config.Currency,
		Context: ContextOutput{
			ProjectType: project.Context.ProjectType.Label,
			Domain:      project.Context.Domain.Label,
			Methodology: project.Context.Methodology.Label,
			Client:      project.Context.Client.Label,
			Deadline:    project.Context.Deadline.Label,
			Multiplier:  multiplier,
			Manual:      project.Context.ContextMultiplierIsManual,
		},
		Totals: TotalsOutput{
			TotalHours: result.TotalHours,
			ByCategory: map[string]float64{
				string(model.CategoryContent):    result.CategoryTotals.Content,
				string(model.CategoryAssessment): result.CategoryTotals.Assessment,
				string(model.CategoryService):    result.CategoryTotals.Service,
				string(model.CategoryOther):      result.CategoryTotals.Other,
			},
			BaseTotal:            result.BaseTotal,
			VolumeDiscountAmount: result.VolumeDiscountAmount,
			Revisions:            result.Revisions,
			Subtotal:             result.Subtotal,
			DiscountAmount:       result.DiscountAmount,
			AdjustmentsTotal:     result.AdjustmentsTotal,
			AfterAdjustments:     result.AfterAdjustments,
			TaxAmount:            result.TaxAmount,
			GrandTotal:           result.GrandTotal,
			AggregateConfidence:  result.AggregateConfidence,
		},
	}

	if warning := calc.CheckContextMultiplier(multiplier); warning != nil {
		out.Context.Warning = warning.Message
	}

	billable := make(map[model.ItemID]bool)
	for _, lc := range result.LeafCosts {
		billable[lc.Item.ID] = true
	}

	for _, item := range project.OrderedItems() {
		var cost float64
		if item.IsContainer {
			cost = calc.ContainerCost(item, project.Items, project.Pricing.HourlyRate, multiplier, project.CostOverrides)
		} else {
			cost = calc.ItemCost(item, project.Pricing.HourlyRate, multiplier, project.CostOverrides)
		}

		var hours float64
		if !item.IsContainer && item.PricingModel == model.PricingTimeBased {
			hours = calc.EffectiveHours(item) * float64(item.Quantity)
		}

		out.Items = append(out.Items, ItemOutput{
			ID:            string(item.ID),
			ParentID:      parentIDString(item),
			Depth:         itemDepth(project, item),
			Name:          item.Name,
			Category:      string(item.Category),
			CategoryLabel: model.CategoryLabels[item.Category],
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			IsContainer:   item.IsContainer,
			PricingModel:  string(item.PricingModel),
			Hours:         hours,
			Cost:          cost,
			Billable:      billable[item.ID],
			Notes:         item.Notes,
		})
	}

	for _, g := range result.VolumeDiscountBreakdown {
		out.VolumeDiscounts = append(out.VolumeDiscounts, VolumeGroupOutput{
			Name:           g.DisplayName,
			TotalQty:       g.TotalQty,
			TotalCost:      g.TotalCost,
			DiscountRate:   g.DiscountRate,
			DiscountAmount: g.DiscountAmount,
		})
	}

	if r := result.CostRange; r != nil {
		out.CostRange = &CostRangeOutput{
			MinCost:  r.MinCost,
			MaxCost:  r.MaxCost,
			MinHours: r.MinHours,
			MaxHours: r.MaxHours,
		}
	}

	if project.Pricing.ResourceBudget.Enabled {
		budget := calc.ComputeResourceBudget(project.Pricing.ResourceBudget, project.Pricing.HourlyRate, result.TotalHours)
		out.ResourceBudget = &BudgetOutput{
			MinHours: budget.MinHours,
			MaxHours: budget.MaxHours,
			MinCost:  budget.MinCost,
			MaxCost:  budget.MaxCost,
			Fit:      string(budget.Fit),
		}
	}

	if project.Pricing.TargetPrice.Enabled {
		target := calc.ComputeTargetDiff(project.Pricing.TargetPrice, result.GrandTotal, result.AfterAdjustments)
		out.TargetPrice = &TargetOutput{
			Value:       project.Pricing.TargetPrice.Value,
			IncludesTax: project.Pricing.TargetPrice.IncludesTax,
			Difference:  target.Difference,
			PercentUsed: target.PercentUsed,
		}
	}

	return out
}

func parentIDString(item *model.EstimateItem) string {
	if item.ParentID == nil {
		return ""
	}
	return string(*item.ParentID)
}

func itemDepth(project *model.Project, item *model.EstimateItem) int {
	depth := 0
	for item.ParentID != nil {
		parent := project.ItemByID(*item.ParentID)
		if parent == nil {
			break
		}
		depth++
		item = parent
	}
	return depth
}
