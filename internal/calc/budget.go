package calc

import "github.com/mkuznecov/estima/internal/model"

// weeksPerMonth converts month-sized periods into workable weeks
const weeksPerMonth = 4.3

// BudgetFit classifies how the estimate compares to the available time budget
type BudgetFit string

const (
	BudgetFits       BudgetFit = "fits"
	BudgetBorderline BudgetFit = "borderline"
	BudgetExceeds    BudgetFit = "exceeds"
)

// ResourceBudgetResult is the capacity corridor derived from the budget settings
type ResourceBudgetResult struct {
	MinHours float64
	MaxHours float64
	MinCost  float64
	MaxCost  float64
	Fit      BudgetFit
}

// ComputeResourceBudget converts the period and weekly-hours corridor into
// an hour and cost corridor, then classifies the estimate against it:
// fits below the corridor, borderline inside it, exceeds above it.
func ComputeResourceBudget(budget model.ResourceBudget, hourlyRate, estimateHours float64) ResourceBudgetResult {
	minHours := budget.PeriodMonthsMin * budget.HoursPerWeekMin * weeksPerMonth
	maxHours := budget.PeriodMonthsMax * budget.HoursPerWeekMax * weeksPerMonth

	fit := BudgetExceeds
	if estimateHours <= minHours {
		fit = BudgetFits
	} else if estimateHours <= maxHours {
		fit = BudgetBorderline
	}

	return ResourceBudgetResult{
		MinHours: minHours,
		MaxHours: maxHours,
		MinCost:  minHours * hourlyRate,
		MaxCost:  maxHours * hourlyRate,
		Fit:      fit,
	}
}

// TargetPriceResult compares the estimate against the client's target price
type TargetPriceResult struct {
	Difference  float64
	PercentUsed float64
}

// ComputeTargetDiff compares the grand total (or the pre-tax total, when
// the target excludes tax) against the target price
func ComputeTargetDiff(target model.TargetPrice, grandTotal, afterAdjustments float64) TargetPriceResult {
	compareWith := afterAdjustments
	if target.IncludesTax {
		compareWith = grandTotal
	}

	res := TargetPriceResult{Difference: target.Value - compareWith}
	if target.Value > 0 {
		res.PercentUsed = compareWith / target.Value * 100
	}
	return res
}
