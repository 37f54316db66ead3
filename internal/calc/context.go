package calc

import (
	"fmt"

	"github.com/mkuznecov/estima/internal/model"
)

// WarningLevel grades how alarming an aggregate context multiplier is
type WarningLevel string

const (
	WarningYellow WarningLevel = "yellow"
	WarningRed    WarningLevel = "red"
)

// ContextWarning flags context multipliers large enough to deserve review
type ContextWarning struct {
	Level   WarningLevel
	Message string
}

// ContextMultiplier returns the aggregate context multiplier. A manually
// pinned multiplier wins over the computed product.
func ContextMultiplier(ctx model.ProjectContext) float64 {
	if ctx.ContextMultiplierIsManual {
		return ctx.ContextMultiplier
	}
	return ctx.Domain.Multiplier *
		ctx.Methodology.Multiplier *
		ctx.Client.Multiplier *
		ctx.Deadline.Multiplier
}

// CheckContextMultiplier returns a warning for extreme multipliers, or nil
func CheckContextMultiplier(multiplier float64) *ContextWarning {
	if multiplier > 5.0 {
		return &ContextWarning{
			Level:   WarningRed,
			Message: fmt.Sprintf("Multiplier ×%.2f is extreme. Consider revisiting the project conditions.", multiplier),
		}
	}
	if multiplier > 3.0 {
		return &ContextWarning{
			Level:   WarningYellow,
			Message: fmt.Sprintf("Multiplier ×%.2f is a significant markup. Make sure it reflects real complexity.", multiplier),
		}
	}
	return nil
}
