package format

import (
	"fmt"
	"strings"

	"github.com/mkuznecov/estima/internal/model"
)

// MarkdownFormatter renders a client-facing quote as Markdown, honoring
// the project's presentation toggles
type MarkdownFormatter struct {
	config *model.Config
}

// NewMarkdownFormatter creates a new Markdown formatter
func NewMarkdownFormatter(config *model.Config) *MarkdownFormatter {
	return &MarkdownFormatter{config: config}
}

// Format renders the project as a Markdown quote
func (f *MarkdownFormatter) Format(project *model.Project) (string, error) {
	output := BuildOutput(project, f.config)
	pres := project.Presentation

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", output.Name)
	if output.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", output.Description)
	}

	f.writeItemsTable(&b, output, pres)
	f.writeTotals(&b, output, pres)

	if pres.ShowConditions && pres.ConditionsText != "" {
		fmt.Fprintf(&b, "\n%s\n", pres.ConditionsText)
	}

	if pres.ShowSignature && pres.SignatureName != "" {
		fmt.Fprintf(&b, "\n---\n\n%s", pres.SignatureName)
		if pres.SignatureContact != "" {
			fmt.Fprintf(&b, " · %s", pres.SignatureContact)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

func (f *MarkdownFormatter) writeItemsTable(b *strings.Builder, output *Output, pres model.Presentation) {
	headers := []string{"Item"}
	if pres.ShowQuantity {
		headers = append(headers, "Qty")
	}
	if pres.ShowUnits {
		headers = append(headers, "Unit")
	}
	if pres.ShowHours {
		headers = append(headers, "Hours")
	}
	if pres.ShowPricePerUnit {
		headers = append(headers, "Price/unit")
	}
	headers = append(headers, "Cost")

	fmt.Fprintf(b, "| %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(b, "|%s\n", strings.Repeat("---|", len(headers)))

	for _, item := range output.Items {
		if item.IsContainer && !pres.ShowGroupStructure {
			continue
		}
		if !item.Billable && !item.IsContainer && !pres.ShowGroupStructure {
			// lines absorbed by a fixed-total group stay hidden from the client
			continue
		}

		name := item.Name
		if pres.ShowGroupStructure && item.Depth > 0 {
			name = strings.Repeat("&nbsp;&nbsp;", item.Depth) + name
		}
		if item.IsContainer {
			name = "**" + name + "**"
		}

		cells := []string{name}
		if pres.ShowQuantity {
			qty := ""
			if !item.IsContainer {
				qty = fmt.Sprintf("%d", item.Quantity)
			}
			cells = append(cells, qty)
		}
		if pres.ShowUnits {
			cells = append(cells, item.Unit)
		}
		if pres.ShowHours {
			hours := ""
			if item.Hours > 0 {
				hours = fmt.Sprintf("%.1f", item.Hours)
			}
			cells = append(cells, hours)
		}
		if pres.ShowPricePerUnit {
			perUnit := ""
			if !item.IsContainer && item.Quantity > 0 {
				perUnit = money(item.Cost/float64(item.Quantity), output.Currency)
			}
			cells = append(cells, perUnit)
		}
		cells = append(cells, money(item.Cost, output.Currency))

		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
	b.WriteString("\n")
}

func (f *MarkdownFormatter) writeTotals(b *strings.Builder, output *Output, pres model.Presentation) {
	t := output.Totals

	fmt.Fprintf(b, "**Base total:** %s\n\n", money(t.BaseTotal, output.Currency))
	if t.VolumeDiscountAmount > 0 {
		fmt.Fprintf(b, "**Volume discount:** -%s\n\n", money(t.VolumeDiscountAmount, output.Currency))
	}
	if t.Revisions > 0 {
		fmt.Fprintf(b, "**Revisions:** %s\n\n", money(t.Revisions, output.Currency))
	}
	if pres.ShowDiscountSeparately && t.DiscountAmount != 0 {
		fmt.Fprintf(b, "**Discount:** %s\n\n", money(t.DiscountAmount, output.Currency))
	}
	if t.AdjustmentsTotal != 0 {
		fmt.Fprintf(b, "**Adjustments:** %s\n\n", money(t.AdjustmentsTotal, output.Currency))
	}
	if pres.ShowTaxSeparately && t.TaxAmount > 0 {
		fmt.Fprintf(b, "**Tax:** %s\n\n", money(t.TaxAmount, output.Currency))
	}
	fmt.Fprintf(b, "**Total: %s**\n", money(t.GrandTotal, output.Currency))

	if output.CostRange != nil {
		fmt.Fprintf(b, "\nEstimated range: %s to %s\n",
			money(output.CostRange.MinCost, output.Currency),
			money(output.CostRange.MaxCost, output.Currency))
	}
}

func money(v float64, currency string) string {
	return fmt.Sprintf("%.2f %s", v, currency)
}
