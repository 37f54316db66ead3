package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mkuznecov/estima/internal/model"
)

func f64(v float64) *float64 { return &v }

func sampleProject() *model.Project {
	p := model.NewProject("Onboarding course")
	p.Pricing.HourlyRate = 1000

	group := model.NewContainer("Module 1", model.ContainerSumChildren)
	p.AddItem(group)

	lesson := model.NewItem("Long-read article", model.CategoryContent)
	lesson.ParentID = &group.ID
	lesson.HoursPerUnit = 2
	lesson.Quantity = 5
	p.AddItem(lesson)

	exam := model.NewItem("Final assessment", model.CategoryAssessment)
	exam.PricingModel = model.PricingFixedPrice
	exam.FixedPrice = f64(4000)
	exam.Revisionable = false
	p.AddItem(exam)

	return p
}

func TestBuildOutput(t *testing.T) {
	p := sampleProject()
	out := BuildOutput(p, model.DefaultConfig())

	assert.Equal(t, "Onboarding course", out.Name)
	require.Len(t, out.Items, 3)

	// display order: group first, its child indented below it
	assert.True(t, out.Items[0].IsContainer)
	assert.Equal(t, "Module 1", out.Items[0].Name)
	assert.Equal(t, 1, out.Items[1].Depth)
	assert.Equal(t, "Long-read article", out.Items[1].Name)

	// group cost is the sum of its children
	assert.InDelta(t, 10000, out.Items[0].Cost, 1e-9)
	assert.False(t, out.Items[0].Billable)
	assert.True(t, out.Items[1].Billable)

	assert.InDelta(t, 14000, out.Totals.BaseTotal, 1e-9)
	assert.InDelta(t, 1000, out.Totals.Revisions, 1e-9)
	assert.InDelta(t, 15000, out.Totals.GrandTotal, 1e-9)
	assert.InDelta(t, 10, out.Totals.TotalHours, 1e-9)
	assert.InDelta(t, 10000, out.Totals.ByCategory["content"], 1e-9)
	assert.InDelta(t, 4000, out.Totals.ByCategory["assessment"], 1e-9)
}

func TestBuildOutputDiagnostics(t *testing.T) {
	p := sampleProject()
	p.Context.ContextMultiplier = 4.0
	p.Context.ContextMultiplierIsManual = true
	p.Pricing.ResourceBudget = model.ResourceBudget{
		Enabled:         true,
		PeriodMonthsMin: 1, PeriodMonthsMax: 2,
		HoursPerWeekMin: 10, HoursPerWeekMax: 20,
	}
	p.Pricing.TargetPrice = model.TargetPrice{Enabled: true, Value: 100000, IncludesTax: true}

	out := BuildOutput(p, model.DefaultConfig())
	assert.NotEmpty(t, out.Context.Warning)
	require.NotNil(t, out.ResourceBudget)
	assert.InDelta(t, 43, out.ResourceBudget.MinHours, 1e-9)
	assert.InDelta(t, 172, out.ResourceBudget.MaxHours, 1e-9)
	require.NotNil(t, out.TargetPrice)
	assert.InDelta(t, 100000-out.Totals.GrandTotal, out.TargetPrice.Difference, 1e-9)
}

func TestJSONFormatter(t *testing.T) {
	formatted, err := NewJSONFormatter(model.DefaultConfig()).Format(sampleProject())
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(formatted), &decoded))
	assert.Equal(t, "Onboarding course", decoded["name"])
	totals := decoded["totals"].(map[string]interface{})
	assert.InDelta(t, 15000, totals["grandTotal"].(float64), 1e-9)
}

func TestYAMLFormatter(t *testing.T) {
	formatted, err := NewYAMLFormatter(model.DefaultConfig()).Format(sampleProject())
	require.NoError(t, err)
	assert.Contains(t, formatted, "name: Onboarding course")
	assert.Contains(t, formatted, "grandTotal: 15000")
}

func TestMarkdownFormatter(t *testing.T) {
	t.Run("default presentation", func(t *testing.T) {
		p := sampleProject()
		formatted, err := NewMarkdownFormatter(model.DefaultConfig()).Format(p)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(formatted, "# Onboarding course"))
		assert.Contains(t, formatted, "Long-read article")
		assert.Contains(t, formatted, "Total: 15000.00 USD")
		// default presentation keeps conditions on
		assert.Contains(t, formatted, "Quote valid for 30 days")
		// groups hidden unless requested
		assert.NotContains(t, formatted, "Module 1")
	})

	t.Run("presentation toggles", func(t *testing.T) {
		p := sampleProject()
		p.Presentation.ShowGroupStructure = true
		p.Presentation.ShowHours = true
		p.Presentation.ShowTaxSeparately = true
		p.Presentation.ShowConditions = false
		p.Presentation.ShowSignature = true
		p.Presentation.SignatureName = "M. Kuznecov"
		p.Pricing.Tax = model.Tax{Rate: 6}

		formatted, err := NewMarkdownFormatter(model.DefaultConfig()).Format(p)
		require.NoError(t, err)
		assert.Contains(t, formatted, "**Module 1**")
		assert.Contains(t, formatted, "Hours")
		assert.Contains(t, formatted, "**Tax:**")
		assert.Contains(t, formatted, "M. Kuznecov")
		assert.NotContains(t, formatted, "Quote valid for 30 days")
	})
}

func TestXLSXFormatter(t *testing.T) {
	p := sampleProject()
	buf, err := NewXLSXFormatter(model.DefaultConfig()).Format(p)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Estimate", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding course", title)

	rows, err := f.GetRows("Estimate")
	require.NoError(t, err)

	var found bool
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(cell, "Long-read article") {
				found = true
			}
		}
	}
	assert.True(t, found, "item rows should be present")
}
