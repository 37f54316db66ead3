package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mkuznecov/estima/internal/model"
)

const estimateSheet = "Estimate"

// XLSXFormatter renders a client-facing quote as an XLSX workbook
type XLSXFormatter struct {
	config *model.Config
}

// NewXLSXFormatter creates a new XLSX formatter
func NewXLSXFormatter(config *model.Config) *XLSXFormatter {
	return &XLSXFormatter{config: config}
}

// Format renders the project into an XLSX workbook
func (x *XLSXFormatter) Format(project *model.Project) (*bytes.Buffer, error) {
	output := BuildOutput(project, x.config)
	pres := project.Presentation

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), estimateSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := 1
	titleStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetCellValue(estimateSheet, cell, output.Name); err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(estimateSheet, cell, cell, titleStyle)
	row += 2

	headers := x.headers(pres)
	if err := x.writeHeaders(f, headers, row); err != nil {
		return nil, fmt.Errorf("write headers: %w", err)
	}
	row++

	row, err := x.writeItems(f, output, pres, headers, row)
	if err != nil {
		return nil, fmt.Errorf("write items: %w", err)
	}
	row++

	if err := x.writeTotals(f, output, pres, row); err != nil {
		return nil, fmt.Errorf("write totals: %w", err)
	}

	if err := x.fitColumns(f, len(headers)); err != nil {
		return nil, fmt.Errorf("fit columns: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write buffer: %w", err)
	}

	return buf, nil
}

func (x *XLSXFormatter) headers(pres model.Presentation) []string {
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
	return append(headers, "Cost")
}

func (x *XLSXFormatter) writeHeaders(f *excelize.File, headers []string, row int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4472C4"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, row)
		if err := f.SetCellValue(estimateSheet, cell, header); err != nil {
			return err
		}
		if err := f.SetCellStyle(estimateSheet, cell, cell, style); err != nil {
			return err
		}
	}

	return nil
}

func (x *XLSXFormatter) writeItems(f *excelize.File, output *Output, pres model.Presentation, headers []string, row int) (int, error) {
	groupStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	for _, item := range output.Items {
		if item.IsContainer && !pres.ShowGroupStructure {
			continue
		}
		if !item.Billable && !item.IsContainer && !pres.ShowGroupStructure {
			continue
		}

		name := item.Name
		if pres.ShowGroupStructure && item.Depth > 0 {
			name = strings.Repeat("  ", item.Depth) + name
		}

		values := []interface{}{name}
		if pres.ShowQuantity {
			if item.IsContainer {
				values = append(values, "")
			} else {
				values = append(values, item.Quantity)
			}
		}
		if pres.ShowUnits {
			values = append(values, item.Unit)
		}
		if pres.ShowHours {
			if item.Hours > 0 {
				values = append(values, item.Hours)
			} else {
				values = append(values, "")
			}
		}
		if pres.ShowPricePerUnit {
			if !item.IsContainer && item.Quantity > 0 {
				values = append(values, item.Cost/float64(item.Quantity))
			} else {
				values = append(values, "")
			}
		}
		values = append(values, item.Cost)

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(estimateSheet, cell, value); err != nil {
				return row, err
			}
			if item.IsContainer {
				_ = f.SetCellStyle(estimateSheet, cell, cell, groupStyle)
			}
		}
		row++
	}

	return row, nil
}

func (x *XLSXFormatter) writeTotals(f *excelize.File, output *Output, pres model.Presentation, row int) error {
	boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	writeLine := func(label string, value float64, bold bool) error {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellValue(estimateSheet, labelCell, label); err != nil {
			return err
		}
		if err := f.SetCellValue(estimateSheet, valueCell, value); err != nil {
			return err
		}
		if bold {
			_ = f.SetCellStyle(estimateSheet, labelCell, valueCell, boldStyle)
		}
		row++
		return nil
	}

	t := output.Totals
	if err := writeLine("Base total", t.BaseTotal, false); err != nil {
		return err
	}
	if t.VolumeDiscountAmount > 0 {
		if err := writeLine("Volume discount", -t.VolumeDiscountAmount, false); err != nil {
			return err
		}
	}
	if t.Revisions > 0 {
		if err := writeLine("Revisions", t.Revisions, false); err != nil {
			return err
		}
	}
	if pres.ShowDiscountSeparately && t.DiscountAmount != 0 {
		if err := writeLine("Discount", t.DiscountAmount, false); err != nil {
			return err
		}
	}
	if t.AdjustmentsTotal != 0 {
		if err := writeLine("Adjustments", t.AdjustmentsTotal, false); err != nil {
			return err
		}
	}
	if pres.ShowTaxSeparately && t.TaxAmount > 0 {
		if err := writeLine("Tax", t.TaxAmount, false); err != nil {
			return err
		}
	}
	if err := writeLine(fmt.Sprintf("Total (%s)", output.Currency), t.GrandTotal, true); err != nil {
		return err
	}

	if pres.ShowConditions && pres.ConditionsText != "" {
		row++
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(estimateSheet, cell, pres.ConditionsText); err != nil {
			return err
		}
	}

	return nil
}

func (x *XLSXFormatter) fitColumns(f *excelize.File, numCols int) error {
	if err := f.SetColWidth(estimateSheet, "A", "A", 42); err != nil {
		return err
	}
	if numCols < 2 {
		return nil
	}
	last, _ := excelize.ColumnNumberToName(numCols)
	return f.SetColWidth(estimateSheet, "B", last, 14)
}
