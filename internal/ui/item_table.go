package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mkuznecov/estima/internal/calc"
	"github.com/mkuznecov/estima/internal/model"
)

// ItemTable is a tview table component for displaying the work-item tree
type ItemTable struct {
	*tview.Table

	project *model.Project
	config  *model.Config

	// Callbacks
	OnItemChanged func(item *model.EstimateItem)
	OnItemAdded   func(item *model.EstimateItem)
	OnItemRemoved func(itemID model.ItemID)

	// State
	items []*model.EstimateItem
}

// NewItemTable creates a new ItemTable
func NewItemTable(project *model.Project, config *model.Config) *ItemTable {
	t := &ItemTable{
		Table:   tview.NewTable(),
		project: project,
		config:  config,
		items:   project.OrderedItems(),
	}

	t.SetBorder(true)
	t.SetTitle(" Items ")
	t.SetSelectable(true, true)
	t.SetFixed(1, 0) // Fixed header row

	t.setupColumns()
	t.populate()
	t.setupKeyBindings()

	return t
}

// setupColumns sets up the table columns
func (t *ItemTable) setupColumns() {
	headers := []string{"Item", "Category", "Qty", "Hours/unit", "Hours", "Cost"}

	for i, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetExpansion(1)

		if i >= 2 {
			cell = cell.SetAlign(tview.AlignRight)
		}

		t.SetCell(0, i, cell)
	}
}

// populate fills the table with items
func (t *ItemTable) populate() {
	// Clear existing rows (keep header)
	for i := t.GetRowCount() - 1; i > 0; i-- {
		t.RemoveRow(i)
	}

	// Refresh items from the project
	t.items = t.project.OrderedItems()

	// Add items
	for i, item := range t.items {
		t.addItemRow(i+1, item)
	}
}

// addItemRow adds a row for an item
func (t *ItemTable) addItemRow(row int, item *model.EstimateItem) {
	multiplier := calc.ContextMultiplier(t.project.Context)
	indent := strings.Repeat("  ", t.itemDepth(item))

	if item.IsContainer {
		cost := calc.ContainerCost(item, t.project.Items, t.project.Pricing.HourlyRate, multiplier, t.project.CostOverrides)

		t.SetCell(row, 0, tview.NewTableCell(indent+item.Name).
			SetTextColor(tcell.ColorAqua).
			SetExpansion(2).
			SetReference(item.ID))
		t.SetCell(row, 1, tview.NewTableCell("group").
			SetTextColor(tcell.ColorAqua).
			SetReference(item.ID))
		for col := 2; col <= 4; col++ {
			t.SetCell(row, col, tview.NewTableCell("").
				SetSelectable(false).
				SetReference(item.ID))
		}
		t.SetCell(row, 5, tview.NewTableCell(fmt.Sprintf("%.2f", cost)).
			SetTextColor(tcell.ColorAqua).
			SetAlign(tview.AlignRight).
			SetSelectable(false).
			SetReference(item.ID))
		return
	}

	hours := calc.EffectiveHours(item) * float64(item.Quantity)
	cost := calc.ItemCost(item, t.project.Pricing.HourlyRate, multiplier, t.project.CostOverrides)

	// Item name
	t.SetCell(row, 0, tview.NewTableCell(indent+item.Name).
		SetTextColor(tcell.ColorWhite).
		SetExpansion(2).
		SetReference(item.ID))

	// Category
	t.SetCell(row, 1, tview.NewTableCell(model.CategoryLabels[item.Category]).
		SetTextColor(tcell.ColorWhite).
		SetReference(item.ID))

	// Quantity
	t.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", item.Quantity)).
		SetTextColor(tcell.ColorWhite).
		SetAlign(tview.AlignRight).
		SetReference(item.ID))

	// Hours per unit
	t.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%.1f", item.HoursPerUnit)).
		SetTextColor(tcell.ColorWhite).
		SetAlign(tview.AlignRight).
		SetReference(item.ID))

	// Total hours (calculated)
	t.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%.1f", hours)).
		SetTextColor(tcell.ColorGreen).
		SetAlign(tview.AlignRight).
		SetSelectable(false).
		SetReference(item.ID))

	// Cost (calculated)
	t.SetCell(row, 5, tview.NewTableCell(fmt.Sprintf("%.2f", cost)).
		SetTextColor(tcell.ColorGreen).
		SetAlign(tview.AlignRight).
		SetSelectable(false).
		SetReference(item.ID))
}

func (t *ItemTable) itemDepth(item *model.EstimateItem) int {
	depth := 0
	for id := item.ParentID; id != nil; {
		parent := t.project.ItemByID(*id)
		if parent == nil {
			break
		}
		depth++
		id = parent.ParentID
	}
	return depth
}

// setupKeyBindings sets up keyboard navigation
func (t *ItemTable) setupKeyBindings() {
	t.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyUp:
			row, col := t.GetSelection()
			if row > 1 {
				t.Select(row-1, col)
			}
			return nil
		case tcell.KeyDown:
			row, col := t.GetSelection()
			if row < t.GetRowCount()-1 {
				t.Select(row+1, col)
			}
			return nil
		case tcell.KeyLeft:
			row, col := t.GetSelection()
			if col > 0 {
				t.Select(row, col-1)
			}
			return nil
		case tcell.KeyRight:
			row, col := t.GetSelection()
			if col < 5 {
				t.Select(row, col+1)
			}
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'j':
				row, col := t.GetSelection()
				if row < t.GetRowCount()-1 {
					t.Select(row+1, col)
				}
				return nil
			case 'k':
				row, col := t.GetSelection()
				if row > 1 {
					t.Select(row-1, col)
				}
				return nil
			case 'h':
				row, col := t.GetSelection()
				if col > 0 {
					t.Select(row, col-1)
				}
				return nil
			case 'l':
				row, col := t.GetSelection()
				if col < 5 {
					t.Select(row, col+1)
				}
				return nil
			}
		}

		return event
	})
}

// AddItem adds a new item to the table
func (t *ItemTable) AddItem(item *model.EstimateItem) {
	t.project.AddItem(item)
	t.populate()

	// Notify listener
	if t.OnItemAdded != nil {
		t.OnItemAdded(item)
	}

	// Select the new item
	t.Select(len(t.items), 0)
}

// GetSelectedItem returns the currently selected item
func (t *ItemTable) GetSelectedItem() *model.EstimateItem {
	row, _ := t.GetSelection()
	if row < 1 || row > len(t.items) {
		return nil
	}
	return t.items[row-1]
}

// GetItemCount returns the number of items
func (t *ItemTable) GetItemCount() int {
	return len(t.items)
}

// Refresh refreshes the table display
func (t *ItemTable) Refresh() {
	t.populate()
}
