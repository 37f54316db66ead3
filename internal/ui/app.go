package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/mkuznecov/estima/internal/calc"
	"github.com/mkuznecov/estima/internal/model"
	"github.com/mkuznecov/estima/internal/store"
)

// App represents the main tview application
type App struct {
	app      *tview.Application
	store    store.Store
	config   *model.Config
	project  *model.Project
	filePath string

	// UI Components
	pages      *tview.Pages
	layout     *tview.Flex
	header     *tview.TextView
	itemTable  *ItemTable
	preview    *tview.TextView
	footer     *tview.TextView
	commandBar *tview.InputField

	// State
	hasUnsavedChanges bool
	commandMode       bool
	modalVisible      bool
}

// NewApp creates a new App instance
func NewApp(s store.Store, config *model.Config, project *model.Project, filePath string) *App {
	a := &App{
		app:      tview.NewApplication(),
		store:    s,
		config:   config,
		project:  project,
		filePath: filePath,
	}

	a.setupUI()

	return a
}

// setupUI creates and configures all UI components
func (a *App) setupUI() {
	// Header
	a.header = tview.NewTextView()
	a.header.SetDynamicColors(true)
	a.header.SetTextAlign(tview.AlignCenter)
	a.updateHeader()

	// Item table
	a.itemTable = NewItemTable(a.project, a.config)
	a.itemTable.OnItemChanged = a.onItemChanged
	a.itemTable.OnItemAdded = a.onItemAdded
	a.itemTable.OnItemRemoved = a.onItemRemoved

	// Preview
	a.preview = tview.NewTextView()
	a.preview.SetDynamicColors(true)
	a.preview.SetBorder(true)
	a.preview.SetTitle(" Totals ")
	a.updatePreview()

	// Command bar (hidden by default)
	a.commandBar = tview.NewInputField()
	a.commandBar.SetLabel(":")
	a.commandBar.SetFieldWidth(40)
	a.commandBar.SetDoneFunc(a.handleCommand)

	// Footer
	a.footer = tview.NewTextView()
	a.footer.SetDynamicColors(true)
	a.updateFooter()

	// Main content (two columns)
	mainContent := tview.NewFlex().SetDirection(tview.FlexColumn)
	mainContent.AddItem(a.itemTable, 0, 3, true) // Left: item tree (3/4 width)
	mainContent.AddItem(a.preview, 0, 1, false)  // Right: totals preview (1/4 width)

	// Layout
	a.layout = tview.NewFlex().SetDirection(tview.FlexRow)
	a.layout.AddItem(a.header, 3, 0, false)
	a.layout.AddItem(mainContent, 0, 1, true)
	a.layout.AddItem(a.footer, 1, 0, false)

	// Pages for modal dialogs
	a.pages = tview.NewPages()
	a.pages.AddPage("main", a.layout, true, true)
}

// updateFooter updates the footer text
func (a *App) updateFooter() {
	a.footer.SetText("[yellow]:w[white] Save  [yellow]:q[white] Quit  [yellow]:q![white] Force Quit  [yellow]a[white] Add Item  [yellow]g[white] Add Group  [yellow]e[white] Edit  [yellow]d[white] Delete  [yellow]?[white] Help")
}

// Run starts the application
func (a *App) Run() error {
	// Set up input capture on the pages (not layout)
	a.pages.SetInputCapture(a.handleInput)

	// Prevent Ctrl+C from quitting the app
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			// Ignore Ctrl+C, user must use :q or :q! to quit
			return nil
		}
		return event
	})

	a.app.SetRoot(a.pages, true)
	a.app.SetFocus(a.itemTable)
	return a.app.Run()
}

// handleInput handles global key input
func (a *App) handleInput(event *tcell.EventKey) *tcell.EventKey {
	// If modal is visible, pass all keys to modal
	if a.modalVisible {
		return event
	}

	// If in command mode, pass all keys to command bar
	if a.commandMode {
		return event
	}

	switch event.Key() {
	case tcell.KeyRune:
		switch event.Rune() {
		case ':':
			// Start command mode
			a.startCommandMode()
			return nil
		case '?':
			a.showHelp()
			return nil
		case 'a':
			a.addNewItem()
			return nil
		case 'g':
			a.addNewGroup()
			return nil
		case 'e', 'i':
			a.editSelectedItem()
			return nil
		case 'd':
			a.deleteSelectedItem()
			return nil
		case 'J':
			a.moveItemDown()
			return nil
		case 'K':
			a.moveItemUp()
			return nil
		}
	}

	// Pass through to item table for navigation
	return event
}

// startCommandMode enters command mode
func (a *App) startCommandMode() {
	a.commandMode = true
	a.commandBar.SetText("")

	// Replace footer with command bar
	a.layout.RemoveItem(a.footer)
	a.layout.AddItem(a.commandBar, 1, 0, true)
	a.app.SetFocus(a.commandBar)
}

// exitCommandMode exits command mode
func (a *App) exitCommandMode() {
	a.commandMode = false
	a.commandBar.SetText("")

	// Restore footer
	a.layout.RemoveItem(a.commandBar)
	a.layout.AddItem(a.footer, 1, 0, false)
	a.app.SetFocus(a.itemTable)
}

// handleCommand processes the command entered in command mode
func (a *App) handleCommand(key tcell.Key) {
	if key != tcell.KeyEnter {
		a.exitCommandMode()
		return
	}

	command := strings.TrimSpace(a.commandBar.GetText())

	switch command {
	case "w":
		a.save()
		a.exitCommandMode()
	case "q":
		if a.hasUnsavedChanges {
			// Show error in command bar, don't exit
			a.commandBar.SetText("[red]Error: Unsaved changes. Use :q! to force quit.[white]")
			a.commandBar.SetLabel(":")
		} else {
			a.app.Stop()
		}
	case "q!":
		a.app.Stop()
	case "wq", "x":
		if err := a.store.SaveProject(a.filePath, a.project); err == nil {
			a.app.Stop()
		} else {
			a.commandBar.SetText(fmt.Sprintf("[red]Error: Failed to save: %v[white]", err))
			a.commandBar.SetLabel(":")
		}
	default:
		a.exitCommandMode()
	}
}

// deleteSelectedItem deletes the currently selected item
func (a *App) deleteSelectedItem() {
	row, _ := a.itemTable.GetSelection()
	if row < 1 || row > a.itemTable.GetItemCount() {
		return
	}

	item := a.itemTable.GetSelectedItem()
	if item == nil {
		return
	}

	// Delete directly without confirmation
	a.project.RemoveItem(item.ID)
	a.itemTable.Refresh()
	a.hasUnsavedChanges = true
	a.updateHeader()
	a.updatePreview()
}

// moveItemUp moves the selected item up among its siblings
func (a *App) moveItemUp() {
	row, _ := a.itemTable.GetSelection()
	if row < 2 {
		return
	}

	item := a.itemTable.GetSelectedItem()
	if item == nil {
		return
	}

	if !a.project.MoveItem(item.ID, -1) {
		return
	}
	a.itemTable.Refresh()
	a.hasUnsavedChanges = true
	a.updateHeader()
	a.updatePreview()
	a.itemTable.Select(row-1, 0)
}

// moveItemDown moves the selected item down among its siblings
func (a *App) moveItemDown() {
	row, _ := a.itemTable.GetSelection()
	if row >= a.itemTable.GetItemCount() {
		return
	}

	item := a.itemTable.GetSelectedItem()
	if item == nil {
		return
	}

	if !a.project.MoveItem(item.ID, 1) {
		return
	}
	a.itemTable.Refresh()
	a.hasUnsavedChanges = true
	a.updateHeader()
	a.updatePreview()
	a.itemTable.Select(row+1, 0)
}

// updateHeader updates the header text
func (a *App) updateHeader() {
	title := a.project.Name
	if title == "" {
		title = "Untitled Project"
	}

	saved := ""
	if a.hasUnsavedChanges {
		saved = " [red](unsaved changes)[white]"
	}

	a.header.SetTitle(fmt.Sprintf(" Estima - %s%s ", title, saved))
	a.header.SetBorder(true)
}

// updatePreview updates the totals preview
func (a *App) updatePreview() {
	var sb strings.Builder

	totals := calc.ProjectGrandTotal(a.project)
	multiplier := calc.ContextMultiplier(a.project.Context)
	currency := a.config.Currency

	sb.WriteString(fmt.Sprintf("[yellow]Items:[white] %d\n", len(a.project.Items)))
	sb.WriteString(fmt.Sprintf("[yellow]Hours:[white] %.1f\n", totals.TotalHours))
	sb.WriteString(fmt.Sprintf("[yellow]Multiplier:[white] ×%.2f\n", multiplier))
	if warning := calc.CheckContextMultiplier(multiplier); warning != nil {
		color := "yellow"
		if warning.Level == calc.WarningRed {
			color = "red"
		}
		sb.WriteString(fmt.Sprintf("[%s]%s[white]\n", color, warning.Message))
	}

	sb.WriteString("\n[yellow]Pricing:[white]\n")
	sb.WriteString(fmt.Sprintf("  Base:     %.2f %s\n", totals.BaseTotal, currency))
	if totals.VolumeDiscountAmount > 0 {
		sb.WriteString(fmt.Sprintf("  Volume:   -%.2f %s\n", totals.VolumeDiscountAmount, currency))
	}
	if totals.Revisions > 0 {
		sb.WriteString(fmt.Sprintf("  Revisions: %.2f %s\n", totals.Revisions, currency))
	}
	sb.WriteString(fmt.Sprintf("  Subtotal: %.2f %s\n", totals.Subtotal, currency))
	if totals.DiscountAmount != 0 {
		sb.WriteString(fmt.Sprintf("  Discount: %.2f %s\n", totals.DiscountAmount, currency))
	}
	if totals.AdjustmentsTotal != 0 {
		sb.WriteString(fmt.Sprintf("  Adjust:   %.2f %s\n", totals.AdjustmentsTotal, currency))
	}
	if totals.TaxAmount > 0 {
		sb.WriteString(fmt.Sprintf("  Tax:      %.2f %s\n", totals.TaxAmount, currency))
	}
	sb.WriteString(fmt.Sprintf("\n[green]Total: %.2f %s[white]\n", totals.GrandTotal, currency))

	if r := totals.CostRange; r != nil {
		sb.WriteString(fmt.Sprintf("\n[yellow]Range:[white]\n  %.2f to %.2f %s\n  %.1f to %.1f h",
			r.MinCost, r.MaxCost, currency, r.MinHours, r.MaxHours))
	}

	a.preview.SetText(sb.String())
}

// onItemChanged is called when an item is modified
func (a *App) onItemChanged(item *model.EstimateItem) {
	// Item is already modified in place (it's a pointer into the project)
	a.hasUnsavedChanges = true
	a.updateHeader()
	a.updatePreview()
}

// onItemAdded is called when a new item is added
func (a *App) onItemAdded(item *model.EstimateItem) {
	// Item is already added by ItemTable.AddItem
	a.hasUnsavedChanges = true
	a.updateHeader()
	a.updatePreview()
}

// onItemRemoved is called when an item is removed
func (a *App) onItemRemoved(itemID model.ItemID) {
	a.hasUnsavedChanges = true
	a.updateHeader()
	a.updatePreview()
}

// save saves the project to file
func (a *App) save() {
	if err := a.store.SaveProject(a.filePath, a.project); err != nil {
		// Show error in command bar
		a.commandBar.SetText(fmt.Sprintf("[red]Error: Failed to save: %v[white]", err))
		return
	}
	a.hasUnsavedChanges = false
	a.updateHeader()
}

// editSelectedItem opens a modal to edit the selected item
func (a *App) editSelectedItem() {
	item := a.itemTable.GetSelectedItem()
	if item == nil {
		return
	}

	// Store current selection
	row, col := a.itemTable.GetSelection()

	// Create form
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(fmt.Sprintf(" Edit Item: %s ", item.Name))
	form.SetTitleAlign(tview.AlignCenter)

	name := item.Name
	notes := item.Notes
	category := item.Category

	categoryOptions := make([]string, 0, len(model.Categories))
	selectedCategoryIndex := 0
	for i, cat := range model.Categories {
		categoryOptions = append(categoryOptions, model.CategoryLabels[cat])
		if cat == item.Category {
			selectedCategoryIndex = i
		}
	}

	form.AddInputField("Name:", name, 40, nil, func(text string) {
		name = text
	})

	form.AddTextArea("Notes:", notes, 60, 3, 0, func(text string) {
		notes = text
	})

	form.AddDropDown("Category:", categoryOptions, selectedCategoryIndex, func(option string, index int) {
		category = model.Categories[index]
	})

	quantityField := tview.NewInputField().
		SetLabel("Quantity:").
		SetText(fmt.Sprintf("%d", item.Quantity)).
		SetFieldWidth(10)
	hoursField := tview.NewInputField().
		SetLabel("Hours/unit:").
		SetText(fmt.Sprintf("%.1f", item.HoursPerUnit)).
		SetFieldWidth(10)

	minText, maxText := "", ""
	if item.EffortRange != nil {
		if item.EffortRange.Min != nil {
			minText = fmt.Sprintf("%.1f", *item.EffortRange.Min)
		}
		if item.EffortRange.Max != nil {
			maxText = fmt.Sprintf("%.1f", *item.EffortRange.Max)
		}
	}
	minField := tview.NewInputField().
		SetLabel("Min hours:").
		SetText(minText).
		SetFieldWidth(10)
	maxField := tview.NewInputField().
		SetLabel("Max hours:").
		SetText(maxText).
		SetFieldWidth(10)

	form.AddFormItem(quantityField)
	if !item.IsContainer {
		form.AddFormItem(hoursField)
		form.AddFormItem(minField)
		form.AddFormItem(maxField)
	}

	// Helper function to close modal
	closeModal := func() {
		a.modalVisible = false
		a.pages.RemovePage("modal")
		a.app.SetFocus(a.itemTable)
		a.itemTable.Select(row, col)
	}

	// Helper function to save and close
	saveAndClose := func() {
		item.Name = name
		item.Notes = notes
		item.Category = category
		if qty := parseInt(quantityField.GetText()); qty >= 1 {
			item.Quantity = qty
		}
		if !item.IsContainer {
			item.HoursPerUnit = parseFloat(hoursField.GetText())
			min := strings.TrimSpace(minField.GetText())
			max := strings.TrimSpace(maxField.GetText())
			if min != "" || max != "" {
				if item.EffortRange == nil {
					item.EffortRange = &model.EffortRange{}
				}
				if min != "" {
					v := parseFloat(min)
					item.EffortRange.Min = &v
				}
				if max != "" {
					v := parseFloat(max)
					item.EffortRange.Max = &v
				}
			} else {
				item.EffortRange = nil
			}
		}
		a.project.Touch()

		a.itemTable.Refresh()
		a.hasUnsavedChanges = true
		a.updateHeader()
		a.updatePreview()
		closeModal()
	}

	// Add vim-style command handling for the form
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Handle Escape to cancel
		if event.Key() == tcell.KeyEscape {
			closeModal()
			return nil
		}
		return event
	})

	form.AddButton("Save (Enter)", saveAndClose)
	form.AddButton("Cancel (Esc)", closeModal)

	form.SetCancelFunc(closeModal)

	// Center the form using a flex container
	flex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, 24, 1, true).
			AddItem(nil, 0, 1, false), 80, 1, true).
		AddItem(nil, 0, 1, false)

	a.modalVisible = true
	a.pages.AddPage("modal", flex, true, true)
	a.app.SetFocus(form)
}

// addNewItem opens a dialog to add a new item
func (a *App) addNewItem() {
	// Create form
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(" Add New Item ")
	form.SetTitleAlign(tview.AlignCenter)

	var name string
	var unit string
	category := model.CategoryContent

	categoryOptions := make([]string, 0, len(model.Categories))
	for _, cat := range model.Categories {
		categoryOptions = append(categoryOptions, model.CategoryLabels[cat])
	}

	form.AddInputField("Name:", "", 40, nil, func(text string) {
		name = text
	})

	form.AddInputField("Unit:", "", 20, nil, func(text string) {
		unit = text
	})

	form.AddDropDown("Category:", categoryOptions, 0, func(option string, index int) {
		category = model.Categories[index]
	})

	quantityField := tview.NewInputField().
		SetLabel("Quantity:").
		SetText("1").
		SetFieldWidth(10)
	hoursField := tview.NewInputField().
		SetLabel("Hours/unit:").
		SetText("0").
		SetFieldWidth(10)

	form.AddFormItem(quantityField)
	form.AddFormItem(hoursField)

	// Helper function to close modal
	closeModal := func() {
		a.modalVisible = false
		a.pages.RemovePage("modal")
		a.app.SetFocus(a.itemTable)
	}

	// Helper function to add item and close
	addAndClose := func() {
		item := model.NewItem(name, category)
		item.Unit = unit
		if qty := parseInt(quantityField.GetText()); qty >= 1 {
			item.Quantity = qty
		}
		item.HoursPerUnit = parseFloat(hoursField.GetText())

		a.itemTable.AddItem(item)
		a.hasUnsavedChanges = true
		a.updateHeader()
		a.updatePreview()
		closeModal()
	}

	// Add vim-style command handling for the form
	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Handle Escape to cancel
		if event.Key() == tcell.KeyEscape {
			closeModal()
			return nil
		}
		return event
	})

	form.AddButton("Add (Enter)", addAndClose)
	form.AddButton("Cancel (Esc)", closeModal)

	form.SetCancelFunc(closeModal)

	// Center the form using a flex container
	flex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, 20, 1, true).
			AddItem(nil, 0, 1, false), 80, 1, true).
		AddItem(nil, 0, 1, false)

	a.modalVisible = true
	a.pages.AddPage("modal", flex, true, true)
	a.app.SetFocus(form)
}

// addNewGroup opens a dialog to add a new grouping container
func (a *App) addNewGroup() {
	form := tview.NewForm()
	form.SetBorder(true)
	form.SetTitle(" Add New Group ")
	form.SetTitleAlign(tview.AlignCenter)

	var name string
	fixedTotal := ""

	form.AddInputField("Name:", "", 40, nil, func(text string) {
		name = text
	})

	form.AddInputField("Fixed total (empty = sum children):", "", 15, nil, func(text string) {
		fixedTotal = text
	})

	closeModal := func() {
		a.modalVisible = false
		a.pages.RemovePage("modal")
		a.app.SetFocus(a.itemTable)
	}

	addAndClose := func() {
		mode := model.ContainerSumChildren
		if strings.TrimSpace(fixedTotal) != "" {
			mode = model.ContainerFixedTotal
		}
		group := model.NewContainer(name, mode)
		if mode == model.ContainerFixedTotal {
			v := parseFloat(fixedTotal)
			group.ContainerFixedTotal = &v
		}

		a.itemTable.AddItem(group)
		a.hasUnsavedChanges = true
		a.updateHeader()
		a.updatePreview()
		closeModal()
	}

	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			closeModal()
			return nil
		}
		return event
	})

	form.AddButton("Add (Enter)", addAndClose)
	form.AddButton("Cancel (Esc)", closeModal)

	form.SetCancelFunc(closeModal)

	flex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(form, 12, 1, true).
			AddItem(nil, 0, 1, false), 80, 1, true).
		AddItem(nil, 0, 1, false)

	a.modalVisible = true
	a.pages.AddPage("modal", flex, true, true)
	a.app.SetFocus(form)
}

// showHelp displays help information
func (a *App) showHelp() {
	// Use a TextView for better control over text alignment
	helpView := tview.NewTextView()
	helpView.SetDynamicColors(true)
	helpView.SetBorder(true)
	helpView.SetTitle(" Keyboard Shortcuts ")
	helpView.SetTitleAlign(tview.AlignCenter)
	helpView.SetTextAlign(tview.AlignLeft)

	// Build help text with consistent formatting
	helpText := `[yellow]Commands:[white]
  :w         Save project
  :q         Quit application
  :q!        Force quit (discard changes)
  :wq or :x  Save and quit

[yellow]Item Operations:[white]
  a          Add new item
  g          Add new group
  e or i     Edit selected item
  d          Delete selected item

[yellow]Navigation:[white]
  J          Move item down
  K          Move item up
  j/k/h/l    Navigate (vim-style)

[yellow]Other:[white]
  ?          Show this help

[gray]Press Escape or Enter to close[white]`

	helpView.SetText(helpText)

	// Handle key events to close
	helpView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape || event.Key() == tcell.KeyEnter {
			a.modalVisible = false
			a.pages.RemovePage("modal")
			a.app.SetFocus(a.itemTable)
			return nil
		}
		return event
	})

	// Center the help view using a flex container
	flex := tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(helpView, 20, 1, true).
			AddItem(nil, 0, 1, false), 50, 1, true).
		AddItem(nil, 0, 1, false)

	a.modalVisible = true
	a.pages.AddPage("modal", flex, true, true)
	a.app.SetFocus(helpView)
}

func parseFloat(s string) float64 {
	var f float64
	fmt.Sscanf(s, "%f", &f)
	return f
}

func parseInt(s string) int {
	var i int
	fmt.Sscanf(s, "%d", &i)
	return i
}
