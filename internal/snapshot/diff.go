package snapshot

import (
	"fmt"
	"math"

	"github.com/mkuznecov/estima/internal/model"
)

// DiffStatus classifies an item between two snapshots
type DiffStatus string

const (
	StatusAdded     DiffStatus = "added"
	StatusRemoved   DiffStatus = "removed"
	StatusModified  DiffStatus = "modified"
	StatusUnchanged DiffStatus = "unchanged"
)

// FieldChange records one changed field on an item
type FieldChange struct {
	Field    string
	Label    string
	OldValue string
	NewValue string
}

// ItemDiff is the per-item comparison result
type ItemDiff struct {
	Status  DiffStatus
	Name    string
	Item    *model.EstimateItem
	OldItem *model.EstimateItem
	Changes []FieldChange
}

// SettingsDiff records one changed pricing or context setting
type SettingsDiff struct {
	Label    string
	OldValue string
	NewValue string
}

// Summary counts items per diff status
type Summary struct {
	Added     int
	Removed   int
	Modified  int
	Unchanged int
}

// DiffResult is the full comparison of two snapshots
type DiffResult struct {
	Items    []ItemDiff
	Settings []SettingsDiff
	Summary  Summary
}

// Diff compares two snapshots, older against newer. Items are matched by
// id; items present only in newer are added, only in older are removed.
func Diff(older, newer model.Snapshot) DiffResult {
	olderByID := make(map[model.ItemID]*model.EstimateItem, len(older.Items))
	for _, item := range older.Items {
		olderByID[item.ID] = item
	}
	newerIDs := make(map[model.ItemID]bool, len(newer.Items))

	var result DiffResult
	for _, newItem := range newer.Items {
		newerIDs[newItem.ID] = true
		oldItem := olderByID[newItem.ID]
		switch {
		case oldItem == nil:
			result.Items = append(result.Items, ItemDiff{Status: StatusAdded, Name: newItem.Name, Item: newItem})
			result.Summary.Added++
		default:
			changes := diffItemFields(oldItem, newItem)
			if len(changes) > 0 {
				result.Items = append(result.Items, ItemDiff{Status: StatusModified, Name: newItem.Name, Item: newItem, OldItem: oldItem, Changes: changes})
				result.Summary.Modified++
			} else {
				result.Items = append(result.Items, ItemDiff{Status: StatusUnchanged, Name: newItem.Name, Item: newItem})
				result.Summary.Unchanged++
			}
		}
	}

	for _, oldItem := range older.Items {
		if !newerIDs[oldItem.ID] {
			result.Items = append(result.Items, ItemDiff{Status: StatusRemoved, Name: oldItem.Name, OldItem: oldItem})
			result.Summary.Removed++
		}
	}

	result.Settings = diffSettings(older, newer)

	return result
}

func diffItemFields(oldItem, newItem *model.EstimateItem) []FieldChange {
	var changes []FieldChange
	check := func(field, label, oldVal, newVal string) {
		if oldVal != newVal {
			changes = append(changes, FieldChange{Field: field, Label: label, OldValue: oldVal, NewValue: newVal})
		}
	}

	check("name", "Name", oldItem.Name, newItem.Name)
	check("quantity", "Quantity", formatInt(oldItem.Quantity), formatInt(newItem.Quantity))
	check("hoursPerUnit", "Hours/unit", formatNumber(oldItem.HoursPerUnit), formatNumber(newItem.HoursPerUnit))
	check("unit", "Unit", oldItem.Unit, newItem.Unit)
	check("category", "Category", string(oldItem.Category), string(newItem.Category))

	if !oldItem.IsContainer && !newItem.IsContainer {
		check("roleMultiplier", "Role multiplier", formatNumber(oldItem.RoleMultiplier), formatNumber(newItem.RoleMultiplier))
		check("qualityLevel", "Quality level", formatNumber(oldItem.QualityLevel), formatNumber(newItem.QualityLevel))
		check("pricingModel", "Pricing model", string(oldItem.PricingModel), string(newItem.PricingModel))
		check("fixedPrice", "Fixed price", formatOptNumber(oldItem.FixedPrice), formatOptNumber(newItem.FixedPrice))
		check("confidence", "Confidence", formatOptInt(oldItem.Confidence), formatOptInt(newItem.Confidence))
	}

	return changes
}

func diffSettings(older, newer model.Snapshot) []SettingsDiff {
	var diffs []SettingsDiff
	check := func(label, oldVal, newVal string) {
		if oldVal != newVal {
			diffs = append(diffs, SettingsDiff{Label: label, OldValue: oldVal, NewValue: newVal})
		}
	}

	check("Hourly rate", formatNumber(older.Pricing.HourlyRate), formatNumber(newer.Pricing.HourlyRate))
	check("Revisions (%)", formatInt(int(math.Round(older.Pricing.RevisionPercent*100))), formatInt(int(math.Round(newer.Pricing.RevisionPercent*100))))
	check("Tax (%)", formatNumber(older.Pricing.Tax.Rate), formatNumber(newer.Pricing.Tax.Rate))
	check("Context multiplier", formatNumber(older.Context.ContextMultiplier), formatNumber(newer.Context.ContextMultiplier))
	check("Discount type", string(older.Pricing.Discount.Type), string(newer.Pricing.Discount.Type))
	check("Discount (%)", formatNumber(older.Pricing.Discount.PercentValue), formatNumber(newer.Pricing.Discount.PercentValue))

	return diffs
}

func formatInt(v int) string { return fmt.Sprintf("%d", v) }

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func formatOptNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatNumber(*v)
}

func formatOptInt(v *int) string {
	if v == nil {
		return "-"
	}
	return formatInt(*v)
}
