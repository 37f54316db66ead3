package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkuznecov/estima/internal/model"
)

func projectWithItems(names ...string) *model.Project {
	p := model.NewProject("Course")
	for _, name := range names {
		p.AddItem(model.NewItem(name, model.CategoryContent))
	}
	return p
}

func TestTakeIsolatesState(t *testing.T) {
	p := projectWithItems("Long-read article")
	p.Items[0].HoursPerUnit = 2.5
	p.SetCostOverride(p.Items[0].ID, 5000)

	snap := Take(p, "v1")
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "v1", snap.Label)
	assert.NotEmpty(t, snap.ID)

	// mutating the project must not change the snapshot
	p.Items[0].HoursPerUnit = 99
	p.CostOverrides[p.Items[0].ID] = 1
	assert.Equal(t, 2.5, snap.Items[0].HoursPerUnit)
	assert.Equal(t, 5000.0, snap.CostOverrides[snap.Items[0].ID])
}

func TestDiff(t *testing.T) {
	t.Run("added removed modified unchanged", func(t *testing.T) {
		p := projectWithItems("Kept", "Changed", "Dropped")
		older := Take(p, "before")

		p.RemoveItem(p.Items[2].ID)
		p.Items[1].Quantity = 7
		p.AddItem(model.NewItem("Fresh", model.CategoryService))
		newer := Take(p, "after")

		result := Diff(older, newer)
		assert.Equal(t, 1, result.Summary.Added)
		assert.Equal(t, 1, result.Summary.Removed)
		assert.Equal(t, 1, result.Summary.Modified)
		assert.Equal(t, 1, result.Summary.Unchanged)

		var modified *ItemDiff
		for i := range result.Items {
			if result.Items[i].Status == StatusModified {
				modified = &result.Items[i]
			}
		}
		require.NotNil(t, modified)
		assert.Equal(t, "Changed", modified.Name)
		require.Len(t, modified.Changes, 1)
		assert.Equal(t, "quantity", modified.Changes[0].Field)
		assert.Equal(t, "1", modified.Changes[0].OldValue)
		assert.Equal(t, "7", modified.Changes[0].NewValue)
	})

	t.Run("per-line fields are skipped for containers", func(t *testing.T) {
		p := model.NewProject("Course")
		group := model.NewContainer("Module 1", model.ContainerSumChildren)
		p.AddItem(group)
		older := Take(p, "before")

		group.RoleMultiplier = 0.5
		newer := Take(p, "after")

		result := Diff(older, newer)
		assert.Equal(t, 1, result.Summary.Unchanged)
		assert.Zero(t, result.Summary.Modified)
	})

	t.Run("settings changes are reported", func(t *testing.T) {
		p := projectWithItems("Item")
		older := Take(p, "before")

		p.Pricing.HourlyRate = 1200
		p.Pricing.RevisionPercent = 0.2
		p.Pricing.Discount = model.Discount{Type: model.DiscountPercent, PercentValue: -10}
		newer := Take(p, "after")

		result := Diff(older, newer)
		labels := make([]string, 0, len(result.Settings))
		for _, s := range result.Settings {
			labels = append(labels, s.Label)
		}
		assert.Contains(t, labels, "Hourly rate")
		assert.Contains(t, labels, "Revisions (%)")
		assert.Contains(t, labels, "Discount type")
		assert.Contains(t, labels, "Discount (%)")
	})

	t.Run("identical snapshots produce no changes", func(t *testing.T) {
		p := projectWithItems("Item")
		older := Take(p, "a")
		newer := Take(p, "b")

		result := Diff(older, newer)
		assert.Zero(t, result.Summary.Added)
		assert.Zero(t, result.Summary.Removed)
		assert.Zero(t, result.Summary.Modified)
		assert.Equal(t, 1, result.Summary.Unchanged)
		assert.Empty(t, result.Settings)
	})
}
