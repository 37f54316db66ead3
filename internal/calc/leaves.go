package calc

import "github.com/mkuznecov/estima/internal/model"

// Leaves returns the billable lines of the tree: atomic items plus
// fixed_total containers. Descendants of a fixed_total container are
// excluded so they are never billed twice, and sum_children containers
// are skipped as purely visual grouping.
func Leaves(items []*model.EstimateItem) []*model.EstimateItem {
	fixedTotalIDs := make(map[model.ItemID]bool)
	byID := make(map[model.ItemID]*model.EstimateItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
		if item.IsContainer && item.ContainerMode == model.ContainerFixedTotal {
			fixedTotalIDs[item.ID] = true
		}
	}

	var leaves []*model.EstimateItem
	for _, item := range items {
		if item.ParentID != nil {
			if fixedTotalIDs[*item.ParentID] {
				continue
			}
			if parent := byID[*item.ParentID]; parent != nil && parent.ParentID != nil && fixedTotalIDs[*parent.ParentID] {
				continue
			}
		}

		if item.IsContainer {
			if item.ContainerMode == model.ContainerFixedTotal {
				leaves = append(leaves, item)
			}
			continue
		}

		leaves = append(leaves, item)
	}
	return leaves
}
