// Package snapshot freezes project states and compares them field by field.
package snapshot

import (
	"time"

	"github.com/google/uuid"

	"github.com/mkuznecov/estima/internal/model"
)

// Take freezes the current billable state of the project under a label.
// Items are deep-copied so later edits never leak into the snapshot.
func Take(p *model.Project, label string) model.Snapshot {
	items := make([]*model.EstimateItem, 0, len(p.Items))
	for _, item := range p.Items {
		copied := *item
		if item.ParentID != nil {
			pid := *item.ParentID
			copied.ParentID = &pid
		}
		if item.FixedPrice != nil {
			v := *item.FixedPrice
			copied.FixedPrice = &v
		}
		if item.ContainerFixedTotal != nil {
			v := *item.ContainerFixedTotal
			copied.ContainerFixedTotal = &v
		}
		if item.EffortRange != nil {
			r := *item.EffortRange
			if r.Min != nil {
				v := *r.Min
				r.Min = &v
			}
			if r.Expected != nil {
				v := *r.Expected
				r.Expected = &v
			}
			if r.Max != nil {
				v := *r.Max
				r.Max = &v
			}
			copied.EffortRange = &r
		}
		if item.Confidence != nil {
			v := *item.Confidence
			copied.Confidence = &v
		}
		items = append(items, &copied)
	}

	overrides := make(model.CostOverrides, len(p.CostOverrides))
	for id, cost := range p.CostOverrides {
		overrides[id] = cost
	}

	return model.Snapshot{
		ID:            uuid.New().String()[:8],
		Label:         label,
		TakenAt:       time.Now(),
		Context:       p.Context,
		Items:         items,
		Pricing:       p.Pricing,
		CostOverrides: overrides,
	}
}
