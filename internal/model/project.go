package model

import (
	"sort"
	"time"
)

// ProjectID is a unique identifier for an estimate project
type ProjectID string

// Presentation holds the display toggles used by exporters. None of these
// flags change any computed figure.
type Presentation struct {
	ShowHours              bool   `yaml:"showHours"`
	ShowPricePerUnit       bool   `yaml:"showPricePerUnit"`
	ShowQuantity           bool   `yaml:"showQuantity"`
	ShowUnits              bool   `yaml:"showUnits"`
	ShowGroupStructure     bool   `yaml:"showGroupStructure"`
	ShowTaxSeparately      bool   `yaml:"showTaxSeparately"`
	ShowDiscountSeparately bool   `yaml:"showDiscountSeparately"`
	ShowConditions         bool   `yaml:"showConditions"`
	ConditionsText         string `yaml:"conditionsText,omitempty"`
	ShowSignature          bool   `yaml:"showSignature"`
	SignatureName          string `yaml:"signatureName,omitempty"`
	SignatureContact       string `yaml:"signatureContact,omitempty"`
}

// DefaultPresentation returns the starting presentation settings
func DefaultPresentation() Presentation {
	return Presentation{
		ShowQuantity:   true,
		ShowConditions: true,
		ConditionsText: "Payment on completion of each stage. Quote valid for 30 days.",
	}
}

// Snapshot is a frozen copy of the billable project state, kept inside the
// project file for later comparison.
type Snapshot struct {
	ID            string          `yaml:"id"`
	Label         string          `yaml:"label"`
	TakenAt       time.Time       `yaml:"takenAt"`
	Context       ProjectContext  `yaml:"context"`
	Items         []*EstimateItem `yaml:"items"`
	Pricing       Pricing         `yaml:"pricing"`
	CostOverrides CostOverrides   `yaml:"costOverrides,omitempty"`
}

// Project is the full state of one estimate
type Project struct {
	ID          ProjectID `yaml:"id"`
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	CreatedAt   time.Time `yaml:"createdAt"`
	UpdatedAt   time.Time `yaml:"updatedAt"`

	Context       ProjectContext  `yaml:"context"`
	Items         []*EstimateItem `yaml:"items"`
	Pricing       Pricing         `yaml:"pricing"`
	CostOverrides CostOverrides   `yaml:"costOverrides,omitempty"`
	Presentation  Presentation    `yaml:"presentation"`
	Snapshots     []Snapshot      `yaml:"snapshots,omitempty"`
}

// NewProject creates a new empty project with the given name
func NewProject(name string) *Project {
	now := time.Now()
	return &Project{
		ID:            ProjectID(generateID()),
		Name:          name,
		CreatedAt:     now,
		UpdatedAt:     now,
		Context:       DefaultContext(),
		Items:         []*EstimateItem{},
		Pricing:       DefaultPricing(),
		CostOverrides: CostOverrides{},
		Presentation:  DefaultPresentation(),
	}
}

// ItemByID returns the item with the given id, or nil
func (p *Project) ItemByID(id ItemID) *EstimateItem {
	for _, item := range p.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// ChildrenOf returns the direct children of the given item, ordered by
// SortOrder
func (p *Project) ChildrenOf(id ItemID) []*EstimateItem {
	var children []*EstimateItem
	for _, item := range p.Items {
		if item.ParentID != nil && *item.ParentID == id {
			children = append(children, item)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].SortOrder < children[j].SortOrder
	})
	return children
}

// RootItems returns the top-level items ordered by SortOrder
func (p *Project) RootItems() []*EstimateItem {
	var roots []*EstimateItem
	for _, item := range p.Items {
		if item.ParentID == nil {
			roots = append(roots, item)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].SortOrder < roots[j].SortOrder
	})
	return roots
}

// OrderedItems returns every item in depth-first display order
func (p *Project) OrderedItems() []*EstimateItem {
	var out []*EstimateItem
	var walk func(items []*EstimateItem)
	walk = func(items []*EstimateItem) {
		for _, item := range items {
			out = append(out, item)
			walk(p.ChildrenOf(item.ID))
		}
	}
	walk(p.RootItems())
	return out
}

// AddItem appends an item, placing it after its current siblings
func (p *Project) AddItem(item *EstimateItem) {
	item.SortOrder = p.nextSortOrder(item.ParentID)
	p.Items = append(p.Items, item)
	p.UpdatedAt = time.Now()
}

// RemoveItem removes an item and all of its descendants
func (p *Project) RemoveItem(id ItemID) {
	doomed := map[ItemID]bool{id: true}
	// Items is a forest, so repeated sweeps terminate
	for changed := true; changed; {
		changed = false
		for _, item := range p.Items {
			if item.ParentID != nil && doomed[*item.ParentID] && !doomed[item.ID] {
				doomed[item.ID] = true
				changed = true
			}
		}
	}

	kept := p.Items[:0]
	for _, item := range p.Items {
		if !doomed[item.ID] {
			kept = append(kept, item)
		}
	}
	p.Items = kept
	for doomedID := range doomed {
		delete(p.CostOverrides, doomedID)
	}
	p.UpdatedAt = time.Now()
}

// MoveItem shifts an item among its siblings by the given offset.
// Returns false when the item does not exist or the move falls outside
// the sibling range.
func (p *Project) MoveItem(id ItemID, offset int) bool {
	item := p.ItemByID(id)
	if item == nil {
		return false
	}

	var siblings []*EstimateItem
	if item.ParentID != nil {
		siblings = p.ChildrenOf(*item.ParentID)
	} else {
		siblings = p.RootItems()
	}

	idx := -1
	for i, s := range siblings {
		if s.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	target := idx + offset
	if target < 0 || target >= len(siblings) {
		return false
	}

	siblings[idx], siblings[target] = siblings[target], siblings[idx]
	for i, s := range siblings {
		s.SortOrder = i
	}
	p.UpdatedAt = time.Now()
	return true
}

// SetCostOverride pins an item's billed cost and flags the item
func (p *Project) SetCostOverride(id ItemID, cost float64) {
	item := p.ItemByID(id)
	if item == nil {
		return
	}
	if p.CostOverrides == nil {
		p.CostOverrides = CostOverrides{}
	}
	item.Overrides.Cost = true
	p.CostOverrides[id] = cost
	p.UpdatedAt = time.Now()
}

// ClearCostOverride removes an item's pinned cost
func (p *Project) ClearCostOverride(id ItemID) {
	item := p.ItemByID(id)
	if item == nil {
		return
	}
	item.Overrides.Cost = false
	delete(p.CostOverrides, id)
	p.UpdatedAt = time.Now()
}

// Touch bumps the modification timestamp
func (p *Project) Touch() {
	p.UpdatedAt = time.Now()
}

// Validate validates every item in the project
func (p *Project) Validate() []string {
	var errors []string
	for _, item := range p.Items {
		for _, err := range item.Validate() {
			errors = append(errors, "item "+string(item.ID)+": "+err)
		}
	}
	return errors
}

func (p *Project) nextSortOrder(parentID *ItemID) int {
	max := -1
	for _, item := range p.Items {
		if !sameParent(item.ParentID, parentID) {
			continue
		}
		if item.SortOrder > max {
			max = item.SortOrder
		}
	}
	return max + 1
}

func sameParent(a, b *ItemID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
