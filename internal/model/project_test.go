package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemAssignsSortOrder(t *testing.T) {
	p := NewProject("Course")

	a := NewItem("A", CategoryContent)
	b := NewItem("B", CategoryContent)
	p.AddItem(a)
	p.AddItem(b)

	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)

	group := NewContainer("Group", ContainerSumChildren)
	p.AddItem(group)

	child := NewItem("Child", CategoryContent)
	child.ParentID = &group.ID
	p.AddItem(child)

	// Siblings under a parent get their own ordering
	assert.Equal(t, 0, child.SortOrder)
}

func TestRemoveItemCascades(t *testing.T) {
	p := NewProject("Course")

	group := NewContainer("Module", ContainerSumChildren)
	p.AddItem(group)

	child := NewItem("Lesson", CategoryContent)
	child.ParentID = &group.ID
	p.AddItem(child)

	grandchild := NewItem("Quiz", CategoryAssessment)
	grandchild.ParentID = &child.ID
	p.AddItem(grandchild)

	other := NewItem("Research", CategoryService)
	p.AddItem(other)

	p.SetCostOverride(child.ID, 500)
	p.SetCostOverride(grandchild.ID, 200)
	p.SetCostOverride(other.ID, 900)

	p.RemoveItem(group.ID)

	assert.Nil(t, p.ItemByID(group.ID))
	assert.Nil(t, p.ItemByID(child.ID))
	assert.Nil(t, p.ItemByID(grandchild.ID))
	assert.NotNil(t, p.ItemByID(other.ID))
	assert.NotContains(t, p.CostOverrides, child.ID)
	assert.NotContains(t, p.CostOverrides, grandchild.ID)
	assert.Contains(t, p.CostOverrides, other.ID)
}

func TestMoveItemSwapsSiblings(t *testing.T) {
	p := NewProject("Course")

	a := NewItem("A", CategoryContent)
	b := NewItem("B", CategoryContent)
	c := NewItem("C", CategoryContent)
	p.AddItem(a)
	p.AddItem(b)
	p.AddItem(c)

	require.True(t, p.MoveItem(c.ID, -1))

	roots := p.RootItems()
	require.Len(t, roots, 3)
	assert.Equal(t, "A", roots[0].Name)
	assert.Equal(t, "C", roots[1].Name)
	assert.Equal(t, "B", roots[2].Name)

	// Moving past the edge is a no-op
	assert.False(t, p.MoveItem(a.ID, -1))
}

func TestMoveItemStaysWithinSiblings(t *testing.T) {
	p := NewProject("Course")

	group := NewContainer("Module", ContainerSumChildren)
	p.AddItem(group)

	child := NewItem("Lesson", CategoryContent)
	child.ParentID = &group.ID
	p.AddItem(child)

	root := NewItem("Research", CategoryService)
	p.AddItem(root)

	// The only child of a group has nowhere to go
	assert.False(t, p.MoveItem(child.ID, 1))
	assert.False(t, p.MoveItem(child.ID, -1))
}

func TestCostOverrides(t *testing.T) {
	p := NewProject("Course")

	item := NewItem("Lesson", CategoryContent)
	p.AddItem(item)

	p.SetCostOverride(item.ID, 1200)
	assert.True(t, item.Overrides.Cost)
	assert.Equal(t, 1200.0, p.CostOverrides[item.ID])

	p.ClearCostOverride(item.ID)
	assert.False(t, item.Overrides.Cost)
	assert.NotContains(t, p.CostOverrides, item.ID)
}

func TestOrderedItemsIsDepthFirst(t *testing.T) {
	p := NewProject("Course")

	group := NewContainer("Module", ContainerSumChildren)
	p.AddItem(group)

	child := NewItem("Lesson", CategoryContent)
	child.ParentID = &group.ID
	p.AddItem(child)

	tail := NewItem("Research", CategoryService)
	p.AddItem(tail)

	ordered := p.OrderedItems()
	require.Len(t, ordered, 3)
	assert.Equal(t, "Module", ordered[0].Name)
	assert.Equal(t, "Lesson", ordered[1].Name)
	assert.Equal(t, "Research", ordered[2].Name)
}

func TestItemValidate(t *testing.T) {
	item := NewItem("Lesson", CategoryContent)
	assert.Empty(t, item.Validate())

	item.Quantity = 0
	assert.Contains(t, item.Validate(), "quantity must be >= 1")

	item.Quantity = 1
	item.PricingModel = PricingFixedPrice
	assert.Contains(t, item.Validate(), "fixed-price items need a fixed price")

	price := 100.0
	item.FixedPrice = &price
	assert.Empty(t, item.Validate())

	min, max := 5.0, 2.0
	item.EffortRange = &EffortRange{Min: &min, Max: &max}
	assert.Contains(t, item.Validate(), "effort range min must be <= max")
}

func TestItemsFromSetLinksChildren(t *testing.T) {
	set := FindBuiltInSet("set-video-lesson")
	require.NotNil(t, set)

	items := ItemsFromSet(*set)
	require.Greater(t, len(items), 1)

	group := items[0]
	assert.True(t, group.IsContainer)
	assert.Equal(t, SourceLibrarySet, group.Source)

	for i, child := range items[1:] {
		require.NotNil(t, child.ParentID)
		assert.Equal(t, group.ID, *child.ParentID)
		assert.Equal(t, i, child.SortOrder)
	}
}

func TestConfigRoleMultiplierFallback(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 0.5, config.RoleMultiplier(RoleEditor))

	config.RoleMultipliers = map[RoleType]float64{RoleEditor: 0.8}
	assert.Equal(t, 0.8, config.RoleMultiplier(RoleEditor))
	assert.Equal(t, 1.0, config.RoleMultiplier(RoleCustom))
}
