package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/calc"
	"github.com/mkuznecov/estima/internal/model"
)

// itemCmd represents the item command
var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Item management commands",
	Long:  `Manage work items within an estimate project.`,
}

// itemAddCmd represents the item add command
var itemAddCmd = &cobra.Command{
	Use:   "add <file> <name>",
	Short: "Add a new item",
	Long:  `Add a new work item to an estimate project.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		name := args[1]

		s := getStore()

		project, created, err := s.LoadOrCreateProject(file, file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if created {
			fmt.Printf("Created new project file: %s\n", file)
		}

		category, _ := cmd.Flags().GetString("category")
		parent, _ := cmd.Flags().GetString("parent")
		quantity, _ := cmd.Flags().GetInt("quantity")
		unit, _ := cmd.Flags().GetString("unit")
		hours, _ := cmd.Flags().GetFloat64("hours")
		role, _ := cmd.Flags().GetString("role")
		fixedPrice, _ := cmd.Flags().GetFloat64("fixed-price")
		group, _ := cmd.Flags().GetBool("group")
		fixedTotal, _ := cmd.Flags().GetFloat64("fixed-total")

		var item *model.EstimateItem
		switch {
		case cmd.Flags().Changed("fixed-total"):
			item = model.NewContainer(name, model.ContainerFixedTotal)
			item.ContainerFixedTotal = &fixedTotal
		case group:
			item = model.NewContainer(name, model.ContainerSumChildren)
		default:
			item = model.NewItem(name, model.Category(category))
			item.Quantity = quantity
			item.Unit = unit
			item.HoursPerUnit = hours
			if cmd.Flags().Changed("role") {
				cfg, err := s.LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				item.Role = model.RoleType(role)
				item.RoleMultiplier = cfg.RoleMultiplier(item.Role)
			}
			if cmd.Flags().Changed("fixed-price") {
				item.PricingModel = model.PricingFixedPrice
				item.FixedPrice = &fixedPrice
			}
		}

		if parent != "" {
			parentID := model.ItemID(parent)
			parentItem := project.ItemByID(parentID)
			if parentItem == nil {
				return fmt.Errorf("parent item '%s' not found", parent)
			}
			if !parentItem.IsContainer {
				return fmt.Errorf("parent item '%s' is not a group", parent)
			}
			item.ParentID = &parentID
		}

		if errs := item.Validate(); len(errs) > 0 {
			return fmt.Errorf("invalid item: %s", strings.Join(errs, "; "))
		}

		project.AddItem(item)

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Item '%s' added with ID %s\n", name, item.ID)
		return nil
	},
}

// itemAddElementCmd represents the item add-element command
var itemAddElementCmd = &cobra.Command{
	Use:   "add-element <file> <element-id>",
	Short: "Add an item from the element library",
	Long:  `Add a work item based on a built-in library element. Run without arguments to list the available elements.`,
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			fmt.Println("Available elements:")
			for _, el := range model.BuiltInElements {
				fmt.Printf("  %-24s %s (%.1f h per %s)\n", el.ID, el.Name, el.HoursPerUnit, el.Unit)
			}
			return nil
		}

		file := args[0]
		elementID := args[1]

		el := model.FindBuiltInElement(elementID)
		if el == nil {
			return fmt.Errorf("library element '%s' not found", elementID)
		}

		s := getStore()

		project, created, err := s.LoadOrCreateProject(file, file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if created {
			fmt.Printf("Created new project file: %s\n", file)
		}

		item := model.NewItemFromElement(*el)
		if quantity, _ := cmd.Flags().GetInt("quantity"); cmd.Flags().Changed("quantity") {
			item.Quantity = quantity
		}

		project.AddItem(item)

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Item '%s' added with ID %s\n", item.Name, item.ID)
		return nil
	},
}

// itemAddSetCmd represents the item add-set command
var itemAddSetCmd = &cobra.Command{
	Use:   "add-set <file> <set-id>",
	Short: "Add a group of items from the set library",
	Long:  `Add a group with child items based on a built-in library set. Run without arguments to list the available sets.`,
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			fmt.Println("Available sets:")
			for _, set := range model.BuiltInSets {
				fmt.Printf("  %-20s %s (%d elements)\n", set.ID, set.Name, len(set.Elements))
			}
			return nil
		}

		file := args[0]
		setID := args[1]

		set := model.FindBuiltInSet(setID)
		if set == nil {
			return fmt.Errorf("library set '%s' not found", setID)
		}

		s := getStore()

		project, created, err := s.LoadOrCreateProject(file, file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if created {
			fmt.Printf("Created new project file: %s\n", file)
		}

		items := model.ItemsFromSet(*set)
		for _, item := range items {
			project.AddItem(item)
		}

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Added group '%s' with %d items\n", set.Name, len(items)-1)
		return nil
	},
}

// itemUpdateCmd represents the item update command
var itemUpdateCmd = &cobra.Command{
	Use:   "update <file> <item-id>",
	Short: "Update an item",
	Long:  `Update an existing work item in an estimate project.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		itemID := model.ItemID(args[1])

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		item := project.ItemByID(itemID)
		if item == nil {
			return fmt.Errorf("item with ID '%s' not found", itemID)
		}

		if name, _ := cmd.Flags().GetString("name"); cmd.Flags().Changed("name") {
			item.Name = name
		}
		if category, _ := cmd.Flags().GetString("category"); cmd.Flags().Changed("category") {
			item.Category = model.Category(category)
		}
		if quantity, _ := cmd.Flags().GetInt("quantity"); cmd.Flags().Changed("quantity") {
			item.Quantity = quantity
		}
		if unit, _ := cmd.Flags().GetString("unit"); cmd.Flags().Changed("unit") {
			item.Unit = unit
		}
		if hours, _ := cmd.Flags().GetFloat64("hours"); cmd.Flags().Changed("hours") {
			item.HoursPerUnit = hours
			item.Overrides.HoursPerUnit = item.EffortRange.Complete()
		}
		if role, _ := cmd.Flags().GetString("role"); cmd.Flags().Changed("role") {
			cfg, err := s.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			item.Role = model.RoleType(role)
			if !item.Overrides.RoleMultiplier {
				item.RoleMultiplier = cfg.RoleMultiplier(item.Role)
			}
		}
		if quality, _ := cmd.Flags().GetFloat64("quality"); cmd.Flags().Changed("quality") {
			item.QualityLevel = quality
		}
		if fixedPrice, _ := cmd.Flags().GetFloat64("fixed-price"); cmd.Flags().Changed("fixed-price") {
			item.PricingModel = model.PricingFixedPrice
			item.FixedPrice = &fixedPrice
		}
		if revisionable, _ := cmd.Flags().GetBool("revisionable"); cmd.Flags().Changed("revisionable") {
			item.Revisionable = revisionable
		}
		if notes, _ := cmd.Flags().GetString("notes"); cmd.Flags().Changed("notes") {
			item.Notes = notes
		}
		if clientName, _ := cmd.Flags().GetString("client-name"); cmd.Flags().Changed("client-name") {
			item.ClientName = clientName
		}
		if confidence, _ := cmd.Flags().GetInt("confidence"); cmd.Flags().Changed("confidence") {
			item.Confidence = &confidence
		}
		if fixedTotal, _ := cmd.Flags().GetFloat64("fixed-total"); cmd.Flags().Changed("fixed-total") {
			if !item.IsContainer {
				return fmt.Errorf("item '%s' is not a group", itemID)
			}
			item.ContainerMode = model.ContainerFixedTotal
			item.ContainerFixedTotal = &fixedTotal
		}

		minSet := cmd.Flags().Changed("min")
		expectedSet := cmd.Flags().Changed("expected")
		maxSet := cmd.Flags().Changed("max")
		if minSet || expectedSet || maxSet {
			if item.EffortRange == nil {
				item.EffortRange = &model.EffortRange{}
			}
			if minSet {
				v, _ := cmd.Flags().GetFloat64("min")
				item.EffortRange.Min = &v
			}
			if expectedSet {
				v, _ := cmd.Flags().GetFloat64("expected")
				item.EffortRange.Expected = &v
			}
			if maxSet {
				v, _ := cmd.Flags().GetFloat64("max")
				item.EffortRange.Max = &v
			}
			// A fresh range supersedes any manually pinned hours
			item.Overrides.HoursPerUnit = false
		}

		if errs := item.Validate(); len(errs) > 0 {
			return fmt.Errorf("invalid item: %s", strings.Join(errs, "; "))
		}

		project.Touch()
		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Item %s updated\n", itemID)
		return nil
	},
}

// itemRemoveCmd represents the item remove command
var itemRemoveCmd = &cobra.Command{
	Use:   "remove <file> <item-id>",
	Short: "Remove an item",
	Long:  `Remove an item and all of its children from an estimate project.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		itemID := model.ItemID(args[1])

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		if project.ItemByID(itemID) == nil {
			return fmt.Errorf("item with ID '%s' not found", itemID)
		}

		project.RemoveItem(itemID)

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Item %s removed\n", itemID)
		return nil
	},
}

// itemListCmd represents the item list command
var itemListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List items",
	Long:  `List all work items in an estimate project.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		cfg, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if len(project.Items) == 0 {
			fmt.Println("No items found.")
			return nil
		}

		multiplier := calc.ContextMultiplier(project.Context)

		fmt.Println("Items:")
		for _, item := range project.OrderedItems() {
			indent := ""
			for id := item.ParentID; id != nil; {
				indent += "  "
				parent := project.ItemByID(*id)
				if parent == nil {
					break
				}
				id = parent.ParentID
			}
			if item.IsContainer {
				cost := calc.ContainerCost(item, project.Items, project.Pricing.HourlyRate, multiplier, project.CostOverrides)
				fmt.Printf("  %s[%s] %s (group, %.2f %s)\n", indent, item.ID, item.Name, cost, cfg.Currency)
				continue
			}
			cost := calc.ItemCost(item, project.Pricing.HourlyRate, multiplier, project.CostOverrides)
			fmt.Printf("  %s[%s] %s (%s)\n", indent, item.ID, item.Name, model.CategoryLabels[item.Category])
			fmt.Printf("  %s    ×%d, %.1f h/unit => %.1f h, %.2f %s\n",
				indent, item.Quantity, item.HoursPerUnit, calc.EffectiveHours(item)*float64(item.Quantity), cost, cfg.Currency)
		}

		return nil
	},
}

// itemMoveCmd represents the item move command
var itemMoveCmd = &cobra.Command{
	Use:   "move <file> <item-id> <offset>",
	Short: "Move an item",
	Long:  `Move an item up or down among its siblings. Use negative offset to move up, positive to move down.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		itemID := model.ItemID(args[1])
		offset, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid offset: %w", err)
		}

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		if !project.MoveItem(itemID, offset) {
			return fmt.Errorf("failed to move item %s by %d positions", itemID, offset)
		}

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Item %s moved by %d positions\n", itemID, offset)
		return nil
	},
}

// itemPinCostCmd represents the item pin-cost command
var itemPinCostCmd = &cobra.Command{
	Use:   "pin-cost <file> <item-id> <cost>",
	Short: "Pin an item's cost",
	Long:  `Pin an item's billed cost to a fixed value, bypassing the cost formula.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		itemID := model.ItemID(args[1])
		cost, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid cost: %w", err)
		}

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		if project.ItemByID(itemID) == nil {
			return fmt.Errorf("item with ID '%s' not found", itemID)
		}

		project.SetCostOverride(itemID, cost)

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Item %s cost pinned to %.2f\n", itemID, cost)
		return nil
	},
}

// itemUnpinCostCmd represents the item unpin-cost command
var itemUnpinCostCmd = &cobra.Command{
	Use:   "unpin-cost <file> <item-id>",
	Short: "Unpin an item's cost",
	Long:  `Remove a pinned cost so the item's cost is computed again.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		itemID := model.ItemID(args[1])

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		if project.ItemByID(itemID) == nil {
			return fmt.Errorf("item with ID '%s' not found", itemID)
		}

		project.ClearCostOverride(itemID)

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Item %s cost unpinned\n", itemID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(itemCmd)
	itemCmd.AddCommand(itemAddCmd)
	itemCmd.AddCommand(itemAddElementCmd)
	itemCmd.AddCommand(itemAddSetCmd)
	itemCmd.AddCommand(itemUpdateCmd)
	itemCmd.AddCommand(itemRemoveCmd)
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemMoveCmd)
	itemCmd.AddCommand(itemPinCostCmd)
	itemCmd.AddCommand(itemUnpinCostCmd)

	// item add flags
	itemAddCmd.Flags().String("category", string(model.CategoryContent), "Item category (content, assessment, service, other)")
	itemAddCmd.Flags().StringP("parent", "p", "", "Parent group ID")
	itemAddCmd.Flags().IntP("quantity", "q", 1, "Quantity")
	itemAddCmd.Flags().StringP("unit", "u", "", "Unit label (e.g. lesson, page)")
	itemAddCmd.Flags().Float64("hours", 0, "Hours per unit")
	itemAddCmd.Flags().String("role", "", "Role (author, editor, reviewer, custom)")
	itemAddCmd.Flags().Float64("fixed-price", 0, "Fixed price per unit instead of time-based pricing")
	itemAddCmd.Flags().BoolP("group", "g", false, "Create a grouping container")
	itemAddCmd.Flags().Float64("fixed-total", 0, "Create a fixed-total group with this price")

	// item add-element flags
	itemAddElementCmd.Flags().IntP("quantity", "q", 1, "Quantity")

	// item update flags
	itemUpdateCmd.Flags().StringP("name", "n", "", "New item name")
	itemUpdateCmd.Flags().String("category", "", "New item category")
	itemUpdateCmd.Flags().IntP("quantity", "q", 0, "New quantity")
	itemUpdateCmd.Flags().StringP("unit", "u", "", "New unit label")
	itemUpdateCmd.Flags().Float64("hours", 0, "New hours per unit")
	itemUpdateCmd.Flags().String("role", "", "New role")
	itemUpdateCmd.Flags().Float64("quality", 0, "New quality level")
	itemUpdateCmd.Flags().Float64("fixed-price", 0, "New fixed price per unit")
	itemUpdateCmd.Flags().Bool("revisionable", true, "Whether revisions apply to this item")
	itemUpdateCmd.Flags().String("notes", "", "Internal notes")
	itemUpdateCmd.Flags().String("client-name", "", "Client-facing display name")
	itemUpdateCmd.Flags().Int("confidence", 0, "Confidence rating (1-5)")
	itemUpdateCmd.Flags().Float64("fixed-total", 0, "Turn a group into a fixed-total group with this price")
	itemUpdateCmd.Flags().Float64("min", 0, "Optimistic hours per unit")
	itemUpdateCmd.Flags().Float64("expected", 0, "Expected hours per unit")
	itemUpdateCmd.Flags().Float64("max", 0, "Pessimistic hours per unit")
}
