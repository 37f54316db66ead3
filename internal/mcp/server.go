package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mkuznecov/estima/internal/calc"
	"github.com/mkuznecov/estima/internal/model"
)

// Server represents the MCP server for estima operations
type Server struct {
	server *mcp.Server
	store  *ChrootedStore
	config *model.Config
}

// ServerOptions contains options for the MCP server
type ServerOptions struct {
	RootDir string
	Config  *model.Config
}

// NewServer creates a new MCP server for estima operations
func NewServer(opts *ServerOptions) (*Server, error) {
	rootDir := opts.RootDir
	if rootDir == "" {
		rootDir = "."
	}

	store, err := NewChrootedStore(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create chrooted store: %w", err)
	}

	// Use provided config or default
	config := opts.Config
	if config == nil {
		config = model.DefaultConfig()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "estima",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		server: server,
		store:  store,
		config: config,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// Run starts the MCP server on stdio transport
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Close closes the server and releases resources
func (s *Server) Close() error {
	return s.store.Close()
}

func (s *Server) registerTools() {
	// Project tools
	s.registerListProjectsTool()
	s.registerCreateProjectTool()
	s.registerGetProjectTool()
	s.registerDeleteProjectTool()
	s.registerGetProjectSummaryTool()

	// Item tools
	s.registerListItemsTool()
	s.registerAddItemTool()
	s.registerUpdateItemTool()
	s.registerRemoveItemTool()

	// Library tools
	s.registerListLibraryTool()
}

// list_projects tool
type listProjectsArgs struct {
	Dir string `json:"dir,omitempty" jsonschema:"the directory to list projects from, defaults to current directory"`
}

func (s *Server) registerListProjectsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List all estimate project files in a directory",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listProjectsArgs) (*mcp.CallToolResult, any, error) {
		dir := args.Dir
		if dir == "" {
			dir = "."
		}

		files, err := s.store.ListProjects(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to list projects: %w", err)
		}

		if len(files) == 0 {
			return textResult("No project files found."), nil, nil
		}

		result := "Project files:\n"
		for _, f := range files {
			result += fmt.Sprintf("- %s\n", f)
		}

		return textResult(result), nil, nil
	})
}

// create_project tool
type createProjectArgs struct {
	Path        string `json:"path" jsonschema:"required,the file path for the project"`
	Name        string `json:"name" jsonschema:"required,the project name"`
	Description string `json:"description,omitempty" jsonschema:"optional project description"`
}

func (s *Server) registerCreateProjectTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_project",
		Description: "Create a new estimate project file",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args createProjectArgs) (*mcp.CallToolResult, any, error) {
		project := model.NewProject(args.Name)
		project.Description = args.Description
		project.Pricing.HourlyRate = s.config.HourlyRate

		if err := s.store.SaveProject(args.Path, project); err != nil {
			return nil, nil, fmt.Errorf("failed to create project: %w", err)
		}

		return textResult(fmt.Sprintf("Created project '%s' at %s with ID %s", args.Name, args.Path, project.ID)), nil, nil
	})
}

// get_project tool
type getProjectArgs struct {
	Path string `json:"path" jsonschema:"required,the file path to the project"`
}

func (s *Server) registerGetProjectTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_project",
		Description: "Get details of an estimate project file",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getProjectArgs) (*mcp.CallToolResult, any, error) {
		project, err := s.store.LoadProject(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load project: %w", err)
		}

		result := fmt.Sprintf("Project: %s\n", project.Name)
		result += fmt.Sprintf("ID: %s\n", project.ID)
		if project.Description != "" {
			result += fmt.Sprintf("Description: %s\n", project.Description)
		}
		result += fmt.Sprintf("Items: %d\n", len(project.Items))
		result += fmt.Sprintf("Hourly rate: %.2f %s\n", project.Pricing.HourlyRate, s.config.Currency)
		result += fmt.Sprintf("Context multiplier: ×%.2f\n", calc.ContextMultiplier(project.Context))
		result += fmt.Sprintf("Created: %s\n", project.CreatedAt.Format("2006-01-02 15:04:05"))
		result += fmt.Sprintf("Updated: %s\n", project.UpdatedAt.Format("2006-01-02 15:04:05"))

		return textResult(result), nil, nil
	})
}

// delete_project tool
type deleteProjectArgs struct {
	Path string `json:"path" jsonschema:"required,the file path to the project to delete"`
}

func (s *Server) registerDeleteProjectTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_project",
		Description: "Delete an estimate project file",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args deleteProjectArgs) (*mcp.CallToolResult, any, error) {
		if err := s.store.DeleteProject(args.Path); err != nil {
			return nil, nil, fmt.Errorf("failed to delete project: %w", err)
		}

		return textResult(fmt.Sprintf("Deleted project at %s", args.Path)), nil, nil
	})
}

// get_project_summary tool
type getProjectSummaryArgs struct {
	Path string `json:"path" jsonschema:"required,the file path to the project"`
}

func (s *Server) registerGetProjectSummaryTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_project_summary",
		Description: "Get a summary of the estimate with the full pricing pipeline, from base cost through volume discounts, revisions, discount, adjustments and tax to the grand total",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getProjectSummaryArgs) (*mcp.CallToolResult, any, error) {
		project, err := s.store.LoadProject(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load project: %w", err)
		}

		totals := calc.ProjectGrandTotal(project)
		multiplier := calc.ContextMultiplier(project.Context)

		result := fmt.Sprintf("Project: %s\n", project.Name)
		result += fmt.Sprintf("Items: %d (%d billable)\n", len(project.Items), len(totals.LeafCosts))
		result += fmt.Sprintf("Context multiplier: ×%.2f\n", multiplier)
		if warning := calc.CheckContextMultiplier(multiplier); warning != nil {
			result += fmt.Sprintf("Warning (%s): %s\n", warning.Level, warning.Message)
		}
		result += fmt.Sprintf("Total hours: %.1f\n\n", totals.TotalHours)

		result += fmt.Sprintf("Base total: %.2f %s\n", totals.BaseTotal, s.config.Currency)
		if totals.VolumeDiscountAmount > 0 {
			result += fmt.Sprintf("Volume discounts: -%.2f %s\n", totals.VolumeDiscountAmount, s.config.Currency)
		}
		if totals.Revisions > 0 {
			result += fmt.Sprintf("Revisions: %.2f %s\n", totals.Revisions, s.config.Currency)
		}
		result += fmt.Sprintf("Subtotal: %.2f %s\n", totals.Subtotal, s.config.Currency)
		if totals.DiscountAmount != 0 {
			result += fmt.Sprintf("Discount: %.2f %s\n", totals.DiscountAmount, s.config.Currency)
		}
		if totals.AdjustmentsTotal != 0 {
			result += fmt.Sprintf("Adjustments: %.2f %s\n", totals.AdjustmentsTotal, s.config.Currency)
		}
		if totals.TaxAmount > 0 {
			result += fmt.Sprintf("Tax: %.2f %s\n", totals.TaxAmount, s.config.Currency)
		}
		result += fmt.Sprintf("Grand total: %.2f %s\n", totals.GrandTotal, s.config.Currency)

		if r := totals.CostRange; r != nil {
			result += fmt.Sprintf("\nRange: %.2f to %.2f %s (%.1f to %.1f h)\n",
				r.MinCost, r.MaxCost, s.config.Currency, r.MinHours, r.MaxHours)
		}
		if totals.AggregateConfidence != nil {
			result += fmt.Sprintf("Confidence: %.1f / 5\n", *totals.AggregateConfidence)
		}

		return textResult(result), nil, nil
	})
}

// list_items tool
type listItemsArgs struct {
	Path string `json:"path" jsonschema:"required,the file path to the project"`
}

func (s *Server) registerListItemsTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_items",
		Description: "List all work items in an estimate project",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listItemsArgs) (*mcp.CallToolResult, any, error) {
		project, err := s.store.LoadProject(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load project: %w", err)
		}

		if len(project.Items) == 0 {
			return textResult("No items found in this project."), nil, nil
		}

		multiplier := calc.ContextMultiplier(project.Context)

		result := "Items:\n"
		for _, item := range project.OrderedItems() {
			if item.IsContainer {
				cost := calc.ContainerCost(item, project.Items, project.Pricing.HourlyRate, multiplier, project.CostOverrides)
				result += fmt.Sprintf("  [%s] %s (group, %.2f %s)\n", item.ID, item.Name, cost, s.config.Currency)
				continue
			}
			cost := calc.ItemCost(item, project.Pricing.HourlyRate, multiplier, project.CostOverrides)
			result += fmt.Sprintf("  [%s] %s (%s)\n", item.ID, item.Name, model.CategoryLabels[item.Category])
			result += fmt.Sprintf("      ×%d, %.1f h/unit => %.2f %s\n",
				item.Quantity, item.HoursPerUnit, cost, s.config.Currency)
		}

		return textResult(result), nil, nil
	})
}

// add_item tool
type addItemArgs struct {
	Path         string  `json:"path" jsonschema:"required,the file path to the project"`
	Name         string  `json:"name" jsonschema:"required,the item name"`
	Category     string  `json:"category,omitempty" jsonschema:"optional category (content, assessment, service, other), defaults to content"`
	Quantity     int     `json:"quantity,omitempty" jsonschema:"optional quantity, defaults to 1"`
	Unit         string  `json:"unit,omitempty" jsonschema:"optional unit label, e.g. lesson or page"`
	HoursPerUnit float64 `json:"hoursPerUnit,omitempty" jsonschema:"optional hours per unit, defaults to 0"`
	ElementID    string  `json:"elementId,omitempty" jsonschema:"optional library element id to base the item on"`
	ParentID     string  `json:"parentId,omitempty" jsonschema:"optional parent group id"`
}

func (s *Server) registerAddItemTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_item",
		Description: "Add a new work item to an estimate project, either from scratch or based on a library element",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args addItemArgs) (*mcp.CallToolResult, any, error) {
		project, _, err := s.store.LoadOrCreateProject(args.Path, args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load project: %w", err)
		}

		var item *model.EstimateItem
		if args.ElementID != "" {
			el := model.FindBuiltInElement(args.ElementID)
			if el == nil {
				return nil, nil, fmt.Errorf("library element '%s' not found", args.ElementID)
			}
			item = model.NewItemFromElement(*el)
			if args.Name != "" {
				item.Name = args.Name
			}
		} else {
			category := model.Category(args.Category)
			if args.Category == "" {
				category = model.CategoryContent
			}
			item = model.NewItem(args.Name, category)
			item.Unit = args.Unit
			item.HoursPerUnit = args.HoursPerUnit
		}
		if args.Quantity > 0 {
			item.Quantity = args.Quantity
		}
		if args.ParentID != "" {
			parentID := model.ItemID(args.ParentID)
			if project.ItemByID(parentID) == nil {
				return nil, nil, fmt.Errorf("parent item '%s' not found", args.ParentID)
			}
			item.ParentID = &parentID
		}

		project.AddItem(item)

		if err := s.store.SaveProject(args.Path, project); err != nil {
			return nil, nil, fmt.Errorf("failed to save project: %w", err)
		}

		return textResult(fmt.Sprintf("Item '%s' added with ID %s", item.Name, item.ID)), nil, nil
	})
}

// update_item tool
type updateItemArgs struct {
	Path         string   `json:"path" jsonschema:"required,the file path to the project"`
	ItemID       string   `json:"itemId" jsonschema:"required,the item ID to update"`
	Name         string   `json:"name,omitempty" jsonschema:"optional new item name"`
	Category     string   `json:"category,omitempty" jsonschema:"optional new category"`
	Quantity     *int     `json:"quantity,omitempty" jsonschema:"optional new quantity"`
	HoursPerUnit *float64 `json:"hoursPerUnit,omitempty" jsonschema:"optional new hours per unit"`
	MinHours     *float64 `json:"minHours,omitempty" jsonschema:"optional optimistic hours per unit"`
	MaxHours     *float64 `json:"maxHours,omitempty" jsonschema:"optional pessimistic hours per unit"`
}

func (s *Server) registerUpdateItemTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_item",
		Description: "Update an existing work item. Setting minHours and maxHours gives the item a three-point effort range.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateItemArgs) (*mcp.CallToolResult, any, error) {
		project, err := s.store.LoadProject(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load project: %w", err)
		}

		item := project.ItemByID(model.ItemID(args.ItemID))
		if item == nil {
			return nil, nil, fmt.Errorf("item with ID '%s' not found", args.ItemID)
		}

		if args.Name != "" {
			item.Name = args.Name
		}
		if args.Category != "" {
			item.Category = model.Category(args.Category)
		}
		if args.Quantity != nil {
			item.Quantity = *args.Quantity
		}
		if args.HoursPerUnit != nil {
			item.HoursPerUnit = *args.HoursPerUnit
		}
		if args.MinHours != nil || args.MaxHours != nil {
			if item.EffortRange == nil {
				item.EffortRange = &model.EffortRange{}
			}
			if args.MinHours != nil {
				item.EffortRange.Min = args.MinHours
			}
			if args.MaxHours != nil {
				item.EffortRange.Max = args.MaxHours
			}
		}

		project.Touch()
		if err := s.store.SaveProject(args.Path, project); err != nil {
			return nil, nil, fmt.Errorf("failed to save project: %w", err)
		}

		return textResult(fmt.Sprintf("Item %s updated", args.ItemID)), nil, nil
	})
}

// remove_item tool
type removeItemArgs struct {
	Path   string `json:"path" jsonschema:"required,the file path to the project"`
	ItemID string `json:"itemId" jsonschema:"required,the item ID to remove"`
}

func (s *Server) registerRemoveItemTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_item",
		Description: "Remove a work item and all of its children from an estimate project",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args removeItemArgs) (*mcp.CallToolResult, any, error) {
		project, err := s.store.LoadProject(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load project: %w", err)
		}

		itemID := model.ItemID(args.ItemID)
		if project.ItemByID(itemID) == nil {
			return nil, nil, fmt.Errorf("item with ID '%s' not found", args.ItemID)
		}

		project.RemoveItem(itemID)

		if err := s.store.SaveProject(args.Path, project); err != nil {
			return nil, nil, fmt.Errorf("failed to save project: %w", err)
		}

		return textResult(fmt.Sprintf("Item %s removed", args.ItemID)), nil, nil
	})
}

// list_library tool
type listLibraryArgs struct{}

func (s *Server) registerListLibraryTool() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_library",
		Description: "List the built-in library elements and sets that items can be based on",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listLibraryArgs) (*mcp.CallToolResult, any, error) {
		result := "Elements:\n"
		for _, el := range model.BuiltInElements {
			result += fmt.Sprintf("  %s: %s (%.1f h per %s, %s)\n",
				el.ID, el.Name, el.HoursPerUnit, el.Unit, model.CategoryLabels[el.Category])
		}

		result += "\nSets:\n"
		for _, set := range model.BuiltInSets {
			result += fmt.Sprintf("  %s: %s (%d elements)\n", set.ID, set.Name, len(set.Elements))
		}

		return textResult(result), nil, nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
