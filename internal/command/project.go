package command

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/calc"
	"github.com/mkuznecov/estima/internal/format"
	"github.com/mkuznecov/estima/internal/store"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a new estimate project",
	Long:  `Create a new estimate project file with the given name.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		output, _ := cmd.Flags().GetString("output")
		description, _ := cmd.Flags().GetString("description")

		// Generate output filename if not provided
		if output == "" {
			safeName := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
			output = safeName + store.ProjectFileSuffix
		}

		s := getStore()

		if _, err := os.Stat(output); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("file '%s' already exists, use --force to overwrite", output)
			}
		}

		project, err := s.CreateProject(output, name)
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		if description != "" {
			project.Description = description
			if err := s.SaveProject(output, project); err != nil {
				return fmt.Errorf("failed to save project: %w", err)
			}
		}

		fmt.Printf("Created project '%s' at %s\n", name, output)
		return nil
	},
}

// viewCmd represents the view command
var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "View an estimate",
	Long:  `View an estimate in various formats (markdown, json, yaml, xlsx).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		formatType, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		var result string

		switch formatType {
		case "json":
			result, err = format.NewJSONFormatter(config).Format(project)
			if err != nil {
				return fmt.Errorf("failed to format project as JSON: %w", err)
			}
		case "yaml", "yml":
			result, err = format.NewYAMLFormatter(config).Format(project)
			if err != nil {
				return fmt.Errorf("failed to format project as YAML: %w", err)
			}
		case "xlsx":
			if output == "" {
				return fmt.Errorf("xlsx format requires --output")
			}
			buf, err := format.NewXLSXFormatter(config).Format(project)
			if err != nil {
				return fmt.Errorf("failed to format project as XLSX: %w", err)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Printf("Output written to %s\n", output)
			return nil
		default:
			result, err = format.NewMarkdownFormatter(config).Format(project)
			if err != nil {
				return fmt.Errorf("failed to format project as Markdown: %w", err)
			}
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(result), 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Printf("Output written to %s\n", output)
		} else {
			fmt.Print(result)
		}

		return nil
	},
}

// summaryCmd represents the summary command
var summaryCmd = &cobra.Command{
	Use:   "summary <file>",
	Short: "Show estimate summary",
	Long:  `Show a quick summary of the estimate with the full pricing pipeline.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		multiplier := calc.ContextMultiplier(project.Context)
		result := calc.ProjectGrandTotal(project)

		fmt.Printf("Project: %s\n", project.Name)
		fmt.Printf("Lines: %d (%d billable)\n", len(project.Items), len(result.LeafCosts))
		fmt.Printf("Context multiplier: ×%.2f\n", multiplier)
		if warning := calc.CheckContextMultiplier(multiplier); warning != nil {
			fmt.Printf("  [%s] %s\n", warning.Level, warning.Message)
		}
		fmt.Println()

		fmt.Printf("Total hours: %.1f\n", result.TotalHours)
		fmt.Println()

		fmt.Println("By category:")
		printCategory := func(label string, v float64) {
			if v > 0 {
				fmt.Printf("  %-12s %12.2f %s\n", label, v, config.Currency)
			}
		}
		printCategory("Content", result.CategoryTotals.Content)
		printCategory("Assessment", result.CategoryTotals.Assessment)
		printCategory("Service", result.CategoryTotals.Service)
		printCategory("Other", result.CategoryTotals.Other)
		fmt.Println()

		fmt.Printf("Base total:        %12.2f %s\n", result.BaseTotal, config.Currency)
		if result.VolumeDiscountAmount > 0 {
			fmt.Printf("Volume discounts:  %12.2f %s\n", -result.VolumeDiscountAmount, config.Currency)
			for _, g := range result.VolumeDiscountBreakdown {
				if g.DiscountAmount > 0 {
					fmt.Printf("  %s: ×%d, -%.2f\n", g.DisplayName, g.TotalQty, g.DiscountAmount)
				}
			}
		}
		if result.Revisions > 0 {
			fmt.Printf("Revisions:         %12.2f %s\n", result.Revisions, config.Currency)
		}
		fmt.Printf("Subtotal:          %12.2f %s\n", result.Subtotal, config.Currency)
		if result.DiscountAmount != 0 {
			fmt.Printf("Discount:          %12.2f %s\n", result.DiscountAmount, config.Currency)
		}
		if result.AdjustmentsTotal != 0 {
			fmt.Printf("Adjustments:       %12.2f %s\n", result.AdjustmentsTotal, config.Currency)
		}
		if result.TaxAmount > 0 {
			fmt.Printf("Tax:               %12.2f %s\n", result.TaxAmount, config.Currency)
		}
		fmt.Printf("Grand total:       %12.2f %s\n", result.GrandTotal, config.Currency)

		if r := result.CostRange; r != nil {
			fmt.Println()
			fmt.Printf("Range: %.2f to %.2f %s (%.1f to %.1f h)\n", r.MinCost, r.MaxCost, config.Currency, r.MinHours, r.MaxHours)
		}
		if result.AggregateConfidence != nil {
			fmt.Printf("Confidence: %.1f / 5\n", *result.AggregateConfidence)
		}

		if project.Pricing.ResourceBudget.Enabled {
			budget := calc.ComputeResourceBudget(project.Pricing.ResourceBudget, project.Pricing.HourlyRate, result.TotalHours)
			fmt.Println()
			fmt.Printf("Time budget: %.1f to %.1f h (%s)\n", budget.MinHours, budget.MaxHours, budget.Fit)
		}
		if project.Pricing.TargetPrice.Enabled {
			target := calc.ComputeTargetDiff(project.Pricing.TargetPrice, result.GrandTotal, result.AfterAdjustments)
			fmt.Println()
			fmt.Printf("Target price: %.2f %s, difference %+.2f (%.0f%% used)\n",
				project.Pricing.TargetPrice.Value, config.Currency, target.Difference, target.PercentUsed)
		}

		return nil
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List estimate projects",
	Long:  `List all estimate project files in a directory.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		files, err := getStore().ListProjects(dir)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		if len(files) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		for _, file := range files {
			fmt.Println(file)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(listCmd)

	// new command flags
	newCmd.Flags().StringP("output", "o", "", "Output file path (default: <name>"+store.ProjectFileSuffix+")")
	newCmd.Flags().StringP("description", "d", "", "Project description")
	newCmd.Flags().BoolP("force", "f", false, "Force overwrite existing file")

	// view command flags
	viewCmd.Flags().StringP("format", "f", "markdown", "Output format (markdown, json, yaml, xlsx)")
	viewCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
}
