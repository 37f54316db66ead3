package command

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/calc"
	"github.com/mkuznecov/estima/internal/model"
)

// contextCmd represents the context command
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Project context commands",
	Long:  `Manage the project context dimensions that drive the hour multiplier.`,
}

// contextShowCmd represents the context show command
var contextShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show the project context",
	Long:  `Show the project context dimensions and the resulting multiplier.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		ctx := project.Context
		fmt.Printf("Project type: %s\n", ctx.ProjectType.Label)
		fmt.Printf("Domain:       %s (×%.2f)\n", ctx.Domain.Label, ctx.Domain.Multiplier)
		fmt.Printf("Methodology:  %s (×%.2f)\n", ctx.Methodology.Label, ctx.Methodology.Multiplier)
		fmt.Printf("Client:       %s (×%.2f)\n", ctx.Client.Label, ctx.Client.Multiplier)
		fmt.Printf("Deadline:     %s (×%.2f)\n", ctx.Deadline.Label, ctx.Deadline.Multiplier)

		multiplier := calc.ContextMultiplier(ctx)
		if ctx.ContextMultiplierIsManual {
			fmt.Printf("Multiplier:   ×%.2f (manual)\n", multiplier)
		} else {
			fmt.Printf("Multiplier:   ×%.2f\n", multiplier)
		}
		if warning := calc.CheckContextMultiplier(multiplier); warning != nil {
			fmt.Printf("[%s] %s\n", warning.Level, warning.Message)
		}

		return nil
	},
}

// contextSetCmd represents the context set command
var contextSetCmd = &cobra.Command{
	Use:   "set <file>",
	Short: "Set context dimensions",
	Long:  `Set one or more context dimensions, or pin the multiplier manually.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		if value, _ := cmd.Flags().GetString("type"); cmd.Flags().Changed("type") {
			opt, ok := model.FindProjectTypeOption(value)
			if !ok {
				return fmt.Errorf("unknown project type '%s'", value)
			}
			project.Context.ProjectType = opt
		}
		if value, _ := cmd.Flags().GetString("domain"); cmd.Flags().Changed("domain") {
			opt, ok := model.FindDomainOption(value)
			if !ok {
				return fmt.Errorf("unknown domain option '%s'", value)
			}
			project.Context.Domain = opt
		}
		if value, _ := cmd.Flags().GetString("methodology"); cmd.Flags().Changed("methodology") {
			opt, ok := model.FindMethodologyOption(value)
			if !ok {
				return fmt.Errorf("unknown methodology option '%s'", value)
			}
			project.Context.Methodology = opt
		}
		if value, _ := cmd.Flags().GetString("client"); cmd.Flags().Changed("client") {
			opt, ok := model.FindClientOption(value)
			if !ok {
				return fmt.Errorf("unknown client option '%s'", value)
			}
			project.Context.Client = opt
			// A client change re-suggests the revision percent unless pinned
			if !project.Pricing.RevisionPercentIsManual {
				project.Pricing.RevisionPercent = opt.DefaultRevisionPercent
			}
		}
		if value, _ := cmd.Flags().GetString("deadline"); cmd.Flags().Changed("deadline") {
			opt, ok := model.FindDeadlineOption(value)
			if !ok {
				return fmt.Errorf("unknown deadline option '%s'", value)
			}
			project.Context.Deadline = opt
		}

		if value, _ := cmd.Flags().GetString("multiplier"); cmd.Flags().Changed("multiplier") {
			if value == "auto" {
				project.Context.ContextMultiplierIsManual = false
			} else {
				m, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return fmt.Errorf("invalid multiplier: %w", err)
				}
				project.Context.ContextMultiplier = m
				project.Context.ContextMultiplierIsManual = true
			}
		}

		project.Context.RecomputeMultiplier()
		project.Touch()

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		multiplier := calc.ContextMultiplier(project.Context)
		fmt.Printf("Context updated, multiplier ×%.2f\n", multiplier)
		if warning := calc.CheckContextMultiplier(multiplier); warning != nil {
			fmt.Printf("[%s] %s\n", warning.Level, warning.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextSetCmd)

	// context set flags
	contextSetCmd.Flags().String("type", "", "Project type (new_course, rework, standalone, support)")
	contextSetCmd.Flags().String("domain", "", "Domain familiarity (familiar, adjacent, new)")
	contextSetCmd.Flags().String("methodology", "", "Methodology maturity (own, adapt, new)")
	contextSetCmd.Flags().String("client", "", "Client relationship (regular, new, complex)")
	contextSetCmd.Flags().String("deadline", "", "Deadline pressure (standard, tight, urgent, emergency)")
	contextSetCmd.Flags().String("multiplier", "", "Pin the multiplier to a value, or 'auto' to unpin")
}
