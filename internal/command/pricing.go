package command

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/model"
)

// pricingCmd represents the pricing command
var pricingCmd = &cobra.Command{
	Use:   "pricing",
	Short: "Pricing policy commands",
	Long:  `Manage the financial settings of an estimate project.`,
}

// pricingRateCmd represents the pricing rate command
var pricingRateCmd = &cobra.Command{
	Use:   "rate <file> <rate>",
	Short: "Set the hourly rate",
	Long:  `Set the hourly rate used for time-based items.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		rate, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid rate: %w", err)
		}

		return updatePricing(file, func(p *model.Pricing) error {
			p.HourlyRate = rate
			fmt.Printf("Hourly rate set to %.2f\n", rate)
			return nil
		})
	},
}

// pricingSuggestRateCmd represents the pricing suggest-rate command
var pricingSuggestRateCmd = &cobra.Command{
	Use:   "suggest-rate <file> <salary>",
	Short: "Suggest an hourly rate from a salary",
	Long:  `Derive a suggested hourly rate from a monthly salary. Use --apply to store it as the project rate.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		salary, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid salary: %w", err)
		}

		hoursPerMonth, _ := cmd.Flags().GetFloat64("hours-per-month")
		multiplier, _ := cmd.Flags().GetFloat64("multiplier")
		apply, _ := cmd.Flags().GetBool("apply")

		return updatePricing(file, func(p *model.Pricing) error {
			p.RateHelper.Salary = &salary
			if cmd.Flags().Changed("hours-per-month") {
				p.RateHelper.HoursPerMonth = hoursPerMonth
			}
			if cmd.Flags().Changed("multiplier") {
				p.RateHelper.Multiplier = multiplier
			}

			suggested := p.RateHelper.SuggestedRate()
			fmt.Printf("Suggested rate: %.2f (%.2f / %.0f h × %.2f)\n",
				suggested, salary, p.RateHelper.HoursPerMonth, p.RateHelper.Multiplier)
			if apply {
				p.HourlyRate = suggested
				fmt.Printf("Hourly rate set to %.2f\n", suggested)
			}
			return nil
		})
	},
}

// pricingRevisionsCmd represents the pricing revisions command
var pricingRevisionsCmd = &cobra.Command{
	Use:   "revisions <file> <percent>",
	Short: "Set the revision reserve",
	Long:  `Set the revision reserve as a percent of the base cost (e.g. 20 for 20%). Use 'auto' to follow the client context suggestion.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		value := args[1]

		return updatePricing(file, func(p *model.Pricing) error {
			if value == "auto" {
				p.RevisionPercentIsManual = false
				fmt.Println("Revision percent follows the client context")
				return nil
			}
			percent, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid percent: %w", err)
			}
			p.RevisionPercent = percent / 100
			p.RevisionPercentIsManual = true
			fmt.Printf("Revision reserve set to %.0f%%\n", percent)
			return nil
		})
	},
}

// pricingDiscountCmd represents the pricing discount command
var pricingDiscountCmd = &cobra.Command{
	Use:   "discount <file>",
	Short: "Set the project discount or surcharge",
	Long:  `Set a percent or absolute discount. Negative values reduce the price, positive values add a surcharge.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		percent, _ := cmd.Flags().GetFloat64("percent")
		absolute, _ := cmd.Flags().GetFloat64("absolute")
		comment, _ := cmd.Flags().GetString("comment")
		clear, _ := cmd.Flags().GetBool("clear")

		percentSet := cmd.Flags().Changed("percent")
		absoluteSet := cmd.Flags().Changed("absolute")
		if percentSet && absoluteSet {
			return fmt.Errorf("use either --percent or --absolute, not both")
		}

		return updatePricing(file, func(p *model.Pricing) error {
			switch {
			case clear:
				p.Discount = model.Discount{Type: model.DiscountNone}
				fmt.Println("Discount cleared")
			case percentSet:
				p.Discount.Type = model.DiscountPercent
				p.Discount.PercentValue = percent
				p.Discount.Comment = comment
				fmt.Printf("Discount set to %+.1f%%\n", percent)
			case absoluteSet:
				p.Discount.Type = model.DiscountAbsolute
				p.Discount.AbsoluteValue = absolute
				p.Discount.Comment = comment
				fmt.Printf("Discount set to %+.2f\n", absolute)
			default:
				return fmt.Errorf("nothing to do, use --percent, --absolute or --clear")
			}
			return nil
		})
	},
}

// pricingTaxCmd represents the pricing tax command
var pricingTaxCmd = &cobra.Command{
	Use:   "tax <file> <percent>",
	Short: "Set the tax rate",
	Long:  `Set the tax rate as a percent of the post-adjustment total.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		percent, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid percent: %w", err)
		}
		show, _ := cmd.Flags().GetBool("show-separately")

		return updatePricing(file, func(p *model.Pricing) error {
			p.Tax.Rate = percent
			if cmd.Flags().Changed("show-separately") {
				p.Tax.ShowSeparately = show
			}
			fmt.Printf("Tax rate set to %.1f%%\n", percent)
			return nil
		})
	},
}

// pricingVolumeCmd represents the pricing volume command
var pricingVolumeCmd = &cobra.Command{
	Use:   "volume <file>",
	Short: "Configure volume discounts",
	Long:  `Enable, disable or reconfigure tiered volume discounts. Tiers are given as minQty:percent pairs, e.g. --tiers 1:0,6:10,16:20.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		enable, _ := cmd.Flags().GetBool("enable")
		disable, _ := cmd.Flags().GetBool("disable")
		mode, _ := cmd.Flags().GetString("mode")
		tiersArg, _ := cmd.Flags().GetString("tiers")

		return updatePricing(file, func(p *model.Pricing) error {
			if enable {
				p.VolumeDiscounts.Enabled = true
			}
			if disable {
				p.VolumeDiscounts.Enabled = false
			}
			if cmd.Flags().Changed("mode") {
				switch model.VolumeGroupingMode(mode) {
				case model.VolumeByElement, model.VolumeByCategory:
					p.VolumeDiscounts.Mode = model.VolumeGroupingMode(mode)
				default:
					return fmt.Errorf("unknown grouping mode '%s'", mode)
				}
			}
			if cmd.Flags().Changed("tiers") {
				tiers, err := parseTiers(tiersArg)
				if err != nil {
					return err
				}
				p.VolumeDiscounts.Tiers = tiers
			}

			if p.VolumeDiscounts.Enabled {
				fmt.Printf("Volume discounts enabled (%s)\n", p.VolumeDiscounts.Mode)
				for _, tier := range p.VolumeDiscounts.Tiers {
					fmt.Printf("  from %d: %.0f%%\n", tier.MinQty, tier.DiscountPercent)
				}
			} else {
				fmt.Println("Volume discounts disabled")
			}
			return nil
		})
	},
}

func parseTiers(arg string) ([]model.VolumeDiscountTier, error) {
	var tiers []model.VolumeDiscountTier
	for _, part := range strings.Split(arg, ",") {
		fields := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid tier '%s', expected minQty:percent", part)
		}
		minQty, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("invalid tier quantity '%s': %w", fields[0], err)
		}
		percent, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid tier percent '%s': %w", fields[1], err)
		}
		tiers = append(tiers, model.VolumeDiscountTier{MinQty: minQty, DiscountPercent: percent})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinQty < tiers[j].MinQty })
	return tiers, nil
}

// pricingAdjustCmd represents the pricing adjust command
var pricingAdjustCmd = &cobra.Command{
	Use:   "adjust <file> <label> <amount>",
	Short: "Add an adjustment line",
	Long:  `Add a signed adjustment line applied after the discount stage, e.g. a rush fee or a goodwill credit.`,
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		label := args[1]
		amount, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		return updatePricing(file, func(p *model.Pricing) error {
			adj := model.NewAdjustment(label, amount)
			p.AdditionalAdjustments = append(p.AdditionalAdjustments, adj)
			fmt.Printf("Adjustment '%s' (%+.2f) added with ID %s\n", label, amount, adj.ID)
			return nil
		})
	},
}

// pricingUnadjustCmd represents the pricing unadjust command
var pricingUnadjustCmd = &cobra.Command{
	Use:   "unadjust <file> <adjustment-id>",
	Short: "Remove an adjustment line",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		adjustmentID := args[1]

		return updatePricing(file, func(p *model.Pricing) error {
			kept := p.AdditionalAdjustments[:0]
			found := false
			for _, adj := range p.AdditionalAdjustments {
				if adj.ID == adjustmentID {
					found = true
					continue
				}
				kept = append(kept, adj)
			}
			if !found {
				return fmt.Errorf("adjustment with ID '%s' not found", adjustmentID)
			}
			p.AdditionalAdjustments = kept
			fmt.Printf("Adjustment %s removed\n", adjustmentID)
			return nil
		})
	},
}

// pricingTargetCmd represents the pricing target command
var pricingTargetCmd = &cobra.Command{
	Use:   "target <file> <price>",
	Short: "Set a target price",
	Long:  `Set a target price to compare the estimate against. Use --off to disable the comparison.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		off, _ := cmd.Flags().GetBool("off")
		excludeTax, _ := cmd.Flags().GetBool("exclude-tax")

		return updatePricing(file, func(p *model.Pricing) error {
			if off {
				p.TargetPrice.Enabled = false
				fmt.Println("Target price disabled")
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("target price required")
			}
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid price: %w", err)
			}
			p.TargetPrice.Enabled = true
			p.TargetPrice.Value = price
			p.TargetPrice.IncludesTax = !excludeTax
			fmt.Printf("Target price set to %.2f\n", price)
			return nil
		})
	},
}

// pricingBudgetCmd represents the pricing budget command
var pricingBudgetCmd = &cobra.Command{
	Use:   "budget <file>",
	Short: "Configure the time budget",
	Long:  `Configure the available time window to check the estimate against. Use --off to disable the check.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		off, _ := cmd.Flags().GetBool("off")
		monthsMin, _ := cmd.Flags().GetFloat64("months-min")
		monthsMax, _ := cmd.Flags().GetFloat64("months-max")
		hoursMin, _ := cmd.Flags().GetFloat64("hours-per-week-min")
		hoursMax, _ := cmd.Flags().GetFloat64("hours-per-week-max")

		return updatePricing(file, func(p *model.Pricing) error {
			if off {
				p.ResourceBudget.Enabled = false
				fmt.Println("Time budget disabled")
				return nil
			}
			p.ResourceBudget.Enabled = true
			if cmd.Flags().Changed("months-min") {
				p.ResourceBudget.PeriodMonthsMin = monthsMin
			}
			if cmd.Flags().Changed("months-max") {
				p.ResourceBudget.PeriodMonthsMax = monthsMax
			}
			if cmd.Flags().Changed("hours-per-week-min") {
				p.ResourceBudget.HoursPerWeekMin = hoursMin
			}
			if cmd.Flags().Changed("hours-per-week-max") {
				p.ResourceBudget.HoursPerWeekMax = hoursMax
			}
			fmt.Printf("Time budget: %.1f to %.1f months, %.0f to %.0f h/week\n",
				p.ResourceBudget.PeriodMonthsMin, p.ResourceBudget.PeriodMonthsMax,
				p.ResourceBudget.HoursPerWeekMin, p.ResourceBudget.HoursPerWeekMax)
			return nil
		})
	},
}

// updatePricing loads a project, applies fn to its pricing and saves it back
func updatePricing(file string, fn func(*model.Pricing) error) error {
	s := getStore()

	project, err := s.LoadProject(file)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	if err := fn(&project.Pricing); err != nil {
		return err
	}

	project.Touch()
	if err := s.SaveProject(file, project); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(pricingCmd)
	pricingCmd.AddCommand(pricingRateCmd)
	pricingCmd.AddCommand(pricingSuggestRateCmd)
	pricingCmd.AddCommand(pricingRevisionsCmd)
	pricingCmd.AddCommand(pricingDiscountCmd)
	pricingCmd.AddCommand(pricingTaxCmd)
	pricingCmd.AddCommand(pricingVolumeCmd)
	pricingCmd.AddCommand(pricingAdjustCmd)
	pricingCmd.AddCommand(pricingUnadjustCmd)
	pricingCmd.AddCommand(pricingTargetCmd)
	pricingCmd.AddCommand(pricingBudgetCmd)

	// pricing suggest-rate flags
	pricingSuggestRateCmd.Flags().Float64("hours-per-month", 160, "Working hours per month")
	pricingSuggestRateCmd.Flags().Float64("multiplier", 1.5, "Freelance overhead multiplier")
	pricingSuggestRateCmd.Flags().Bool("apply", false, "Store the suggested rate as the project rate")

	// pricing discount flags
	pricingDiscountCmd.Flags().Float64("percent", 0, "Percent discount (negative) or surcharge (positive)")
	pricingDiscountCmd.Flags().Float64("absolute", 0, "Absolute discount (negative) or surcharge (positive)")
	pricingDiscountCmd.Flags().String("comment", "", "Reason shown with the discount")
	pricingDiscountCmd.Flags().Bool("clear", false, "Remove the discount")

	// pricing tax flags
	pricingTaxCmd.Flags().Bool("show-separately", false, "Show the tax as its own line in exports")

	// pricing volume flags
	pricingVolumeCmd.Flags().Bool("enable", false, "Enable volume discounts")
	pricingVolumeCmd.Flags().Bool("disable", false, "Disable volume discounts")
	pricingVolumeCmd.Flags().String("mode", "", "Grouping mode (by_element, by_category)")
	pricingVolumeCmd.Flags().String("tiers", "", "Tier ladder as minQty:percent pairs")

	// pricing target flags
	pricingTargetCmd.Flags().Bool("off", false, "Disable the target price comparison")
	pricingTargetCmd.Flags().Bool("exclude-tax", false, "Compare against the pre-tax total")

	// pricing budget flags
	pricingBudgetCmd.Flags().Bool("off", false, "Disable the time budget check")
	pricingBudgetCmd.Flags().Float64("months-min", 0, "Minimum project duration in months")
	pricingBudgetCmd.Flags().Float64("months-max", 0, "Maximum project duration in months")
	pricingBudgetCmd.Flags().Float64("hours-per-week-min", 0, "Minimum available hours per week")
	pricingBudgetCmd.Flags().Float64("hours-per-week-max", 0, "Maximum available hours per week")
}
