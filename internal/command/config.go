package command

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mkuznecov/estima/internal/model"
	"github.com/mkuznecov/estima/internal/store"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  `Manage the estima configuration file.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration file",
	Long:  `Create a default configuration file in the current directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := getStore()

		configPath := configFile
		if configPath == "" {
			configPath = store.DefaultConfigFile
		}
		if _, err := os.Stat(configPath); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("configuration file already exists at %s, use --force to overwrite", configPath)
			}
		}

		config := model.DefaultConfig()

		if err := s.SaveConfig(config); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Printf("Configuration file created at %s\n", configPath)
		return nil
	},
}

// configViewCmd represents the config view command
var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "View current configuration",
	Long:  `Display the current configuration settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := getStore()

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		format, _ := cmd.Flags().GetString("format")

		switch format {
		case "json":
			data, err := json.MarshalIndent(config, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal config to JSON: %w", err)
			}
			fmt.Println(string(data))
		case "yaml":
			data, err := yaml.Marshal(config)
			if err != nil {
				return fmt.Errorf("failed to marshal config to YAML: %w", err)
			}
			fmt.Print(string(data))
		default:
			fmt.Printf("Currency: %s\n", config.Currency)
			fmt.Printf("Hourly Rate: %.2f\n", config.HourlyRate)
			fmt.Printf("Tax Rate: %.1f%%\n", config.TaxRate)
			fmt.Printf("Volume Grouping: %s\n", config.VolumeGrouping)
			fmt.Printf("Default Revision Rate: %.0f%%\n", config.DefaultRevisionRate*100)
			fmt.Println("Role Multipliers:")
			for _, role := range []model.RoleType{model.RoleAuthor, model.RoleEditor, model.RoleReviewer} {
				fmt.Printf("  %s: %.2f\n", role, config.RoleMultiplier(role))
			}
		}

		return nil
	},
}

// configSetCmd represents the config set command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  `Set a configuration value. Keys: currency, hourly-rate, tax-rate, volume-grouping, revision-rate.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		value := args[1]

		s := getStore()

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		switch key {
		case "currency":
			config.Currency = value
		case "hourly-rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid hourly rate: %w", err)
			}
			config.HourlyRate = rate
		case "tax-rate":
			rate, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid tax rate: %w", err)
			}
			config.TaxRate = rate
		case "volume-grouping":
			mode := model.VolumeGroupingMode(value)
			if mode != model.VolumeByElement && mode != model.VolumeByCategory {
				return fmt.Errorf("unknown grouping mode '%s'", value)
			}
			config.VolumeGrouping = mode
		case "revision-rate":
			percent, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid revision rate: %w", err)
			}
			config.DefaultRevisionRate = percent / 100
		default:
			return fmt.Errorf("unknown configuration key '%s'", key)
		}

		if err := s.SaveConfig(config); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Printf("Configuration key '%s' set\n", key)
		return nil
	},
}

// configRoleCmd represents the config role command
var configRoleCmd = &cobra.Command{
	Use:   "role <role> <multiplier>",
	Short: "Set a role multiplier",
	Long:  `Set the hour multiplier for a role (author, editor, reviewer, custom).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := model.RoleType(args[0])
		multiplier, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid multiplier: %w", err)
		}

		s := getStore()

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if config.RoleMultipliers == nil {
			config.RoleMultipliers = make(map[model.RoleType]float64)
		}
		config.RoleMultipliers[role] = multiplier

		if err := s.SaveConfig(config); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Printf("Role '%s' multiplier set to %.2f\n", role, multiplier)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configRoleCmd)

	configInitCmd.Flags().BoolP("force", "f", false, "Force overwrite existing configuration")
	configViewCmd.Flags().StringP("format", "f", "yaml", "Output format (yaml, json)")
}
