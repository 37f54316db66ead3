package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/store"
)

var (
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "estima",
	Short: "A CLI tool for estimating and pricing learning-content projects",
	Long: `Estima is a CLI tool for building priced estimates of content production work.

It allows you to:
- Create estimate projects with a hierarchical work breakdown
- Price lines by the hour, at a fixed price, or as a fixed-total group
- Apply context multipliers, revisions, volume discounts and taxes
- Compare snapshots of an estimate over time
- Export client-facing quotes as Markdown, JSON, YAML or XLSX

Use "estima [command] --help" for more information about a command.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file path (default: nearest "+store.DefaultConfigFile+")")
}

// getStore creates a new YAML store with the configured file
func getStore() *store.YAMLStore {
	return store.NewYAMLStore(configFile)
}
