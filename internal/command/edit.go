package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/ui"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <file>",
	Short: "Edit an estimate interactively",
	Long:  `Open an interactive terminal UI to edit an estimate project.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, created, err := s.LoadOrCreateProject(file, file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		if created {
			fmt.Printf("Created new project file: %s\n", file)
		}

		config, err := s.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		app := ui.NewApp(s, config, project, file)
		if err := app.Run(); err != nil {
			return fmt.Errorf("failed to run UI: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
