package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/share"
)

// shareCmd represents the share command
var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Share commands",
	Long:  `Export an estimate as a compact share string and import it back.`,
}

// shareExportCmd represents the share export command
var shareExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a share string",
	Long:  `Pack the billable state of an estimate into a compact string suitable for a URL.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		payload, err := share.Encode(project.Context, project.Items, project.Pricing)
		if err != nil {
			return fmt.Errorf("failed to encode share string: %w", err)
		}

		fmt.Println(payload)
		return nil
	},
}

// shareImportCmd represents the share import command
var shareImportCmd = &cobra.Command{
	Use:   "import <file> [payload]",
	Short: "Import a share string",
	Long:  `Create an estimate project from a share string. The payload is read from stdin when not given as an argument.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		var payload string
		if len(args) == 2 {
			payload = args[1]
		} else {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read payload from stdin: %w", err)
			}
			payload = strings.TrimSpace(string(data))
		}

		state, err := share.Decode(payload)
		if err != nil {
			return fmt.Errorf("failed to decode share string: %w", err)
		}

		s := getStore()

		if _, err := os.Stat(file); err == nil {
			force, _ := cmd.Flags().GetBool("force")
			if !force {
				return fmt.Errorf("file '%s' already exists, use --force to overwrite", file)
			}
		}

		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = "Imported estimate"
		}

		project, err := s.CreateProject(file, name)
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		project.Context = state.Context
		project.Items = state.Items
		project.Pricing = state.Pricing
		for _, item := range project.Items {
			if item.Overrides.Cost {
				// Pinned costs are not part of the share payload
				item.Overrides.Cost = false
			}
		}

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Imported %d items into %s\n", len(project.Items), file)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shareCmd)
	shareCmd.AddCommand(shareExportCmd)
	shareCmd.AddCommand(shareImportCmd)

	// share import flags
	shareImportCmd.Flags().StringP("name", "n", "", "Project name (default: Imported estimate)")
	shareImportCmd.Flags().BoolP("force", "f", false, "Force overwrite existing file")
}
