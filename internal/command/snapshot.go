package command

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkuznecov/estima/internal/model"
	"github.com/mkuznecov/estima/internal/snapshot"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Snapshot commands",
	Long:  `Take point-in-time snapshots of an estimate and compare them.`,
}

// snapshotTakeCmd represents the snapshot take command
var snapshotTakeCmd = &cobra.Command{
	Use:   "take <file> [label]",
	Short: "Take a snapshot",
	Long:  `Store the current state of the estimate as a named snapshot.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		label := ""
		if len(args) == 2 {
			label = args[1]
		}
		if label == "" {
			label = time.Now().Format("2006-01-02 15:04")
		}

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		snap := snapshot.Take(project, label)
		project.Snapshots = append(project.Snapshots, snap)

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Snapshot '%s' taken with ID %s\n", snap.Label, snap.ID)
		return nil
	},
}

// snapshotListCmd represents the snapshot list command
var snapshotListCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		if len(project.Snapshots) == 0 {
			fmt.Println("No snapshots found.")
			return nil
		}

		fmt.Println("Snapshots:")
		for _, snap := range project.Snapshots {
			fmt.Printf("  [%s] %s (%s, %d items)\n",
				snap.ID, snap.Label, snap.TakenAt.Format("2006-01-02 15:04"), len(snap.Items))
		}
		return nil
	},
}

// snapshotRemoveCmd represents the snapshot remove command
var snapshotRemoveCmd = &cobra.Command{
	Use:   "remove <file> <snapshot-id>",
	Short: "Remove a snapshot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		snapshotID := args[1]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		kept := project.Snapshots[:0]
		found := false
		for _, snap := range project.Snapshots {
			if snap.ID == snapshotID {
				found = true
				continue
			}
			kept = append(kept, snap)
		}
		if !found {
			return fmt.Errorf("snapshot with ID '%s' not found", snapshotID)
		}
		project.Snapshots = kept

		if err := s.SaveProject(file, project); err != nil {
			return fmt.Errorf("failed to save project: %w", err)
		}

		fmt.Printf("Snapshot %s removed\n", snapshotID)
		return nil
	},
}

// snapshotDiffCmd represents the snapshot diff command
var snapshotDiffCmd = &cobra.Command{
	Use:   "diff <file> <older-id> [newer-id]",
	Short: "Compare two snapshots",
	Long:  `Compare two snapshots, or a snapshot against the current state when only one ID is given.`,
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]

		s := getStore()

		project, err := s.LoadProject(file)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}

		older, err := findSnapshot(project, args[1])
		if err != nil {
			return err
		}

		var newer model.Snapshot
		if len(args) == 3 {
			newer, err = findSnapshot(project, args[2])
			if err != nil {
				return err
			}
		} else {
			newer = snapshot.Take(project, "current")
		}

		result := snapshot.Diff(older, newer)

		fmt.Printf("Comparing '%s' against '%s'\n", older.Label, newer.Label)
		fmt.Printf("%d added, %d removed, %d modified, %d unchanged\n",
			result.Summary.Added, result.Summary.Removed, result.Summary.Modified, result.Summary.Unchanged)

		for _, diff := range result.Items {
			switch diff.Status {
			case snapshot.StatusAdded:
				fmt.Printf("  + %s\n", diff.Name)
			case snapshot.StatusRemoved:
				fmt.Printf("  - %s\n", diff.Name)
			case snapshot.StatusModified:
				fmt.Printf("  ~ %s\n", diff.Name)
				for _, change := range diff.Changes {
					fmt.Printf("      %s: %s -> %s\n", change.Label, change.OldValue, change.NewValue)
				}
			}
		}

		if len(result.Settings) > 0 {
			fmt.Println("Settings:")
			for _, change := range result.Settings {
				fmt.Printf("  %s: %s -> %s\n", change.Label, change.OldValue, change.NewValue)
			}
		}

		return nil
	},
}

func findSnapshot(project *model.Project, id string) (model.Snapshot, error) {
	for _, snap := range project.Snapshots {
		if snap.ID == id {
			return snap, nil
		}
	}
	return model.Snapshot{}, fmt.Errorf("snapshot with ID '%s' not found", id)
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotTakeCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRemoveCmd)
	snapshotCmd.AddCommand(snapshotDiffCmd)
}
