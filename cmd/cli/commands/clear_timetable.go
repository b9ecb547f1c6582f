package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/timetable-engine/pkg/core/services"
)

// ClearTimetableCmd creates the clearTimetable command
func ClearTimetableCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clearTimetable",
		Short: "Delete every stored timetable entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm, _ := cmd.Flags().GetBool("confirm")
			if !confirm {
				return fmt.Errorf("refusing to clear the timetable without --confirm")
			}

			removed, err := services.ClearTimetable(app.Ctx, app.Database, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\n🧹 Removed %d timetable entries\n\n", removed)
			return nil
		},
	}

	cmd.Flags().Bool("confirm", false, "Confirm deleting all entries")
	return cmd
}
