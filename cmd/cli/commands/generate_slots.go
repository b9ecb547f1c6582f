package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/pkg/core/services"
)

// GenerateSlotsCmd creates the generateSlots command
func GenerateSlotsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateSlots",
		Short: "Build the weekly time slot grid from the period configuration",
		Long:  "Replace the stored time slots with periods for every teaching day. Existing timetable entries refer to the old slot ids, so clear the timetable first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			app.Logger.Debug("generateSlots command", zap.Bool("dry_run", dryRun))

			result, err := services.GenerateSlots(app.Ctx, app.Database, app.Cfg, app.Logger, dryRun)
			if err != nil {
				return err
			}

			fmt.Printf("\n⏰ Time Slots\n\n")
			fmt.Printf("Teaching days: %v\n", result.Days)
			fmt.Printf("Slots:         %d\n", len(result.Slots))
			if dryRun {
				fmt.Printf("Mode:          🧪 DRY RUN (not saved)\n")
			}
			fmt.Println()

			if len(result.Days) > 0 {
				fmt.Printf("  %-8s %-6s %s\n", "ID", "Period", "Time")
				for _, s := range result.Slots {
					if s.Day != result.Days[0] {
						break
					}
					fmt.Printf("  %-8d %-6d %s\n", s.ID, s.Period, s.TimeRange())
				}
				fmt.Printf("  %s(same periods on every teaching day)%s\n\n", colorDim, colorReset)
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Show the grid without saving it")
	return cmd
}
