package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/timetable-engine/pkg/core/services"
)

// ViewScheduleCmd creates the viewSchedule command
func ViewScheduleCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "viewSchedule <faculty_id>",
		Short: "Show the stored weekly schedule of a faculty member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			facultyID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("faculty_id must be a number: %w", err)
			}

			result, err := services.ViewSchedule(app.Ctx, app.Database, app.Cfg, app.Logger, facultyID)
			if err != nil {
				return err
			}

			fmt.Printf("\n📅 %s (faculty %d)\n", result.Faculty.Name, result.Faculty.ID)
			fmt.Printf("Hours: %d / %d max, %d min\n\n",
				result.Hours, result.Faculty.MaxHoursPerWeek, result.Faculty.MinHoursPerWeek)

			for _, day := range result.Days {
				printDay(day, result.Schedule[day])
			}
			fmt.Println()

			if result.OverworkAlert != "" {
				fmt.Printf("%s%s%s\n\n", colorRed, result.OverworkAlert, colorReset)
			}
			return nil
		},
	}
}
