package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/timetable-engine/pkg/core/services"
)

// AnalyzeBoundsCmd creates the analyzeBounds command
func AnalyzeBoundsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "analyzeBounds",
		Short: "Check whether the catalog can fit in the available capacity",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.AnalyzeBounds(app.Ctx, app.Database, app.Cfg, app.Logger)
			if err != nil {
				return err
			}
			r := result.Report

			fmt.Printf("\n📐 Capacity Bounds\n\n")
			fmt.Printf("Student groups:     %d\n", result.Groups)
			fmt.Printf("Sessions:           %d (%d lab)\n", r.Sessions, r.LabSessions)
			fmt.Printf("Faculty capacity:   %d hours (minimum %d)\n", r.MaxCapacity, r.MinRequired)
			fmt.Printf("Lab capacity:       %d room-slots\n", r.LabCapacity)
			if r.Feasible {
				fmt.Printf("Status:             %s✅ FEASIBLE%s\n\n", colorGreen, colorReset)
			} else {
				fmt.Printf("Status:             %s❌ INFEASIBLE%s\n\n", colorRed, colorReset)
				for _, reason := range r.Reasons {
					fmt.Printf("  • %s\n", reason)
				}
				fmt.Println()
			}

			printWarnings("Warnings", r.Warnings)
			return nil
		},
	}
}
