package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/pkg/core/services"
	"github.com/jakechorley/timetable-engine/pkg/metrics"
)

// GenerateCmd creates the generate command
func GenerateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a timetable from the stored catalog",
		Long:  "Expand sessions, check capacity bounds, run the placement strategies and store the resulting timetable entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			metricsFile, _ := cmd.Flags().GetString("metrics-file")

			app.Logger.Debug("generate command",
				zap.Bool("dry_run", dryRun),
				zap.String("metrics_file", metricsFile))

			var recorder *metrics.Recorder
			if metricsFile != "" {
				recorder = metrics.NewRecorder()
			}

			result, err := services.GenerateTimetable(app.Ctx, app.Database, app.Cfg, app.Logger, dryRun, recorder)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			if recorder != nil {
				if err := recorder.WriteTextfile(metricsFile); err != nil {
					return err
				}
				app.Logger.Info("Wrote metrics", zap.String("path", metricsFile))
			}

			engineCfg, err := app.Cfg.SchedulerConfig()
			if err != nil {
				return err
			}
			m := result.Metrics

			fmt.Printf("\n🗓  Timetable Generation Results\n\n")
			fmt.Printf("Generation ID:  %s\n", result.GenerationID)
			fmt.Printf("Phase reached:  %s\n", m.Phase)
			if result.Success {
				color := placementColor(m.PlacementRate, engineCfg.GreedySuccessThreshold, colorGreen, colorYellow, colorRed)
				fmt.Printf("Strategy:       %s (refined: %t)\n", m.Strategy, m.Refined)
				fmt.Printf("Placed:         %s%d / %d (%.0f%%)%s\n",
					color, m.Placed, m.TotalSessions, m.PlacementRate*100, colorReset)
			}
			switch {
			case !result.Success:
				fmt.Printf("Status:         ❌ FAILED - %s\n", result.Error)
			case dryRun:
				fmt.Printf("Mode:           🧪 DRY RUN (not saved)\n")
			default:
				fmt.Printf("Status:         ✅ SUCCESS (%d entries saved)\n", result.EntriesCreated)
			}
			fmt.Printf("Timings:        context %s, bounds %s, strategy %s, refine %s, persist %s\n\n",
				m.Timings.Context, m.Timings.Bounds, m.Timings.Strategy, m.Timings.Refine, m.Persist)

			printWarnings("Warnings", result.Warnings)

			if len(result.FacultySchedules) > 0 {
				facultyIDs := make([]int, 0, len(result.FacultySchedules))
				for id := range result.FacultySchedules {
					facultyIDs = append(facultyIDs, id)
				}
				sort.Ints(facultyIDs)

				fmt.Printf("👩‍🏫 Faculty load:\n")
				for _, id := range facultyIDs {
					hours := 0
					for _, entries := range result.FacultySchedules[id] {
						hours += len(entries)
					}
					fmt.Printf("  Faculty %-5d %3d h/week across %d days\n", id, hours, len(result.FacultySchedules[id]))
				}
				fmt.Println()
			}

			if !result.Success {
				return fmt.Errorf("no timetable generated")
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run the engine without saving entries")
	cmd.Flags().String("metrics-file", "", "Write Prometheus metrics for the run to this file")

	return cmd
}
