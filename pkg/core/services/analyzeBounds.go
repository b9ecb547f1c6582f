package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/internal/config"
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
	"github.com/jakechorley/timetable-engine/pkg/db"
)

// AnalyzeBoundsResult contains the capacity check for the stored catalog
type AnalyzeBoundsResult struct {
	Report scheduler.BoundReport
	Groups int
}

// AnalyzeBounds checks whether the stored catalog could possibly be scheduled
// without running any strategy
func AnalyzeBounds(
	ctx context.Context,
	database db.CatalogSource,
	cfg *config.Config,
	logger *zap.Logger,
) (*AnalyzeBoundsResult, error) {
	logger.Debug("Starting analyzeBounds")

	engineCfg, err := cfg.SchedulerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build engine config: %w", err)
	}

	catalog, err := database.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	rc := scheduler.BuildContext(catalogInput(catalog), engineCfg)
	report := scheduler.AnalyzeBounds(rc)
	logger.Debug("Bounds analysed",
		zap.Bool("feasible", report.Feasible),
		zap.Int("sessions", report.Sessions),
		zap.Int("capacity", report.MaxCapacity),
		zap.Int("warnings", len(report.Warnings)))

	return &AnalyzeBoundsResult{Report: report, Groups: len(rc.Groups)}, nil
}
