package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/internal/config"
	"github.com/jakechorley/timetable-engine/pkg/core/model"
	"github.com/jakechorley/timetable-engine/pkg/core/slots"
	"github.com/jakechorley/timetable-engine/pkg/db"
)

// GenerateSlotsResult contains the generated time slot grid
type GenerateSlotsResult struct {
	Slots []model.TimeSlot
	Days  []string
}

// GenerateSlotsStore defines the database operations needed for generating time slots
type GenerateSlotsStore interface {
	AllocateIDs(ctx context.Context, counter string, n int) (int64, error)
	ReplaceTimeSlots(ctx context.Context, slots []model.TimeSlot) error
}

// GenerateSlots builds the weekly slot grid from the period configuration and
// replaces the stored grid with it.
// If dryRun is true, slots keep zero ids and nothing is written.
func GenerateSlots(
	ctx context.Context,
	database GenerateSlotsStore,
	cfg *config.Config,
	logger *zap.Logger,
	dryRun bool,
) (*GenerateSlotsResult, error) {
	logger.Debug("Starting generateSlots", zap.Bool("dry_run", dryRun))

	slotCfg := cfg.SlotConfig()
	days, err := slots.TeachingDays(slotCfg.TeachingDays)
	if err != nil {
		return nil, err
	}
	grid, err := slots.Generate(slotCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate time slots: %w", err)
	}
	logger.Debug("Generated time slots", zap.Int("count", len(grid)), zap.Strings("days", days))

	result := &GenerateSlotsResult{Slots: grid, Days: days}
	if dryRun {
		return result, nil
	}

	firstID, err := database.AllocateIDs(ctx, db.CounterTimeSlot, len(grid))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate time slot ids: %w", err)
	}
	slots.AssignIDs(grid, firstID)

	if err := database.ReplaceTimeSlots(ctx, grid); err != nil {
		return nil, fmt.Errorf("failed to store time slots: %w", err)
	}
	logger.Debug("Stored time slots", zap.Int64("first_id", firstID))

	return result, nil
}
