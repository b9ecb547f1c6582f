package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ClearTimetableStore defines the database operation needed for clearing the timetable
type ClearTimetableStore interface {
	ClearTimetable(ctx context.Context) (int64, error)
}

// ClearTimetable removes every stored timetable entry. Generation appends, so
// callers clear first when they want a fresh timetable.
func ClearTimetable(ctx context.Context, database ClearTimetableStore, logger *zap.Logger) (int64, error) {
	logger.Debug("Clearing timetable")

	removed, err := database.ClearTimetable(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear timetable: %w", err)
	}

	logger.Debug("Cleared timetable", zap.Int64("removed", removed))
	return removed, nil
}
