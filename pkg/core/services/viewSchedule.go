package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/internal/config"
	"github.com/jakechorley/timetable-engine/pkg/core/model"
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
	"github.com/jakechorley/timetable-engine/pkg/db"
)

// ViewScheduleResult is one faculty member's stored weekly schedule
type ViewScheduleResult struct {
	Faculty       model.Faculty
	Days          []string
	Schedule      map[string][]scheduler.ScheduleEntry
	Hours         int
	OverworkAlert string
}

// ViewScheduleStore defines the database operations needed for viewing a schedule
type ViewScheduleStore interface {
	LoadCatalog(ctx context.Context) (*db.Catalog, error)
	GetTimetableEntries(ctx context.Context) ([]db.TimetableEntry, error)
}

// ViewSchedule renders the stored timetable for one faculty member
func ViewSchedule(
	ctx context.Context,
	database ViewScheduleStore,
	cfg *config.Config,
	logger *zap.Logger,
	facultyID int,
) (*ViewScheduleResult, error) {
	logger.Debug("Starting viewSchedule", zap.Int("faculty_id", facultyID))

	engineCfg, err := cfg.SchedulerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build engine config: %w", err)
	}

	catalog, err := database.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	rc := scheduler.BuildContext(catalogInput(catalog), engineCfg)

	faculty, ok := rc.FacultyMember(facultyID)
	if !ok {
		return nil, fmt.Errorf("faculty %d not found", facultyID)
	}

	entries, err := database.GetTimetableEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timetable entries: %w", err)
	}

	var mine []db.TimetableEntry
	for _, e := range entries {
		if e.FacultyID == facultyID {
			mine = append(mine, e)
		}
	}
	logger.Debug("Found timetable entries", zap.Int("total", len(entries)), zap.Int("faculty", len(mine)))

	assignments := entryAssignments(mine)
	result := &ViewScheduleResult{
		Faculty:  faculty,
		Days:     rc.Days,
		Schedule: scheduler.BuildFacultySchedules(rc, assignments)[facultyID],
		Hours:    len(assignments),
	}
	if alerts := scheduler.DetectOverwork(rc, assignments); len(alerts) > 0 {
		result.OverworkAlert = alerts[0]
	}

	return result, nil
}
