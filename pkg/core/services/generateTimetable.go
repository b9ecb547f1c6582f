package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/timetable-engine/internal/config"
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler/criteria"
	"github.com/jakechorley/timetable-engine/pkg/db"
	"github.com/jakechorley/timetable-engine/pkg/metrics"
)

// RunMetrics summarises where a generation run spent its time and how well it placed sessions
type RunMetrics struct {
	Phase         scheduler.Phase
	Strategy      string
	TotalSessions int
	Placed        int
	PlacementRate float64
	Refined       bool
	Timings       scheduler.Timings
	Persist       time.Duration
	Total         time.Duration
}

// GenerateTimetableResult contains the generation results
type GenerateTimetableResult struct {
	GenerationID     uuid.UUID
	Success          bool
	Error            string
	DryRun           bool
	EntriesCreated   int
	Assignments      []scheduler.Assignment
	Warnings         []string
	FacultySchedules scheduler.FacultySchedules
	OverworkAlerts   []string
	Metrics          RunMetrics
}

// GenerateTimetableStore defines the database operations needed for generating a timetable
type GenerateTimetableStore interface {
	LoadCatalog(ctx context.Context) (*db.Catalog, error)
	AllocateIDs(ctx context.Context, counter string, n int) (int64, error)
	InsertTimetableEntries(ctx context.Context, entries []db.TimetableEntry) error
}

// GenerateTimetable runs the engine over the stored catalog and writes the placed
// sessions as timetable entries.
// An engine failure is reported on the result with Success false; the returned
// error is reserved for storage problems.
// If dryRun is true, nothing is written. The recorder may be nil.
func GenerateTimetable(
	ctx context.Context,
	database GenerateTimetableStore,
	cfg *config.Config,
	logger *zap.Logger,
	dryRun bool,
	recorder *metrics.Recorder,
) (*GenerateTimetableResult, error) {
	started := time.Now()
	result := &GenerateTimetableResult{GenerationID: uuid.New(), DryRun: dryRun}
	logger = logger.With(zap.String("generation_id", result.GenerationID.String()))
	logger.Debug("Starting generateTimetable", zap.Bool("dry_run", dryRun))

	engineCfg, err := cfg.SchedulerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build engine config: %w", err)
	}

	// Step 1: DB query - Load catalog
	logger.Debug("Loading catalog")
	catalog, err := database.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Debug("Loaded catalog",
		zap.Int("courses", len(catalog.Courses)),
		zap.Int("faculty", len(catalog.Faculty)),
		zap.Int("rooms", len(catalog.Rooms)),
		zap.Int("time_slots", len(catalog.TimeSlots)),
		zap.Int("student_groups", len(catalog.StudentGroups)))

	// Step 2: Run the engine
	out := scheduler.Generate(ctx, catalogInput(catalog), engineCfg, scheduler.Options{
		Logger:   logger,
		Criteria: criteria.Default(engineCfg),
	})
	recorder.ObserveOutcome(out)

	result.Success = out.Success
	result.Assignments = out.Assignments
	result.Warnings = out.Warnings
	result.FacultySchedules = out.FacultySchedules
	result.OverworkAlerts = out.OverworkAlerts
	result.Metrics = RunMetrics{
		Phase:         out.Phase,
		Strategy:      out.Strategy,
		TotalSessions: out.TotalSessions,
		Placed:        len(out.Assignments),
		PlacementRate: out.PlacementRate,
		Refined:       out.Refined,
		Timings:       out.Timings,
	}

	if !out.Success {
		result.Error = out.Err.Error()
		result.Metrics.Total = time.Since(started)
		logger.Debug("Generation failed", zap.String("phase", string(out.Phase)), zap.Error(out.Err))
		return result, nil
	}

	if dryRun {
		result.Metrics.Total = time.Since(started)
		logger.Debug("Dry run - skipping persistence", zap.Int("assignments", len(out.Assignments)))
		return result, nil
	}

	// Step 3: DB write - Allocate ids and insert entries
	persistStart := time.Now()
	firstID, err := database.AllocateIDs(ctx, db.CounterTimetableEntry, len(out.Assignments))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate timetable entry ids: %w", err)
	}
	logger.Debug("Allocated timetable entry ids",
		zap.Int64("first_id", firstID),
		zap.Int("count", len(out.Assignments)))

	entries := make([]db.TimetableEntry, len(out.Assignments))
	now := time.Now().UTC()
	for i, a := range out.Assignments {
		entries[i] = db.TimetableEntry{
			ID:           firstID + int64(i),
			GenerationID: result.GenerationID,
			CourseID:     a.CourseID,
			FacultyID:    a.FacultyID,
			RoomID:       a.RoomID,
			TimeSlotID:   a.SlotID,
			StudentGroup: a.StudentGroup,
			IsLab:        a.IsLab,
			CreatedAt:    now,
		}
	}

	if err := database.InsertTimetableEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to insert timetable entries: %w", err)
	}
	result.EntriesCreated = len(entries)
	result.Metrics.Phase = scheduler.PhasePersisted
	recorder.ObservePersisted(len(entries))
	result.Metrics.Persist = time.Since(persistStart)
	result.Metrics.Total = time.Since(started)

	logger.Debug("Persisted timetable entries",
		zap.Int("entries", len(entries)),
		zap.Duration("elapsed", result.Metrics.Persist))

	return result, nil
}
