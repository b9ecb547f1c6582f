package criteria

import (
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
)

// Base weights of the refinement criteria
const (
	WeightSlotConflict     = 100.0
	WeightFacultyMaxHours  = 15.0
	WeightFacultyMinHours  = 15.0
	WeightGroupLab         = 30.0
	WeightGroupDailyCap    = 20.0
	WeightConsecutiveBase  = 10.0
	WeightFacultyDailyLoad = 5.0

	// FacultyDailyHoursLimit is the daily teaching load above which a faculty
	// member's day is penalised
	FacultyDailyHoursLimit = 6
)

// Default returns the standard refinement criteria for a configuration
func Default(cfg scheduler.Config) []scheduler.Criterion {
	return []scheduler.Criterion{
		NewSlotConflictCriterion(WeightSlotConflict),
		NewFacultyMaxHoursCriterion(WeightFacultyMaxHours),
		NewFacultyMinHoursCriterion(WeightFacultyMinHours),
		NewGroupLabCriterion(WeightGroupLab),
		NewGroupDailyCapCriterion(WeightGroupDailyCap, cfg.MaxPeriodsPerDayPerGroup),
		NewConsecutiveLectureCriterion(WeightConsecutiveBase * cfg.ConsecutivePenalty),
		NewFacultyDailyLoadCriterion(WeightFacultyDailyLoad, FacultyDailyHoursLimit),
	}
}
