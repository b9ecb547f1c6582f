package criteria

import (
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
)

// FacultyMaxHoursCriterion penalises faculty assigned beyond their weekly
// maximum. A solution breaking it is never returned.
type FacultyMaxHoursCriterion struct {
	weight float64
}

// NewFacultyMaxHoursCriterion creates a new faculty max hours criterion
func NewFacultyMaxHoursCriterion(weight float64) *FacultyMaxHoursCriterion {
	return &FacultyMaxHoursCriterion{weight: weight}
}

func (c *FacultyMaxHoursCriterion) Name() string {
	return "FacultyMaxHours"
}

func (c *FacultyMaxHoursCriterion) Weight() float64 {
	return c.weight
}

func (c *FacultyMaxHoursCriterion) Hard() bool {
	return true
}

// Penalty is the total number of hours over every faculty member's maximum
func (c *FacultyMaxHoursCriterion) Penalty(rc *scheduler.Context, stats *scheduler.SolutionStats) float64 {
	excess := 0
	for _, f := range rc.Faculty {
		if h := stats.FacultyHours[f.ID]; h > f.MaxHoursPerWeek {
			excess += h - f.MaxHoursPerWeek
		}
	}
	return float64(excess)
}

// FacultyMinHoursCriterion penalises faculty left under their weekly minimum
type FacultyMinHoursCriterion struct {
	weight float64
}

// NewFacultyMinHoursCriterion creates a new faculty min hours criterion
func NewFacultyMinHoursCriterion(weight float64) *FacultyMinHoursCriterion {
	return &FacultyMinHoursCriterion{weight: weight}
}

func (c *FacultyMinHoursCriterion) Name() string {
	return "FacultyMinHours"
}

func (c *FacultyMinHoursCriterion) Weight() float64 {
	return c.weight
}

func (c *FacultyMinHoursCriterion) Hard() bool {
	return false
}

// Penalty is the total shortfall below every faculty member's minimum
func (c *FacultyMinHoursCriterion) Penalty(rc *scheduler.Context, stats *scheduler.SolutionStats) float64 {
	shortfall := 0
	for _, f := range rc.Faculty {
		if h := stats.FacultyHours[f.ID]; h < f.MinHoursPerWeek {
			shortfall += f.MinHoursPerWeek - h
		}
	}
	return float64(shortfall)
}

// FacultyDailyLoadCriterion penalises days on which a faculty member teaches
// more than limit hours
type FacultyDailyLoadCriterion struct {
	weight float64
	limit  int
}

// NewFacultyDailyLoadCriterion creates a new faculty daily load criterion
func NewFacultyDailyLoadCriterion(weight float64, limit int) *FacultyDailyLoadCriterion {
	return &FacultyDailyLoadCriterion{weight: weight, limit: limit}
}

func (c *FacultyDailyLoadCriterion) Name() string {
	return "FacultyDailyLoad"
}

func (c *FacultyDailyLoadCriterion) Weight() float64 {
	return c.weight
}

func (c *FacultyDailyLoadCriterion) Hard() bool {
	return false
}

// Penalty is the total hours over the daily limit across faculty and days
func (c *FacultyDailyLoadCriterion) Penalty(rc *scheduler.Context, stats *scheduler.SolutionStats) float64 {
	excess := 0
	for _, days := range stats.FacultyDailyHours {
		for _, h := range days {
			if h > c.limit {
				excess += h - c.limit
			}
		}
	}
	return float64(excess)
}
