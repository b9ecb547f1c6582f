package scheduler

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

// BoundReport is the outcome of the pre-solve capacity checks. Feasible is
// false only when a hard bound is broken; warnings never block a run.
type BoundReport struct {
	Feasible    bool
	Reasons     []string
	Warnings    []string
	Sessions    int
	LabSessions int
	MaxCapacity int
	MinRequired int
	LabCapacity int
}

// Err returns an ErrInfeasible wrapping the first hard reason, or nil
func (r BoundReport) Err() error {
	if r.Feasible {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInfeasible, r.Reasons[0])
}

// AnalyzeBounds checks aggregate capacity before any solving.
//
// Hard bounds: total sessions must fit in the summed faculty maximum hours
// and lab sessions must fit in lab rooms times slots. Everything else is
// reported as a warning.
func AnalyzeBounds(rc *Context) BoundReport {
	report := BoundReport{
		Feasible:    true,
		Sessions:    len(rc.Sessions),
		LabSessions: rc.LabSessionCount(),
	}

	for _, f := range rc.Faculty {
		report.MaxCapacity += f.MaxHoursPerWeek
		report.MinRequired += f.MinHoursPerWeek
	}
	labRooms := len(rc.RoomsOfType(model.RoomTypeLab))
	report.LabCapacity = labRooms * len(rc.Slots)

	if report.Sessions > report.MaxCapacity {
		report.Feasible = false
		report.Reasons = append(report.Reasons, fmt.Sprintf(
			"%d sessions exceed total faculty capacity of %d hours", report.Sessions, report.MaxCapacity))
	}
	if report.LabSessions > report.LabCapacity {
		report.Feasible = false
		report.Reasons = append(report.Reasons, fmt.Sprintf(
			"%d lab sessions exceed lab capacity of %d (%d lab rooms x %d slots)",
			report.LabSessions, report.LabCapacity, labRooms, len(rc.Slots)))
	}

	if report.Sessions < report.MinRequired {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"Only %d sessions for %d required faculty minimum hours; some faculty will be under-loaded",
			report.Sessions, report.MinRequired))
	}

	report.Warnings = append(report.Warnings, courseWarnings(rc)...)
	report.Warnings = append(report.Warnings, facultyWarnings(rc)...)

	return report
}

func courseWarnings(rc *Context) []string {
	var warnings []string
	scheduled := lo.Uniq(lo.Map(rc.Sessions, func(s Session, _ int) int {
		return s.CourseID
	}))
	for _, courseID := range scheduled {
		course, _ := rc.Course(courseID)
		if len(rc.EligibleRooms(course)) == 0 {
			warnings = append(warnings, fmt.Sprintf("No suitable rooms for course %s", course.Code))
		}
		if len(rc.EligibleFaculty(course)) == 0 {
			warnings = append(warnings, fmt.Sprintf("No faculty available for course %s", course.Code))
		}
	}
	return warnings
}

func facultyWarnings(rc *Context) []string {
	var warnings []string
	for _, f := range rc.Faculty {
		if f.MinHoursPerWeek <= 0 {
			continue
		}
		available := rc.AvailableSlotCount(f.ID)
		if available < f.MinHoursPerWeek {
			warnings = append(warnings, fmt.Sprintf(
				"Faculty %s has %d available slots but a minimum of %d hours",
				f.Name, available, f.MinHoursPerWeek))
		}

		feasible := lo.CountBy(rc.Sessions, func(s Session) bool {
			course, _ := rc.Course(s.CourseID)
			return rc.CanTeach(f.ID, course) && len(rc.EligibleRooms(course)) > 0
		})
		if feasible < f.MinHoursPerWeek {
			warnings = append(warnings, fmt.Sprintf(
				"Faculty %s can only take %d sessions but has a minimum of %d hours",
				f.Name, feasible, f.MinHoursPerWeek))
		}
	}
	return warnings
}
