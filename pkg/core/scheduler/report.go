package scheduler

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// ScheduleEntry is one line of a faculty member's weekly schedule
type ScheduleEntry struct {
	Period       int
	Time         string
	CourseCode   string
	StudentGroup string
	IsLab        bool
	RoomID       int
	SlotID       int
}

// FacultySchedules maps faculty id -> day -> period-ordered entries
type FacultySchedules map[int]map[string][]ScheduleEntry

// DetectOverwork returns an alert for every faculty member whose weekly
// hours reach the configured threshold
func DetectOverwork(rc *Context, assignments []Assignment) []string {
	hours := lo.CountValuesBy(assignments, func(a Assignment) int {
		return a.FacultyID
	})
	threshold := rc.Config.OverworkThreshold

	var alerts []string
	for _, f := range rc.Faculty {
		if h := hours[f.ID]; h >= threshold {
			alerts = append(alerts, fmt.Sprintf(
				"OVERWORK ALERT: %s assigned %d hours/week (threshold: %dh)", f.Name, h, threshold))
		}
	}
	return alerts
}

// BuildFacultySchedules groups assignments per faculty member and day,
// ordering each day's entries by period
func BuildFacultySchedules(rc *Context, assignments []Assignment) FacultySchedules {
	schedules := make(FacultySchedules)
	for _, a := range assignments {
		slot, ok := rc.Slot(a.SlotID)
		if !ok {
			continue
		}
		code := a.CourseCode
		if course, ok := rc.Course(a.CourseID); ok {
			code = course.Code
		}

		if schedules[a.FacultyID] == nil {
			schedules[a.FacultyID] = make(map[string][]ScheduleEntry)
		}
		schedules[a.FacultyID][slot.Day] = append(schedules[a.FacultyID][slot.Day], ScheduleEntry{
			Period:       slot.Period,
			Time:         slot.TimeRange(),
			CourseCode:   code,
			StudentGroup: a.StudentGroup,
			IsLab:        a.IsLab,
			RoomID:       a.RoomID,
			SlotID:       a.SlotID,
		})
	}

	for _, days := range schedules {
		for _, entries := range days {
			sort.SliceStable(entries, func(i, j int) bool {
				return entries[i].Period < entries[j].Period
			})
		}
	}
	return schedules
}
