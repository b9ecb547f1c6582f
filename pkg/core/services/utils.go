package services

import (
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
	"github.com/jakechorley/timetable-engine/pkg/db"
)

// catalogInput converts a loaded catalog into engine input
func catalogInput(catalog *db.Catalog) scheduler.Input {
	return scheduler.Input{
		Courses:       catalog.Courses,
		Faculty:       catalog.Faculty,
		Rooms:         catalog.Rooms,
		TimeSlots:     catalog.TimeSlots,
		StudentGroups: catalog.StudentGroups,
	}
}

// entryAssignments rebuilds assignments from stored entries so the reporter can
// render them
func entryAssignments(entries []db.TimetableEntry) []scheduler.Assignment {
	assignments := make([]scheduler.Assignment, len(entries))
	for i, e := range entries {
		assignments[i] = scheduler.Assignment{
			CourseID:     e.CourseID,
			FacultyID:    e.FacultyID,
			RoomID:       e.RoomID,
			SlotID:       e.TimeSlotID,
			StudentGroup: e.StudentGroup,
			IsLab:        e.IsLab,
		}
	}
	return assignments
}
