package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

// TimetableEntry represents a persisted timetable entry record
type TimetableEntry struct {
	ID           int64
	GenerationID uuid.UUID
	CourseID     int
	FacultyID    int
	RoomID       int
	TimeSlotID   int
	StudentGroup string
	IsLab        bool
	CreatedAt    time.Time
}

// Catalog is the read-only reference data a generation run works from
type Catalog struct {
	Courses       []model.Course
	Faculty       []model.Faculty
	Rooms         []model.Room
	TimeSlots     []model.TimeSlot
	StudentGroups []model.StudentGroup
}

const (
	// CounterTimetableEntry allocates timetable entry ids
	CounterTimetableEntry = "timetable_entry"
	// CounterTimeSlot allocates time slot ids
	CounterTimeSlot = "time_slot"
)
