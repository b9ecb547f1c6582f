package db

import (
	"context"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

// CatalogSource loads the courses, faculty, rooms, time slots and student groups for a run
type CatalogSource interface {
	LoadCatalog(ctx context.Context) (*Catalog, error)
}

// EntryStore persists generated timetables.
// AllocateIDs reserves n consecutive ids from the named counter and returns the first one;
// reservations are atomic and never reuse an id.
type EntryStore interface {
	AllocateIDs(ctx context.Context, counter string, n int) (int64, error)
	InsertTimetableEntries(ctx context.Context, entries []TimetableEntry) error
	GetTimetableEntries(ctx context.Context) ([]TimetableEntry, error)
	ClearTimetable(ctx context.Context) (int64, error)
}

// TimeSlotStore replaces the generated time slot grid
type TimeSlotStore interface {
	ReplaceTimeSlots(ctx context.Context, slots []model.TimeSlot) error
}

// Database defines the interface for all database operations.
// Both the in-memory MemoryDB and postgres.DB implement this interface.
type Database interface {
	CatalogSource
	EntryStore
	TimeSlotStore
}
