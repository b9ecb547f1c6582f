package db

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

// MemoryDB is an in-process Database used for dry runs, catalog files and tests
type MemoryDB struct {
	mu       sync.Mutex
	catalog  Catalog
	entries  []TimetableEntry
	counters map[string]int64
}

// NewMemoryDB creates an in-memory database seeded with a catalog
func NewMemoryDB(catalog *Catalog) *MemoryDB {
	m := &MemoryDB{counters: make(map[string]int64)}
	if catalog != nil {
		m.catalog = *catalog
	}
	return m
}

// LoadCatalog returns a copy of the stored catalog
func (m *MemoryDB) LoadCatalog(ctx context.Context) (*Catalog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &Catalog{
		Courses:       slices.Clone(m.catalog.Courses),
		Faculty:       slices.Clone(m.catalog.Faculty),
		Rooms:         slices.Clone(m.catalog.Rooms),
		TimeSlots:     slices.Clone(m.catalog.TimeSlots),
		StudentGroups: slices.Clone(m.catalog.StudentGroups),
	}, nil
}

// AllocateIDs reserves n consecutive ids from the named counter
func (m *MemoryDB) AllocateIDs(ctx context.Context, counter string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cannot allocate %d ids", n)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := m.counters[counter] + 1
	m.counters[counter] += int64(n)
	return start, nil
}

// InsertTimetableEntries appends entries, stamping CreatedAt when unset
func (m *MemoryDB) InsertTimetableEntries(ctx context.Context, entries []TimetableEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, e := range entries {
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		m.entries = append(m.entries, e)
	}
	return nil
}

// GetTimetableEntries returns all stored entries
func (m *MemoryDB) GetTimetableEntries(ctx context.Context) ([]TimetableEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.entries), nil
}

// ClearTimetable removes all entries and reports how many were removed
func (m *MemoryDB) ClearTimetable(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.entries))
	m.entries = nil
	return n, nil
}

// ReplaceTimeSlots swaps the catalog's time slot grid
func (m *MemoryDB) ReplaceTimeSlots(ctx context.Context, slots []model.TimeSlot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog.TimeSlots = slices.Clone(slots)
	return nil
}
