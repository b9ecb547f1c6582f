package db

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

func TestMemoryDB_AllocateIDs(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB(nil)

	first, err := m.AllocateIDs(ctx, CounterTimetableEntry, 3)
	require.NoError(t, err)
	second, err := m.AllocateIDs(ctx, CounterTimetableEntry, 2)
	require.NoError(t, err)
	other, err := m.AllocateIDs(ctx, CounterTimeSlot, 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(4), second)
	assert.Equal(t, int64(1), other)

	_, err = m.AllocateIDs(ctx, CounterTimeSlot, 0)
	assert.Error(t, err)
}

func TestMemoryDB_AllocateIDsConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB(nil)

	var wg sync.WaitGroup
	starts := make([]int64, 20)
	for i := range starts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start, err := m.AllocateIDs(ctx, CounterTimetableEntry, 5)
			assert.NoError(t, err)
			starts[i] = start
		}(i)
	}
	wg.Wait()

	seen := make(map[int64]bool)
	for _, s := range starts {
		for id := s; id < s+5; id++ {
			assert.False(t, seen[id], "id %d allocated twice", id)
			seen[id] = true
		}
	}
	assert.Len(t, seen, 100)
}

func TestMemoryDB_Entries(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB(nil)

	require.NoError(t, m.InsertTimetableEntries(ctx, []TimetableEntry{
		{ID: 1, CourseID: 1, FacultyID: 1, RoomID: 1, TimeSlotID: 1, StudentGroup: "G1"},
		{ID: 2, CourseID: 1, FacultyID: 1, RoomID: 1, TimeSlotID: 2, StudentGroup: "G1"},
	}))

	entries, err := m.GetTimetableEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.False(t, entries[0].CreatedAt.IsZero())

	removed, err := m.ClearTimetable(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	entries, err = m.GetTimetableEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestMemoryDB_ReplaceTimeSlots(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB(&Catalog{TimeSlots: []model.TimeSlot{{ID: 1, Day: "Monday", Period: 1}}})

	require.NoError(t, m.ReplaceTimeSlots(ctx, []model.TimeSlot{
		{ID: 7, Day: "Tuesday", Period: 1},
		{ID: 8, Day: "Tuesday", Period: 2},
	}))

	catalog, err := m.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, catalog.TimeSlots, 2)
	assert.Equal(t, 7, catalog.TimeSlots[0].ID)
}

func TestMemoryDB_LoadCatalogReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryDB(&Catalog{Rooms: []model.Room{{ID: 1, Name: "C1"}}})

	catalog, err := m.LoadCatalog(ctx)
	require.NoError(t, err)
	catalog.Rooms[0].Name = "changed"

	again, err := m.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, "C1", again.Rooms[0].Name)
}
