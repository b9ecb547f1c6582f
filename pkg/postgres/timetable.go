package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/timetable-engine/pkg/db"
)

// AllocateIDs reserves n consecutive ids from the named counter in one statement.
// The upsert row lock serialises concurrent callers, so ranges never overlap.
func (d *DB) AllocateIDs(ctx context.Context, counter string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("cannot allocate %d ids", n)
	}

	var seq int64
	err := d.pool.QueryRow(ctx, `
		INSERT INTO id_counter (name, seq) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET seq = id_counter.seq + EXCLUDED.seq
		RETURNING seq
	`, counter, n).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %d ids from %s: %w", n, counter, err)
	}
	return seq - int64(n) + 1, nil
}

// InsertTimetableEntries bulk loads entries with COPY
func (d *DB) InsertTimetableEntries(ctx context.Context, entries []db.TimetableEntry) error {
	if len(entries) == 0 {
		return nil
	}

	now := time.Now().UTC()
	_, err := d.pool.CopyFrom(ctx,
		pgx.Identifier{"timetable_entry"},
		[]string{"id", "generation_id", "course_id", "faculty_id", "room_id", "time_slot_id", "student_group", "is_lab", "created_at"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			createdAt := e.CreatedAt
			if createdAt.IsZero() {
				createdAt = now
			}
			return []any{e.ID, e.GenerationID, e.CourseID, e.FacultyID, e.RoomID, e.TimeSlotID, e.StudentGroup, e.IsLab, createdAt}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to insert timetable entries: %w", err)
	}
	return nil
}

// GetTimetableEntries retrieves all timetable entries
func (d *DB) GetTimetableEntries(ctx context.Context) ([]db.TimetableEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, generation_id::text, course_id, faculty_id, room_id, time_slot_id, student_group, is_lab, created_at
		FROM timetable_entry
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query timetable entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (db.TimetableEntry, error) {
		var e db.TimetableEntry
		err := row.Scan(&e.ID, &e.GenerationID, &e.CourseID, &e.FacultyID, &e.RoomID,
			&e.TimeSlotID, &e.StudentGroup, &e.IsLab, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan timetable entries: %w", err)
	}
	return entries, nil
}

// ClearTimetable deletes every timetable entry
func (d *DB) ClearTimetable(ctx context.Context) (int64, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM timetable_entry`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear timetable: %w", err)
	}
	return tag.RowsAffected(), nil
}
