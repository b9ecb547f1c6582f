package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

// ReplaceTimeSlots swaps the time slot grid in one transaction
func (d *DB) ReplaceTimeSlots(ctx context.Context, slots []model.TimeSlot) error {
	return pgx.BeginFunc(ctx, d.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM time_slot`); err != nil {
			return fmt.Errorf("failed to delete time slots: %w", err)
		}

		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"time_slot"},
			[]string{"id", "day", "period", "start_time", "end_time"},
			pgx.CopyFromSlice(len(slots), func(i int) ([]any, error) {
				s := slots[i]
				return []any{s.ID, s.Day, s.Period, s.StartTime, s.EndTime}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("failed to insert time slots: %w", err)
		}
		return nil
	})
}
