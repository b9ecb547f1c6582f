package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
	"github.com/jakechorley/timetable-engine/pkg/db"
)

// LoadCatalog reads the five catalog tables concurrently
func (d *DB) LoadCatalog(ctx context.Context) (*db.Catalog, error) {
	catalog := &db.Catalog{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		catalog.Courses, err = d.getCourses(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Faculty, err = d.getFaculty(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Rooms, err = d.getRooms(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.TimeSlots, err = d.getTimeSlots(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.StudentGroups, err = d.getStudentGroups(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return catalog, nil
}

func (d *DB) getCourses(ctx context.Context) ([]model.Course, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, code, name, credits, hours_per_week, course_type, program, branch, semester, required_room_tags
		FROM course
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}

	courses, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Course, error) {
		var c model.Course
		var courseType string
		err := row.Scan(&c.ID, &c.Code, &c.Name, &c.Credits, &c.HoursPerWeek, &courseType,
			&c.Program, &c.Branch, &c.Semester, &c.RequiredRoomTags)
		c.Type = model.CourseType(courseType)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan courses: %w", err)
	}
	return courses, nil
}

func (d *DB) getFaculty(ctx context.Context) ([]model.Faculty, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, expertise, availability, min_hours_per_week, max_hours_per_week
		FROM faculty
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query faculty: %w", err)
	}

	faculty, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Faculty, error) {
		var f model.Faculty
		var availability []byte
		var minHours, maxHours *int
		if err := row.Scan(&f.ID, &f.Name, &f.Expertise, &availability, &minHours, &maxHours); err != nil {
			return f, err
		}
		f.Availability = model.ParseAvailability(availability)
		f.MinHoursPerWeek = model.DefaultMinHoursPerWeek
		if minHours != nil {
			f.MinHoursPerWeek = *minHours
		}
		f.MaxHoursPerWeek = model.DefaultMaxHoursPerWeek
		if maxHours != nil {
			f.MaxHoursPerWeek = *maxHours
		}
		return f, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan faculty: %w", err)
	}
	return faculty, nil
}

func (d *DB) getRooms(ctx context.Context) ([]model.Room, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, name, room_type, tags FROM room ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}

	rooms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.Room, error) {
		var r model.Room
		var roomType string
		err := row.Scan(&r.ID, &r.Name, &roomType, &r.Tags)
		r.Type = model.RoomType(roomType)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan rooms: %w", err)
	}
	return rooms, nil
}

func (d *DB) getTimeSlots(ctx context.Context) ([]model.TimeSlot, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, day, period, start_time, end_time FROM time_slot ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query time slots: %w", err)
	}

	slots, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TimeSlot, error) {
		var s model.TimeSlot
		err := row.Scan(&s.ID, &s.Day, &s.Period, &s.StartTime, &s.EndTime)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan time slots: %w", err)
	}
	return slots, nil
}

func (d *DB) getStudentGroups(ctx context.Context) ([]model.StudentGroup, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, name, description, program, branch, semester
		FROM student_group
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query student groups: %w", err)
	}

	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.StudentGroup, error) {
		var g model.StudentGroup
		err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Program, &g.Branch, &g.Semester)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan student groups: %w", err)
	}
	return groups, nil
}
