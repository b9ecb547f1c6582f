// Package slots generates the weekly time slot grid from a period configuration
package slots

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

const clockLayout = "15:04"

// referenceWeek is a Monday used to expand teaching-day recurrences into weekday names
var referenceWeek = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Break is a pause inserted after a period
type Break struct {
	AfterPeriod     int
	DurationMinutes int
	Name            string
}

// PeriodConfig describes the shape of a teaching day
type PeriodConfig struct {
	PeriodsPerDay         int
	PeriodDurationMinutes int
	DayStartTime          string
	TeachingDays          string
	Breaks                []Break
}

// TeachingDays expands an RRULE (for example "FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR")
// into the weekday names it covers within one week, Monday first
func TeachingDays(rule string) ([]string, error) {
	opt, err := rrule.StrToROption(rule)
	if err != nil {
		return nil, fmt.Errorf("invalid teaching days rule %q: %w", rule, err)
	}
	opt.Dtstart = referenceWeek

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("invalid teaching days rule %q: %w", rule, err)
	}

	seen := make(map[time.Weekday]bool)
	var days []string
	for _, occurrence := range r.Between(referenceWeek, referenceWeek.AddDate(0, 0, 6), true) {
		if seen[occurrence.Weekday()] {
			continue
		}
		seen[occurrence.Weekday()] = true
		days = append(days, occurrence.Weekday().String())
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("teaching days rule %q produces no days", rule)
	}
	return days, nil
}

// Generate builds periods for every teaching day. Periods are numbered from 1
// and run back to back from the day start, with breaks pushing later periods
// back. Returned slots have no ids yet.
func Generate(cfg PeriodConfig) ([]model.TimeSlot, error) {
	if cfg.PeriodsPerDay <= 0 {
		return nil, fmt.Errorf("periods per day must be positive, got %d", cfg.PeriodsPerDay)
	}
	if cfg.PeriodDurationMinutes <= 0 {
		return nil, fmt.Errorf("period duration must be positive, got %d", cfg.PeriodDurationMinutes)
	}
	start, err := time.Parse(clockLayout, cfg.DayStartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid day start time %q: %w", cfg.DayStartTime, err)
	}
	days, err := TeachingDays(cfg.TeachingDays)
	if err != nil {
		return nil, err
	}

	breakAfter := make(map[int]time.Duration, len(cfg.Breaks))
	for _, b := range cfg.Breaks {
		breakAfter[b.AfterPeriod] += time.Duration(b.DurationMinutes) * time.Minute
	}
	period := time.Duration(cfg.PeriodDurationMinutes) * time.Minute

	slots := make([]model.TimeSlot, 0, len(days)*cfg.PeriodsPerDay)
	for _, day := range days {
		clock := start
		for p := 1; p <= cfg.PeriodsPerDay; p++ {
			end := clock.Add(period)
			if end.Day() != start.Day() {
				return nil, fmt.Errorf("period %d on %s runs past midnight", p, day)
			}
			slots = append(slots, model.TimeSlot{
				Day:       day,
				Period:    p,
				StartTime: clock.Format(clockLayout),
				EndTime:   end.Format(clockLayout),
			})
			clock = end.Add(breakAfter[p])
		}
	}
	return slots, nil
}

// AssignIDs numbers slots consecutively from start
func AssignIDs(slots []model.TimeSlot, start int64) {
	for i := range slots {
		slots[i].ID = int(start) + i
	}
}
