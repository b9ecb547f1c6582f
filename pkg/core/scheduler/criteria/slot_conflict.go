package criteria

import (
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
)

// SlotConflictCriterion penalises double bookings of a faculty member, room
// or student group in the same slot
type SlotConflictCriterion struct {
	weight float64
}

// NewSlotConflictCriterion creates a new slot conflict criterion
func NewSlotConflictCriterion(weight float64) *SlotConflictCriterion {
	return &SlotConflictCriterion{weight: weight}
}

func (c *SlotConflictCriterion) Name() string {
	return "SlotConflict"
}

func (c *SlotConflictCriterion) Weight() float64 {
	return c.weight
}

func (c *SlotConflictCriterion) Hard() bool {
	return true
}

// Penalty is the number of extra bookings
func (c *SlotConflictCriterion) Penalty(rc *scheduler.Context, stats *scheduler.SolutionStats) float64 {
	return float64(stats.Conflicts)
}
