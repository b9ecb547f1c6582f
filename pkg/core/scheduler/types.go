package scheduler

import (
	"errors"
	"fmt"
	"time"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

var (
	// ErrValidation is returned when the catalog is missing required entities
	ErrValidation = errors.New("validation failed")
	// ErrInfeasible is returned when bound analysis proves no timetable exists
	ErrInfeasible = errors.New("timetable is infeasible")
	// ErrSolverFailed is returned when an ILP solve ends without a proven optimum
	ErrSolverFailed = errors.New("solver failed")
	// ErrNoPlacement is returned when every strategy fails to place any session
	ErrNoPlacement = errors.New("no sessions could be placed")
	// ErrInvariantViolation is returned when a solution breaks a hard invariant
	ErrInvariantViolation = errors.New("invariant violation")
)

// Input is the catalog snapshot a generation run works from
type Input struct {
	Courses       []model.Course
	Faculty       []model.Faculty
	Rooms         []model.Room
	TimeSlots     []model.TimeSlot
	StudentGroups []model.StudentGroup
}

// Session is one weekly meeting of a course for a student group. CourseCode
// is lowercased for expertise matching.
type Session struct {
	ID           int
	CourseID     int
	CourseCode   string
	CourseType   model.CourseType
	StudentGroup string
	Index        int
	IsLab        bool
}

// Assignment places a session with a faculty member in a room at a time slot
type Assignment struct {
	SessionID    int
	CourseID     int
	FacultyID    int
	RoomID       int
	SlotID       int
	StudentGroup string
	CourseCode   string
	IsLab        bool
}

// Config holds the engine tunables. DefaultConfig returns the documented defaults.
type Config struct {
	OverworkThreshold        int
	SeniorFacultyPreference  bool
	ConsecutivePenalty       float64
	LabPriority              float64
	SeniorSlotBonus          float64
	FastMode                 bool
	UltraFast                bool
	MaximizeFill             bool
	MinViolationPenalty      float64
	AssignReward             float64
	MaxSlotsPerSession       int
	GreedySuccessThreshold   float64
	MaxPeriodsPerDayPerGroup int
	BranchSubstringMatch     bool
	GeneticRefinement        bool
	GAPopulation             int
	GAGenerations            int
	RandomSeed               int64
	ILPTimeLimit             time.Duration
	ILPNodeLimit             int
	CandidateLimit           int
}

// DefaultConfig returns the engine defaults
func DefaultConfig() Config {
	return Config{
		OverworkThreshold:        40,
		SeniorFacultyPreference:  true,
		ConsecutivePenalty:       20.0,
		LabPriority:              50.0,
		SeniorSlotBonus:          10.0,
		FastMode:                 true,
		UltraFast:                true,
		MaximizeFill:             false,
		MinViolationPenalty:      1000.0,
		AssignReward:             50.0,
		MaxSlotsPerSession:       0,
		GreedySuccessThreshold:   0.7,
		MaxPeriodsPerDayPerGroup: 0,
		BranchSubstringMatch:     false,
		GeneticRefinement:        true,
		GAPopulation:             10,
		GAGenerations:            15,
		RandomSeed:               0,
		ILPTimeLimit:             30 * time.Second,
		ILPNodeLimit:             0,
		CandidateLimit:           256,
	}
}

// MaxPriorityMagnitude is the largest objective reward a single assignment
// variable can earn from the priority terms
func (c Config) MaxPriorityMagnitude() float64 {
	total := c.LabPriority
	if c.SeniorFacultyPreference {
		total += c.SeniorSlotBonus
	}
	if c.MaximizeFill {
		total += c.AssignReward
	}
	return total
}

// Validate checks ranges and that missing one minimum hour always costs more
// than any single assignment can earn
func (c Config) Validate() error {
	if c.OverworkThreshold < 1 {
		return fmt.Errorf("overwork_threshold must be at least 1, got %d", c.OverworkThreshold)
	}
	if c.GreedySuccessThreshold < 0 || c.GreedySuccessThreshold > 1 {
		return fmt.Errorf("greedy_success_threshold must be within [0, 1], got %v", c.GreedySuccessThreshold)
	}
	if c.ConsecutivePenalty < 0 || c.LabPriority < 0 || c.SeniorSlotBonus < 0 || c.AssignReward < 0 {
		return fmt.Errorf("priority weights must not be negative")
	}
	if c.MaxSlotsPerSession < 0 {
		return fmt.Errorf("max_slots_per_session must not be negative, got %d", c.MaxSlotsPerSession)
	}
	if c.MaxPeriodsPerDayPerGroup < 0 {
		return fmt.Errorf("max_periods_per_day_per_group must not be negative, got %d", c.MaxPeriodsPerDayPerGroup)
	}
	if c.GAPopulation < 2 {
		return fmt.Errorf("ga_population must be at least 2, got %d", c.GAPopulation)
	}
	if c.GAGenerations < 0 {
		return fmt.Errorf("ga_generations must not be negative, got %d", c.GAGenerations)
	}
	if c.MinViolationPenalty <= c.MaxPriorityMagnitude() {
		return fmt.Errorf("min_violation_penalty (%v) must exceed the largest per-assignment priority (%v)",
			c.MinViolationPenalty, c.MaxPriorityMagnitude())
	}
	return nil
}
