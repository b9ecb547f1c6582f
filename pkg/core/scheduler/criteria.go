package scheduler

import (
	"fmt"
	"sort"
)

// Criterion scores one aspect of a solution for the genetic refiner. The
// fitness of a solution is the weighted sum of every criterion's penalty,
// lower being better.
type Criterion interface {
	// Name identifies the criterion in logs
	Name() string

	// Weight scales the raw penalty
	Weight() float64

	// Hard marks criteria whose violation makes a solution unacceptable
	Hard() bool

	// Penalty returns the raw, unweighted penalty for a solution
	Penalty(rc *Context, stats *SolutionStats) float64
}

type courseDayKey struct {
	courseID int
	group    string
	day      string
}

// SolutionStats aggregates the per-resource loads of a solution so criteria
// can be evaluated without re-scanning the assignments
type SolutionStats struct {
	Assignments       []Assignment
	FacultyHours      map[int]int
	FacultyDailyHours map[int]map[string]int
	GroupDailyHours   map[string]map[string]int
	GroupLabs         map[string]int
	Conflicts         int

	coursePeriods map[courseDayKey][]int
}

// ComputeStats aggregates a solution. Conflicts counts every extra booking of
// a (faculty, slot), (room, slot) or (group, slot) pair.
func ComputeStats(rc *Context, assignments []Assignment) *SolutionStats {
	stats := &SolutionStats{
		Assignments:       assignments,
		FacultyHours:      make(map[int]int),
		FacultyDailyHours: make(map[int]map[string]int),
		GroupDailyHours:   make(map[string]map[string]int),
		GroupLabs:         make(map[string]int),
		coursePeriods:     make(map[courseDayKey][]int),
	}

	facultySlot := make(map[slotKey]int)
	roomSlot := make(map[slotKey]int)
	groupSlot := make(map[groupSlotKey]int)

	for _, a := range assignments {
		slot, _ := rc.Slot(a.SlotID)

		if facultySlot[slotKey{a.FacultyID, a.SlotID}]++; facultySlot[slotKey{a.FacultyID, a.SlotID}] > 1 {
			stats.Conflicts++
		}
		if roomSlot[slotKey{a.RoomID, a.SlotID}]++; roomSlot[slotKey{a.RoomID, a.SlotID}] > 1 {
			stats.Conflicts++
		}
		if groupSlot[groupSlotKey{a.StudentGroup, a.SlotID}]++; groupSlot[groupSlotKey{a.StudentGroup, a.SlotID}] > 1 {
			stats.Conflicts++
		}

		stats.FacultyHours[a.FacultyID]++
		if stats.FacultyDailyHours[a.FacultyID] == nil {
			stats.FacultyDailyHours[a.FacultyID] = make(map[string]int)
		}
		stats.FacultyDailyHours[a.FacultyID][slot.Day]++

		if stats.GroupDailyHours[a.StudentGroup] == nil {
			stats.GroupDailyHours[a.StudentGroup] = make(map[string]int)
		}
		stats.GroupDailyHours[a.StudentGroup][slot.Day]++

		if a.IsLab {
			stats.GroupLabs[a.StudentGroup]++
		}

		key := courseDayKey{a.CourseID, a.StudentGroup, slot.Day}
		stats.coursePeriods[key] = append(stats.coursePeriods[key], slot.Period)
	}

	return stats
}

// ConsecutiveRepeats counts adjacent periods on the same day where a group
// has the same course twice in a row
func (s *SolutionStats) ConsecutiveRepeats() int {
	total := 0
	for _, periods := range s.coursePeriods {
		sorted := append([]int(nil), periods...)
		sort.Ints(sorted)
		for i := 1; i < len(sorted); i++ {
			if sorted[i] == sorted[i-1]+1 {
				total++
			}
		}
	}
	return total
}

// Evaluation is the scored form of a solution
type Evaluation struct {
	Fitness       float64
	HardViolation bool
}

// Evaluate scores a solution against the criteria
func Evaluate(rc *Context, criteria []Criterion, assignments []Assignment) Evaluation {
	stats := ComputeStats(rc, assignments)
	var eval Evaluation
	for _, c := range criteria {
		p := c.Penalty(rc, stats)
		eval.Fitness += c.Weight() * p
		if c.Hard() && p > 0 {
			eval.HardViolation = true
		}
	}
	return eval
}

// ValidateAssignments checks the hard invariants every returned solution must
// hold and describes each violation found
func ValidateAssignments(rc *Context, assignments []Assignment) []string {
	var violations []string
	stats := ComputeStats(rc, assignments)
	if stats.Conflicts > 0 {
		violations = append(violations, fmt.Sprintf("%d double bookings", stats.Conflicts))
	}

	for _, a := range assignments {
		if !rc.IsAvailable(a.FacultyID, a.SlotID) {
			violations = append(violations, fmt.Sprintf(
				"faculty %d assigned outside availability at slot %d", a.FacultyID, a.SlotID))
		}
		session, ok := rc.Session(a.SessionID)
		if !ok {
			violations = append(violations, fmt.Sprintf("unknown session %d", a.SessionID))
			continue
		}
		course, _ := rc.Course(session.CourseID)
		group := rc.group(session.StudentGroup)
		if !GroupEligible(course, group, rc.Config.BranchSubstringMatch) {
			violations = append(violations, fmt.Sprintf(
				"course %s assigned to ineligible group %s", course.Code, session.StudentGroup))
		}
	}

	for _, f := range rc.Faculty {
		if stats.FacultyHours[f.ID] > f.MaxHoursPerWeek {
			violations = append(violations, fmt.Sprintf(
				"faculty %s assigned %d hours over maximum %d", f.Name, stats.FacultyHours[f.ID], f.MaxHoursPerWeek))
		}
	}
	return violations
}
