package scheduler

import (
	"context"
	"fmt"
	"math"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
	"github.com/jakechorley/timetable-engine/pkg/mip"
)

const seniorThreshold = 0.7
const earlyPeriodCutoff = 3

// ILPStrategy solves the placement as a 0-1 program.
//
// The full formulation has one variable per (session, faculty, room, slot).
// The fast formulation drops the room dimension, bounds the sessions per slot
// by room counts, and assigns rooms after solving.
type ILPStrategy struct {
	Fast bool
}

func (s ILPStrategy) Name() string {
	if s.Fast {
		return "ilp-fast"
	}
	return "ilp-full"
}

// candidate is one assignment variable of the program
type candidate struct {
	session Session
	faculty int
	room    int
	slot    model.TimeSlot
	v       mip.Var
}

func (s ILPStrategy) Attempt(ctx context.Context, rc *Context) (*Attempt, error) {
	cfg := rc.Config
	attempt := &Attempt{Strategy: s.Name(), Total: len(rc.Sessions)}

	problem := mip.NewProblem(s.Name())
	var candidates []candidate
	bySession := make(map[int][]int)
	warned := make(map[string]bool)
	warnOnce := func(msg string) {
		if !warned[msg] {
			warned[msg] = true
			attempt.Warnings = append(attempt.Warnings, msg)
		}
	}

	for _, session := range rc.Sessions {
		course, _ := rc.Course(session.CourseID)
		faculty := rc.EligibleFaculty(course)
		if len(faculty) == 0 {
			warnOnce(fmt.Sprintf("No faculty available for course %s", course.Code))
			continue
		}
		rooms := rc.EligibleRooms(course)
		if len(rooms) == 0 {
			warnOnce(fmt.Sprintf("No suitable rooms for course %s", course.Code))
			if !s.Fast {
				continue
			}
		}

		for _, f := range faculty {
			slots := 0
			for _, slot := range rc.Slots {
				if !rc.IsAvailable(f.ID, slot.ID) {
					continue
				}
				if cfg.MaxSlotsPerSession > 0 && slots >= cfg.MaxSlotsPerSession {
					break
				}
				slots++

				cost := priority(rc, session, f.ID, slot)
				if s.Fast {
					v := problem.AddBinary(fmt.Sprintf("x_%d_%d_%d", session.ID, f.ID, slot.ID), cost)
					bySession[session.ID] = append(bySession[session.ID], len(candidates))
					candidates = append(candidates, candidate{session: session, faculty: f.ID, slot: slot, v: v})
					continue
				}
				for _, room := range rooms {
					v := problem.AddBinary(fmt.Sprintf("x_%d_%d_%d_%d", session.ID, f.ID, room.ID, slot.ID), cost)
					bySession[session.ID] = append(bySession[session.ID], len(candidates))
					candidates = append(candidates, candidate{session: session, faculty: f.ID, room: room.ID, slot: slot, v: v})
				}
			}
		}
	}

	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no assignment variables could be generated", ErrSolverFailed)
	}

	s.addConstraints(rc, problem, candidates, bySession)

	sol, err := problem.Solve(ctx, mip.Options{TimeLimit: cfg.ILPTimeLimit, NodeLimit: cfg.ILPNodeLimit})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolverFailed, err)
	}
	if !sol.Optimal() {
		return nil, fmt.Errorf("%w: %s after %d nodes", ErrSolverFailed, sol.Status, sol.Nodes)
	}

	var chosen []candidate
	for _, c := range candidates {
		if sol.Value(c.v) > 0.5 {
			chosen = append(chosen, c)
		}
	}

	if s.Fast {
		attempt.Assignments, attempt.Warnings = assignRooms(rc, chosen, attempt.Warnings)
		return attempt, nil
	}
	for _, c := range chosen {
		attempt.Assignments = append(attempt.Assignments, toAssignment(c, c.room))
	}
	return attempt, nil
}

// priority is the objective coefficient of one assignment variable. Lower
// is better, so rewards are negative.
func priority(rc *Context, session Session, facultyID int, slot model.TimeSlot) float64 {
	cfg := rc.Config
	cost := 0.0
	if session.IsLab {
		cost -= cfg.LabPriority
	}
	if cfg.SeniorFacultyPreference && rc.Seniority(facultyID) > seniorThreshold && slot.Period <= earlyPeriodCutoff {
		cost -= cfg.SeniorSlotBonus
	}
	if cfg.MaximizeFill {
		cost -= cfg.AssignReward
	}
	return cost
}

func (s ILPStrategy) addConstraints(rc *Context, problem *mip.Problem, candidates []candidate, bySession map[int][]int) {
	cfg := rc.Config

	// Each session exactly once, or at most once when filling as much as possible
	sessionSense := mip.Equal
	if cfg.MaximizeFill {
		sessionSense = mip.LessEqual
	}
	for _, session := range rc.Sessions {
		idx, ok := bySession[session.ID]
		if !ok {
			continue
		}
		problem.AddConstraint(fmt.Sprintf("session_%d", session.ID), termsFor(candidates, idx), sessionSense, 1)
	}

	var facultySlot, roomSlot indexGroups[slotKey]
	var groupSlot indexGroups[groupSlotKey]
	var groupDay indexGroups[groupDayKey]
	var facultyAll, slotAll, slotLabs indexGroups[int]
	var groupLabs indexGroups[string]

	for i, c := range candidates {
		facultySlot.add(slotKey{c.faculty, c.slot.ID}, i)
		groupSlot.add(groupSlotKey{c.session.StudentGroup, c.slot.ID}, i)
		groupDay.add(groupDayKey{c.session.StudentGroup, c.slot.Day}, i)
		facultyAll.add(c.faculty, i)
		slotAll.add(c.slot.ID, i)
		if !s.Fast {
			roomSlot.add(slotKey{c.room, c.slot.ID}, i)
		}
		if c.session.IsLab {
			groupLabs.add(c.session.StudentGroup, i)
			slotLabs.add(c.slot.ID, i)
		}
	}

	addAtMost := func(name string, idx []int, limit int) {
		if len(idx) > limit {
			problem.AddConstraint(name, termsFor(candidates, idx), mip.LessEqual, float64(limit))
		}
	}
	for _, k := range facultySlot.keys {
		addAtMost(fmt.Sprintf("faculty_%d_slot_%d", k.id, k.slot), facultySlot.idx[k], 1)
	}
	for _, k := range roomSlot.keys {
		addAtMost(fmt.Sprintf("room_%d_slot_%d", k.id, k.slot), roomSlot.idx[k], 1)
	}
	for _, k := range groupSlot.keys {
		addAtMost(fmt.Sprintf("group_%s_slot_%d", k.group, k.slot), groupSlot.idx[k], 1)
	}
	if dayCap := cfg.MaxPeriodsPerDayPerGroup; dayCap > 0 {
		for _, k := range groupDay.keys {
			addAtMost(fmt.Sprintf("group_%s_day_%s", k.group, k.day), groupDay.idx[k], dayCap)
		}
	}

	for _, fid := range facultyAll.keys {
		f, _ := rc.FacultyMember(fid)
		idx := facultyAll.idx[fid]
		addAtMost(fmt.Sprintf("faculty_%d_max", fid), idx, f.MaxHoursPerWeek)

		if f.MinHoursPerWeek > 0 {
			slack := problem.AddContinuous(fmt.Sprintf("slack_%d", fid), 0, math.Inf(1), cfg.MinViolationPenalty)
			terms := append(termsFor(candidates, idx), mip.Term{Var: slack, Coef: 1})
			problem.AddConstraint(fmt.Sprintf("faculty_%d_min", fid), terms, mip.GreaterEqual, float64(f.MinHoursPerWeek))
		}
	}

	for _, group := range groupLabs.keys {
		problem.AddConstraint(fmt.Sprintf("group_%s_lab", group), termsFor(candidates, groupLabs.idx[group]), mip.GreaterEqual, 1)
	}

	if s.Fast {
		rooms := len(rc.Rooms)
		labRooms := len(rc.RoomsOfType(model.RoomTypeLab))
		for _, slotID := range slotAll.keys {
			addAtMost(fmt.Sprintf("slot_%d_rooms", slotID), slotAll.idx[slotID], rooms)
			addAtMost(fmt.Sprintf("slot_%d_labs", slotID), slotLabs.idx[slotID], labRooms)
		}
	}
}

// indexGroups buckets candidate indexes by key, remembering first-seen key
// order so the program is built deterministically
type indexGroups[K comparable] struct {
	keys []K
	idx  map[K][]int
}

func (g *indexGroups[K]) add(key K, i int) {
	if g.idx == nil {
		g.idx = make(map[K][]int)
	}
	if _, ok := g.idx[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.idx[key] = append(g.idx[key], i)
}

func termsFor(candidates []candidate, idx []int) []mip.Term {
	terms := make([]mip.Term, len(idx))
	for i, j := range idx {
		terms[i] = mip.Term{Var: candidates[j].v, Coef: 1}
	}
	return terms
}

func toAssignment(c candidate, roomID int) Assignment {
	return Assignment{
		SessionID:    c.session.ID,
		CourseID:     c.session.CourseID,
		FacultyID:    c.faculty,
		RoomID:       roomID,
		SlotID:       c.slot.ID,
		StudentGroup: c.session.StudentGroup,
		CourseCode:   c.session.CourseCode,
		IsLab:        c.session.IsLab,
	}
}

// assignRooms gives each solved (session, faculty, slot) the first free room
// from its candidate rooms, in solve order. Assignments left without a room
// are dropped with a warning.
func assignRooms(rc *Context, chosen []candidate, warnings []string) ([]Assignment, []string) {
	used := make(map[slotKey]bool)
	assignments := make([]Assignment, 0, len(chosen))
	for _, c := range chosen {
		course, _ := rc.Course(c.session.CourseID)
		roomID := 0
		found := false
		for _, r := range rc.CandidateRooms(course) {
			if !used[slotKey{r.ID, c.slot.ID}] {
				roomID, found = r.ID, true
				break
			}
		}
		if !found {
			warnings = append(warnings, fmt.Sprintf(
				"Dropped session %d of %s for group %s: no free room on %s period %d",
				c.session.Index+1, course.Code, c.session.StudentGroup, c.slot.Day, c.slot.Period))
			continue
		}
		used[slotKey{roomID, c.slot.ID}] = true
		assignments = append(assignments, toAssignment(c, roomID))
	}
	return assignments, warnings
}
