package scheduler

import (
	"context"
	"fmt"
	"sort"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

// GreedyStrategy places sessions one at a time with first-fit search.
//
// Labs are placed before theory sessions, faculty are tried least loaded
// first, labs take the earliest slots and theory sessions fill each day from
// the last period backwards.
type GreedyStrategy struct{}

func (GreedyStrategy) Name() string {
	return "greedy"
}

type slotKey struct {
	id   int
	slot int
}

type groupSlotKey struct {
	group string
	slot  int
}

type groupDayKey struct {
	group string
	day   string
}

// occupancy tracks which resources are taken while building a solution
type occupancy struct {
	facultyHours map[int]int
	facultySlot  map[slotKey]bool
	roomSlot     map[slotKey]bool
	groupSlot    map[groupSlotKey]bool
	groupDay     map[groupDayKey]int
}

func newOccupancy() *occupancy {
	return &occupancy{
		facultyHours: make(map[int]int),
		facultySlot:  make(map[slotKey]bool),
		roomSlot:     make(map[slotKey]bool),
		groupSlot:    make(map[groupSlotKey]bool),
		groupDay:     make(map[groupDayKey]int),
	}
}

func (o *occupancy) commit(a Assignment, day string) {
	o.facultyHours[a.FacultyID]++
	o.facultySlot[slotKey{a.FacultyID, a.SlotID}] = true
	o.roomSlot[slotKey{a.RoomID, a.SlotID}] = true
	o.groupSlot[groupSlotKey{a.StudentGroup, a.SlotID}] = true
	o.groupDay[groupDayKey{a.StudentGroup, day}]++
}

func (GreedyStrategy) Attempt(ctx context.Context, rc *Context) (*Attempt, error) {
	attempt := &Attempt{Strategy: "greedy", Total: len(rc.Sessions)}

	sessions := append([]Session(nil), rc.Sessions...)
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].IsLab != sessions[j].IsLab {
			return sessions[i].IsLab
		}
		return sessions[i].CourseCode < sessions[j].CourseCode
	})

	labOrder := rc.Slots
	theoryOrder := theorySlotOrder(rc)
	dayCap := rc.Config.MaxPeriodsPerDayPerGroup

	occ := newOccupancy()
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		course, _ := rc.Course(session.CourseID)

		faculty := make([]model.Faculty, 0)
		for _, f := range rc.EligibleFaculty(course) {
			if occ.facultyHours[f.ID] < f.MaxHoursPerWeek {
				faculty = append(faculty, f)
			}
		}
		sort.SliceStable(faculty, func(i, j int) bool {
			return occ.facultyHours[faculty[i].ID] < occ.facultyHours[faculty[j].ID]
		})
		rooms := rc.CandidateRooms(course)

		slots := theoryOrder
		if session.IsLab {
			slots = labOrder
		}

		placed := false
		for _, slot := range slots {
			if occ.groupSlot[groupSlotKey{session.StudentGroup, slot.ID}] {
				continue
			}
			if dayCap > 0 && occ.groupDay[groupDayKey{session.StudentGroup, slot.Day}] >= dayCap {
				continue
			}
			roomID, ok := firstFreeRoom(rooms, slot.ID, occ)
			if !ok {
				continue
			}
			for _, f := range faculty {
				if !rc.IsAvailable(f.ID, slot.ID) || occ.facultySlot[slotKey{f.ID, slot.ID}] {
					continue
				}
				a := Assignment{
					SessionID:    session.ID,
					CourseID:     session.CourseID,
					FacultyID:    f.ID,
					RoomID:       roomID,
					SlotID:       slot.ID,
					StudentGroup: session.StudentGroup,
					CourseCode:   session.CourseCode,
					IsLab:        session.IsLab,
				}
				occ.commit(a, slot.Day)
				attempt.Assignments = append(attempt.Assignments, a)
				placed = true
				break
			}
			if placed {
				break
			}
		}

		if !placed {
			attempt.Warnings = append(attempt.Warnings, fmt.Sprintf(
				"Could not place session %d of %s for group %s", session.Index+1, course.Code, session.StudentGroup))
		}
	}

	return attempt, nil
}

func firstFreeRoom(rooms []model.Room, slotID int, occ *occupancy) (int, bool) {
	for _, r := range rooms {
		if !occ.roomSlot[slotKey{r.ID, slotID}] {
			return r.ID, true
		}
	}
	return 0, false
}

// theorySlotOrder walks days in order and periods from last to first, which
// keeps early periods free for labs
func theorySlotOrder(rc *Context) []model.TimeSlot {
	ordered := make([]model.TimeSlot, 0, len(rc.Slots))
	for _, day := range rc.Days {
		daySlots := rc.SlotsOnDay(day)
		for i := len(daySlots) - 1; i >= 0; i-- {
			ordered = append(ordered, daySlots[i])
		}
	}
	return ordered
}
