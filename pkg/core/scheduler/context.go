package scheduler

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

const labTag = "lab"

// Context holds the precomputed lookups for one generation run. It is built
// once by BuildContext and treated as read-only afterwards, apart from the
// memoised eligibility caches, so it must not be shared between goroutines.
type Context struct {
	Config   Config
	Courses  []model.Course
	Faculty  []model.Faculty
	Rooms    []model.Room
	Slots    []model.TimeSlot
	Groups   []model.StudentGroup
	Sessions []Session
	Days     []string

	courseByID   map[int]*model.Course
	facultyByID  map[int]*model.Faculty
	roomByID     map[int]*model.Room
	slotByID     map[int]*model.TimeSlot
	slotsByDay   map[string][]model.TimeSlot
	sessionByID  map[int]*Session
	groupByName  map[string]*model.StudentGroup
	availability map[int]map[int]bool
	expertise    map[int]map[string]bool
	roomTags     map[int]map[string]bool
	seniority    map[int]float64

	eligibleFaculty map[int][]model.Faculty
	eligibleRooms   map[int][]model.Room
}

// BuildContext normalises the input and precomputes every lookup the
// strategies need. Slots are ordered by (day, period).
func BuildContext(input Input, cfg Config) *Context {
	rc := &Context{
		Config:          cfg,
		Courses:         append([]model.Course(nil), input.Courses...),
		Rooms:           append([]model.Room(nil), input.Rooms...),
		Slots:           append([]model.TimeSlot(nil), input.TimeSlots...),
		Groups:          append([]model.StudentGroup(nil), input.StudentGroups...),
		courseByID:      make(map[int]*model.Course),
		facultyByID:     make(map[int]*model.Faculty),
		roomByID:        make(map[int]*model.Room),
		slotByID:        make(map[int]*model.TimeSlot),
		slotsByDay:      make(map[string][]model.TimeSlot),
		sessionByID:     make(map[int]*Session),
		groupByName:     make(map[string]*model.StudentGroup),
		availability:    make(map[int]map[int]bool),
		expertise:       make(map[int]map[string]bool),
		roomTags:        make(map[int]map[string]bool),
		seniority:       make(map[int]float64),
		eligibleFaculty: make(map[int][]model.Faculty),
		eligibleRooms:   make(map[int][]model.Room),
	}

	rc.Faculty = lo.Map(input.Faculty, func(f model.Faculty, _ int) model.Faculty {
		return f.WithDefaults()
	})
	if len(rc.Groups) == 0 {
		rc.Groups = []model.StudentGroup{model.DefaultGroup()}
	}

	sort.SliceStable(rc.Slots, func(i, j int) bool {
		if c := model.CompareDays(rc.Slots[i].Day, rc.Slots[j].Day); c != 0 {
			return c < 0
		}
		return rc.Slots[i].Period < rc.Slots[j].Period
	})

	for i := range rc.Groups {
		rc.groupByName[rc.Groups[i].Name] = &rc.Groups[i]
	}
	for i := range rc.Courses {
		rc.courseByID[rc.Courses[i].ID] = &rc.Courses[i]
	}
	for i := range rc.Rooms {
		room := &rc.Rooms[i]
		rc.roomByID[room.ID] = room
		tags := lo.SliceToMap(room.Tags, func(tag string) (string, bool) {
			return strings.ToLower(strings.TrimSpace(tag)), true
		})
		if room.Type == model.RoomTypeLab {
			tags[labTag] = true
		}
		rc.roomTags[room.ID] = tags
	}
	for i := range rc.Slots {
		slot := &rc.Slots[i]
		rc.slotByID[slot.ID] = slot
		if _, seen := rc.slotsByDay[slot.Day]; !seen {
			rc.Days = append(rc.Days, slot.Day)
		}
		rc.slotsByDay[slot.Day] = append(rc.slotsByDay[slot.Day], *slot)
	}

	rc.buildFacultyLookups()

	rc.Sessions = ExpandSessions(rc.Courses, rc.Groups, cfg.BranchSubstringMatch)
	for i := range rc.Sessions {
		rc.sessionByID[rc.Sessions[i].ID] = &rc.Sessions[i]
	}

	return rc
}

func (rc *Context) buildFacultyLookups() {
	minMax, maxMax := 0, 0
	for i := range rc.Faculty {
		f := &rc.Faculty[i]
		rc.facultyByID[f.ID] = f

		rc.expertise[f.ID] = lo.SliceToMap(f.Expertise, func(code string) (string, bool) {
			return strings.ToLower(strings.TrimSpace(code)), true
		})

		available := make(map[int]bool, len(rc.Slots))
		for _, slot := range rc.Slots {
			if f.Availability.Allows(slot.Day, slot.Period) {
				available[slot.ID] = true
			}
		}
		// A restriction matching none of the configured slots is treated as no restriction
		if len(available) == 0 {
			for _, slot := range rc.Slots {
				available[slot.ID] = true
			}
		}
		rc.availability[f.ID] = available

		if i == 0 || f.MaxHoursPerWeek < minMax {
			minMax = f.MaxHoursPerWeek
		}
		if i == 0 || f.MaxHoursPerWeek > maxMax {
			maxMax = f.MaxHoursPerWeek
		}
	}

	for _, f := range rc.Faculty {
		if maxMax == minMax {
			rc.seniority[f.ID] = 0.5
			continue
		}
		rc.seniority[f.ID] = float64(f.MaxHoursPerWeek-minMax) / float64(maxMax-minMax)
	}
}

// Course returns the course with the given id
func (rc *Context) Course(id int) (model.Course, bool) {
	c, ok := rc.courseByID[id]
	if !ok {
		return model.Course{}, false
	}
	return *c, true
}

// FacultyMember returns the faculty member with the given id
func (rc *Context) FacultyMember(id int) (model.Faculty, bool) {
	f, ok := rc.facultyByID[id]
	if !ok {
		return model.Faculty{}, false
	}
	return *f, true
}

// Room returns the room with the given id
func (rc *Context) Room(id int) (model.Room, bool) {
	r, ok := rc.roomByID[id]
	if !ok {
		return model.Room{}, false
	}
	return *r, true
}

// Slot returns the time slot with the given id
func (rc *Context) Slot(id int) (model.TimeSlot, bool) {
	s, ok := rc.slotByID[id]
	if !ok {
		return model.TimeSlot{}, false
	}
	return *s, true
}

// Session returns the session with the given id
func (rc *Context) Session(id int) (Session, bool) {
	s, ok := rc.sessionByID[id]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

func (rc *Context) group(name string) model.StudentGroup {
	if g, ok := rc.groupByName[name]; ok {
		return *g
	}
	return model.StudentGroup{Name: name}
}

// SlotsOnDay returns the day's slots ordered by period
func (rc *Context) SlotsOnDay(day string) []model.TimeSlot {
	return rc.slotsByDay[day]
}

// IsAvailable reports whether a faculty member can teach in a slot
func (rc *Context) IsAvailable(facultyID, slotID int) bool {
	return rc.availability[facultyID][slotID]
}

// AvailableSlotCount returns how many slots a faculty member can teach in
func (rc *Context) AvailableSlotCount(facultyID int) int {
	return len(rc.availability[facultyID])
}

// Seniority returns the faculty member's normalised seniority in [0, 1]
func (rc *Context) Seniority(facultyID int) float64 {
	return rc.seniority[facultyID]
}

// CanTeach reports whether a faculty member's expertise covers a course.
// Empty expertise means the faculty member can teach anything.
func (rc *Context) CanTeach(facultyID int, course model.Course) bool {
	exp := rc.expertise[facultyID]
	if len(exp) == 0 {
		return true
	}
	return exp[strings.ToLower(course.Code)]
}

// RoomFits reports whether a room's type and tags satisfy a course
func (rc *Context) RoomFits(room model.Room, course model.Course) bool {
	wantType := model.RoomTypeClassroom
	if course.IsLab() {
		wantType = model.RoomTypeLab
	}
	if room.Type != wantType {
		return false
	}
	tags := rc.roomTags[room.ID]
	for _, tag := range course.RequiredRoomTags {
		if !tags[strings.ToLower(strings.TrimSpace(tag))] {
			return false
		}
	}
	if course.IsLab() && !tags[labTag] {
		return false
	}
	return true
}

// EligibleFaculty returns the faculty who can teach the course, in input order
func (rc *Context) EligibleFaculty(course model.Course) []model.Faculty {
	if cached, ok := rc.eligibleFaculty[course.ID]; ok {
		return cached
	}
	eligible := lo.Filter(rc.Faculty, func(f model.Faculty, _ int) bool {
		return rc.CanTeach(f.ID, course)
	})
	rc.eligibleFaculty[course.ID] = eligible
	return eligible
}

// EligibleRooms returns the rooms whose type and tags satisfy the course
func (rc *Context) EligibleRooms(course model.Course) []model.Room {
	if cached, ok := rc.eligibleRooms[course.ID]; ok {
		return cached
	}
	eligible := lo.Filter(rc.Rooms, func(r model.Room, _ int) bool {
		return rc.RoomFits(r, course)
	})
	rc.eligibleRooms[course.ID] = eligible
	return eligible
}

// RoomsOfType returns every room of the given type
func (rc *Context) RoomsOfType(t model.RoomType) []model.Room {
	return lo.Filter(rc.Rooms, func(r model.Room, _ int) bool {
		return r.Type == t
	})
}

// CandidateRooms applies the room fallback chain: eligible rooms, then every
// room of the course's type, then every room
func (rc *Context) CandidateRooms(course model.Course) []model.Room {
	if rooms := rc.EligibleRooms(course); len(rooms) > 0 {
		return rooms
	}
	bucket := model.RoomTypeClassroom
	if course.IsLab() {
		bucket = model.RoomTypeLab
	}
	if rooms := rc.RoomsOfType(bucket); len(rooms) > 0 {
		return rooms
	}
	return rc.Rooms
}

// LabSessionCount returns how many sessions need a lab
func (rc *Context) LabSessionCount() int {
	return lo.CountBy(rc.Sessions, func(s Session) bool {
		return s.IsLab
	})
}
