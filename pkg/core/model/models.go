package model

import (
	"fmt"
	"strings"
)

// CourseType distinguishes lecture courses from lab courses
type CourseType string

const (
	CourseTypeTheory    CourseType = "theory"
	CourseTypePractical CourseType = "practical"
)

// RoomType is the coarse room bucket used when no room carries a course's tags
type RoomType string

const (
	RoomTypeClassroom RoomType = "classroom"
	RoomTypeLab       RoomType = "lab"
)

const (
	// DefaultMinHoursPerWeek is applied when a faculty record leaves its minimum unset
	DefaultMinHoursPerWeek = 4
	// DefaultMaxHoursPerWeek is applied when a faculty record leaves its maximum unset
	DefaultMaxHoursPerWeek = 16
	// DefaultGroupName is the synthetic group used when no student groups exist
	DefaultGroupName = "Default"
)

// Course is a unit of teaching that needs HoursPerWeek sessions every week
type Course struct {
	ID               int
	Code             string
	Name             string
	Credits          int
	HoursPerWeek     int
	Type             CourseType
	Program          string
	Branch           string
	Semester         *int
	RequiredRoomTags []string
}

// IsLab reports whether sessions of this course must be held in a lab
func (c Course) IsLab() bool {
	return c.Type == CourseTypePractical
}

// Faculty is a teacher who can be assigned sessions of courses matching their expertise
type Faculty struct {
	ID              int
	Name            string
	Expertise       []string
	Availability    Availability
	MinHoursPerWeek int
	MaxHoursPerWeek int
}

// WithDefaults returns a copy with unset weekly hour bounds filled in
func (f Faculty) WithDefaults() Faculty {
	if f.MaxHoursPerWeek <= 0 {
		f.MaxHoursPerWeek = DefaultMaxHoursPerWeek
	}
	if f.MinHoursPerWeek < 0 {
		f.MinHoursPerWeek = 0
	}
	return f
}

// Room is a physical space that hosts at most one session per time slot
type Room struct {
	ID   int
	Name string
	Type RoomType
	Tags []string
}

// TimeSlot is one teaching period on one day
type TimeSlot struct {
	ID        int
	Day       string
	Period    int
	StartTime string
	EndTime   string
}

// TimeRange renders the slot as "start-end"
func (s TimeSlot) TimeRange() string {
	return fmt.Sprintf("%s-%s", s.StartTime, s.EndTime)
}

// StudentGroup is a cohort that attends sessions together
type StudentGroup struct {
	ID          int
	Name        string
	Description string
	Program     string
	Branch      string
	Semester    *int
	IsDefault   bool
}

// IsCatchAll reports whether the group is the synthetic default group
func (g StudentGroup) IsCatchAll() bool {
	return g.IsDefault || g.Name == DefaultGroupName
}

// DefaultGroup returns the group used when the catalog defines none
func DefaultGroup() StudentGroup {
	return StudentGroup{Name: DefaultGroupName, IsDefault: true}
}

var weekdayOrder = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// CompareDays orders weekday names Monday first. Unrecognised names sort
// after the known weekdays in lexical order.
func CompareDays(a, b string) int {
	ia, okA := weekdayOrder[strings.ToLower(a)]
	ib, okB := weekdayOrder[strings.ToLower(b)]
	switch {
	case okA && okB:
		return ia - ib
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// IntPtr is a small helper for optional integer fields
func IntPtr(v int) *int {
	return &v
}
