package scheduler

import (
	"strings"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

// ExpandSessions creates HoursPerWeek sessions for every eligible
// (course, group) pair. Session ids start at 1 and increase in course order
// then group order.
func ExpandSessions(courses []model.Course, groups []model.StudentGroup, branchSubstring bool) []Session {
	if len(groups) == 0 {
		groups = []model.StudentGroup{model.DefaultGroup()}
	}

	var sessions []Session
	nextID := 1
	for _, course := range courses {
		for _, group := range groups {
			if !GroupEligible(course, group, branchSubstring) {
				continue
			}
			for i := 0; i < course.HoursPerWeek; i++ {
				sessions = append(sessions, Session{
					ID:           nextID,
					CourseID:     course.ID,
					CourseCode:   strings.ToLower(course.Code),
					CourseType:   course.Type,
					StudentGroup: group.Name,
					Index:        i,
					IsLab:        course.IsLab(),
				})
				nextID++
			}
		}
	}
	return sessions
}

// GroupEligible reports whether a student group attends a course.
//
// A course with no program, branch or semester is open to every group.
// Otherwise each attribute the course sets must match the group's unless the
// group leaves it unset, and the catch-all default group is excluded.
func GroupEligible(course model.Course, group model.StudentGroup, branchSubstring bool) bool {
	program := strings.TrimSpace(course.Program)
	branch := strings.TrimSpace(course.Branch)
	if program == "" && branch == "" && course.Semester == nil {
		return true
	}
	if group.IsCatchAll() {
		return false
	}

	if program != "" && strings.TrimSpace(group.Program) != "" &&
		!strings.EqualFold(program, strings.TrimSpace(group.Program)) {
		return false
	}
	if course.Semester != nil && group.Semester != nil && *course.Semester != *group.Semester {
		return false
	}
	if branch != "" && strings.TrimSpace(group.Branch) != "" && !branchMatches(branch, group, branchSubstring) {
		return false
	}
	return true
}

func branchMatches(branch string, group model.StudentGroup, substring bool) bool {
	if strings.EqualFold(branch, strings.TrimSpace(group.Branch)) {
		return true
	}
	if !substring {
		return false
	}
	needle := strings.ToLower(branch)
	for _, haystack := range []string{group.Branch, group.Name, group.Description} {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}
