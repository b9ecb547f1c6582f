package scheduler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

func TestAnalyzeBounds_Feasible(t *testing.T) {
	rc := BuildContext(scenarioA(), testConfig())

	report := AnalyzeBounds(rc)

	assert.True(t, report.Feasible)
	assert.NoError(t, report.Err())
	assert.Equal(t, 2, report.Sessions)
	assert.Equal(t, 16, report.MaxCapacity)
	assert.Empty(t, report.Warnings)
}

func TestAnalyzeBounds_FacultyCapacityExceeded(t *testing.T) {
	input := scenarioA()
	input.Courses = []model.Course{theoryCourse(1, "CS101", 5)}
	input.Faculty = []model.Faculty{teacher(1, "Ada", 4)}

	report := AnalyzeBounds(BuildContext(input, testConfig()))

	assert.False(t, report.Feasible)
	assert.ErrorIs(t, report.Err(), ErrInfeasible)
	assert.Contains(t, report.Reasons[0], "5 sessions exceed total faculty capacity of 4")
}

func TestAnalyzeBounds_NoLabCapacity(t *testing.T) {
	input := scenarioA()
	input.Courses = []model.Course{
		{ID: 1, Code: "PHY1L", HoursPerWeek: 1, Type: model.CourseTypePractical, RequiredRoomTags: []string{"projector"}},
	}

	report := AnalyzeBounds(BuildContext(input, testConfig()))

	assert.False(t, report.Feasible)
	assert.ErrorIs(t, report.Err(), ErrInfeasible)
	assert.True(t, containsFold(report.Warnings, "no suitable rooms for course PHY1L"))
}

func TestAnalyzeBounds_NoSuitableRoomsIsWarningOnly(t *testing.T) {
	input := scenarioA()
	input.Courses = []model.Course{
		{ID: 1, Code: "PHY1L", HoursPerWeek: 1, Type: model.CourseTypePractical, RequiredRoomTags: []string{"projector"}},
	}
	input.Rooms = append(input.Rooms, labRoom(3))

	report := AnalyzeBounds(BuildContext(input, testConfig()))

	assert.True(t, report.Feasible)
	assert.True(t, containsFold(report.Warnings, "no suitable rooms"))
}

func TestAnalyzeBounds_NoFacultyWarning(t *testing.T) {
	input := scenarioA()
	input.Faculty = []model.Faculty{teacher(1, "Ada", 16, "ma101")}

	report := AnalyzeBounds(BuildContext(input, testConfig()))

	assert.True(t, report.Feasible)
	assert.True(t, containsFold(report.Warnings, "No faculty available for course CS101"))
}

func TestAnalyzeBounds_MinimumHourWarnings(t *testing.T) {
	input := scenarioA()
	busy := teacher(1, "Busy", 16, "cs101")
	busy.MinHoursPerWeek = 3
	busy.Availability = model.NewAvailability(map[string][]int{"Monday": {1, 2}})
	idle := teacher(2, "Idle", 16, "ma101")
	idle.MinHoursPerWeek = 2
	input.Faculty = []model.Faculty{busy, idle}

	report := AnalyzeBounds(BuildContext(input, testConfig()))

	require.True(t, report.Feasible)
	assert.True(t, containsFold(report.Warnings, "Only 2 sessions for 5 required faculty minimum hours"))
	assert.True(t, containsFold(report.Warnings, "Faculty Busy has 2 available slots but a minimum of 3 hours"))
	assert.True(t, containsFold(report.Warnings, "Faculty Idle can only take 0 sessions"))
}

func TestAnalyzeBounds_FacultyFailingBothChecksGetsBothWarnings(t *testing.T) {
	input := scenarioA()
	ada := teacher(1, "Ada", 16, "cs101")
	ada.MinHoursPerWeek = 4
	ada.Availability = model.NewAvailability(map[string][]int{"Monday": {1, 2, 3}})
	input.Faculty = []model.Faculty{ada}

	report := AnalyzeBounds(BuildContext(input, testConfig()))

	assert.True(t, containsFold(report.Warnings, "Faculty Ada has 3 available slots but a minimum of 4 hours"))
	assert.True(t, containsFold(report.Warnings, "Faculty Ada can only take 2 sessions but has a minimum of 4 hours"))
}

func containsFold(warnings []string, fragment string) bool {
	for _, w := range warnings {
		if strings.Contains(strings.ToLower(w), strings.ToLower(fragment)) {
			return true
		}
	}
	return false
}
