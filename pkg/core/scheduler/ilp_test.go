package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

func TestILP_FullScenarioA(t *testing.T) {
	rc := BuildContext(scenarioA(), testConfig())

	attempt, err := ILPStrategy{Fast: false}.Attempt(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, "ilp-full", attempt.Strategy)
	assert.Len(t, attempt.Assignments, 2)
	assert.Equal(t, 1.0, attempt.PlacementRate())
	assert.NotEqual(t, attempt.Assignments[0].SlotID, attempt.Assignments[1].SlotID)
	assert.Empty(t, ValidateAssignments(rc, attempt.Assignments))
}

func TestILP_FastScenarioA(t *testing.T) {
	rc := BuildContext(scenarioA(), testConfig())

	attempt, err := ILPStrategy{Fast: true}.Attempt(context.Background(), rc)
	require.NoError(t, err)

	assert.Equal(t, "ilp-fast", attempt.Strategy)
	require.Len(t, attempt.Assignments, 2)
	for _, a := range attempt.Assignments {
		assert.Contains(t, []int{1, 2}, a.RoomID)
	}
	assert.Empty(t, ValidateAssignments(rc, attempt.Assignments))
}

func TestILP_InfeasibleFailsSolver(t *testing.T) {
	input := scenarioA()
	input.Faculty = []model.Faculty{teacher(1, "Ada", 1, "cs101")}
	rc := BuildContext(input, testConfig())

	for _, fast := range []bool{false, true} {
		_, err := ILPStrategy{Fast: fast}.Attempt(context.Background(), rc)
		assert.ErrorIs(t, err, ErrSolverFailed)
	}
}

func TestILP_MaximizeFillPlacesWhatFits(t *testing.T) {
	input := scenarioA()
	input.Faculty = []model.Faculty{teacher(1, "Ada", 1, "cs101")}
	cfg := testConfig()
	cfg.MaximizeFill = true
	rc := BuildContext(input, cfg)

	attempt, err := ILPStrategy{Fast: true}.Attempt(context.Background(), rc)
	require.NoError(t, err)

	assert.Len(t, attempt.Assignments, 1)
	assert.Equal(t, 0.5, attempt.PlacementRate())
}

func TestILP_SeniorFacultyPreferEarlyPeriods(t *testing.T) {
	input := scenarioA()
	input.Courses = []model.Course{theoryCourse(1, "CS101", 1)}
	input.Faculty = []model.Faculty{teacher(1, "Junior", 8), teacher(2, "Senior", 16)}
	rc := BuildContext(input, testConfig())

	attempt, err := ILPStrategy{Fast: false}.Attempt(context.Background(), rc)
	require.NoError(t, err)
	require.Len(t, attempt.Assignments, 1)

	a := attempt.Assignments[0]
	slot, _ := rc.Slot(a.SlotID)
	assert.Equal(t, 2, a.FacultyID)
	assert.LessOrEqual(t, slot.Period, 3)
}

func TestILP_MinimumHoursDominatePriority(t *testing.T) {
	// Seniority would hand both sessions to the senior member, but leaving the
	// junior member under their minimum costs more than any reward
	input := scenarioA()
	junior := teacher(1, "Junior", 8)
	junior.MinHoursPerWeek = 2
	input.Faculty = []model.Faculty{junior, teacher(2, "Senior", 16)}
	rc := BuildContext(input, testConfig())

	attempt, err := ILPStrategy{Fast: true}.Attempt(context.Background(), rc)
	require.NoError(t, err)
	require.Len(t, attempt.Assignments, 2)

	for _, a := range attempt.Assignments {
		assert.Equal(t, 1, a.FacultyID)
	}
}

func TestILP_MaxSlotsPerSessionCapsCandidates(t *testing.T) {
	cfg := testConfig()
	cfg.MaxSlotsPerSession = 1
	rc := BuildContext(scenarioA(), cfg)

	// Both sessions may only use the first slot, which the group cannot share
	_, err := ILPStrategy{Fast: true}.Attempt(context.Background(), rc)
	assert.ErrorIs(t, err, ErrSolverFailed)
}

func TestILP_FastDropsSessionsWithoutRoom(t *testing.T) {
	input := scenarioA()
	input.Courses = []model.Course{theoryCourse(1, "CS101", 1)}
	input.Faculty = []model.Faculty{teacher(1, "Ada", 16), teacher(2, "Grace", 16)}
	input.Rooms = []model.Room{classroom(1), labRoom(2)}
	input.TimeSlots = slotGrid([]string{"Monday"}, 1)
	input.StudentGroups = []model.StudentGroup{{Name: "G1"}, {Name: "G2"}}
	rc := BuildContext(input, testConfig())

	attempt, err := ILPStrategy{Fast: true}.Attempt(context.Background(), rc)
	require.NoError(t, err)

	require.Len(t, attempt.Assignments, 1)
	assert.Equal(t, 1, attempt.Assignments[0].RoomID)
	require.Len(t, attempt.Warnings, 1)
	assert.Contains(t, attempt.Warnings[0], "Dropped session")
}

func TestILP_FullSkipsCoursesWithoutRooms(t *testing.T) {
	input := scenarioA()
	input.Courses = []model.Course{
		theoryCourse(1, "CS101", 1),
		{ID: 2, Code: "CS200", HoursPerWeek: 1, Type: model.CourseTypeTheory, RequiredRoomTags: []string{"projector"}},
	}
	input.Faculty = []model.Faculty{teacher(1, "Ada", 16)}
	rc := BuildContext(input, testConfig())

	attempt, err := ILPStrategy{Fast: false}.Attempt(context.Background(), rc)
	require.NoError(t, err)

	assert.Len(t, attempt.Assignments, 1)
	assert.Equal(t, 0.5, attempt.PlacementRate())
	assert.True(t, containsFold(attempt.Warnings, "No suitable rooms for course CS200"))
}

func TestILP_LabPerGroup(t *testing.T) {
	input := scenarioA()
	input.Courses = []model.Course{theoryCourse(1, "CS101", 2), labCourse(2, "CS101L", 1)}
	input.Faculty = []model.Faculty{teacher(1, "Ada", 16)}
	input.Rooms = []model.Room{classroom(1), labRoom(2)}
	rc := BuildContext(input, testConfig())

	attempt, err := ILPStrategy{Fast: false}.Attempt(context.Background(), rc)
	require.NoError(t, err)

	labs := 0
	for _, a := range attempt.Assignments {
		if a.IsLab {
			labs++
			assert.Equal(t, 2, a.RoomID)
		}
	}
	assert.Equal(t, 1, labs)
	assert.Len(t, attempt.Assignments, 3)
}

func TestConfig_DefaultsValidate(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 40, cfg.OverworkThreshold)
	assert.Equal(t, 0.7, cfg.GreedySuccessThreshold)
	assert.Equal(t, 1000.0, cfg.MinViolationPenalty)
}

func TestConfig_SlackPenaltyDominatesPriority(t *testing.T) {
	for _, maximizeFill := range []bool{false, true} {
		for _, senior := range []bool{false, true} {
			cfg := DefaultConfig()
			cfg.MaximizeFill = maximizeFill
			cfg.SeniorFacultyPreference = senior

			require.NoError(t, cfg.Validate())
			assert.Greater(t, cfg.MinViolationPenalty, cfg.MaxPriorityMagnitude())
		}
	}

	cfg := DefaultConfig()
	cfg.MaximizeFill = true
	cfg.MinViolationPenalty = cfg.LabPriority + cfg.SeniorSlotBonus + cfg.AssignReward
	assert.Error(t, cfg.Validate())
}

func TestConfig_ValidateRanges(t *testing.T) {
	cases := map[string]func(*Config){
		"threshold above one": func(c *Config) { c.GreedySuccessThreshold = 1.5 },
		"negative weight":     func(c *Config) { c.LabPriority = -1 },
		"tiny population":     func(c *Config) { c.GAPopulation = 1 },
		"negative day cap":    func(c *Config) { c.MaxPeriodsPerDayPerGroup = -1 },
		"zero overwork":       func(c *Config) { c.OverworkThreshold = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestILP_FastHonoursTimeLimit(t *testing.T) {
	var courses []model.Course
	for i := 1; i <= 8; i++ {
		courses = append(courses, theoryCourse(i, fmt.Sprintf("CS%d", 100+i), 3))
	}
	input := Input{
		Courses: courses,
		Faculty: []model.Faculty{
			teacher(1, "Ada", 16), teacher(2, "Grace", 16),
			teacher(3, "Edsger", 16), teacher(4, "Barbara", 16),
		},
		Rooms:         []model.Room{classroom(1), classroom(2), classroom(3)},
		TimeSlots:     slotGrid([]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, 6),
		StudentGroups: []model.StudentGroup{{ID: 1, Name: "G1"}},
	}
	cfg := testConfig()
	cfg.ILPTimeLimit = 2 * time.Second
	rc := BuildContext(input, cfg)
	require.Len(t, rc.Sessions, 24)

	start := time.Now()
	attempt, err := ILPStrategy{Fast: true}.Attempt(context.Background(), rc)
	elapsed := time.Since(start)

	assert.Less(t, elapsed, cfg.ILPTimeLimit+3*time.Second)
	if err != nil {
		assert.ErrorIs(t, err, ErrSolverFailed)
		return
	}
	assert.Empty(t, ValidateAssignments(rc, attempt.Assignments))
}
