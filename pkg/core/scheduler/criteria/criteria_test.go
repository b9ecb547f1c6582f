package criteria

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
)

func buildContext(t *testing.T, cfg scheduler.Config) *scheduler.Context {
	t.Helper()
	var slots []model.TimeSlot
	id := 1
	for _, day := range []string{"Monday", "Tuesday"} {
		for p := 1; p <= 8; p++ {
			slots = append(slots, model.TimeSlot{ID: id, Day: day, Period: p, StartTime: fmt.Sprintf("%02d:00", 8+p)})
			id++
		}
	}
	input := scheduler.Input{
		Courses: []model.Course{
			{ID: 1, Code: "CS101", HoursPerWeek: 3, Type: model.CourseTypeTheory},
			{ID: 2, Code: "CS101L", HoursPerWeek: 1, Type: model.CourseTypePractical},
		},
		Faculty: []model.Faculty{
			{ID: 1, Name: "Ada", MinHoursPerWeek: 2, MaxHoursPerWeek: 3},
			{ID: 2, Name: "Grace", MinHoursPerWeek: 1, MaxHoursPerWeek: 16},
		},
		Rooms: []model.Room{
			{ID: 1, Type: model.RoomTypeClassroom},
			{ID: 2, Type: model.RoomTypeLab},
		},
		TimeSlots:     slots,
		StudentGroups: []model.StudentGroup{{Name: "G1"}},
	}
	rc := scheduler.BuildContext(input, cfg)
	require.Len(t, rc.Sessions, 4)
	return rc
}

func assign(session, course, faculty, room, slot int, lab bool) scheduler.Assignment {
	return scheduler.Assignment{
		SessionID: session, CourseID: course, FacultyID: faculty, RoomID: room,
		SlotID: slot, StudentGroup: "G1", IsLab: lab,
	}
}

func penalty(t *testing.T, c scheduler.Criterion, rc *scheduler.Context, assignments []scheduler.Assignment) float64 {
	t.Helper()
	return c.Penalty(rc, scheduler.ComputeStats(rc, assignments))
}

func TestSlotConflictCriterion(t *testing.T) {
	rc := buildContext(t, scheduler.DefaultConfig())
	c := NewSlotConflictCriterion(WeightSlotConflict)

	assert.True(t, c.Hard())
	assert.Equal(t, 0.0, penalty(t, c, rc, []scheduler.Assignment{
		assign(1, 1, 1, 1, 1, false),
		assign(2, 1, 1, 1, 2, false),
	}))
	// Same faculty, room and group in slot 1
	assert.Equal(t, 3.0, penalty(t, c, rc, []scheduler.Assignment{
		assign(1, 1, 1, 1, 1, false),
		assign(2, 1, 1, 1, 1, false),
	}))
}

func TestFacultyHoursCriteria(t *testing.T) {
	rc := buildContext(t, scheduler.DefaultConfig())
	maxHours := NewFacultyMaxHoursCriterion(WeightFacultyMaxHours)
	minHours := NewFacultyMinHoursCriterion(WeightFacultyMinHours)

	overloaded := []scheduler.Assignment{
		assign(1, 1, 1, 1, 1, false),
		assign(2, 1, 1, 1, 2, false),
		assign(3, 1, 1, 1, 3, false),
		assign(4, 2, 1, 2, 4, true),
	}

	assert.True(t, maxHours.Hard())
	assert.False(t, minHours.Hard())
	assert.Equal(t, 1.0, penalty(t, maxHours, rc, overloaded))
	// Grace is one hour short
	assert.Equal(t, 1.0, penalty(t, minHours, rc, overloaded))
	// Nobody assigned: Ada short 2, Grace short 1
	assert.Equal(t, 3.0, penalty(t, minHours, rc, nil))
}

func TestGroupLabCriterion(t *testing.T) {
	rc := buildContext(t, scheduler.DefaultConfig())
	c := NewGroupLabCriterion(WeightGroupLab)

	assert.Equal(t, 1.0, penalty(t, c, rc, []scheduler.Assignment{assign(1, 1, 1, 1, 1, false)}))
	assert.Equal(t, 0.0, penalty(t, c, rc, []scheduler.Assignment{assign(4, 2, 2, 2, 1, true)}))
}

func TestGroupDailyCapCriterion(t *testing.T) {
	rc := buildContext(t, scheduler.DefaultConfig())
	busyDay := []scheduler.Assignment{
		assign(1, 1, 1, 1, 1, false),
		assign(2, 1, 1, 1, 3, false),
		assign(3, 1, 2, 1, 5, false),
	}

	assert.Equal(t, 1.0, penalty(t, NewGroupDailyCapCriterion(WeightGroupDailyCap, 2), rc, busyDay))
	assert.Equal(t, 0.0, penalty(t, NewGroupDailyCapCriterion(WeightGroupDailyCap, 0), rc, busyDay))
}

func TestConsecutiveLectureCriterion(t *testing.T) {
	rc := buildContext(t, scheduler.DefaultConfig())
	c := NewConsecutiveLectureCriterion(WeightConsecutiveBase)

	assert.Equal(t, 2.0, penalty(t, c, rc, []scheduler.Assignment{
		assign(1, 1, 1, 1, 1, false),
		assign(2, 1, 1, 1, 2, false),
		assign(3, 1, 2, 1, 3, false),
	}))
	// Same periods on different days are not consecutive
	assert.Equal(t, 0.0, penalty(t, c, rc, []scheduler.Assignment{
		assign(1, 1, 1, 1, 1, false),
		assign(2, 1, 1, 1, 10, false),
	}))
}

func TestFacultyDailyLoadCriterion(t *testing.T) {
	rc := buildContext(t, scheduler.DefaultConfig())
	c := NewFacultyDailyLoadCriterion(WeightFacultyDailyLoad, 2)

	assert.Equal(t, 1.0, penalty(t, c, rc, []scheduler.Assignment{
		assign(1, 1, 2, 1, 1, false),
		assign(2, 1, 2, 1, 3, false),
		assign(3, 1, 2, 1, 5, false),
	}))
}

func TestDefault(t *testing.T) {
	cfg := scheduler.DefaultConfig()
	cfg.MaxPeriodsPerDayPerGroup = 4

	all := Default(cfg)

	require.Len(t, all, 7)
	names := make([]string, len(all))
	hard := 0
	for i, c := range all {
		names[i] = c.Name()
		if c.Hard() {
			hard++
		}
	}
	assert.Equal(t, []string{
		"SlotConflict", "FacultyMaxHours", "FacultyMinHours", "GroupLab",
		"GroupDailyCap", "ConsecutiveLecture", "FacultyDailyLoad",
	}, names)
	assert.Equal(t, 2, hard)
	assert.Equal(t, WeightConsecutiveBase*cfg.ConsecutivePenalty, all[5].Weight())
}

func TestEvaluate_WeightsAndHardFlag(t *testing.T) {
	rc := buildContext(t, scheduler.DefaultConfig())
	criteria := []scheduler.Criterion{
		NewSlotConflictCriterion(WeightSlotConflict),
		NewGroupLabCriterion(WeightGroupLab),
	}

	clean := scheduler.Evaluate(rc, criteria, []scheduler.Assignment{assign(1, 1, 1, 1, 1, false)})
	assert.False(t, clean.HardViolation)
	assert.Equal(t, WeightGroupLab, clean.Fitness)

	clash := scheduler.Evaluate(rc, criteria, []scheduler.Assignment{
		assign(1, 1, 1, 1, 1, false),
		assign(2, 1, 2, 2, 1, false),
	})
	assert.True(t, clash.HardViolation)
	assert.Equal(t, WeightSlotConflict+WeightGroupLab, clash.Fitness)
}
