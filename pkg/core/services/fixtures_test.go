package services

import (
	"fmt"

	"github.com/jakechorley/timetable-engine/internal/config"
	"github.com/jakechorley/timetable-engine/pkg/core/model"
	"github.com/jakechorley/timetable-engine/pkg/db"
)

func testConfig() *config.Config {
	seed := int64(11)
	refine := false
	return &config.Config{
		Periods: config.PeriodConfig{
			PeriodsPerDay:         5,
			PeriodDurationMinutes: 60,
			DayStartTime:          "09:00",
			TeachingDays:          "FREQ=WEEKLY;BYDAY=MO,TU",
		},
		Engine: config.EngineConfig{RandomSeed: &seed, GeneticRefinement: &refine},
	}
}

func testSlots() []model.TimeSlot {
	var out []model.TimeSlot
	id := 1
	for _, day := range []string{"Monday", "Tuesday"} {
		for p := 1; p <= 5; p++ {
			out = append(out, model.TimeSlot{
				ID: id, Day: day, Period: p,
				StartTime: fmt.Sprintf("%02d:00", 8+p), EndTime: fmt.Sprintf("%02d:00", 9+p),
			})
			id++
		}
	}
	return out
}

func testCatalog() *db.Catalog {
	return &db.Catalog{
		Courses: []model.Course{
			{ID: 1, Code: "CS101", HoursPerWeek: 2, Type: model.CourseTypeTheory},
			{ID: 2, Code: "CS101L", HoursPerWeek: 1, Type: model.CourseTypePractical},
		},
		Faculty: []model.Faculty{
			{ID: 1, Name: "Ada", MinHoursPerWeek: 1, MaxHoursPerWeek: 16},
			{ID: 2, Name: "Grace", MinHoursPerWeek: 1, MaxHoursPerWeek: 16},
		},
		Rooms: []model.Room{
			{ID: 1, Name: "C1", Type: model.RoomTypeClassroom},
			{ID: 2, Name: "L1", Type: model.RoomTypeLab},
		},
		TimeSlots:     testSlots(),
		StudentGroups: []model.StudentGroup{{ID: 1, Name: "G1"}},
	}
}
