package scheduler

import (
	"fmt"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

func slotGrid(days []string, periods int) []model.TimeSlot {
	var slots []model.TimeSlot
	id := 1
	for _, day := range days {
		for p := 1; p <= periods; p++ {
			slots = append(slots, model.TimeSlot{
				ID:        id,
				Day:       day,
				Period:    p,
				StartTime: fmt.Sprintf("%02d:00", 8+p),
				EndTime:   fmt.Sprintf("%02d:00", 9+p),
			})
			id++
		}
	}
	return slots
}

func theoryCourse(id int, code string, hours int) model.Course {
	return model.Course{ID: id, Code: code, Name: code, HoursPerWeek: hours, Type: model.CourseTypeTheory}
}

func labCourse(id int, code string, hours int) model.Course {
	return model.Course{ID: id, Code: code, Name: code, HoursPerWeek: hours, Type: model.CourseTypePractical}
}

func classroom(id int, tags ...string) model.Room {
	return model.Room{ID: id, Name: fmt.Sprintf("C%d", id), Type: model.RoomTypeClassroom, Tags: tags}
}

func labRoom(id int, tags ...string) model.Room {
	return model.Room{ID: id, Name: fmt.Sprintf("L%d", id), Type: model.RoomTypeLab, Tags: tags}
}

func teacher(id int, name string, max int, expertise ...string) model.Faculty {
	return model.Faculty{ID: id, Name: name, Expertise: expertise, MaxHoursPerWeek: max}
}

// testConfig is the default configuration with refinement and time-based
// seeding turned off so runs are reproducible
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.GeneticRefinement = false
	cfg.RandomSeed = 42
	return cfg
}

// scenarioA is one theory course needing two sessions, one group, one
// faculty member, two classrooms and ten slots
func scenarioA() Input {
	return Input{
		Courses:       []model.Course{theoryCourse(1, "CS101", 2)},
		Faculty:       []model.Faculty{teacher(1, "Ada", 16, "cs101")},
		Rooms:         []model.Room{classroom(1), classroom(2)},
		TimeSlots:     slotGrid([]string{"Monday", "Tuesday"}, 5),
		StudentGroups: []model.StudentGroup{{ID: 1, Name: "G1"}},
	}
}
