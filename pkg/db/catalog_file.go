package db

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/timetable-engine/pkg/core/model"
)

type catalogFile struct {
	Courses []struct {
		ID               int      `yaml:"id"`
		Code             string   `yaml:"code"`
		Name             string   `yaml:"name"`
		Credits          int      `yaml:"credits"`
		HoursPerWeek     int      `yaml:"hours_per_week"`
		CourseType       string   `yaml:"course_type"`
		Program          string   `yaml:"program"`
		Branch           string   `yaml:"branch"`
		Semester         *int     `yaml:"semester"`
		RequiredRoomTags []string `yaml:"required_room_tags"`
	} `yaml:"courses"`
	Faculty []struct {
		ID              int      `yaml:"id"`
		Name            string   `yaml:"name"`
		Expertise       []string `yaml:"expertise"`
		Availability    any      `yaml:"availability"`
		MinHoursPerWeek *int     `yaml:"min_hours_per_week"`
		MaxHoursPerWeek *int     `yaml:"max_hours_per_week"`
	} `yaml:"faculty"`
	Rooms []struct {
		ID       int      `yaml:"id"`
		Name     string   `yaml:"name"`
		RoomType string   `yaml:"room_type"`
		Tags     []string `yaml:"tags"`
	} `yaml:"rooms"`
	TimeSlots []struct {
		ID        int    `yaml:"id"`
		Day       string `yaml:"day"`
		Period    int    `yaml:"period"`
		StartTime string `yaml:"start_time"`
		EndTime   string `yaml:"end_time"`
	} `yaml:"time_slots"`
	StudentGroups []struct {
		ID          int    `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Program     string `yaml:"program"`
		Branch      string `yaml:"branch"`
		Semester    *int   `yaml:"semester"`
	} `yaml:"student_groups"`
}

// LoadCatalogFile reads a catalog from a YAML file
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes a YAML catalog. Faculty without weekly hour bounds get the
// defaults, and availability goes through the same normaliser as database rows.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	catalog := &Catalog{}
	for _, c := range file.Courses {
		courseType := model.CourseType(strings.ToLower(c.CourseType))
		if courseType == "" {
			courseType = model.CourseTypeTheory
		}
		if courseType != model.CourseTypeTheory && courseType != model.CourseTypePractical {
			return nil, fmt.Errorf("course %s has unknown course_type %q", c.Code, c.CourseType)
		}
		catalog.Courses = append(catalog.Courses, model.Course{
			ID:               c.ID,
			Code:             c.Code,
			Name:             c.Name,
			Credits:          c.Credits,
			HoursPerWeek:     c.HoursPerWeek,
			Type:             courseType,
			Program:          c.Program,
			Branch:           c.Branch,
			Semester:         c.Semester,
			RequiredRoomTags: c.RequiredRoomTags,
		})
	}

	for _, f := range file.Faculty {
		availability, err := availabilityFromYAML(f.Availability)
		if err != nil {
			return nil, fmt.Errorf("faculty %s: %w", f.Name, err)
		}
		catalog.Faculty = append(catalog.Faculty, model.Faculty{
			ID:              f.ID,
			Name:            f.Name,
			Expertise:       f.Expertise,
			Availability:    availability,
			MinHoursPerWeek: intOr(f.MinHoursPerWeek, model.DefaultMinHoursPerWeek),
			MaxHoursPerWeek: intOr(f.MaxHoursPerWeek, model.DefaultMaxHoursPerWeek),
		})
	}

	for _, r := range file.Rooms {
		roomType := model.RoomType(strings.ToLower(r.RoomType))
		if roomType == "" {
			roomType = model.RoomTypeClassroom
		}
		catalog.Rooms = append(catalog.Rooms, model.Room{ID: r.ID, Name: r.Name, Type: roomType, Tags: r.Tags})
	}

	for _, s := range file.TimeSlots {
		catalog.TimeSlots = append(catalog.TimeSlots, model.TimeSlot{
			ID: s.ID, Day: s.Day, Period: s.Period, StartTime: s.StartTime, EndTime: s.EndTime,
		})
	}

	for _, g := range file.StudentGroups {
		catalog.StudentGroups = append(catalog.StudentGroups, model.StudentGroup{
			ID:          g.ID,
			Name:        g.Name,
			Description: g.Description,
			Program:     g.Program,
			Branch:      g.Branch,
			Semester:    g.Semester,
		})
	}

	return catalog, nil
}

// availabilityFromYAML re-encodes the decoded YAML value as JSON, the format stored
// in the database, so both sources share one normaliser
func availabilityFromYAML(raw any) (model.Availability, error) {
	if raw == nil {
		return model.Unrestricted(), nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return model.Availability{}, fmt.Errorf("failed to encode availability: %w", err)
	}
	return model.ParseAvailability(data), nil
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
