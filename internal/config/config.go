package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
	"github.com/jakechorley/timetable-engine/pkg/core/slots"
)

const (
	configFileBase = "timetable_config"
	databaseURLEnv = "DATABASE_URL"
)

// Break is a pause inserted after a period
type Break struct {
	AfterPeriod     int    `yaml:"after_period" validate:"min=1"`
	DurationMinutes int    `yaml:"duration_minutes" validate:"min=1"`
	Name            string `yaml:"name,omitempty"`
}

// PeriodConfig defines the shape of a teaching day
type PeriodConfig struct {
	PeriodsPerDay            int     `yaml:"periods_per_day" validate:"required,min=1,max=24"`
	PeriodDurationMinutes    int     `yaml:"period_duration_minutes" validate:"required,min=1"`
	DayStartTime             string  `yaml:"day_start_time" validate:"required,datetime=15:04"`
	TeachingDays             string  `yaml:"teaching_days" validate:"required"`
	Breaks                   []Break `yaml:"breaks,omitempty" validate:"dive"`
	MaxPeriodsPerDayPerGroup int     `yaml:"max_periods_per_day_per_group" validate:"min=0"`
}

// EngineConfig holds the optional scheduling knobs. Unset values keep the engine defaults.
type EngineConfig struct {
	OverworkThreshold       *int     `yaml:"overwork_threshold,omitempty" validate:"omitempty,min=1"`
	SeniorFacultyPreference *bool    `yaml:"senior_faculty_preference,omitempty"`
	ConsecutivePenalty      *float64 `yaml:"consecutive_penalty,omitempty" validate:"omitempty,min=0"`
	LabPriority             *float64 `yaml:"lab_priority,omitempty" validate:"omitempty,min=0"`
	FastMode                *bool    `yaml:"fast_mode,omitempty"`
	UltraFast               *bool    `yaml:"ultra_fast,omitempty"`
	MaximizeFill            *bool    `yaml:"maximize_fill,omitempty"`
	MinViolationPenalty     *float64 `yaml:"min_violation_penalty,omitempty" validate:"omitempty,gt=0"`
	AssignReward            *float64 `yaml:"assign_reward,omitempty" validate:"omitempty,min=0"`
	MaxSlotsPerSession      *int     `yaml:"max_slots_per_session,omitempty" validate:"omitempty,min=0"`
	GreedySuccessThreshold  *float64 `yaml:"greedy_success_threshold,omitempty" validate:"omitempty,min=0,max=1"`
	BranchSubstringMatch    *bool    `yaml:"branch_substring_match,omitempty"`
	GeneticRefinement       *bool    `yaml:"genetic_refinement,omitempty"`
	GAPopulation            *int     `yaml:"ga_population,omitempty" validate:"omitempty,min=2"`
	GAGenerations           *int     `yaml:"ga_generations,omitempty" validate:"omitempty,min=0"`
	RandomSeed              *int64   `yaml:"random_seed,omitempty"`
	ILPTimeLimit            string   `yaml:"ilp_time_limit,omitempty"`
}

// Config represents the application configuration
type Config struct {
	DatabaseURL string       `yaml:"database_url"`
	Periods     PeriodConfig `yaml:"periods"`
	Engine      EngineConfig `yaml:"engine"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from timetable_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads timetable_config.<env>.yaml, falling back to timetable_config.yaml.
// .env files are read first so DATABASE_URL can override the file value.
func LoadWithEnv(env string) (*Config, error) {
	loadEnvFiles(env)

	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if url := os.Getenv(databaseURLEnv); url != "" {
		cfg.DatabaseURL = url
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the teaching days rule and the
// resulting engine settings
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToROption(cfg.Periods.TeachingDays); err != nil {
		return fmt.Errorf("invalid rrule in periods.teaching_days: %w", err)
	}

	for i, b := range cfg.Periods.Breaks {
		if b.AfterPeriod >= cfg.Periods.PeriodsPerDay {
			return fmt.Errorf("breaks[%d] comes after period %d but the day only has %d periods",
				i, b.AfterPeriod, cfg.Periods.PeriodsPerDay)
		}
	}

	engine, err := cfg.SchedulerConfig()
	if err != nil {
		return err
	}
	if err := engine.Validate(); err != nil {
		return fmt.Errorf("invalid engine settings: %w", err)
	}

	return nil
}

// SchedulerConfig applies the configured overrides on top of the engine defaults
func (c *Config) SchedulerConfig() (scheduler.Config, error) {
	out := scheduler.DefaultConfig()
	e := c.Engine

	setInt(&out.OverworkThreshold, e.OverworkThreshold)
	setBool(&out.SeniorFacultyPreference, e.SeniorFacultyPreference)
	setFloat(&out.ConsecutivePenalty, e.ConsecutivePenalty)
	setFloat(&out.LabPriority, e.LabPriority)
	setBool(&out.FastMode, e.FastMode)
	setBool(&out.UltraFast, e.UltraFast)
	setBool(&out.MaximizeFill, e.MaximizeFill)
	setFloat(&out.MinViolationPenalty, e.MinViolationPenalty)
	setFloat(&out.AssignReward, e.AssignReward)
	setInt(&out.MaxSlotsPerSession, e.MaxSlotsPerSession)
	setFloat(&out.GreedySuccessThreshold, e.GreedySuccessThreshold)
	setBool(&out.BranchSubstringMatch, e.BranchSubstringMatch)
	setBool(&out.GeneticRefinement, e.GeneticRefinement)
	setInt(&out.GAPopulation, e.GAPopulation)
	setInt(&out.GAGenerations, e.GAGenerations)
	if e.RandomSeed != nil {
		out.RandomSeed = *e.RandomSeed
	}
	if e.ILPTimeLimit != "" {
		d, err := time.ParseDuration(e.ILPTimeLimit)
		if err != nil {
			return out, fmt.Errorf("invalid engine.ilp_time_limit: %w", err)
		}
		if d <= 0 {
			return out, errors.New("engine.ilp_time_limit must be positive")
		}
		out.ILPTimeLimit = d
	}
	out.MaxPeriodsPerDayPerGroup = c.Periods.MaxPeriodsPerDayPerGroup

	return out, nil
}

// SlotConfig converts the period settings for the slot generator
func (c *Config) SlotConfig() slots.PeriodConfig {
	breaks := make([]slots.Break, len(c.Periods.Breaks))
	for i, b := range c.Periods.Breaks {
		breaks[i] = slots.Break{AfterPeriod: b.AfterPeriod, DurationMinutes: b.DurationMinutes, Name: b.Name}
	}
	return slots.PeriodConfig{
		PeriodsPerDay:         c.Periods.PeriodsPerDay,
		PeriodDurationMinutes: c.Periods.PeriodDurationMinutes,
		DayStartTime:          c.Periods.DayStartTime,
		TeachingDays:          c.Periods.TeachingDays,
		Breaks:                breaks,
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// loadEnvFiles reads .env.<env> then .env. Missing files are fine and
// variables already set in the process win.
func loadEnvFiles(env string) {
	if env != "" {
		_ = godotenv.Load(".env." + env)
	}
	_ = godotenv.Load()
}

// findConfigFile searches the current directory and then the home directory,
// preferring the environment specific file in each
func findConfigFile(env string) (string, error) {
	names := []string{configFileBase + ".yaml"}
	if env != "" {
		names = append([]string{fmt.Sprintf("%s.%s.yaml", configFileBase, env)}, names...)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	for _, dir := range []string{".", homeDir} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", names[0])
}
