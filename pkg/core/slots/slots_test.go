package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeachingDays(t *testing.T) {
	days, err := TeachingDays("FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR")
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, days)

	days, err = TeachingDays("FREQ=WEEKLY;BYDAY=SA,MO")
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Saturday"}, days)

	days, err = TeachingDays("FREQ=DAILY")
	require.NoError(t, err)
	assert.Len(t, days, 7)
}

func TestTeachingDays_Invalid(t *testing.T) {
	_, err := TeachingDays("not a rule")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	slots, err := Generate(PeriodConfig{
		PeriodsPerDay:         4,
		PeriodDurationMinutes: 50,
		DayStartTime:          "09:00",
		TeachingDays:          "FREQ=WEEKLY;BYDAY=MO,WE",
		Breaks:                []Break{{AfterPeriod: 2, DurationMinutes: 20, Name: "Tea"}},
	})
	require.NoError(t, err)
	require.Len(t, slots, 8)

	assert.Equal(t, "Monday", slots[0].Day)
	assert.Equal(t, 1, slots[0].Period)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:50", slots[0].EndTime)
	assert.Equal(t, "09:50", slots[1].StartTime)
	// The break pushes period 3 back by twenty minutes
	assert.Equal(t, "11:00", slots[2].StartTime)
	assert.Equal(t, "11:50", slots[2].EndTime)
	assert.Equal(t, "Wednesday", slots[4].Day)
	assert.Equal(t, "09:00", slots[4].StartTime)
	for _, s := range slots {
		assert.Zero(t, s.ID)
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	valid := PeriodConfig{PeriodsPerDay: 2, PeriodDurationMinutes: 60, DayStartTime: "09:00", TeachingDays: "FREQ=DAILY"}

	cases := map[string]func(*PeriodConfig){
		"no periods":    func(c *PeriodConfig) { c.PeriodsPerDay = 0 },
		"no duration":   func(c *PeriodConfig) { c.PeriodDurationMinutes = 0 },
		"bad start":     func(c *PeriodConfig) { c.DayStartTime = "9am" },
		"bad rule":      func(c *PeriodConfig) { c.TeachingDays = "FREQ=NEVER" },
		"past midnight": func(c *PeriodConfig) { c.DayStartTime = "23:00" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			_, err := Generate(cfg)
			assert.Error(t, err)
		})
	}
}

func TestAssignIDs(t *testing.T) {
	slots, err := Generate(PeriodConfig{PeriodsPerDay: 3, PeriodDurationMinutes: 60, DayStartTime: "08:00", TeachingDays: "FREQ=WEEKLY;BYDAY=FR"})
	require.NoError(t, err)

	AssignIDs(slots, 101)

	assert.Equal(t, []int{101, 102, 103}, []int{slots[0].ID, slots[1].ID, slots[2].ID})
}
