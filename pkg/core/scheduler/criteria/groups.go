package criteria

import (
	"github.com/samber/lo"

	"github.com/jakechorley/timetable-engine/pkg/core/scheduler"
)

// GroupLabCriterion penalises student groups that have lab sessions to
// attend but none placed
type GroupLabCriterion struct {
	weight float64
}

// NewGroupLabCriterion creates a new group lab criterion
func NewGroupLabCriterion(weight float64) *GroupLabCriterion {
	return &GroupLabCriterion{weight: weight}
}

func (c *GroupLabCriterion) Name() string {
	return "GroupLab"
}

func (c *GroupLabCriterion) Weight() float64 {
	return c.weight
}

func (c *GroupLabCriterion) Hard() bool {
	return false
}

// Penalty is the number of groups with lab sessions but no placed lab
func (c *GroupLabCriterion) Penalty(rc *scheduler.Context, stats *scheduler.SolutionStats) float64 {
	labGroups := lo.Uniq(lo.FilterMap(rc.Sessions, func(s scheduler.Session, _ int) (string, bool) {
		return s.StudentGroup, s.IsLab
	}))
	missing := lo.CountBy(labGroups, func(group string) bool {
		return stats.GroupLabs[group] == 0
	})
	return float64(missing)
}

// GroupDailyCapCriterion penalises groups taught more than limit periods in
// one day. A limit of zero disables it.
type GroupDailyCapCriterion struct {
	weight float64
	limit  int
}

// NewGroupDailyCapCriterion creates a new group daily cap criterion
func NewGroupDailyCapCriterion(weight float64, limit int) *GroupDailyCapCriterion {
	return &GroupDailyCapCriterion{weight: weight, limit: limit}
}

func (c *GroupDailyCapCriterion) Name() string {
	return "GroupDailyCap"
}

func (c *GroupDailyCapCriterion) Weight() float64 {
	return c.weight
}

func (c *GroupDailyCapCriterion) Hard() bool {
	return false
}

// Penalty is the total periods over the cap across groups and days
func (c *GroupDailyCapCriterion) Penalty(rc *scheduler.Context, stats *scheduler.SolutionStats) float64 {
	if c.limit <= 0 {
		return 0
	}
	excess := 0
	for _, days := range stats.GroupDailyHours {
		for _, h := range days {
			if h > c.limit {
				excess += h - c.limit
			}
		}
	}
	return float64(excess)
}

// ConsecutiveLectureCriterion penalises a group having the same course in
// back-to-back periods
type ConsecutiveLectureCriterion struct {
	weight float64
}

// NewConsecutiveLectureCriterion creates a new consecutive lecture criterion
func NewConsecutiveLectureCriterion(weight float64) *ConsecutiveLectureCriterion {
	return &ConsecutiveLectureCriterion{weight: weight}
}

func (c *ConsecutiveLectureCriterion) Name() string {
	return "ConsecutiveLecture"
}

func (c *ConsecutiveLectureCriterion) Weight() float64 {
	return c.weight
}

func (c *ConsecutiveLectureCriterion) Hard() bool {
	return false
}

// Penalty is the number of back-to-back repeats
func (c *ConsecutiveLectureCriterion) Penalty(rc *scheduler.Context, stats *scheduler.SolutionStats) float64 {
	return float64(stats.ConsecutiveRepeats())
}
