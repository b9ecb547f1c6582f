package scheduler

import (
	"context"
)

// Attempt is the result of running one strategy
type Attempt struct {
	Strategy    string
	Assignments []Assignment
	Warnings    []string
	Total       int
}

// PlacementRate is the share of sessions the attempt placed, in [0, 1]
func (a *Attempt) PlacementRate() float64 {
	if a == nil || a.Total == 0 {
		return 0
	}
	return float64(len(a.Assignments)) / float64(a.Total)
}

// Placed returns the number of placed sessions
func (a *Attempt) Placed() int {
	if a == nil {
		return 0
	}
	return len(a.Assignments)
}

// Strategy produces assignments for the sessions in a context. A strategy
// returns an error only when it could not produce a result at all, such as
// a solver ending without a proven optimum.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, rc *Context) (*Attempt, error)
}

// StrategyChain returns the ordered fallback chain for a configuration.
// Ultra-fast mode tries greedy first; otherwise the ILP goes first.
func StrategyChain(cfg Config) []Strategy {
	ilp := ILPStrategy{Fast: cfg.FastMode}
	if cfg.UltraFast {
		return []Strategy{GreedyStrategy{}, ilp}
	}
	return []Strategy{ilp, GreedyStrategy{}}
}
