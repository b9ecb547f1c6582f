package scheduler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Phase is the last state a generation run reached
type Phase string

const (
	PhaseInit              Phase = "init"
	PhaseContextBuilt      Phase = "context_built"
	PhaseBoundsChecked     Phase = "bounds_checked"
	PhaseAborted           Phase = "aborted"
	PhaseStrategyAttempted Phase = "strategy_attempted"
	PhaseRefined           Phase = "ga_refined"
	PhaseReported          Phase = "reported"
	// PhasePersisted is set by callers once the assignments are stored
	PhasePersisted         Phase = "persisted"
)

// Timings records how long each phase took
type Timings struct {
	Context  time.Duration
	Bounds   time.Duration
	Strategy time.Duration
	Refine   time.Duration
	Report   time.Duration
}

// Outcome is the full result of a generation run. Success is false only when
// the input is invalid, the bounds are infeasible, nothing could be placed,
// or the final solution breaks a hard invariant.
type Outcome struct {
	Phase            Phase
	Success          bool
	Err              error
	Assignments      []Assignment
	Warnings         []string
	Strategy         string
	TotalSessions    int
	PlacementRate    float64
	Refined          bool
	FacultySchedules FacultySchedules
	OverworkAlerts   []string
	Bounds           BoundReport
	Timings          Timings
	Context          *Context
}

// Options customises a generation run
type Options struct {
	Logger *zap.Logger

	// Criteria scores solutions during genetic refinement; refinement is
	// skipped when empty
	Criteria []Criterion

	// Strategies overrides the fallback chain derived from the config
	Strategies []Strategy
}

// Generate runs the whole engine: build the context, check bounds, run the
// strategy chain, optionally refine, then report.
func Generate(ctx context.Context, input Input, cfg Config, opts Options) *Outcome {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := &Outcome{Phase: PhaseInit}

	if err := validateInput(input); err != nil {
		out.Err = err
		return out
	}

	// Step 1: Build context
	start := time.Now()
	rc := BuildContext(input, cfg)
	out.Context = rc
	out.TotalSessions = len(rc.Sessions)
	out.Timings.Context = time.Since(start)
	out.Phase = PhaseContextBuilt
	logger.Debug("Built scheduling context",
		zap.Int("sessions", len(rc.Sessions)),
		zap.Int("faculty", len(rc.Faculty)),
		zap.Int("rooms", len(rc.Rooms)),
		zap.Int("slots", len(rc.Slots)),
		zap.Int("groups", len(rc.Groups)),
		zap.Duration("elapsed", out.Timings.Context))

	if len(rc.Sessions) == 0 {
		out.Err = fmt.Errorf("%w: no sessions to schedule - check course and group eligibility", ErrValidation)
		return out
	}

	// Step 2: Bound analysis
	start = time.Now()
	out.Bounds = AnalyzeBounds(rc)
	out.Timings.Bounds = time.Since(start)
	out.Warnings = append(out.Warnings, out.Bounds.Warnings...)
	if err := out.Bounds.Err(); err != nil {
		out.Phase = PhaseAborted
		out.Err = err
		logger.Debug("Bound analysis proved infeasibility", zap.Strings("reasons", out.Bounds.Reasons))
		return out
	}
	out.Phase = PhaseBoundsChecked
	logger.Debug("Bounds checked",
		zap.Int("capacity", out.Bounds.MaxCapacity),
		zap.Int("labSessions", out.Bounds.LabSessions),
		zap.Int("warnings", len(out.Bounds.Warnings)))

	// Step 3: Strategy chain
	start = time.Now()
	best, failures := runStrategies(ctx, rc, opts.Strategies, logger)
	out.Timings.Strategy = time.Since(start)
	out.Phase = PhaseStrategyAttempted
	out.Warnings = append(out.Warnings, failures...)
	if best == nil || best.Placed() == 0 {
		if best != nil {
			out.Warnings = append(out.Warnings, best.Warnings...)
		}
		out.Err = fmt.Errorf("%w: %s", ErrNoPlacement, strings.Join(failures, "; "))
		return out
	}
	out.Strategy = best.Strategy
	out.Assignments = best.Assignments
	out.PlacementRate = best.PlacementRate()
	out.Warnings = append(out.Warnings, best.Warnings...)

	// Step 4: Genetic refinement
	if cfg.GeneticRefinement && len(opts.Criteria) > 0 {
		start = time.Now()
		seed := uint64(cfg.RandomSeed)
		if cfg.RandomSeed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

		refined, err := Refine(ctx, rc, out.Assignments, opts.Criteria, rng)
		out.Timings.Refine = time.Since(start)
		if err != nil {
			out.Err = fmt.Errorf("failed to refine solution: %w", err)
			return out
		}
		out.Assignments = refined.Assignments
		out.Refined = refined.Improved
		out.Phase = PhaseRefined
		logger.Debug("Refined solution",
			zap.Float64("baseFitness", refined.BaseFitness),
			zap.Float64("fitness", refined.Fitness),
			zap.Bool("improved", refined.Improved),
			zap.Duration("elapsed", out.Timings.Refine))
	}

	if violations := ValidateAssignments(rc, out.Assignments); len(violations) > 0 {
		out.Err = fmt.Errorf("%w: %s", ErrInvariantViolation, strings.Join(violations, "; "))
		return out
	}

	// Step 5: Report
	start = time.Now()
	out.OverworkAlerts = DetectOverwork(rc, out.Assignments)
	out.Warnings = append(out.Warnings, out.OverworkAlerts...)
	out.FacultySchedules = BuildFacultySchedules(rc, out.Assignments)
	out.Timings.Report = time.Since(start)
	out.Phase = PhaseReported
	out.Success = true

	logger.Debug("Generation finished",
		zap.String("strategy", out.Strategy),
		zap.Int("placed", len(out.Assignments)),
		zap.Int("sessions", out.TotalSessions),
		zap.Float64("placementRate", out.PlacementRate),
		zap.Int("warnings", len(out.Warnings)))

	return out
}

func validateInput(input Input) error {
	switch {
	case len(input.Courses) == 0:
		return fmt.Errorf("%w: no courses found - please add courses first", ErrValidation)
	case len(input.Faculty) == 0:
		return fmt.Errorf("%w: no faculty found - please add faculty first", ErrValidation)
	case len(input.Rooms) == 0:
		return fmt.Errorf("%w: no rooms found - please add rooms first", ErrValidation)
	case len(input.TimeSlots) == 0:
		return fmt.Errorf("%w: no time slots found - please generate time slots first", ErrValidation)
	}
	return nil
}

// runStrategies tries each strategy in order until one reaches the success
// threshold. The attempt that placed the most sessions is returned along with
// a note for every strategy that failed outright.
func runStrategies(ctx context.Context, rc *Context, chain []Strategy, logger *zap.Logger) (*Attempt, []string) {
	if len(chain) == 0 {
		chain = StrategyChain(rc.Config)
	}

	var best *Attempt
	var failures []string
	for _, strategy := range chain {
		start := time.Now()
		attempt, err := strategy.Attempt(ctx, rc)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				failures = append(failures, fmt.Sprintf("%s strategy cancelled: %v", strategy.Name(), err))
				break
			}
			failures = append(failures, fmt.Sprintf("%s strategy failed: %v", strategy.Name(), err))
			logger.Debug("Strategy failed", zap.String("strategy", strategy.Name()), zap.Error(err))
			continue
		}

		logger.Debug("Strategy attempted",
			zap.String("strategy", strategy.Name()),
			zap.Int("placed", attempt.Placed()),
			zap.Int("sessions", attempt.Total),
			zap.Float64("placementRate", attempt.PlacementRate()),
			zap.Duration("elapsed", time.Since(start)))

		if best == nil || attempt.Placed() > best.Placed() {
			best = attempt
		}
		if attempt.PlacementRate() >= rc.Config.GreedySuccessThreshold {
			break
		}
	}
	return best, failures
}
