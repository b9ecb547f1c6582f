package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
)

// RefineResult is the outcome of genetic refinement
type RefineResult struct {
	Assignments []Assignment
	Fitness     float64
	BaseFitness float64
	Improved    bool
	Generations int
}

// BuildCandidates lists the alternative placements of every session: each
// eligible faculty member in each of their available slots with each
// candidate room, capped at limit per session when limit is positive. The
// list takes one option from every slot before a second from any, so a capped
// list still spans the whole week.
func BuildCandidates(rc *Context, limit int) map[int][]Assignment {
	out := make(map[int][]Assignment, len(rc.Sessions))
	for _, session := range rc.Sessions {
		course, _ := rc.Course(session.CourseID)
		faculty := rc.EligibleFaculty(course)
		rooms := rc.CandidateRooms(course)

		var perSlot [][]Assignment
		for _, slot := range rc.Slots {
			var options []Assignment
			for _, f := range faculty {
				if !rc.IsAvailable(f.ID, slot.ID) {
					continue
				}
				for _, room := range rooms {
					options = append(options, Assignment{
						SessionID:    session.ID,
						CourseID:     session.CourseID,
						FacultyID:    f.ID,
						RoomID:       room.ID,
						SlotID:       slot.ID,
						StudentGroup: session.StudentGroup,
						CourseCode:   session.CourseCode,
						IsLab:        session.IsLab,
					})
				}
			}
			if len(options) > 0 {
				perSlot = append(perSlot, options)
			}
		}

		var list []Assignment
	rounds:
		for depth := 0; ; depth++ {
			added := false
			for _, options := range perSlot {
				if depth >= len(options) {
					continue
				}
				if limit > 0 && len(list) >= limit {
					break rounds
				}
				list = append(list, options[depth])
				added = true
			}
			if !added {
				break
			}
		}
		out[session.ID] = list
	}
	return out
}

type individual struct {
	genes []Assignment
	eval  Evaluation
}

// Refine improves a base solution with a small genetic search.
//
// The population starts from the base solution and single-session mutations
// of it. Each generation keeps the fitter half and refills the rest with
// uniform crossover of survivors followed by a mutation. The best individual
// without hard violations is returned; the base solution is always a valid
// fallback.
func Refine(ctx context.Context, rc *Context, base []Assignment, criteria []Criterion, rng *rand.Rand) (*RefineResult, error) {
	if err := assertGroupEligibility(rc, base); err != nil {
		return nil, err
	}

	baseEval := Evaluate(rc, criteria, base)
	result := &RefineResult{
		Assignments: base,
		Fitness:     baseEval.Fitness,
		BaseFitness: baseEval.Fitness,
	}
	if len(base) == 0 || len(criteria) == 0 {
		return result, nil
	}

	size := rc.Config.GAPopulation
	if size < 2 {
		size = 2
	}
	candidates := BuildCandidates(rc, rc.Config.CandidateLimit)

	population := []individual{{genes: clone(base), eval: baseEval}}
	for len(population) < size {
		genes := mutate(clone(base), candidates, rng)
		population = append(population, individual{genes: genes, eval: Evaluate(rc, criteria, genes)})
	}

	for gen := 0; gen < rc.Config.GAGenerations; gen++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rank(population)

		survivors := population[:(len(population)+1)/2]
		next := append([]individual(nil), survivors...)
		parents := survivors[:max(1, len(survivors)/2)]
		for len(next) < size {
			a := parents[rng.IntN(len(parents))]
			b := parents[rng.IntN(len(parents))]
			genes := mutate(crossover(a.genes, b.genes, rng), candidates, rng)
			next = append(next, individual{genes: genes, eval: Evaluate(rc, criteria, genes)})
		}
		population = next
		result.Generations++
	}

	rank(population)
	for _, ind := range population {
		if ind.eval.HardViolation {
			continue
		}
		if ind.eval.Fitness < result.Fitness {
			result.Assignments = ind.genes
			result.Fitness = ind.eval.Fitness
			result.Improved = true
		}
		break
	}

	if err := assertGroupEligibility(rc, result.Assignments); err != nil {
		return nil, err
	}
	return result, nil
}

// rank orders a population by fitness, feasible individuals first
func rank(population []individual) {
	sort.SliceStable(population, func(i, j int) bool {
		if population[i].eval.HardViolation != population[j].eval.HardViolation {
			return !population[i].eval.HardViolation
		}
		return population[i].eval.Fitness < population[j].eval.Fitness
	})
}

func clone(genes []Assignment) []Assignment {
	return append([]Assignment(nil), genes...)
}

// mutate replaces one session's placement with a random alternative
func mutate(genes []Assignment, candidates map[int][]Assignment, rng *rand.Rand) []Assignment {
	if len(genes) == 0 {
		return genes
	}
	i := rng.IntN(len(genes))
	options := candidates[genes[i].SessionID]
	if len(options) == 0 {
		return genes
	}
	genes[i] = options[rng.IntN(len(options))]
	return genes
}

// crossover picks each position from either parent. Parents always share
// session order because mutation only replaces in place.
func crossover(a, b []Assignment, rng *rand.Rand) []Assignment {
	child := make([]Assignment, len(a))
	for i := range a {
		if i < len(b) && rng.IntN(2) == 1 {
			child[i] = b[i]
		} else {
			child[i] = a[i]
		}
	}
	return child
}

// assertGroupEligibility fails fast when an assignment pairs a course with a
// group that may not attend it, such as a semester mismatch
func assertGroupEligibility(rc *Context, assignments []Assignment) error {
	for _, a := range assignments {
		course, ok := rc.Course(a.CourseID)
		if !ok {
			return fmt.Errorf("%w: assignment references unknown course %d", ErrInvariantViolation, a.CourseID)
		}
		if !GroupEligible(course, rc.group(a.StudentGroup), rc.Config.BranchSubstringMatch) {
			return fmt.Errorf("%w: course %s is not offered to group %s", ErrInvariantViolation, course.Code, a.StudentGroup)
		}
	}
	return nil
}
