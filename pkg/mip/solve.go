package mip

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the termination state of a solve
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
	StatusNodeLimit
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time limit reached"
	case StatusNodeLimit:
		return "node limit reached"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrRelaxation is returned when an LP relaxation cannot be evaluated
var ErrRelaxation = errors.New("mip: lp relaxation failed")

const defaultTolerance = 1e-6

// Options bounds the branch-and-bound search. Zero values mean unlimited.
type Options struct {
	TimeLimit time.Duration
	NodeLimit int
	Tolerance float64
}

// Solution is the outcome of Solve. Values is nil when no integer feasible
// point was found.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
	Nodes     int
	Elapsed   time.Duration
}

// Value returns the solved value of v, or 0 when there is no incumbent
func (s *Solution) Value(v Var) float64 {
	if s.Values == nil {
		return 0
	}
	return s.Values[v]
}

// Optimal reports whether the search proved its incumbent optimal
func (s *Solution) Optimal() bool {
	return s.Status == StatusOptimal
}

type node struct {
	lower []float64
	upper []float64
}

func (n node) clone() node {
	return node{
		lower: append([]float64(nil), n.lower...),
		upper: append([]float64(nil), n.upper...),
	}
}

// Solve runs depth-first branch-and-bound, branching on the most fractional
// binary and exploring the nearer rounding first.
func (p *Problem) Solve(ctx context.Context, opts Options) (*Solution, error) {
	tol := opts.Tolerance
	if tol <= 0 {
		tol = defaultTolerance
	}

	start := time.Now()
	root := node{lower: make([]float64, len(p.vars)), upper: make([]float64, len(p.vars))}
	for i, v := range p.vars {
		root.lower[i] = v.lower
		root.upper[i] = v.upper
	}

	var incumbent []float64
	incumbentObj := math.Inf(1)
	status := StatusOptimal
	nodes := 0

	searchCtx := ctx
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	stack := []node{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if searchCtx.Err() != nil {
			status = StatusTimeLimit
			break
		}
		if opts.NodeLimit > 0 && nodes >= opts.NodeLimit {
			status = StatusNodeLimit
			break
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		res, err := p.relaxWithin(searchCtx, nd.lower, nd.upper, tol)
		if err != nil && searchCtx.Err() != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			status = StatusTimeLimit
			break
		}
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", nodes, err)
		}
		switch res.status {
		case relaxInfeasible:
			continue
		case relaxUnbounded:
			if nodes == 1 {
				return &Solution{Status: StatusUnbounded, Nodes: nodes, Elapsed: time.Since(start)}, nil
			}
			continue
		}

		// Bound: nothing below this node can beat the incumbent
		if res.objective >= incumbentObj-tol {
			continue
		}

		branch := -1
		bestFrac := tol
		for i, v := range p.vars {
			if !v.integer {
				continue
			}
			f := res.x[i] - math.Floor(res.x[i])
			frac := math.Min(f, 1-f)
			if frac > bestFrac {
				bestFrac = frac
				branch = i
			}
		}

		if branch < 0 {
			incumbent = res.x
			for i, v := range p.vars {
				if v.integer {
					incumbent[i] = math.Round(incumbent[i])
				}
			}
			incumbentObj = p.Evaluate(incumbent)
			continue
		}

		val := res.x[branch]
		down := nd.clone()
		down.upper[branch] = math.Floor(val)
		up := nd.clone()
		up.lower[branch] = math.Ceil(val)

		// The branch pushed last is explored first
		if val-math.Floor(val) >= 0.5 {
			stack = append(stack, down, up)
		} else {
			stack = append(stack, up, down)
		}
	}

	sol := &Solution{Status: status, Nodes: nodes, Elapsed: time.Since(start)}
	if incumbent != nil {
		sol.Values = incumbent
		sol.Objective = incumbentObj
	} else if status == StatusOptimal {
		sol.Status = StatusInfeasible
	}
	return sol, nil
}

// relaxWithin runs relax in the background so a slow simplex cannot outlive
// ctx. An abandoned relaxation finishes on its own and its result is dropped.
func (p *Problem) relaxWithin(ctx context.Context, lower, upper []float64, tol float64) (relaxation, error) {
	type result struct {
		res relaxation
		err error
	}
	done := make(chan result, 1)
	go func() {
		res, err := p.relax(lower, upper, tol)
		done <- result{res: res, err: err}
	}()

	select {
	case r := <-done:
		return r.res, r.err
	case <-ctx.Done():
		return relaxation{}, ctx.Err()
	}
}

type relaxStatus int

const (
	relaxSolved relaxStatus = iota
	relaxInfeasible
	relaxUnbounded
)

type relaxation struct {
	status    relaxStatus
	objective float64
	x         []float64
}

type lpRow struct {
	terms []Term
	sense Sense
	rhs   float64
}

// relax solves the LP relaxation with the given bounds. Fixed variables are
// substituted out and free variables are shifted to a zero lower bound, so the
// LP handed to gonum is in standard form: min c'x s.t. Ax = b, x >= 0.
func (p *Problem) relax(lower, upper []float64, tol float64) (relaxation, error) {
	n := len(p.vars)
	x := make([]float64, n)
	free := make([]bool, n)
	for i := range p.vars {
		if lower[i] > upper[i]+tol {
			return relaxation{status: relaxInfeasible}, nil
		}
		x[i] = lower[i]
		free[i] = upper[i]-lower[i] > tol
	}

	rows := make([]lpRow, 0, len(p.constraints))
	used := make([]bool, n)
	for _, c := range p.constraints {
		rhs := c.rhs
		terms := make([]Term, 0, len(c.terms))
		for _, t := range c.terms {
			rhs -= t.Coef * lower[t.Var]
			if free[t.Var] && t.Coef != 0 {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			if !satisfied(0, c.sense, rhs, tol) {
				return relaxation{status: relaxInfeasible}, nil
			}
			continue
		}
		for _, t := range terms {
			used[t.Var] = true
		}
		rows = append(rows, lpRow{terms: terms, sense: c.sense, rhs: rhs})
	}

	capped := impliedUpper(rows, lower, upper, tol)
	for i, v := range p.vars {
		if !free[i] {
			continue
		}
		if !math.IsInf(upper[i], 1) && !capped[i] {
			rows = append(rows, lpRow{terms: []Term{{Var: Var(i), Coef: 1}}, sense: LessEqual, rhs: upper[i] - lower[i]})
			used[i] = true
			continue
		}
		if !used[i] && v.cost < 0 {
			return relaxation{status: relaxUnbounded}, nil
		}
	}

	// Free variables touched by no row stay at their lower bound
	col := make([]int, n)
	cols := 0
	for i := range p.vars {
		col[i] = -1
		if free[i] && used[i] {
			col[i] = cols
			cols++
		}
	}
	structural := cols
	for _, r := range rows {
		if r.sense != Equal {
			cols++
		}
	}

	if len(rows) == 0 {
		return relaxation{status: relaxSolved, objective: p.Evaluate(x), x: x}, nil
	}
	if len(rows) > cols {
		return relaxation{}, fmt.Errorf("%w: %d rows exceed %d columns", ErrRelaxation, len(rows), cols)
	}

	c := make([]float64, cols)
	for i, v := range p.vars {
		if col[i] >= 0 {
			c[col[i]] = v.cost
		}
	}

	A := mat.NewDense(len(rows), cols, nil)
	b := make([]float64, len(rows))
	slack := structural
	for r, row := range rows {
		sign := 1.0
		if row.rhs < 0 {
			sign = -1
		}
		for _, t := range row.terms {
			A.Set(r, col[t.Var], A.At(r, col[t.Var])+sign*t.Coef)
		}
		switch row.sense {
		case LessEqual:
			A.Set(r, slack, sign)
			slack++
		case GreaterEqual:
			A.Set(r, slack, -sign)
			slack++
		}
		b[r] = sign * row.rhs
	}

	optX, err := simplex(c, A, b)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return relaxation{status: relaxInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return relaxation{status: relaxUnbounded}, nil
	case err != nil:
		return relaxation{}, fmt.Errorf("%w: %v", ErrRelaxation, err)
	}

	for i := range p.vars {
		if col[i] >= 0 {
			x[i] = lower[i] + optX[col[i]]
		}
	}
	return relaxation{status: relaxSolved, objective: p.Evaluate(x), x: x}, nil
}

// impliedUpper marks the free variables whose upper bound already follows
// from a row. In a <= or = row with nonnegative coefficients every shifted
// variable is at most rhs/coef, so an explicit bound row for it is redundant.
func impliedUpper(rows []lpRow, lower, upper []float64, tol float64) []bool {
	capped := make([]bool, len(lower))
	for _, r := range rows {
		if r.sense == GreaterEqual || r.rhs < 0 {
			continue
		}
		nonneg := true
		for _, t := range r.terms {
			if t.Coef < 0 {
				nonneg = false
				break
			}
		}
		if !nonneg {
			continue
		}
		for _, t := range r.terms {
			if t.Coef > 0 && r.rhs/t.Coef <= upper[t.Var]-lower[t.Var]+tol {
				capped[t.Var] = true
			}
		}
	}
	return capped
}

func simplex(c []float64, A mat.Matrix, b []float64) (x []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("simplex panicked: %v", r)
		}
	}()
	_, x, err = lp.Simplex(c, A, b, 0, nil)
	return x, err
}
