package mip

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_Assignment(t *testing.T) {
	// Two tasks, two workers, each task done exactly once, each worker at most once
	p := NewProblem("assignment")
	costs := [2][2]float64{{4, 1}, {2, 3}}
	var x [2][2]Var
	for task := 0; task < 2; task++ {
		for worker := 0; worker < 2; worker++ {
			x[task][worker] = p.AddBinary("x", costs[task][worker])
		}
	}
	for task := 0; task < 2; task++ {
		p.AddConstraint("task", []Term{{x[task][0], 1}, {x[task][1], 1}}, Equal, 1)
	}
	for worker := 0; worker < 2; worker++ {
		p.AddConstraint("worker", []Term{{x[0][worker], 1}, {x[1][worker], 1}}, LessEqual, 1)
	}

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())

	assert.InDelta(t, 3.0, sol.Objective, 1e-6)
	assert.Equal(t, 1.0, sol.Value(x[0][1]))
	assert.Equal(t, 1.0, sol.Value(x[1][0]))
	assert.True(t, p.Feasible(sol.Values, 1e-6))
}

func TestSolve_KnapsackNeedsBranching(t *testing.T) {
	// max 10a + 7b + 6c s.t. 5a + 4b + 3c <= 7; the relaxation is fractional
	p := NewProblem("knapsack")
	a := p.AddBinary("a", -10)
	b := p.AddBinary("b", -7)
	c := p.AddBinary("c", -6)
	p.AddConstraint("capacity", []Term{{a, 5}, {b, 4}, {c, 3}}, LessEqual, 7)

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)

	assert.InDelta(t, -13.0, sol.Objective, 1e-6)
	assert.Equal(t, 0.0, sol.Value(a))
	assert.Equal(t, 1.0, sol.Value(b))
	assert.Equal(t, 1.0, sol.Value(c))
	assert.Greater(t, sol.Nodes, 1)
}

func TestSolve_MultipleConstraints(t *testing.T) {
	p := NewProblem("multi")
	a := p.AddBinary("a", -5)
	b := p.AddBinary("b", -4)
	c := p.AddBinary("c", -3)
	p.AddConstraint("r1", []Term{{a, 2}, {b, 3}, {c, 1}}, LessEqual, 5)
	p.AddConstraint("r2", []Term{{a, 4}, {b, 1}, {c, 2}}, LessEqual, 11)
	p.AddConstraint("r3", []Term{{a, 3}, {b, 4}, {c, 2}}, LessEqual, 8)

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.InDelta(t, -9.0, sol.Objective, 1e-6)
	assert.Equal(t, []float64{1, 1, 0}, sol.Values)
}

func TestSolve_PenalisedSlack(t *testing.T) {
	// Covering the minimum is cheaper than paying the slack penalty
	p := NewProblem("slack")
	x := p.AddBinary("x", 5)
	s := p.AddContinuous("s", 0, math.Inf(1), 10)
	p.AddConstraint("min", []Term{{x, 1}, {s, 1}}, GreaterEqual, 1)

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.Equal(t, 1.0, sol.Value(x))
	assert.InDelta(t, 0.0, sol.Value(s), 1e-6)
	assert.InDelta(t, 5.0, sol.Objective, 1e-6)
}

func TestSolve_SlackAbsorbsImpossibleMinimum(t *testing.T) {
	p := NewProblem("slack-required")
	x := p.AddBinary("x", 0)
	s := p.AddContinuous("s", 0, math.Inf(1), 10)
	p.AddConstraint("min", []Term{{x, 1}, {s, 1}}, GreaterEqual, 3)

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.Equal(t, 1.0, sol.Value(x))
	assert.InDelta(t, 2.0, sol.Value(s), 1e-6)
}

func TestSolve_Infeasible(t *testing.T) {
	p := NewProblem("infeasible")
	x := p.AddBinary("x", 1)
	y := p.AddBinary("y", 1)
	p.AddConstraint("exactly-one", []Term{{x, 1}, {y, 1}}, Equal, 1)
	p.AddConstraint("at-least-two", []Term{{x, 1}, {y, 1}}, GreaterEqual, 2)

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
	assert.Nil(t, sol.Values)
}

func TestSolve_InfeasibleAfterFixing(t *testing.T) {
	// Only satisfiable with a fractional x
	p := NewProblem("fractional-only")
	x := p.AddBinary("x", 1)
	p.AddConstraint("half", []Term{{x, 2}}, Equal, 1)

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestSolve_NodeLimit(t *testing.T) {
	p := NewProblem("knapsack")
	a := p.AddBinary("a", -10)
	b := p.AddBinary("b", -7)
	c := p.AddBinary("c", -6)
	p.AddConstraint("capacity", []Term{{a, 5}, {b, 4}, {c, 3}}, LessEqual, 7)

	sol, err := p.Solve(context.Background(), Options{NodeLimit: 1})
	require.NoError(t, err)
	assert.Equal(t, StatusNodeLimit, sol.Status)
	assert.False(t, sol.Optimal())
}

func TestSolve_TimeLimitAndCancellation(t *testing.T) {
	p := NewProblem("tiny")
	x := p.AddBinary("x", -1)
	p.AddConstraint("cap", []Term{{x, 1}}, LessEqual, 1)

	sol, err := p.Solve(context.Background(), Options{TimeLimit: time.Minute})
	require.NoError(t, err)
	assert.True(t, sol.Optimal())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Solve(ctx, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSolve_TimeLimitBoundsWallClock(t *testing.T) {
	const n = 40
	p := NewProblem("large-assignment")
	x := make([][]Var, n)
	for i := range x {
		x[i] = make([]Var, n)
		for j := range x[i] {
			x[i][j] = p.AddBinary("x", float64((i*7+j*13)%17))
		}
	}
	for i := 0; i < n; i++ {
		row := make([]Term, n)
		col := make([]Term, n)
		for j := 0; j < n; j++ {
			row[j] = Term{x[i][j], 1}
			col[j] = Term{x[j][i], 1}
		}
		p.AddConstraint("task", row, Equal, 1)
		p.AddConstraint("worker", col, LessEqual, 1)
	}

	limit := 200 * time.Millisecond
	start := time.Now()
	sol, err := p.Solve(context.Background(), Options{TimeLimit: limit})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Less(t, elapsed, limit+2*time.Second)
	assert.Contains(t, []Status{StatusOptimal, StatusTimeLimit}, sol.Status)
	if sol.Optimal() {
		assert.True(t, p.Feasible(sol.Values, 1e-6))
	}
}

func TestImpliedUpper(t *testing.T) {
	lower := []float64{0, 0, 0, 0}
	upper := []float64{1, 1, 1, 1}
	rows := []lpRow{
		{terms: []Term{{0, 1}, {1, 1}}, sense: Equal, rhs: 1},
		{terms: []Term{{2, 1}, {3, -1}}, sense: LessEqual, rhs: 1},
		{terms: []Term{{3, 1}}, sense: GreaterEqual, rhs: 1},
	}

	capped := impliedUpper(rows, lower, upper, 1e-9)

	assert.Equal(t, []bool{true, true, false, false}, capped)
}

func TestImpliedUpper_LooseRowKeepsBound(t *testing.T) {
	rows := []lpRow{{terms: []Term{{0, 1}, {1, 1}}, sense: LessEqual, rhs: 2}}

	capped := impliedUpper(rows, []float64{0, 0}, []float64{1, 1}, 1e-9)

	assert.Equal(t, []bool{false, false}, capped)
}

func TestSolve_NoConstraints(t *testing.T) {
	p := NewProblem("free")
	x := p.AddBinary("x", -2)
	y := p.AddBinary("y", 3)

	sol, err := p.Solve(context.Background(), Options{})
	require.NoError(t, err)
	require.True(t, sol.Optimal())
	assert.Equal(t, 1.0, sol.Value(x))
	assert.Equal(t, 0.0, sol.Value(y))
}

func TestAddConstraint_MergesDuplicateTerms(t *testing.T) {
	p := NewProblem("merge")
	x := p.AddBinary("x", 0)
	p.AddConstraint("dup", []Term{{x, 1}, {x, 1}}, LessEqual, 1)

	require.Equal(t, 1, p.NumConstraints())
	assert.Len(t, p.constraints[0].terms, 1)
	assert.Equal(t, 2.0, p.constraints[0].terms[0].Coef)
	assert.False(t, p.Feasible([]float64{1}, 1e-9))
	assert.True(t, p.Feasible([]float64{0}, 1e-9))
}

func TestAddConstraint_UnknownVariablePanics(t *testing.T) {
	p := NewProblem("bad")
	assert.Panics(t, func() {
		p.AddConstraint("bad", []Term{{Var(3), 1}}, LessEqual, 1)
	})
}
