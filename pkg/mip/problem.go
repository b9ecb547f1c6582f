// Package mip models small mixed 0-1 linear programs and solves them with
// branch-and-bound over gonum's simplex LP solver.
//
// All problems are minimisations. Variables are either binary or continuous
// with a finite lower bound and an optional upper bound.
package mip

import (
	"fmt"
	"math"
)

// Var identifies a variable within a Problem
type Var int

// Sense is the relation of a linear constraint to its right hand side
type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Term is one coefficient of a linear expression
type Term struct {
	Var  Var
	Coef float64
}

type variable struct {
	name    string
	cost    float64
	lower   float64
	upper   float64
	integer bool
}

type constraint struct {
	name  string
	terms []Term
	sense Sense
	rhs   float64
}

// Problem is a minimisation over binary and continuous variables
type Problem struct {
	name        string
	vars        []variable
	constraints []constraint
}

// NewProblem creates an empty problem
func NewProblem(name string) *Problem {
	return &Problem{name: name}
}

// Name returns the problem name
func (p *Problem) Name() string {
	return p.name
}

// AddBinary adds a 0-1 variable with the given objective coefficient
func (p *Problem) AddBinary(name string, cost float64) Var {
	p.vars = append(p.vars, variable{name: name, cost: cost, lower: 0, upper: 1, integer: true})
	return Var(len(p.vars) - 1)
}

// AddContinuous adds a continuous variable. Use math.Inf(1) for no upper bound.
func (p *Problem) AddContinuous(name string, lower, upper, cost float64) Var {
	p.vars = append(p.vars, variable{name: name, cost: cost, lower: lower, upper: upper})
	return Var(len(p.vars) - 1)
}

// AddCost adds delta to a variable's objective coefficient
func (p *Problem) AddCost(v Var, delta float64) {
	p.vars[v].cost += delta
}

// Cost returns a variable's objective coefficient
func (p *Problem) Cost(v Var) float64 {
	return p.vars[v].cost
}

// AddConstraint adds sum(terms) <sense> rhs. Terms referring to the same
// variable are summed.
func (p *Problem) AddConstraint(name string, terms []Term, sense Sense, rhs float64) {
	merged := make([]Term, 0, len(terms))
	index := make(map[Var]int, len(terms))
	for _, t := range terms {
		if int(t.Var) < 0 || int(t.Var) >= len(p.vars) {
			panic(fmt.Sprintf("mip: constraint %q references unknown variable %d", name, t.Var))
		}
		if i, ok := index[t.Var]; ok {
			merged[i].Coef += t.Coef
			continue
		}
		index[t.Var] = len(merged)
		merged = append(merged, t)
	}
	p.constraints = append(p.constraints, constraint{name: name, terms: merged, sense: sense, rhs: rhs})
}

// NumVars returns the number of variables
func (p *Problem) NumVars() int {
	return len(p.vars)
}

// NumConstraints returns the number of constraints
func (p *Problem) NumConstraints() int {
	return len(p.constraints)
}

// Evaluate returns the objective value of a full assignment
func (p *Problem) Evaluate(values []float64) float64 {
	total := 0.0
	for i, v := range p.vars {
		total += v.cost * values[i]
	}
	return total
}

// Feasible reports whether a full assignment satisfies every bound and constraint
func (p *Problem) Feasible(values []float64, tol float64) bool {
	if len(values) != len(p.vars) {
		return false
	}
	for i, v := range p.vars {
		if values[i] < v.lower-tol || values[i] > v.upper+tol {
			return false
		}
		if v.integer && math.Abs(values[i]-math.Round(values[i])) > tol {
			return false
		}
	}
	for _, c := range p.constraints {
		lhs := 0.0
		for _, t := range c.terms {
			lhs += t.Coef * values[t.Var]
		}
		if !satisfied(lhs, c.sense, c.rhs, tol) {
			return false
		}
	}
	return true
}

func satisfied(lhs float64, sense Sense, rhs, tol float64) bool {
	switch sense {
	case LessEqual:
		return lhs <= rhs+tol
	case GreaterEqual:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}
