package solver

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/optimize"

	"github.com/procsim/flowsim/core/flowsheet"
)

// coupledSystem builds a one-equation system q = p where p is the decision.
func coupledSystem() (*flowsheet.Var, *flowsheet.Var, *funcSystem) {
	p := flowsheet.NewVar("p", 8)
	q := flowsheet.NewVar("q", 0)
	sys := &funcSystem{
		vars: []*flowsheet.Var{p, q},
		res:  func() []float64 { return []float64{q.Value() - p.Value()} },
	}
	return p, q, sys
}

func TestMinimizeQuadraticObjective(t *testing.T) {
	p, q, sys := coupledSystem()
	decisions := []Decision{{Var: p, Lower: 0, Upper: 10}}
	objective := func() float64 {
		d := q.Value() - 3
		return d * d
	}

	res, err := Minimize(context.Background(), sys, decisions, objective, nil, OptimizeOptions{})
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if math.Abs(res.X[0]-3) > 1e-2 {
		t.Fatalf("optimum at p = %g, want 3", res.X[0])
	}
	if res.Objective > 1e-3 {
		t.Fatalf("objective at optimum = %g", res.Objective)
	}
	if p.Fixed() {
		t.Fatal("decision left fixed after optimization")
	}
	// The flowsheet is left solved at the optimum.
	if math.Abs(q.Value()-res.X[0]) > 1e-6 {
		t.Fatalf("q = %g not resolved at p = %g", q.Value(), res.X[0])
	}
}

func TestMinimizeWithConstraintPenalty(t *testing.T) {
	p, q, sys := coupledSystem()
	decisions := []Decision{{Var: p, Lower: 0, Upper: 10}}
	// Cost rises with p, but the constraint requires q >= 2: the optimum
	// sits on the constraint boundary.
	objective := func() float64 { return q.Value() + 1 }
	violation := func() float64 { return math.Max(0, 2-q.Value()) }

	res, err := Minimize(context.Background(), sys, decisions, objective, violation, OptimizeOptions{})
	if err != nil {
		t.Fatalf("Minimize: %v", err)
	}
	if math.Abs(res.X[0]-2) > 0.1 {
		t.Fatalf("optimum at p = %g, want about 2", res.X[0])
	}
}

func TestStatusStringSurfacesMethodError(t *testing.T) {
	got := statusString(optimize.FunctionEvaluationLimit, errors.New("function evaluation limit reached"))
	if !strings.Contains(got, "function evaluation limit reached") {
		t.Fatalf("status %q drops the method error", got)
	}
	if got := statusString(optimize.FunctionConvergence, nil); got != optimize.FunctionConvergence.String() {
		t.Fatalf("status = %q, want %q", got, optimize.FunctionConvergence.String())
	}
}

func TestMinimizeRejectsFixedDecision(t *testing.T) {
	p, _, sys := coupledSystem()
	p.Fix()
	_, err := Minimize(context.Background(), sys, []Decision{{Var: p, Lower: 0, Upper: 10}},
		func() float64 { return 0 }, nil, OptimizeOptions{})
	if err == nil {
		t.Fatal("expected error for fixed decision variable")
	}
}

func TestMinimizeRejectsEmptyBounds(t *testing.T) {
	p, _, sys := coupledSystem()
	_, err := Minimize(context.Background(), sys, []Decision{{Var: p, Lower: 5, Upper: 5}},
		func() float64 { return 0 }, nil, OptimizeOptions{})
	if err == nil {
		t.Fatal("expected error for empty bounds")
	}
}

func TestMinimizeRejectsNonSquareRemainder(t *testing.T) {
	p := flowsheet.NewVar("p", 1)
	q := flowsheet.NewVar("q", 0)
	r := flowsheet.NewVar("r", 0)
	sys := &funcSystem{
		vars: []*flowsheet.Var{p, q, r},
		res:  func() []float64 { return []float64{q.Value() - p.Value()} },
	}
	_, err := Minimize(context.Background(), sys, []Decision{{Var: p, Lower: 0, Upper: 10}},
		func() float64 { return 0 }, nil, OptimizeOptions{})
	if !errors.Is(err, ErrNotSquare) {
		t.Fatalf("err = %v, want ErrNotSquare", err)
	}
}
