package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/metrics"
	"github.com/procsim/flowsim/internal/eventbus"
)

// funcSystem adapts a residual function over explicit vars for tests.
type funcSystem struct {
	vars []*flowsheet.Var
	res  func() []float64
}

func (s *funcSystem) FreeVars() []*flowsheet.Var {
	var out []*flowsheet.Var
	for _, v := range s.vars {
		if !v.Fixed() {
			out = append(out, v)
		}
	}
	return out
}

func (s *funcSystem) NumEquations() int { return len(s.res()) }

func (s *funcSystem) Residuals(dst []float64) []float64 { return append(dst, s.res()...) }

func TestSolveQuadraticSystem(t *testing.T) {
	// x^2 + y^2 = 25, x - y = 1: solution (4, 3).
	x := flowsheet.NewVar("x", 3)
	y := flowsheet.NewVar("y", 2)
	sys := &funcSystem{
		vars: []*flowsheet.Var{x, y},
		res: func() []float64 {
			return []float64{
				x.Value()*x.Value() + y.Value()*y.Value() - 25,
				x.Value() - y.Value() - 1,
			}
		},
	}

	res, err := Solve(context.Background(), sys, Options{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if res.Condition != ConditionOptimal {
		t.Fatalf("condition = %s", res.Condition)
	}
	if math.Abs(x.Value()-4) > 1e-6 || math.Abs(y.Value()-3) > 1e-6 {
		t.Fatalf("solution = (%g, %g), want (4, 3)", x.Value(), y.Value())
	}
	if res.RunID == "" {
		t.Fatal("missing run id")
	}
}

func TestSolveRejectsNonSquare(t *testing.T) {
	x := flowsheet.NewVar("x", 0)
	y := flowsheet.NewVar("y", 0)
	sys := &funcSystem{
		vars: []*flowsheet.Var{x, y},
		res:  func() []float64 { return []float64{x.Value() - 1} },
	}
	_, err := Solve(context.Background(), sys, Options{})
	if !errors.Is(err, ErrNotSquare) {
		t.Fatalf("err = %v, want ErrNotSquare", err)
	}
}

func TestSolveFullyFixedSystem(t *testing.T) {
	x := flowsheet.NewVar("x", 1)
	x.Fix()
	sys := &funcSystem{
		vars: []*flowsheet.Var{x},
		res:  func() []float64 { return nil },
	}
	res, err := Solve(context.Background(), sys, Options{})
	if err != nil || res.Condition != ConditionOptimal {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
}

func TestSolveSingularJacobian(t *testing.T) {
	orig := linSolve
	linSolve = func(*mat.Dense, []float64) ([]float64, error) {
		return nil, fmt.Errorf("factorization failed")
	}
	defer func() { linSolve = orig }()

	x := flowsheet.NewVar("x", 5)
	sys := &funcSystem{
		vars: []*flowsheet.Var{x},
		res:  func() []float64 { return []float64{x.Value() - 1} },
	}
	res, err := Solve(context.Background(), sys, Options{})
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("err = %v, want ErrNotConverged", err)
	}
	if res.Condition != ConditionSingular {
		t.Fatalf("condition = %s, want singular", res.Condition)
	}
	// The last accepted iterate is restored.
	if x.Value() != 5 {
		t.Fatalf("x = %g, want the initial 5", x.Value())
	}
}

func TestSolveHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	x := flowsheet.NewVar("x", 5)
	sys := &funcSystem{
		vars: []*flowsheet.Var{x},
		res:  func() []float64 { return []float64{x.Value() - 1} },
	}
	if _, err := Solve(ctx, sys, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSolvePublishesIterationEvents(t *testing.T) {
	bus := eventbus.NewTyped[metrics.IterationEvent]()
	ch := bus.Subscribe()
	x := flowsheet.NewVar("x", 10)
	sys := &funcSystem{
		vars: []*flowsheet.Var{x},
		res:  func() []float64 { return []float64{x.Value() - 1} },
	}
	res, err := Solve(context.Background(), sys, Options{Events: bus})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	bus.Close()
	count := 0
	for ev := range ch {
		if ev.RunID != res.RunID {
			t.Fatalf("event run id %s, want %s", ev.RunID, res.RunID)
		}
		count++
	}
	if count == 0 {
		t.Fatal("no iteration events published")
	}
}

func TestSolveMaxIterations(t *testing.T) {
	// No root: x^2 + 1 = 0 over the reals.
	x := flowsheet.NewVar("x", 2)
	sys := &funcSystem{
		vars: []*flowsheet.Var{x},
		res:  func() []float64 { return []float64{x.Value()*x.Value() + 1} },
	}
	res, err := Solve(context.Background(), sys, Options{MaxIterations: 5})
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("err = %v, want ErrNotConverged", err)
	}
	if res.Condition != ConditionMaxIterations && res.Condition != ConditionDiverged {
		t.Fatalf("condition = %s", res.Condition)
	}
}
