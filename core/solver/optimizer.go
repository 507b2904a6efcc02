package solver

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/optimize"

	"github.com/procsim/flowsim/core/flowsheet"
)

// Decision is one relaxed specification the optimizer may move within
// bounds.
type Decision struct {
	Var   *flowsheet.Var
	Lower float64
	Upper float64
}

// OptimizeOptions tunes the reduced-space optimization.
type OptimizeOptions struct {
	// Newton configures the inner square solves.
	Newton Options
	// Penalty weights the squared constraint violation added to the
	// objective. Default 1e4 per unit of violation squared, applied to
	// the objective's own scale.
	Penalty float64
	// MaxEvaluations bounds objective evaluations. Default 500.
	MaxEvaluations int
	// Tolerance is the absolute objective convergence window. Default
	// 1e-6 relative to the initial objective.
	Tolerance float64
}

func (o OptimizeOptions) withDefaults() OptimizeOptions {
	if o.Penalty <= 0 {
		o.Penalty = 1e4
	}
	if o.MaxEvaluations <= 0 {
		o.MaxEvaluations = 500
	}
	return o
}

// OptimizeResult describes the outcome of the reduced-space optimization.
type OptimizeResult struct {
	RunID       string
	Status      string
	Objective   float64
	Evaluations int
	X           []float64
	Duration    time.Duration
}

// failedObjective dominates any feasible cost so the simplex retreats from
// points where the inner solve breaks down.
const failedObjective = 1e12

// Minimize searches the decision variables for the minimum of objective,
// holding the flowsheet square by fixing the decisions at every trial point
// and running the inner Newton solve. violation, when non-nil, returns a
// non-negative infeasibility measure (zero when the constraint is met) that
// is penalized quadratically. The decision variables are left unfixed at
// the optimum and the flowsheet is left solved at that point.
//
// The search itself is gonum's Nelder-Mead simplex: the inner solve makes
// the reduced objective non-smooth at the solver tolerance, which rules out
// gradient-based methods without an analytic reduced gradient.
func Minimize(ctx context.Context, sys System, decisions []Decision,
	objective func() float64, violation func() float64, opts OptimizeOptions) (OptimizeResult, error) {

	opts = opts.withDefaults()
	start := time.Now()
	out := OptimizeResult{RunID: uuid.NewString()}

	if len(decisions) == 0 {
		return out, fmt.Errorf("no decision variables")
	}
	for _, d := range decisions {
		if d.Var.Fixed() {
			return out, fmt.Errorf("decision variable %s is fixed", d.Var.Name())
		}
		if d.Lower >= d.Upper {
			return out, fmt.Errorf("decision variable %s has empty bounds", d.Var.Name())
		}
	}
	// With the decisions fixed the remaining system must be square.
	if free, eqs := len(sys.FreeVars())-len(decisions), sys.NumEquations(); free != eqs {
		return out, fmt.Errorf("%w: %d free variables after fixing decisions, %d equations",
			ErrNotSquare, free, eqs)
	}

	unfix := func() {
		for _, d := range decisions {
			d.Var.Unfix()
		}
	}

	evalAt := func(x []float64) float64 {
		if ctx.Err() != nil {
			return failedObjective
		}
		pen := 0.0
		for i, d := range decisions {
			xi := x[i]
			// Clamp out-of-bounds trial points and penalize the excursion
			// relative to the bound span.
			span := d.Upper - d.Lower
			if xi < d.Lower {
				pen += sq((d.Lower - xi) / span)
				xi = d.Lower
			} else if xi > d.Upper {
				pen += sq((xi - d.Upper) / span)
				xi = d.Upper
			}
			d.Var.FixAt(xi)
		}
		defer unfix()
		if _, err := Solve(ctx, sys, opts.Newton); err != nil {
			return failedObjective * (1 + pen)
		}
		obj := objective()
		if violation != nil {
			if v := violation(); v > 0 {
				pen += sq(v)
			}
		}
		return obj + opts.Penalty*math.Abs(obj)*pen
	}

	x0 := make([]float64, len(decisions))
	for i, d := range decisions {
		x0[i] = clamp(d.Var.Value(), d.Lower, d.Upper)
	}

	settings := &optimize.Settings{FuncEvaluations: opts.MaxEvaluations}
	if opts.Tolerance > 0 {
		settings.Converger = &optimize.FunctionConverge{Absolute: opts.Tolerance, Iterations: 20}
	}
	problem := optimize.Problem{Func: evalAt}
	result, err := optimize.Minimize(problem, x0, settings, &optimize.NelderMead{})
	if err != nil && result == nil {
		return out, fmt.Errorf("optimize: %w", err)
	}

	// Leave the flowsheet solved at the best point, decisions unfixed.
	for i, d := range decisions {
		d.Var.FixAt(clamp(result.X[i], d.Lower, d.Upper))
	}
	if _, serr := Solve(ctx, sys, opts.Newton); serr != nil {
		unfix()
		return out, fmt.Errorf("resolve at optimum: %w", serr)
	}
	unfix()

	out.Status = statusString(result.Status, err)
	out.Objective = objective()
	out.Evaluations = result.Stats.FuncEvaluations
	out.X = append([]float64(nil), result.X...)
	out.Duration = time.Since(start)
	if result.F >= failedObjective {
		return out, fmt.Errorf("%w: optimizer stalled on infeasible points", ErrNotConverged)
	}
	return out, nil
}

// statusString folds a method error into the reported status, so a search
// that stopped on an evaluation limit or converger failure is
// distinguishable from a clean convergence.
func statusString(status optimize.Status, err error) string {
	if err != nil {
		return fmt.Sprintf("%s (%v)", status, err)
	}
	return status.String()
}

func sq(v float64) float64 { return v * v }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
