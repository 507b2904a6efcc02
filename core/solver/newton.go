// Package solver drives the numeric work of the flowsheet: a damped Newton
// method over the square equation system, with gonum handling the linear
// algebra, and a reduced-space cost optimization built on gonum/optimize.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/procsim/flowsim/core/flowsheet"
	"github.com/procsim/flowsim/core/metrics"
	"github.com/procsim/flowsim/internal/eventbus"
)

// Condition reports how a solve terminated.
type Condition int

const (
	ConditionOptimal Condition = iota
	ConditionMaxIterations
	ConditionSingular
	ConditionDiverged
)

// String returns a human-readable termination condition.
func (c Condition) String() string {
	switch c {
	case ConditionOptimal:
		return "optimal"
	case ConditionMaxIterations:
		return "max_iterations"
	case ConditionSingular:
		return "singular"
	case ConditionDiverged:
		return "diverged"
	default:
		return "unknown"
	}
}

// ErrNotSquare indicates the system has non-zero degrees of freedom.
var ErrNotSquare = errors.New("system is not square")

// ErrNotConverged wraps any non-optimal termination.
var ErrNotConverged = errors.New("solve did not converge")

// System is the equation system view the solver needs. *flowsheet.Flowsheet
// satisfies it.
type System interface {
	FreeVars() []*flowsheet.Var
	NumEquations() int
	Residuals(dst []float64) []float64
}

// Options tunes the Newton iteration.
type Options struct {
	// MaxIterations bounds the Newton steps. Default 50.
	MaxIterations int
	// Tolerance is on the max-norm of the scaled residuals. Default 1e-8.
	Tolerance float64
	// MaxBacktracks bounds the step halving per iteration. Default 10.
	MaxBacktracks int
	// Events receives per-iteration progress when non-nil.
	Events *eventbus.TypedBus[metrics.IterationEvent]
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 50
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-8
	}
	if o.MaxBacktracks <= 0 {
		o.MaxBacktracks = 10
	}
	return o
}

// Result describes the outcome of a square solve.
type Result struct {
	RunID        string
	Condition    Condition
	Iterations   int
	ResidualNorm float64
	Duration     time.Duration
}

// linSolve points to the linear step solver. It can be overridden in tests
// to simulate factorization failures.
var linSolve = solveLinear

// solveLinear solves J·d = −f by LU factorization.
func solveLinear(j *mat.Dense, f []float64) ([]float64, error) {
	n := len(f)
	rhs := mat.NewVecDense(n, nil)
	for i, v := range f {
		rhs.SetVec(i, -v)
	}
	var lu mat.LU
	lu.Factorize(j)
	d := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(d, false, rhs); err != nil {
		return nil, err
	}
	return d.RawVector().Data, nil
}

// Solve runs a damped Newton iteration on the square system and leaves the
// variables at the last iterate. A nil error is returned only for an
// optimal termination.
func Solve(ctx context.Context, sys System, opts Options) (Result, error) {
	opts = opts.withDefaults()
	start := time.Now()
	res := Result{RunID: uuid.NewString()}

	free := sys.FreeVars()
	n := len(free)
	if m := sys.NumEquations(); n != m {
		return res, fmt.Errorf("%w: %d free variables, %d equations", ErrNotSquare, n, m)
	}
	if n == 0 {
		res.Condition = ConditionOptimal
		res.Duration = time.Since(start)
		return res, nil
	}

	x := make([]float64, n)
	for i, v := range free {
		x[i] = v.Value()
	}
	eval := func(x []float64) []float64 {
		for i, v := range free {
			v.Set(x[i])
		}
		return sys.Residuals(make([]float64, 0, n))
	}

	f := eval(x)
	norm := infNorm(f)
	finish := func(cond Condition, it int) (Result, error) {
		res.Condition = cond
		res.Iterations = it
		res.ResidualNorm = norm
		res.Duration = time.Since(start)
		if cond != ConditionOptimal {
			return res, fmt.Errorf("%w: %s after %d iterations, residual %.3e",
				ErrNotConverged, cond, it, norm)
		}
		return res, nil
	}

	for it := 1; it <= opts.MaxIterations; it++ {
		if norm < opts.Tolerance {
			return finish(ConditionOptimal, it-1)
		}
		if err := ctx.Err(); err != nil {
			res.Iterations = it - 1
			res.ResidualNorm = norm
			res.Duration = time.Since(start)
			return res, err
		}

		j := jacobian(eval, x, f, free)
		d, err := linSolve(j, f)
		if err != nil {
			eval(x) // restore the last accepted iterate
			return finish(ConditionSingular, it-1)
		}

		// Backtracking line search on the residual norm.
		alpha := 1.0
		improved := false
		trial := make([]float64, n)
		var fTrial []float64
		for k := 0; k < opts.MaxBacktracks; k++ {
			for i := range x {
				trial[i] = x[i] + alpha*d[i]
			}
			fTrial = eval(trial)
			if nt := infNorm(fTrial); nt < (1-1e-4*alpha)*norm {
				improved = true
				break
			}
			alpha /= 2
		}
		if !improved {
			eval(x)
			return finish(ConditionDiverged, it-1)
		}
		copy(x, trial)
		f = fTrial
		norm = infNorm(f)

		if opts.Events != nil {
			opts.Events.Publish(metrics.IterationEvent{
				RunID:        res.RunID,
				Iteration:    it,
				ResidualNorm: norm,
				StepSize:     alpha,
				Time:         time.Now(),
			})
		}
	}
	if norm < opts.Tolerance {
		return finish(ConditionOptimal, opts.MaxIterations)
	}
	return finish(ConditionMaxIterations, opts.MaxIterations)
}

// jacobian builds the forward finite difference Jacobian around x, where f
// is the residual at x. The variable scale sets the step so flows,
// temperatures and pressures are all perturbed proportionally.
func jacobian(eval func([]float64) []float64, x, f []float64, free []*flowsheet.Var) *mat.Dense {
	n := len(x)
	j := mat.NewDense(n, n, nil)
	xp := make([]float64, n)
	copy(xp, x)
	for col := 0; col < n; col++ {
		step := 1e-7 * math.Max(math.Abs(x[col]), free[col].Scale())
		xp[col] = x[col] + step
		fp := eval(xp)
		for row := 0; row < n; row++ {
			j.Set(row, col, (fp[row]-f[row])/step)
		}
		xp[col] = x[col]
	}
	eval(x)
	return j
}

func infNorm(f []float64) float64 {
	norm := 0.0
	for _, v := range f {
		if a := math.Abs(v); a > norm {
			norm = a
		}
	}
	return norm
}
