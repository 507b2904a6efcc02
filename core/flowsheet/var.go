package flowsheet

import (
	"fmt"
	"math"
)

// Var is a continuous model variable. A fixed variable is excluded from the
// unknowns of the equation system; fixing and unfixing is how specifications
// are applied to a flowsheet.
type Var struct {
	name  string
	value float64
	fixed bool
	lower float64
	upper float64
	scale float64
}

// NewVar creates a free variable with the given initial value.
func NewVar(name string, value float64) *Var {
	return &Var{
		name:  name,
		value: value,
		lower: math.Inf(-1),
		upper: math.Inf(1),
		scale: 1,
	}
}

// WithBounds sets the admissible range used by optimization drivers.
func (v *Var) WithBounds(lower, upper float64) *Var {
	v.lower, v.upper = lower, upper
	return v
}

// WithScale sets the typical magnitude used for finite difference steps.
func (v *Var) WithScale(scale float64) *Var {
	if scale > 0 {
		v.scale = scale
	}
	return v
}

// Name returns the fully qualified variable name.
func (v *Var) Name() string { return v.name }

// Value returns the current value.
func (v *Var) Value() float64 { return v.value }

// Set assigns a new value without changing the fixed flag.
func (v *Var) Set(value float64) { v.value = value }

// Fix pins the variable at its current value.
func (v *Var) Fix() { v.fixed = true }

// FixAt assigns the value and pins the variable.
func (v *Var) FixAt(value float64) {
	v.value = value
	v.fixed = true
}

// Unfix releases the variable back into the unknowns.
func (v *Var) Unfix() { v.fixed = false }

// Fixed reports whether the variable is pinned.
func (v *Var) Fixed() bool { return v.fixed }

// Bounds returns the lower and upper bound.
func (v *Var) Bounds() (lower, upper float64) { return v.lower, v.upper }

// Scale returns the typical magnitude of the variable.
func (v *Var) Scale() float64 { return v.scale }

func (v *Var) String() string {
	state := "free"
	if v.fixed {
		state = "fixed"
	}
	return fmt.Sprintf("%s=%g (%s)", v.name, v.value, state)
}
