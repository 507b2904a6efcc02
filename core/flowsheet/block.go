package flowsheet

// Block is a unit model participating in the flowsheet equation system.
// Vars may report variables shared with neighbouring blocks (stream state
// travels along arcs); the flowsheet deduplicates them when counting.
type Block interface {
	Name() string
	Vars() []*Var
	// NumEquations is the number of residuals the block contributes.
	NumEquations() int
	// Residuals appends the block's scaled residuals to dst and returns
	// the extended slice. A residual of zero means the equation is
	// satisfied at the current variable values.
	Residuals(dst []float64) []float64
}

// Initializer is implemented by blocks that can estimate their outlet state
// from an already initialized inlet. Blocks are initialized in insertion
// order before the equation-oriented solve.
type Initializer interface {
	Initialize() error
}
