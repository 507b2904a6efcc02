package metrics

import "time"

// SolveEvent summarizes one solver run over the flowsheet.
type SolveEvent struct {
	RunID        string
	Phase        string // "simulate" or "optimize"
	Condition    string // solver termination condition
	Iterations   int
	ResidualNorm float64
	Duration     time.Duration
	Time         time.Time
}

// IterationEvent is emitted once per Newton iteration.
type IterationEvent struct {
	RunID        string
	Iteration    int
	ResidualNorm float64
	StepSize     float64
	Time         time.Time
}

// CostEvent reports the annualized operating cost breakdown of a solved
// flowsheet.
type CostEvent struct {
	RunID       string
	Heating     float64 // $/yr
	Cooling     float64 // $/yr
	Electricity float64 // $/yr
	Total       float64 // $/yr
	Conversion  float64
	Time        time.Time
}

// Recorder records solver activity for observability purposes.
type Recorder interface {
	RecordSolve(ev SolveEvent) error
	RecordIteration(ev IterationEvent) error
	RecordCost(ev CostEvent) error
}

// NopRecorder discards all events.
type NopRecorder struct{}

func (NopRecorder) RecordSolve(SolveEvent) error         { return nil }
func (NopRecorder) RecordIteration(IterationEvent) error { return nil }
func (NopRecorder) RecordCost(CostEvent) error           { return nil }
