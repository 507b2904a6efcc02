package metrics

import "github.com/procsim/flowsim/core/factory"

var recorderRegistry = factory.NewRegistry[Recorder]()

// RegisterRecorder adds a recorder factory identified by name.
func RegisterRecorder(name string, f factory.Factory[Recorder]) error {
	return recorderRegistry.Register(name, f)
}

// NewRecorder creates a Recorder from the provided sink configurations. An
// empty list yields a NopRecorder; multiple sinks are fanned out.
func NewRecorder(cfgs []factory.ModuleConfig) (Recorder, error) {
	if len(cfgs) == 0 {
		return NopRecorder{}, nil
	}
	if len(cfgs) == 1 {
		return recorderRegistry.Create(cfgs[0])
	}
	recs := make([]Recorder, len(cfgs))
	for i, c := range cfgs {
		r, err := recorderRegistry.Create(c)
		if err != nil {
			return nil, err
		}
		recs[i] = r
	}
	return NewMultiRecorder(recs...), nil
}

// MultiRecorder fans events out to multiple recorders, returning the first
// error encountered.
type MultiRecorder struct {
	Recorders []Recorder
}

// NewMultiRecorder creates a MultiRecorder over the provided recorders.
func NewMultiRecorder(recs ...Recorder) *MultiRecorder {
	return &MultiRecorder{Recorders: recs}
}

func (m *MultiRecorder) RecordSolve(ev SolveEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) RecordIteration(ev IterationEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordIteration(ev); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiRecorder) RecordCost(ev CostEvent) error {
	for _, r := range m.Recorders {
		if err := r.RecordCost(ev); err != nil {
			return err
		}
	}
	return nil
}
