package metrics

import (
	"errors"
	"testing"

	"github.com/procsim/flowsim/core/factory"
)

type countingRecorder struct {
	solves, iterations, costs int
	err                       error
}

func (c *countingRecorder) RecordSolve(SolveEvent) error         { c.solves++; return c.err }
func (c *countingRecorder) RecordIteration(IterationEvent) error { c.iterations++; return c.err }
func (c *countingRecorder) RecordCost(CostEvent) error           { c.costs++; return c.err }

func TestNewRecorderEmptyIsNop(t *testing.T) {
	rec, err := NewRecorder(nil)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if _, ok := rec.(NopRecorder); !ok {
		t.Fatalf("got %T, want NopRecorder", rec)
	}
}

func TestNewRecorderUnknownType(t *testing.T) {
	_, err := NewRecorder([]factory.ModuleConfig{{Type: "does-not-exist"}})
	if err == nil {
		t.Fatal("expected error for unknown sink type")
	}
}

func TestRegisterRecorderRejectsDuplicates(t *testing.T) {
	f := func(map[string]any) (Recorder, error) { return NopRecorder{}, nil }
	if err := RegisterRecorder("dup-test", f); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if err := RegisterRecorder("dup-test", f); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestMultiRecorderFansOut(t *testing.T) {
	a := &countingRecorder{}
	b := &countingRecorder{}
	m := NewMultiRecorder(a, b)

	if err := m.RecordSolve(SolveEvent{}); err != nil {
		t.Fatalf("RecordSolve: %v", err)
	}
	if err := m.RecordIteration(IterationEvent{}); err != nil {
		t.Fatalf("RecordIteration: %v", err)
	}
	if err := m.RecordCost(CostEvent{}); err != nil {
		t.Fatalf("RecordCost: %v", err)
	}
	for _, r := range []*countingRecorder{a, b} {
		if r.solves != 1 || r.iterations != 1 || r.costs != 1 {
			t.Fatalf("counts = %+v", r)
		}
	}
}

func TestMultiRecorderPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	m := NewMultiRecorder(&countingRecorder{}, &countingRecorder{err: boom})
	if err := m.RecordSolve(SolveEvent{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}
