package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/procsim/flowsim/core/metrics"
)

func TestPromRecorder_RecordSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	recIf, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	rec, ok := recIf.(*PromRecorder)
	if !ok {
		t.Fatalf("expected PromRecorder")
	}

	if err := rec.RecordSolve(coremetrics.SolveEvent{
		Phase:      "simulate",
		Condition:  "optimal",
		Iterations: 7,
		Duration:   120 * time.Millisecond,
	}); err != nil {
		t.Fatalf("record solve: %v", err)
	}

	expected := `
# HELP flowsim_solves_total Total number of flowsheet solves by phase and termination condition
# TYPE flowsim_solves_total counter
flowsim_solves_total{condition="optimal",phase="simulate"} 1
`
	if err := testutil.CollectAndCompare(rec.solves, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(rec.iterations); c == 0 {
		t.Errorf("iterations not recorded")
	}
}

func TestPromRecorder_RecordCost(t *testing.T) {
	reg := prometheus.NewRegistry()
	recIf, err := NewPromRecorderWithRegistry(reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	rec := recIf.(*PromRecorder)

	if err := rec.RecordCost(coremetrics.CostEvent{
		Heating:     10e6,
		Cooling:     15e6,
		Electricity: 14e6,
		Total:       39e6,
	}); err != nil {
		t.Fatalf("record cost: %v", err)
	}

	expected := `
# HELP flowsim_operating_cost_usd_per_year Annualized operating cost of the latest solved flowsheet
# TYPE flowsim_operating_cost_usd_per_year gauge
flowsim_operating_cost_usd_per_year{utility="cooling"} 1.5e+07
flowsim_operating_cost_usd_per_year{utility="electricity"} 1.4e+07
flowsim_operating_cost_usd_per_year{utility="heating"} 1e+07
flowsim_operating_cost_usd_per_year{utility="total"} 3.9e+07
`
	if err := testutil.CollectAndCompare(rec.cost, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromRecorderDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromRecorderWithRegistry(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPromRecorderWithRegistry(reg); err != nil {
		t.Fatalf("second registration should reuse collectors: %v", err)
	}
}

func TestRecorderFactoryNames(t *testing.T) {
	rec, err := coremetrics.NewRecorder(nil)
	if err != nil {
		t.Fatalf("nop recorder: %v", err)
	}
	if _, ok := rec.(coremetrics.NopRecorder); !ok {
		t.Fatalf("empty sink list should yield NopRecorder, got %T", rec)
	}
}
