package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/procsim/flowsim/core/metrics"
)

// PromRecorder exposes solver activity as Prometheus metrics.
type PromRecorder struct {
	solves     *prometheus.CounterVec
	iterations prometheus.Histogram
	duration   *prometheus.HistogramVec
	residual   prometheus.Gauge
	cost       *prometheus.GaugeVec
}

// NewPromRecorder registers the solver metrics on the default Prometheus
// registerer. The /metrics listener is started separately with
// StartPromServer.
func NewPromRecorder() (coremetrics.Recorder, error) {
	return NewPromRecorderWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromRecorderWithRegistry(reg prometheus.Registerer) (coremetrics.Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "flowsim_solves_total",
		Help: "Total number of flowsheet solves by phase and termination condition",
	}, []string{"phase", "condition"})
	iterations := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "flowsim_solve_iterations",
		Help:    "Newton iterations per solve",
		Buckets: prometheus.LinearBuckets(0, 5, 12),
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flowsim_solve_duration_seconds",
		Help:    "Wall time per solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})
	residual := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "flowsim_residual_norm",
		Help: "Scaled residual max-norm of the latest iteration",
	})
	cost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "flowsim_operating_cost_usd_per_year",
		Help: "Annualized operating cost of the latest solved flowsheet",
	}, []string{"utility"})

	r := &PromRecorder{
		solves:     solves,
		iterations: iterations,
		duration:   duration,
		residual:   residual,
		cost:       cost,
	}
	for _, c := range []prometheus.Collector{solves, iterations, duration, residual, cost} {
		if err := register(reg, c, r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// register tolerates double registration so repeated construction in the
// same process reuses the existing collectors.
func register(reg prometheus.Registerer, c prometheus.Collector, r *PromRecorder) error {
	err := reg.Register(c)
	if err == nil {
		return nil
	}
	are, ok := err.(prometheus.AlreadyRegisteredError)
	if !ok {
		return err
	}
	switch existing := are.ExistingCollector.(type) {
	case *prometheus.CounterVec:
		r.solves = existing
	case prometheus.Histogram:
		r.iterations = existing
	case *prometheus.HistogramVec:
		r.duration = existing
	case prometheus.Gauge:
		r.residual = existing
	case *prometheus.GaugeVec:
		r.cost = existing
	}
	return nil
}

// RecordSolve counts the solve and observes its size and duration.
func (r *PromRecorder) RecordSolve(ev coremetrics.SolveEvent) error {
	r.solves.WithLabelValues(ev.Phase, ev.Condition).Inc()
	r.iterations.Observe(float64(ev.Iterations))
	r.duration.WithLabelValues(ev.Phase).Observe(ev.Duration.Seconds())
	return nil
}

// RecordIteration tracks the residual norm gauge.
func (r *PromRecorder) RecordIteration(ev coremetrics.IterationEvent) error {
	r.residual.Set(ev.ResidualNorm)
	return nil
}

// RecordCost publishes the cost breakdown gauges.
func (r *PromRecorder) RecordCost(ev coremetrics.CostEvent) error {
	r.cost.WithLabelValues("heating").Set(ev.Heating)
	r.cost.WithLabelValues("cooling").Set(ev.Cooling)
	r.cost.WithLabelValues("electricity").Set(ev.Electricity)
	r.cost.WithLabelValues("total").Set(ev.Total)
	return nil
}
