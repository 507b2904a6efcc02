// Package app wires the configuration into a runnable case: build the
// flowsheet, apply the design specs, solve the square model and optionally
// run the operating cost optimization, recording solver telemetry along the
// way.
package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/procsim/flowsim/config"
	"github.com/procsim/flowsim/core/costing"
	coremetrics "github.com/procsim/flowsim/core/metrics"
	"github.com/procsim/flowsim/core/monitoring"
	"github.com/procsim/flowsim/core/plant"
	"github.com/procsim/flowsim/core/solver"
	"github.com/procsim/flowsim/infra/history"
	"github.com/procsim/flowsim/infra/logger"
	"github.com/procsim/flowsim/infra/metrics"
	infmon "github.com/procsim/flowsim/infra/monitoring"
	"github.com/procsim/flowsim/internal/eventbus"
	"github.com/procsim/flowsim/pkg/export"
)

// Service owns one configured flowsheet case.
type Service struct {
	cfg      *config.Config
	plant    *plant.Plant
	recorder coremetrics.Recorder
	iterBus  *eventbus.TypedBus[coremetrics.IterationEvent]
	hist     *history.SQLiteStore
	log      logger.Logger
}

// New creates a Service from the configuration. The returned service has
// the design specs applied and a square flowsheet ready to solve.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	logg := logger.New("service")

	mon, err := infmon.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	monitoring.Init(mon)

	recorder, err := coremetrics.NewRecorder(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}

	var hist *history.SQLiteStore
	if cfg.History.Path != "" {
		hist, err = history.NewSQLiteStore(cfg.History.Path)
		if err != nil {
			return nil, fmt.Errorf("run history: %w", err)
		}
	}

	p := plant.Build()
	if dof := p.Flowsheet.DegreesOfFreedom(); dof != 20 {
		return nil, fmt.Errorf("unspecified flowsheet has %d degrees of freedom, want 20", dof)
	}
	if err := p.ApplySpecs(cfg.Plant); err != nil {
		return nil, fmt.Errorf("apply specs: %w", err)
	}
	if dof := p.Flowsheet.DegreesOfFreedom(); dof != 0 {
		return nil, fmt.Errorf("specified flowsheet has %d degrees of freedom, want 0", dof)
	}

	svc := &Service{
		cfg:      cfg,
		plant:    p,
		recorder: recorder,
		iterBus:  eventbus.NewTyped[coremetrics.IterationEvent](),
		hist:     hist,
		log:      logg,
	}
	go svc.forwardIterations()
	return svc, nil
}

// forwardIterations drains the solver progress bus into the recorder until
// the bus is closed.
func (s *Service) forwardIterations() {
	ch := s.iterBus.Subscribe()
	for ev := range ch {
		if err := s.recorder.RecordIteration(ev); err != nil {
			s.log.Warnf("record iteration: %v", err)
		}
		s.log.Debugw("newton iteration", map[string]any{
			"run_id":   ev.RunID,
			"iter":     ev.Iteration,
			"residual": ev.ResidualNorm,
			"step":     ev.StepSize,
		})
	}
}

// Run solves the case: square simulation first, then the cost optimization
// when enabled, and writes the export report.
func (s *Service) Run(ctx context.Context) error {
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(port); err != nil {
				s.log.Errorf("prometheus server: %v", err)
			}
		}()
	}

	simRes, err := s.simulate(ctx)
	if err != nil {
		return err
	}
	report := export.Report{
		RunID:      simRes.RunID,
		Condition:  simRes.Condition.String(),
		Iterations: simRes.Iterations,
		Conversion: s.plant.Conversion(),
		Cost:       s.plant.OperatingCost(s.cfg.Costing),
		Streams:    s.plant.Snapshots(),
	}

	if s.cfg.Optimize.Enabled {
		optRes, err := s.optimize(ctx)
		if err != nil {
			return err
		}
		report.RunID = optRes.RunID
		report.Condition = optRes.Status
		report.Conversion = s.plant.Conversion()
		report.Cost = s.plant.OperatingCost(s.cfg.Costing)
		report.Streams = s.plant.Snapshots()
	}

	return s.export(report)
}

func (s *Service) newtonOptions() solver.Options {
	return solver.Options{
		MaxIterations: s.cfg.Solver.MaxIterations,
		Tolerance:     s.cfg.Solver.Tolerance,
		Events:        s.iterBus,
	}
}

func (s *Service) simulate(ctx context.Context) (solver.Result, error) {
	if err := s.plant.Flowsheet.Initialize(); err != nil {
		return solver.Result{}, fmt.Errorf("initialize: %w", err)
	}
	res, err := solver.Solve(ctx, s.plant.Flowsheet, s.newtonOptions())
	s.recordSolve("simulate", res)
	if err != nil {
		monitoring.CaptureException(err, map[string]string{"phase": "simulate"})
		return res, fmt.Errorf("simulate: %w", err)
	}
	cost := s.plant.OperatingCost(s.cfg.Costing)
	s.recordCost(res.RunID, cost)
	s.recordHistory(history.Record{
		RunID:          res.RunID,
		Phase:          "simulate",
		Condition:      res.Condition.String(),
		Iterations:     res.Iterations,
		Conversion:     s.plant.Conversion(),
		CostUSDPerYear: cost.Total,
		Time:           time.Now(),
	})
	s.log.Infof("simulation solved in %d iterations: conversion %.4f, operating cost %.3f M$/yr",
		res.Iterations, s.plant.Conversion(), cost.Total/1e6)
	return res, nil
}

func (s *Service) optimize(ctx context.Context) (solver.OptimizeResult, error) {
	oc := s.cfg.Optimize
	s.plant.Compressor.Outlet.P.Unfix()
	s.plant.Reactor.Outlet.T.Unfix()
	if dof := s.plant.Flowsheet.DegreesOfFreedom(); dof != 2 {
		return solver.OptimizeResult{}, fmt.Errorf("relaxed flowsheet has %d degrees of freedom, want 2", dof)
	}
	decisions := []solver.Decision{
		{Var: s.plant.Compressor.Outlet.P, Lower: oc.PressureMinPa, Upper: oc.PressureMaxPa},
		{Var: s.plant.Reactor.Outlet.T, Lower: oc.TemperatureMinK, Upper: oc.TemperatureMaxK},
	}
	objective := func() float64 {
		return s.plant.OperatingCost(s.cfg.Costing).Total
	}
	violation := func() float64 {
		return math.Max(0, oc.TargetConversion-s.plant.Conversion())
	}

	start := time.Now()
	res, err := solver.Minimize(ctx, s.plant.Flowsheet, decisions, objective, violation, solver.OptimizeOptions{
		Newton:         s.newtonOptions(),
		Penalty:        oc.Penalty,
		MaxEvaluations: oc.MaxEvaluations,
	})
	s.recordOptimize(res, time.Since(start))
	if err != nil {
		monitoring.CaptureException(err, map[string]string{"phase": "optimize"})
		return res, fmt.Errorf("optimize: %w", err)
	}
	cost := s.plant.OperatingCost(s.cfg.Costing)
	s.recordCost(res.RunID, cost)
	s.recordHistory(history.Record{
		RunID:          res.RunID,
		Phase:          "optimize",
		Condition:      res.Status,
		Iterations:     res.Evaluations,
		Conversion:     s.plant.Conversion(),
		CostUSDPerYear: cost.Total,
		Time:           time.Now(),
	})
	s.log.Infof("optimization %s after %d evaluations: conversion %.4f, operating cost %.3f M$/yr",
		res.Status, res.Evaluations, s.plant.Conversion(), cost.Total/1e6)
	return res, nil
}

func (s *Service) recordSolve(phase string, res solver.Result) {
	ev := coremetrics.SolveEvent{
		RunID:        res.RunID,
		Phase:        phase,
		Condition:    res.Condition.String(),
		Iterations:   res.Iterations,
		ResidualNorm: res.ResidualNorm,
		Duration:     res.Duration,
		Time:         time.Now(),
	}
	if err := s.recorder.RecordSolve(ev); err != nil {
		s.log.Warnf("record solve: %v", err)
	}
}

func (s *Service) recordOptimize(res solver.OptimizeResult, dur time.Duration) {
	ev := coremetrics.SolveEvent{
		RunID:      res.RunID,
		Phase:      "optimize",
		Condition:  res.Status,
		Iterations: res.Evaluations,
		Duration:   dur,
		Time:       time.Now(),
	}
	if err := s.recorder.RecordSolve(ev); err != nil {
		s.log.Warnf("record optimize: %v", err)
	}
}

func (s *Service) recordCost(runID string, cost costing.Report) {
	ev := coremetrics.CostEvent{
		RunID:       runID,
		Heating:     cost.Heating,
		Cooling:     cost.Cooling,
		Electricity: cost.Electricity,
		Total:       cost.Total,
		Conversion:  s.plant.Conversion(),
		Time:        time.Now(),
	}
	if err := s.recorder.RecordCost(ev); err != nil {
		s.log.Warnf("record cost: %v", err)
	}
}

func (s *Service) recordHistory(r history.Record) {
	if s.hist == nil {
		return
	}
	if err := s.hist.Add(r); err != nil {
		s.log.Warnf("record history: %v", err)
	}
}

// Close releases the iteration bus, flushes monitoring and closes the run
// history when open.
func (s *Service) Close() error {
	s.iterBus.Close()
	monitoring.Flush(2 * time.Second)
	if s.hist != nil {
		return s.hist.Close()
	}
	return nil
}

func (s *Service) export(rep export.Report) error {
	out := os.Stdout
	if path := s.cfg.Export.JSONPath; path != "" && path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := export.WriteJSON(out, rep); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if path := s.cfg.Export.CSVPath; path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create stream table: %w", err)
		}
		defer f.Close()
		if err := export.WriteStreamsCSV(f, rep.Streams); err != nil {
			return fmt.Errorf("write stream table: %w", err)
		}
	}
	return nil
}
