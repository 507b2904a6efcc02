package metrics

import (
	"context"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/procsim/flowsim/core/metrics"
	"github.com/procsim/flowsim/infra/logger"
)

// InfluxRecorder persists solver telemetry to an InfluxDB bucket using the
// official client.
type InfluxRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxRecorder creates a recorder for the given InfluxDB endpoint.
func NewInfluxRecorder(url, token, org, bucket string) *InfluxRecorder {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-recorder"),
	}
}

// NewInfluxRecorderWithFallback pings the InfluxDB instance and returns a
// NopRecorder if the health check fails, so a missing telemetry backend
// never blocks a solve.
func NewInfluxRecorderWithFallback(url, token, org, bucket string) coremetrics.Recorder {
	rec := NewInfluxRecorder(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := rec.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			rec.log.Errorf("influx health check error: %v", err)
		} else {
			rec.log.Errorf("influx health status: %s", health.Status)
		}
		rec.client.Close()
		return coremetrics.NopRecorder{}
	}
	return rec
}

// RecordSolve writes the solve summary as a point.
func (r *InfluxRecorder) RecordSolve(ev coremetrics.SolveEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve_event").
		AddTag("run_id", ev.RunID).
		AddTag("phase", ev.Phase).
		AddTag("condition", ev.Condition).
		AddField("iterations", ev.Iterations).
		AddField("residual_norm", ev.ResidualNorm).
		AddField("duration_ms", float64(ev.Duration.Milliseconds())).
		SetTime(ev.Time)
	return r.writeAPI.WritePoint(ctx, p)
}

// RecordIteration writes per-iteration progress.
func (r *InfluxRecorder) RecordIteration(ev coremetrics.IterationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("solve_iteration").
		AddTag("run_id", ev.RunID).
		AddField("iteration", ev.Iteration).
		AddField("residual_norm", ev.ResidualNorm).
		AddField("step_size", ev.StepSize).
		SetTime(ev.Time)
	return r.writeAPI.WritePoint(ctx, p)
}

// RecordCost writes the operating cost breakdown.
func (r *InfluxRecorder) RecordCost(ev coremetrics.CostEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("operating_cost").
		AddTag("run_id", ev.RunID).
		AddField("heating_usd_per_yr", ev.Heating).
		AddField("cooling_usd_per_yr", ev.Cooling).
		AddField("electricity_usd_per_yr", ev.Electricity).
		AddField("total_usd_per_yr", ev.Total).
		AddField("conversion", ev.Conversion).
		SetTime(ev.Time)
	return r.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (r *InfluxRecorder) Close() { r.client.Close() }
