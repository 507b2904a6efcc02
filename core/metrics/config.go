package metrics

import "github.com/procsim/flowsim/core/factory"

// Config defines settings for recorder sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort enables the /metrics HTTP listener when non-empty,
	// e.g. ":9090".
	PrometheusPort string `json:"prometheus_port"`
}
