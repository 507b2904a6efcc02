package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/procsim/flowsim/core/costing"
	"github.com/procsim/flowsim/core/metrics"
	"github.com/procsim/flowsim/core/plant"
)

// Config is the root configuration of a flowsim run.
type Config struct {
	Plant    plant.Config   `json:"plant"`
	Solver   SolverConfig   `json:"solver"`
	Optimize OptimizeConfig `json:"optimize"`
	Costing  costing.Config `json:"costing"`
	Metrics  metrics.Config `json:"metrics"`
	Logging  LoggingConfig  `json:"logging"`
	Export   ExportConfig   `json:"export"`
	History  HistoryConfig  `json:"history"`
	Sentry   SentryConfig   `json:"sentry"`
}

// SolverConfig tunes the Newton iteration of the square solve.
type SolverConfig struct {
	MaxIterations int     `json:"max_iterations"`
	Tolerance     float64 `json:"tolerance"`
}

// SetDefaults applies solver defaults.
func (c *SolverConfig) SetDefaults() {
	if c.MaxIterations == 0 {
		c.MaxIterations = 50
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-8
	}
}

// Validate checks the solver settings.
func (c SolverConfig) Validate() error {
	if c.MaxIterations < 1 {
		return fmt.Errorf("solver max_iterations must be positive")
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("solver tolerance must be positive")
	}
	return nil
}

// OptimizeConfig describes the operating cost optimization: which bounds the
// two relaxed variables move in and the conversion target to hold.
type OptimizeConfig struct {
	Enabled          bool    `json:"enabled"`
	TargetConversion float64 `json:"target_conversion"`
	PressureMinPa    float64 `json:"pressure_min_pa"`
	PressureMaxPa    float64 `json:"pressure_max_pa"`
	TemperatureMinK  float64 `json:"temperature_min_k"`
	TemperatureMaxK  float64 `json:"temperature_max_k"`
	Penalty          float64 `json:"penalty"`
	MaxEvaluations   int     `json:"max_evaluations"`
}

// SetDefaults applies the base-case optimization window.
func (c *OptimizeConfig) SetDefaults() {
	if c.TargetConversion == 0 {
		c.TargetConversion = 0.80
	}
	if c.PressureMinPa == 0 {
		c.PressureMinPa = 30e5
	}
	if c.PressureMaxPa == 0 {
		c.PressureMaxPa = 80e5
	}
	if c.TemperatureMinK == 0 {
		c.TemperatureMinK = 400
	}
	if c.TemperatureMaxK == 0 {
		c.TemperatureMaxK = 600
	}
	if c.Penalty == 0 {
		c.Penalty = 1e4
	}
	if c.MaxEvaluations == 0 {
		c.MaxEvaluations = 500
	}
}

// Validate checks the optimization window.
func (c OptimizeConfig) Validate() error {
	if c.TargetConversion <= 0 || c.TargetConversion >= 1 {
		return fmt.Errorf("target_conversion must be in (0,1)")
	}
	if c.PressureMinPa >= c.PressureMaxPa {
		return fmt.Errorf("pressure bounds are empty")
	}
	if c.TemperatureMinK >= c.TemperatureMaxK {
		return fmt.Errorf("temperature bounds are empty")
	}
	return nil
}

// ExportConfig selects where the solved case report is written.
type ExportConfig struct {
	// JSONPath receives the full report; "-" or empty writes to stdout.
	JSONPath string `json:"json_path"`
	// CSVPath receives the stream table when non-empty.
	CSVPath string `json:"csv_path"`
}

// HistoryConfig enables the run history database.
type HistoryConfig struct {
	// Path of the SQLite file; empty disables history.
	Path string `json:"path"`
}

// Load reads, defaults and validates the configuration from a yaml or json
// file, with FS_-prefixed environment overrides (FS_SOLVER__TOLERANCE maps
// to solver.tolerance).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("FS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fs_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Plant.SetDefaults()
	cfg.Solver.SetDefaults()
	cfg.Optimize.SetDefaults()
	cfg.Costing.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Plant.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Solver.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Optimize.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Costing.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
