package config

import "fmt"

// LoggingConfig controls log verbosity and output format.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `json:"level"`
	// Format is "json" or "console".
	Format string `json:"format"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
}

// Validate checks the level and format names.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %s", c.Level)
	}
	switch c.Format {
	case "json", "console":
	default:
		return fmt.Errorf("unknown log format %s", c.Format)
	}
	return nil
}
