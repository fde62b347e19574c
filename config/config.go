// Package config holds ambient, optional configuration for a Session:
// receiver address and the handful of timing/format knobs a caller may
// want to tune (the response timeout, the default sample width).
// Session itself never touches a file; config only exists for callers
// who want to keep these values in YAML instead of Go literals, loaded
// with gopkg.in/yaml.v3.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the set of values needed to dial a receiver and bound its
// control-request behavior.
type Config struct {
	Host        string        `yaml:"host"`
	ControlPort int           `yaml:"control_port"`
	DataPort    int           `yaml:"data_port"`

	// ResponseTimeout bounds how long a control request waits for its
	// reply before failing with Timeout.
	ResponseTimeout time.Duration `yaml:"response_timeout"`

	// SampleWidth is the bit width Session passes to sample.Samples for
	// every data frame; the width is never derived from the item code.
	SampleWidth int `yaml:"sample_width"`

	// RateLimitPerSecond and RateLimitBurst configure the control
	// request rate limiter (middleware.RateLimit). Zero disables rate
	// limiting (RateLimitPerSecond == 0).
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`
	RateLimitBurst     int     `yaml:"rate_limit_burst"`
}

// Default returns sensible defaults: a 2s response timeout and 16-bit
// samples (the common NetSDR I/Q width).
func Default() Config {
	return Config{
		ControlPort:     50000,
		DataPort:        60000,
		ResponseTimeout: 2 * time.Second,
		SampleWidth:     16,
	}
}

// Load reads a YAML config file, applying Default() for any field the
// file leaves at its zero value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
