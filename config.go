package raspberrystats

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that supports YAML unmarshaling
// from human-readable strings like "500ms", "10s", "1m".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		parsed, err := time.ParseDuration(value.Value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value.Value, err)
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("unsupported duration format: %v", value.Kind)
	}
}

// MarshalYAML implements the yaml.Marshaler interface for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Config holds the command paths, sampling parameters, and query timeout.
// The zero value is not usable; start from DefaultConfig or LoadConfig.
type Config struct {
	Commands CommandsConfig `yaml:"commands"`
	CPU      CPUConfig      `yaml:"cpu"`
	Timeout  Duration       `yaml:"timeout"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// CommandsConfig holds the executables the queries invoke. Overriding a path
// substitutes the binary without changing the expected output format.
type CommandsConfig struct {
	Vcgencmd string `yaml:"vcgencmd"`
	Free     string `yaml:"free"`
	Df       string `yaml:"df"`
	Shell    string `yaml:"shell"`
}

// CPUConfig holds the CPU utilization sampling parameters. The query takes
// Samples readings at SampleInterval cadence and averages them.
type CPUConfig struct {
	Samples        int      `yaml:"samples"`
	SampleInterval Duration `yaml:"sample_interval"`
}

// LoggingConfig holds logging settings for the CLI.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Commands: CommandsConfig{
			Vcgencmd: "vcgencmd",
			Free:     "free",
			Df:       "df",
			Shell:    "/bin/sh",
		},
		CPU: CPUConfig{
			Samples:        5,
			SampleInterval: Duration{1 * time.Second},
		},
		Timeout: Duration{10 * time.Second},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from a YAML file and merges with defaults.
// If path is empty or the file does not exist, only defaults and environment
// variables are used. Environment variables take highest precedence.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables have the highest precedence.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RSTATS_VCGENCMD"); v != "" {
		cfg.Commands.Vcgencmd = v
	}
	if v := os.Getenv("RSTATS_FREE"); v != "" {
		cfg.Commands.Free = v
	}
	if v := os.Getenv("RSTATS_DF"); v != "" {
		cfg.Commands.Df = v
	}
	if v := os.Getenv("RSTATS_SHELL"); v != "" {
		cfg.Commands.Shell = v
	}
	if v := os.Getenv("RSTATS_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = Duration{parsed}
		}
	}
	if v := os.Getenv("RSTATS_CPU_SAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CPU.Samples = n
		}
	}
	if v := os.Getenv("RSTATS_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Commands.Vcgencmd == "" || c.Commands.Free == "" || c.Commands.Df == "" || c.Commands.Shell == "" {
		return fmt.Errorf("all command paths are required")
	}
	if c.CPU.Samples < 1 {
		return fmt.Errorf("cpu samples must be at least 1 (got %d)", c.CPU.Samples)
	}
	if c.CPU.SampleInterval.Duration <= 0 {
		return fmt.Errorf("cpu sample interval must be positive (got %v)", c.CPU.SampleInterval.Duration)
	}
	if c.Timeout.Duration < 0 {
		return fmt.Errorf("timeout must not be negative (got %v)", c.Timeout.Duration)
	}
	return nil
}
