package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ============================================================================
// CONFIG — YAML-backed runtime configuration
// ============================================================================
// Defaults cover local use out of the box; a YAML file overlays them. The
// region table and spotlight allow-list live here so view composition is
// data, not code.
// ============================================================================

// DefaultSource is the published homelessness CSV the dashboard ships
// against.
const DefaultSource = "https://raw.githubusercontent.com/szs2/IE6600Project2/519d0a8d74f02d9c84f96a84cd6cd8d447ff7a08/Data/Homelessness.csv"

// Config is the root configuration.
type Config struct {
	Server  ServerConfig      `yaml:"server"`
	Dataset DatasetConfig     `yaml:"dataset"`
	Views   ViewsConfig       `yaml:"views"`
	Logging LoggingConfig     `yaml:"logging"`
	Regions map[string]string `yaml:"regions"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// DatasetConfig controls the source and load behavior.
type DatasetConfig struct {
	Source          string  `yaml:"source"`
	FetchTimeout    string  `yaml:"fetch_timeout"`
	DefaultMinTotal float64 `yaml:"default_min_total"`
	DefaultMaxTotal float64 `yaml:"default_max_total"`
}

// ViewsConfig controls view composition.
type ViewsConfig struct {
	Spotlight     []string `yaml:"spotlight"`
	HistogramBins int      `yaml:"histogram_bins"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the baked-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: "15s",
		},
		Dataset: DatasetConfig{
			Source:          DefaultSource,
			FetchTimeout:    "30s",
			DefaultMinTotal: 50000,
			DefaultMaxTotal: 500000,
		},
		Views: ViewsConfig{
			Spotlight:     []string{"United States", "Australia", "Japan"},
			HistogramBins: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Regions: map[string]string{
			"United States":  "North America",
			"Canada":         "North America",
			"Mexico":         "North America",
			"United Kingdom": "Europe",
			"Germany":        "Europe",
			"France":         "Europe",
			"Japan":          "Asia",
			"India":          "Asia",
			"Australia":      "Oceania",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file is
// not an error: the defaults apply as-is.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// YAML maps merge into existing entries on unmarshal. A file that
	// defines its own region table expects to replace the default one,
	// so reset it first when the file has a regions section.
	var probe struct {
		Regions map[string]string `yaml:"regions"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if probe.Regions != nil {
		cfg.Regions = make(map[string]string)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field consistency.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if d, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Dataset.Source == "" {
		return fmt.Errorf("dataset.source must not be empty")
	}
	if d, err := time.ParseDuration(c.Dataset.FetchTimeout); err != nil {
		return fmt.Errorf("dataset.fetch_timeout: %w", err)
	} else if d <= 0 {
		return fmt.Errorf("dataset.fetch_timeout must be positive")
	}
	if c.Dataset.DefaultMinTotal > c.Dataset.DefaultMaxTotal {
		return fmt.Errorf("dataset.default_min_total exceeds dataset.default_max_total")
	}
	if c.Views.HistogramBins < 1 {
		return fmt.Errorf("views.histogram_bins must be at least 1")
	}
	return nil
}

// GetFetchTimeout parses the configured fetch timeout.
func (c *Config) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Dataset.FetchTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetShutdownTimeout parses the configured shutdown grace period.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}
