// Package config loads and watches the ManualBox configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Events  EventsConfig  `yaml:"events"`
	Errors  ErrorsConfig  `yaml:"errors"`
	Expiry  ExpiryConfig  `yaml:"expiry"`
	Bridge  BridgeConfig  `yaml:"bridge,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// DataConfig locates the persistent state.
type DataConfig struct {
	// Path to the SQLite database; ":memory:" keeps everything in-process.
	DatabasePath string `yaml:"database_path"`
	// JournalPath is the event journal database; empty disables journaling.
	JournalPath string `yaml:"journal_path,omitempty"`
}

// EventsConfig tunes the in-process event bus.
type EventsConfig struct {
	HistoryCapacity int `yaml:"history_capacity"`
}

// ErrorsConfig tunes the bounded error log.
type ErrorsConfig struct {
	LogCapacity int `yaml:"log_capacity"`
}

// ExpiryConfig drives the warranty expiry sweeper.
type ExpiryConfig struct {
	// Window is how far ahead a warranty counts as "expiring soon".
	Window time.Duration `yaml:"window"`
	// SweepInterval is how often the sweeper scans for expiring warranties.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// BridgeConfig forwards bus events to NATS JetStream. Disabled unless a URL
// is configured.
type BridgeConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url,omitempty"`
	Stream  string `yaml:"stream,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig exposes the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr,omitempty"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text, json
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Data:    DataConfig{DatabasePath: "manualbox.db"},
		Events:  EventsConfig{HistoryCapacity: 100},
		Errors:  ErrorsConfig{LogCapacity: 1000},
		Expiry:  ExpiryConfig{Window: 30 * 24 * time.Hour, SweepInterval: time.Hour},
		Bridge:  BridgeConfig{Stream: "MANUALBOX", Subject: "manualbox.events"},
		Metrics: MetricsConfig{Addr: ":9180"},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

// Load reads the configuration file, expanding ${VAR} references from the
// environment. A .env file beside the process is loaded first without
// overriding existing variables.
func Load(configPath string) (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Data.DatabasePath == "" {
		c.Data.DatabasePath = d.Data.DatabasePath
	}
	if c.Events.HistoryCapacity == 0 {
		c.Events.HistoryCapacity = d.Events.HistoryCapacity
	}
	if c.Errors.LogCapacity == 0 {
		c.Errors.LogCapacity = d.Errors.LogCapacity
	}
	if c.Expiry.Window == 0 {
		c.Expiry.Window = d.Expiry.Window
	}
	if c.Expiry.SweepInterval == 0 {
		c.Expiry.SweepInterval = d.Expiry.SweepInterval
	}
	if c.Bridge.Stream == "" {
		c.Bridge.Stream = d.Bridge.Stream
	}
	if c.Bridge.Subject == "" {
		c.Bridge.Subject = d.Bridge.Subject
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = d.Metrics.Addr
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}

// Validate rejects configurations that cannot be run.
func (c *Config) Validate() error {
	if c.Data.DatabasePath == "" {
		return fmt.Errorf("data.database_path must not be empty")
	}
	if c.Events.HistoryCapacity < 1 {
		return fmt.Errorf("events.history_capacity must be positive, got %d", c.Events.HistoryCapacity)
	}
	if c.Errors.LogCapacity < 1 {
		return fmt.Errorf("errors.log_capacity must be positive, got %d", c.Errors.LogCapacity)
	}
	if c.Expiry.Window <= 0 {
		return fmt.Errorf("expiry.window must be positive, got %s", c.Expiry.Window)
	}
	if c.Expiry.SweepInterval <= 0 {
		return fmt.Errorf("expiry.sweep_interval must be positive, got %s", c.Expiry.SweepInterval)
	}
	if c.Bridge.Enabled && c.Bridge.URL == "" {
		return fmt.Errorf("bridge.url must be set when the bridge is enabled")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is not one of text, json", c.Logging.Format)
	}
	return nil
}

// Init writes an example configuration file. Refuses to overwrite unless
// force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := `# ManualBox configuration
data:
  database_path: manualbox.db
  # journal_path: manualbox-events.db

events:
  history_capacity: 100

errors:
  log_capacity: 1000

expiry:
  window: 720h       # 30 days
  sweep_interval: 1h

# bridge:
#   enabled: true
#   url: ${NATS_URL}
#   stream: MANUALBOX
#   subject: manualbox.events

metrics:
  enabled: false
  addr: :9180

logging:
  level: info
  format: text
`
	if err := os.WriteFile(configPath, []byte(example), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
