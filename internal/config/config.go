package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Strip           StripConfig       `yaml:"strip"`
	Storage         StorageConfig     `yaml:"storage"`
	Output          OutputConfig      `yaml:"output"`
	Webhook         WebhookConfig     `yaml:"webhook"`
	Healthcheck     HealthcheckConfig `yaml:"healthcheck"`
	Journal         JournalConfig     `yaml:"journal"`
	Log             LogConfig         `yaml:"log"`
	Script          string            `yaml:"script"`           // Optional boot script, empty = none
	ShutdownTimeout Duration          `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// StripConfig describes the LED strip and the render loop
type StripConfig struct {
	Leds         int      `yaml:"leds"`
	Name         string   `yaml:"name"`          // Identity reported by the mac command
	LoopInterval Duration `yaml:"loop_interval"` // Pause between loop iterations
	StrobeOn     Duration `yaml:"strobe_on"`
	StrobeOff    Duration `yaml:"strobe_off"`
	QueueSize    int      `yaml:"queue_size"` // Pending commands before requests are rejected
}

// StorageConfig contains the non-volatile state settings
type StorageConfig struct {
	Path   string `yaml:"path"`
	Memory bool   `yaml:"memory"` // Keep state in memory only (lost on restart)
}

// OutputConfig selects frame sinks
type OutputConfig struct {
	Kinds      []string `yaml:"kinds"` // log, opc, spi
	OPCAddress string   `yaml:"opc_address"`
	OPCChannel uint8    `yaml:"opc_channel"`
	SPIPort    string   `yaml:"spi_port"`
}

// WebhookConfig contains the HTTP command server settings
type WebhookConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"` // State-changing commands per second, 0 = unlimited
	RequestTimeout Duration `yaml:"request_timeout"`
}

// HealthcheckConfig contains health check server settings
type HealthcheckConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	Metrics bool   `yaml:"metrics"` // Serve /metrics next to /health
}

// GetHost returns host with default
func (c *HealthcheckConfig) GetHost() string {
	if c.Host == "" {
		return "0.0.0.0"
	}
	return c.Host
}

// GetPort returns port with default
func (c *HealthcheckConfig) GetPort() int {
	if c.Port <= 0 {
		return 9090
	}
	return c.Port
}

// JournalConfig contains command journal settings
type JournalConfig struct {
	Enabled         bool     `yaml:"enabled"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
	RetentionDays   int      `yaml:"retention_days"`
}

// Retention returns the retention window
func (c *JournalConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"json"`
}

// GetLevel returns the lowercased level name
func (c *LogConfig) GetLevel() string {
	return strings.ToLower(strings.TrimSpace(c.Level))
}

// GetShutdownTimeout returns the shutdown timeout
func (c *Config) GetShutdownTimeout() time.Duration {
	return c.ShutdownTimeout.Duration()
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envOverrides are applied after the file is parsed. Empty values keep the
// file setting.
type envOverrides struct {
	Leds         int           `env:"STRIPD_LEDS"`
	Name         string        `env:"STRIPD_NAME"`
	LoopInterval time.Duration `env:"STRIPD_LOOP_INTERVAL"`
	StoragePath  string        `env:"STRIPD_STORAGE_PATH"`
	Outputs      []string      `env:"STRIPD_OUTPUTS" envSeparator:","`
	OPCAddress   string        `env:"STRIPD_OPC_ADDRESS"`
	SPIPort      string        `env:"STRIPD_SPI_PORT"`
	WebhookPort  int           `env:"STRIPD_WEBHOOK_PORT"`
	RateLimitRPS float64       `env:"STRIPD_RATE_LIMIT_RPS"`
	LogLevel     string        `env:"STRIPD_LOG_LEVEL"`
	LogJSON      string        `env:"STRIPD_LOG_JSON"`
	Script       string        `env:"STRIPD_SCRIPT"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds a configuration from YAML, then applies STRIPD_* environment
// overrides and defaults.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	if o.Leds != 0 {
		c.Strip.Leds = o.Leds
	}
	if o.Name != "" {
		c.Strip.Name = o.Name
	}
	if o.LoopInterval != 0 {
		c.Strip.LoopInterval = Duration(o.LoopInterval)
	}
	if o.StoragePath != "" {
		c.Storage.Path = o.StoragePath
	}
	if len(o.Outputs) > 0 {
		c.Output.Kinds = o.Outputs
	}
	if o.OPCAddress != "" {
		c.Output.OPCAddress = o.OPCAddress
	}
	if o.SPIPort != "" {
		c.Output.SPIPort = o.SPIPort
	}
	if o.WebhookPort != 0 {
		c.Webhook.Port = o.WebhookPort
	}
	if o.RateLimitRPS != 0 {
		c.Webhook.RateLimitRPS = o.RateLimitRPS
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogJSON != "" {
		v, err := strconv.ParseBool(o.LogJSON)
		if err != nil {
			return fmt.Errorf("STRIPD_LOG_JSON: %w", err)
		}
		c.Log.UseJSON = v
	}
	if o.Script != "" {
		c.Script = o.Script
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	// Strip defaults
	if c.Strip.Leds == 0 {
		c.Strip.Leds = 60
	}
	if c.Strip.Name == "" {
		if host, err := os.Hostname(); err == nil {
			c.Strip.Name = host
		} else {
			c.Strip.Name = "stripd"
		}
	}
	if c.Strip.LoopInterval == 0 {
		c.Strip.LoopInterval = Duration(time.Millisecond)
	}
	if c.Strip.StrobeOn == 0 {
		c.Strip.StrobeOn = Duration(50 * time.Millisecond)
	}
	if c.Strip.StrobeOff == 0 {
		c.Strip.StrobeOff = Duration(450 * time.Millisecond)
	}
	if c.Strip.QueueSize == 0 {
		c.Strip.QueueSize = 16
	}

	if c.Storage.Path == "" {
		c.Storage.Path = "./stripd.sqlite"
	}
	if len(c.Output.Kinds) == 0 {
		c.Output.Kinds = []string{"log"}
	}

	// Webhook defaults
	if c.Webhook.Host == "" {
		c.Webhook.Host = "0.0.0.0"
	}
	if c.Webhook.Port == 0 {
		c.Webhook.Port = 8080
	}
	if c.Webhook.RequestTimeout == 0 {
		c.Webhook.RequestTimeout = Duration(2 * time.Second)
	}

	// Journal defaults
	if c.Journal.CleanupInterval == 0 {
		c.Journal.CleanupInterval = Duration(24 * time.Hour)
	}
	if c.Journal.RetentionDays == 0 {
		c.Journal.RetentionDays = 30
	}

	// General shutdown timeout
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = Duration(5 * time.Second)
	}
}

// Validate rejects settings the device cannot run with
func (c *Config) Validate() error {
	if c.Strip.Leds < 1 {
		return fmt.Errorf("strip.leds must be positive, got %d", c.Strip.Leds)
	}
	if c.Strip.QueueSize < 1 {
		return fmt.Errorf("strip.queue_size must be positive, got %d", c.Strip.QueueSize)
	}
	if c.Webhook.RateLimitRPS < 0 {
		return fmt.Errorf("webhook.rate_limit_rps must not be negative")
	}
	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
