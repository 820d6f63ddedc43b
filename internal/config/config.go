// Package config holds HACF's runtime configuration: where state lives, how
// much is logged, and which optional surfaces (metrics, tracing) are on.
//
// Values come from viper: defaults set by SetDefaults, an optional
// config.yaml under ConfigDir, and HACF_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. HACF_LOG_LEVEL.
const EnvPrefix = "HACF"

var validate = validator.New()

// Config represents the complete HACF configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Planner PlannerConfig `mapstructure:"planner" yaml:"planner"`
	Memory  MemoryConfig  `mapstructure:"memory" yaml:"memory"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing" yaml:"tracing"`
}

// StorageConfig controls the SQLite store.
type StorageConfig struct {
	// DataDir holds hacf.db and, for the MCP server, hacf.log.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	// Disabled runs without persistence: memories stay in process and
	// session tools are not offered.
	Disabled bool `mapstructure:"disabled" yaml:"disabled"`
	// MaxSessions bounds session listings.
	MaxSessions int `mapstructure:"max_sessions" yaml:"max_sessions" validate:"gte=1,lte=1000"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	// Dir overrides the log directory; empty means the data directory.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// PlannerConfig controls stage selection.
type PlannerConfig struct {
	// Seed fixes the random source. 0 seeds from the clock.
	Seed uint64 `mapstructure:"seed" yaml:"seed"`
}

// MemoryConfig controls memory retrieval.
type MemoryConfig struct {
	DefaultLimit int `mapstructure:"default_limit" yaml:"default_limit" validate:"gte=1,lte=100"`
	SummaryLimit int `mapstructure:"summary_limit" yaml:"summary_limit" validate:"gte=1,lte=100"`
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// File receives spans as JSON lines; empty means stderr.
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns a Config with all default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DataDir:     DefaultDataDir(),
			MaxSessions: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
		Memory: MemoryConfig{
			DefaultLimit: 10,
			SummaryLimit: 15,
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9464",
		},
	}
}

// SetDefaults registers defaults with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	viper.SetDefault("storage.disabled", defaults.Storage.Disabled)
	viper.SetDefault("storage.max_sessions", defaults.Storage.MaxSessions)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.dir", defaults.Log.Dir)

	viper.SetDefault("planner.seed", defaults.Planner.Seed)

	viper.SetDefault("memory.default_limit", defaults.Memory.DefaultLimit)
	viper.SetDefault("memory.summary_limit", defaults.Memory.SummaryLimit)

	viper.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	viper.SetDefault("metrics.addr", defaults.Metrics.Addr)

	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.file", defaults.Tracing.File)
}

// BindEnv makes every key overridable through HACF_* variables, with dots
// replaced by underscores (HACF_STORAGE_DATA_DIR for storage.data_dir).
func BindEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// Load reads the current viper state into a validated Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if it
// cannot be loaded.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate checks field constraints. The metrics address is only checked
// when metrics are enabled.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Metrics.Enabled {
		if err := validate.Var(c.Metrics.Addr, "required,hostname_port"); err != nil {
			return fmt.Errorf("config: metrics.addr %q: %w", c.Metrics.Addr, err)
		}
	}
	return nil
}

// LogDir returns the directory for log files.
func (c *Config) LogDir() string {
	if c.Log.Dir != "" {
		return c.Log.Dir
	}
	return c.Storage.DataDir
}

// ConfigDir returns the path to the user's config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hacf")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hacf"
	}
	return filepath.Join(home, ".config", "hacf")
}

// ConfigFile returns the path to the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultDataDir returns ~/.hacf.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hacf"
	}
	return filepath.Join(home, ".hacf")
}
