package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Checker CheckerConfig `mapstructure:"checker"`
	Prune   PruneConfig   `mapstructure:"prune"`
	Graph   GraphConfig   `mapstructure:"graph"`
	Store   StoreConfig   `mapstructure:"store"`
	Log     LogConfig     `mapstructure:"log"`
	Trace   TraceConfig   `mapstructure:"trace"`
}

// CheckerConfig configures the external Lean checker invocation.
type CheckerConfig struct {
	Path    string        `mapstructure:"path"`
	Args    []string      `mapstructure:"args"`
	Timeout time.Duration `mapstructure:"timeout"`
	// OnError is "warn" (continue with partial data) or "fail" (abort).
	OnError string `mapstructure:"on_error"`
}

// PruneConfig configures the foundational-hub filter. The three lists are
// a plain union; a declaration matching any of them is removed.
type PruneConfig struct {
	Names          []string `mapstructure:"names"`
	PathSubstrings []string `mapstructure:"path_substrings"`
	NamePrefixes   []string `mapstructure:"name_prefixes"`
	// SkipDefaults leaves the built-in foundational name list out.
	SkipDefaults bool `mapstructure:"skip_defaults"`
}

// GraphConfig holds the Neo4j connection settings.
type GraphConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// StoreConfig locates the on-disk library store.
type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TraceConfig configures OpenTelemetry tracing; an empty endpoint
// disables it.
type TraceConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.Checker.OnError != "" && c.Checker.OnError != "warn" && c.Checker.OnError != "fail" {
		warnings = append(warnings, fmt.Sprintf("checker on_error %q is not \"warn\" or \"fail\"", c.Checker.OnError))
	}
	if c.Checker.Timeout < 0 {
		warnings = append(warnings, fmt.Sprintf("checker timeout %v is negative", c.Checker.Timeout))
	}
	if c.Trace.SampleRate < 0 || c.Trace.SampleRate > 1.0 {
		warnings = append(warnings, fmt.Sprintf("trace sample_rate %.2f is outside [0.0, 1.0]", c.Trace.SampleRate))
	}

	return warnings
}

// Load reads configuration from file and environment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("LEANGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("checker.path", "lean")
	v.SetDefault("checker.args", []string{"-T500000"})
	v.SetDefault("checker.on_error", "fail")
	v.SetDefault("store.dir", "libraries")
	v.SetDefault("log.level", "info")
	v.SetDefault("trace.sample_rate", 1.0)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}
