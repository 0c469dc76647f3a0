// Package config provides configuration loading and validation for permjudge.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/permjudge/pkg/alg/seqtree"
	"github.com/Sumatoshi-tech/permjudge/pkg/judge"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
const EnvPrefix = "PERMJUDGE"

// Sentinel validation errors.
var (
	ErrInvalidProblem     = errors.New("invalid problem")
	ErrInvalidBackend     = errors.New("invalid sequence backend")
	ErrInvalidFormat      = errors.New("invalid output format")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidLogFormat   = errors.New("invalid log format")
	ErrInvalidSampleRatio = errors.New("trace sample ratio must be within [0, 1]")
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all configuration for permjudge.
type Config struct {
	Judge     JudgeConfig     `mapstructure:"judge"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// JudgeConfig holds replay settings.
type JudgeConfig struct {
	// Problem is the default preset when --problem is not given.
	Problem string `mapstructure:"problem"`
	// Backend overrides the preset backend; empty keeps it.
	Backend         string `mapstructure:"backend"`
	Seed            uint64 `mapstructure:"seed"`
	CheckInvariants bool   `mapstructure:"check_invariants"`
}

// OutputConfig holds result rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	// Environment labels logs and the telemetry resource, e.g. "ci".
	Environment string `mapstructure:"environment"`
	// MetricsFile receives a Prometheus text dump after each run when set.
	MetricsFile string `mapstructure:"metrics_file"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty configPath searches the working directory, ./config, and
// /etc/permjudge for permjudge.yaml; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("permjudge")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/permjudge")
	}

	viperCfg.SetEnvPrefix(EnvPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("judge.problem", DefaultProblem)
	viperCfg.SetDefault("judge.backend", DefaultBackend)
	viperCfg.SetDefault("judge.seed", DefaultSeed)
	viperCfg.SetDefault("judge.check_invariants", DefaultCheckInvariants)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	viperCfg.SetDefault("telemetry.metrics_file", "")
	viperCfg.SetDefault("telemetry.environment", "")
}

func validateConfig(config *Config) error {
	if _, err := judge.Lookup(config.Judge.Problem); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProblem, err)
	}

	if config.Judge.Backend != "" {
		if _, err := seqtree.ParseBackend(config.Judge.Backend); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidBackend, err)
		}
	}

	if !slices.Contains(Formats, config.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, config.Output.Format)
	}

	if !slices.Contains(logLevels, strings.ToLower(config.Logging.Level)) {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if !slices.Contains(logFormats, config.Logging.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %g", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}
