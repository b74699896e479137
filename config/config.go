package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/aadhaar-pulse/engine"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PULSE_"

// Config holds all aadhaar-pulse configuration.
type Config struct {
	Dataset  DatasetConfig  `yaml:"dataset"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatasetConfig struct {
	// Source is a path or URI: file://, s3://, sqlite://, postgres://.
	Source   string `yaml:"source"`
	S3Region string `yaml:"s3_region"`
}

type AnalysisConfig struct {
	ZThreshold       float64       `yaml:"z_threshold"`
	TargetShare      float64       `yaml:"target_share"`
	MatureMinUpdates int64         `yaml:"mature_min_updates"`
	Parallelism      int           `yaml:"parallelism"`
	Limits           engine.Limits `yaml:",inline"`
}

type ServerConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// Addr returns host:port for the HTTP listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// EngineOptions converts the analysis section into engine options.
func (c AnalysisConfig) EngineOptions(logger *zap.Logger) []engine.Option {
	return []engine.Option{
		engine.WithZThreshold(c.ZThreshold),
		engine.WithTargetShare(c.TargetShare),
		engine.WithMatureMinUpdates(c.MatureMinUpdates),
		engine.WithLimits(c.Limits),
		engine.WithParallelism(c.Parallelism),
		engine.WithLogger(logger),
	}
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file in the working directory is read first, if present. An empty
// path skips the YAML file and starts from defaults.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no analysis can run with.
func (c *Config) Validate() error {
	if c.Analysis.ZThreshold <= 0 {
		return fmt.Errorf("analysis.z_threshold must be positive, got %v", c.Analysis.ZThreshold)
	}
	if c.Analysis.TargetShare <= 0 || c.Analysis.TargetShare > 1 {
		return fmt.Errorf("analysis.target_share must be in (0, 1], got %v", c.Analysis.TargetShare)
	}
	if c.Analysis.MatureMinUpdates < 0 {
		return fmt.Errorf("analysis.mature_min_updates must not be negative, got %d", c.Analysis.MatureMinUpdates)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// applyEnv overrides fields from PULSE_* variables.
func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	str("DATA", &c.Dataset.Source)
	str("S3_REGION", &c.Dataset.S3Region)
	str("HOST", &c.Server.Host)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)

	if v := os.Getenv(EnvPrefix + "ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PORT", &c.Server.Port},
		{"CACHE_TTL_SECONDS", &c.Server.CacheTTLSeconds},
		{"PARALLELISM", &c.Analysis.Parallelism},
	}
	for _, e := range ints {
		if v := os.Getenv(EnvPrefix + e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
			}
			*e.dst = n
		}
	}

	if v := os.Getenv(EnvPrefix + "MATURE_MIN_UPDATES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sMATURE_MIN_UPDATES: %w", EnvPrefix, err)
		}
		c.Analysis.MatureMinUpdates = n
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"Z_THRESHOLD", &c.Analysis.ZThreshold},
		{"TARGET_SHARE", &c.Analysis.TargetShare},
	}
	for _, e := range floats {
		if v := os.Getenv(EnvPrefix + e.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, e.name, err)
			}
			*e.dst = f
		}
	}
	return nil
}
