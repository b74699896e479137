package config

import "github.com/spektr-org/aadhaar-pulse/engine"

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			ZThreshold:       engine.DefaultZThreshold,
			TargetShare:      engine.DefaultTargetShare,
			MatureMinUpdates: engine.DefaultMatureMinUpdates,
			Limits:           engine.DefaultLimits(),
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			CacheTTLSeconds: 300,
			AllowedOrigins:  []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyDefaults fills zero values left by a partial YAML file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Analysis.ZThreshold == 0 {
		c.Analysis.ZThreshold = d.Analysis.ZThreshold
	}
	if c.Analysis.TargetShare == 0 {
		c.Analysis.TargetShare = d.Analysis.TargetShare
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.CacheTTLSeconds == 0 {
		c.Server.CacheTTLSeconds = d.Server.CacheTTLSeconds
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}
