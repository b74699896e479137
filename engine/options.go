package engine

import (
	"go.uber.org/zap"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Analyze()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

// Limits caps the row counts of each dashboard table and chart.
type Limits struct {
	TopDistricts       int `json:"topDistricts" yaml:"top_districts"`
	TopDistrictsExport int `json:"topDistrictsExport" yaml:"top_districts_export"`
	TopPincodes        int `json:"topPincodes" yaml:"top_pincodes"`
	StressTop          int `json:"stressTop" yaml:"stress_top"`
	MatureTop          int `json:"matureTop" yaml:"mature_top"`
	MatureChart        int `json:"matureChart" yaml:"mature_chart"`
	BioChart           int `json:"bioChart" yaml:"bio_chart"`
	BioTop             int `json:"bioTop" yaml:"bio_top"`
	AnomalyDisplay     int `json:"anomalyDisplay" yaml:"anomaly_display"`
	AnomalyExport      int `json:"anomalyExport" yaml:"anomaly_export"`
}

// DefaultLimits returns the dashboard's stock table sizes.
func DefaultLimits() Limits {
	return Limits{
		TopDistricts:       10,
		TopDistrictsExport: 20,
		TopPincodes:        20,
		StressTop:          15,
		MatureTop:          15,
		MatureChart:        10,
		BioChart:           20,
		BioTop:             50,
		AnomalyDisplay:     30,
		AnomalyExport:      100,
	}
}

// withDefaults fills zero fields from DefaultLimits.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	fill := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&l.TopDistricts, d.TopDistricts)
	fill(&l.TopDistrictsExport, d.TopDistrictsExport)
	fill(&l.TopPincodes, d.TopPincodes)
	fill(&l.StressTop, d.StressTop)
	fill(&l.MatureTop, d.MatureTop)
	fill(&l.MatureChart, d.MatureChart)
	fill(&l.BioChart, d.BioChart)
	fill(&l.BioTop, d.BioTop)
	fill(&l.AnomalyDisplay, d.AnomalyDisplay)
	fill(&l.AnomalyExport, d.AnomalyExport)
	return l
}

type config struct {
	ZThreshold       float64
	TargetShare      float64
	MatureMinUpdates int64
	Limits           Limits
	Parallelism      int // max concurrent analyses; 0 = unbounded
	Logger           *zap.Logger
}

// WithZThreshold sets the anomaly z-score threshold (default 5.0).
func WithZThreshold(z float64) Option {
	return func(c *config) {
		c.ZThreshold = z
	}
}

// WithTargetShare sets the concentration target share (default 0.80).
func WithTargetShare(share float64) Option {
	return func(c *config) {
		c.TargetShare = share
	}
}

// WithMatureMinUpdates sets the updates_total a state must exceed to appear
// among mature regions (default 1000).
func WithMatureMinUpdates(n int64) Option {
	return func(c *config) {
		c.MatureMinUpdates = n
	}
}

// WithLimits overrides table sizes. Zero fields keep their defaults.
func WithLimits(l Limits) Option {
	return func(c *config) {
		c.Limits = l.withDefaults()
	}
}

// WithParallelism bounds how many analyses run at once.
func WithParallelism(n int) Option {
	return func(c *config) {
		c.Parallelism = n
	}
}

// WithLogger sets the logger for debug traces. Nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		ZThreshold:       DefaultZThreshold,
		TargetShare:      DefaultTargetShare,
		MatureMinUpdates: DefaultMatureMinUpdates,
		Limits:           DefaultLimits(),
		Logger:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
