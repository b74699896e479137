package schema

import (
	"github.com/spektr-org/aadhaar-pulse/engine"
)

// ============================================================================
// SCHEMA — Describes the enrolment/update dataset
// ============================================================================
// Loaders use it to map input columns onto engine.Record fields; the CLI and
// HTTP server publish it so callers know which keys they may filter and sort on.
// ============================================================================

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`
}

// DimensionMeta describes a string field used for grouping/filtering.
type DimensionMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Groupable   bool   `json:"groupable"`
	Filterable  bool   `json:"filterable"`
	Parent      string `json:"parent,omitempty"` // Parent dimension key for hierarchies
	IsTemporal  bool   `json:"isTemporal,omitempty"`

	// Filled by Profile.
	SampleValues    []string `json:"sampleValues,omitempty"`
	Cardinality     int      `json:"cardinality,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
	ParentConflicts []string `json:"parentConflicts,omitempty"` // values seen under more than one parent
}

// MeasureMeta describes a numeric field used for aggregation.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Unit        string `json:"unit,omitempty"` // "count", "index", "ratio"
	Derived     bool   `json:"derived,omitempty"`
	Formula     string `json:"formula,omitempty"`
}

// DefaultDimension creates a DimensionMeta with sensible defaults.
func DefaultDimension(key, displayName string) DimensionMeta {
	return DimensionMeta{
		Key:         key,
		DisplayName: displayName,
		Groupable:   true,
		Filterable:  false,
	}
}

// DefaultMeasure creates a raw count MeasureMeta.
func DefaultMeasure(key, displayName string) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		DisplayName: displayName,
		Unit:        "count",
	}
}

// DerivedMeasure creates a MeasureMeta computed from other measures.
func DerivedMeasure(key, displayName, unit, formula string) MeasureMeta {
	return MeasureMeta{
		Key:         key,
		DisplayName: displayName,
		Unit:        unit,
		Derived:     true,
		Formula:     formula,
	}
}

// Enrolment returns the description of the enrolment/update activity dataset:
// six dimensions, seven raw counts and the seven derived metrics.
func Enrolment() Config {
	filterable := func(d DimensionMeta) DimensionMeta {
		d.Filterable = true
		return d
	}

	state := filterable(DefaultDimension(engine.FieldState, "State"))
	district := filterable(DefaultDimension(engine.FieldDistrict, "District"))
	district.Parent = engine.FieldState
	pincode := DefaultDimension(engine.FieldPincode, "Pincode")
	pincode.Parent = engine.FieldDistrict
	month := filterable(DefaultDimension(engine.FieldMonth, "Month"))
	month.IsTemporal = true
	day := DefaultDimension(engine.FieldDay, "Day")
	day.IsTemporal = true
	weekday := filterable(DefaultDimension(engine.FieldWeekday, "Weekday"))
	weekday.IsTemporal = true

	return Config{
		Name:        "enrolment",
		Version:     "1",
		Description: "Regional enrolment and update activity",
		Dimensions:  []DimensionMeta{state, district, pincode, month, day, weekday},
		Measures: []MeasureMeta{
			DefaultMeasure(engine.FieldDemoAge5To17, "Demographic Updates (5-17)"),
			DefaultMeasure(engine.FieldDemoAge17Plus, "Demographic Updates (17+)"),
			DefaultMeasure(engine.FieldBioAge5To17, "Biometric Updates (5-17)"),
			DefaultMeasure(engine.FieldBioAge17Plus, "Biometric Updates (17+)"),
			DefaultMeasure(engine.FieldEnroAge0To5, "Enrolments (0-5)"),
			DefaultMeasure(engine.FieldEnroAge5To17, "Enrolments (5-17)"),
			DefaultMeasure(engine.FieldEnroAge18Plus, "Enrolments (18+)"),
			DerivedMeasure(engine.FieldDemoTotal, "Demographic Updates", "count", "demo_age_5_17 + demo_age_17_"),
			DerivedMeasure(engine.FieldBioTotal, "Biometric Updates", "count", "bio_age_5_17 + bio_age_17_"),
			DerivedMeasure(engine.FieldEnroTotal, "Enrolments", "count", "enro_age_0_5 + enro_age_5_17 + enro_age_18_greater"),
			DerivedMeasure(engine.FieldUpdatesTotal, "Updates", "count", "demo_total + bio_total"),
			DerivedMeasure(engine.FieldTotalActivity, "Total Activity", "count", "updates_total + enro_total"),
			DerivedMeasure(engine.FieldStressIndex, "Stress Index", "index", "2*bio_total + 1*demo_total + 0.5*enro_total"),
			DerivedMeasure(engine.FieldBioShare, "Bio Share", "ratio", "bio_total / (bio_total + demo_total + 1)"),
		},
	}
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// RawMeasureKeys returns the keys of measures read from input.
func (c Config) RawMeasureKeys() []string {
	var keys []string
	for _, m := range c.Measures {
		if !m.Derived {
			keys = append(keys, m.Key)
		}
	}
	return keys
}

// FilterableKeys returns the dimensions a caller may constrain.
func (c Config) FilterableKeys() []string {
	var keys []string
	for _, d := range c.Dimensions {
		if d.Filterable {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// RequiredColumns returns the input columns in canonical order:
// every dimension followed by every raw measure.
func (c Config) RequiredColumns() []string {
	return append(c.DimensionKeys(), c.RawMeasureKeys()...)
}
