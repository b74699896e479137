package engine

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// ENGINE TYPES — Enrolment & Update Activity Analytics
// ============================================================================
// Record (typed row + derived metrics) → RecordView (field-name access)
// → FilterSpec → Groups / Anomalies / Concentration / ReportSummary
// → TableData + ChartConfig (figures-as-data, never drawn).
// ============================================================================

// ============================================================================
// FIELD NAMES — column names shared by loaders, views and exports
// ============================================================================

// Dimension keys.
const (
	FieldState    = "state"
	FieldDistrict = "district"
	FieldPincode  = "pincode"
	FieldMonth    = "month"
	FieldDay      = "day"
	FieldWeekday  = "weekday"
)

// Raw count keys, named exactly as the input columns.
const (
	FieldDemoAge5To17  = "demo_age_5_17"
	FieldDemoAge17Plus = "demo_age_17_"
	FieldBioAge5To17   = "bio_age_5_17"
	FieldBioAge17Plus  = "bio_age_17_"
	FieldEnroAge0To5   = "enro_age_0_5"
	FieldEnroAge5To17  = "enro_age_5_17"
	FieldEnroAge18Plus = "enro_age_18_greater"
)

// Derived metric keys.
const (
	FieldDemoTotal     = "demo_total"
	FieldBioTotal      = "bio_total"
	FieldEnroTotal     = "enro_total"
	FieldUpdatesTotal  = "updates_total"
	FieldTotalActivity = "total_activity"
	FieldStressIndex   = "stress_index"
	FieldBioShare      = "bio_share"
)

// NotAvailable is the sentinel label used when a ranking has no winner.
const NotAvailable = "N/A"

// ============================================================================
// RECORD — one row of activity
// ============================================================================

// RawCounts holds the integer counts read from the input dataset.
type RawCounts struct {
	DemoAge5To17  int64 `json:"demo_age_5_17"`
	DemoAge17Plus int64 `json:"demo_age_17_"`
	BioAge5To17   int64 `json:"bio_age_5_17"`
	BioAge17Plus  int64 `json:"bio_age_17_"`
	EnroAge0To5   int64 `json:"enro_age_0_5"`
	EnroAge5To17  int64 `json:"enro_age_5_17"`
	EnroAge18Plus int64 `json:"enro_age_18_greater"`
}

// Metrics are the per-record derived fields. See Derive.
type Metrics struct {
	DemoTotal     int64   `json:"demo_total"`
	BioTotal      int64   `json:"bio_total"`
	EnroTotal     int64   `json:"enro_total"`
	UpdatesTotal  int64   `json:"updates_total"`
	TotalActivity int64   `json:"total_activity"`
	StressIndex   float64 `json:"stress_index"`
	BioShare      float64 `json:"bio_share"`
}

// Record is one row of activity for a (state, district, pincode, month,
// weekday, day) tuple. Build records with Enrich so Metrics is populated.
type Record struct {
	State    string    `json:"state"`
	District string    `json:"district"`
	Pincode  string    `json:"pincode"`
	Month    string    `json:"month"`
	Day      string    `json:"day"`
	Weekday  string    `json:"weekday"`
	Counts   RawCounts `json:"counts"`

	metrics  Metrics
	enriched bool
}

// Metrics returns the derived fields computed at ingestion.
func (r Record) Metrics() Metrics { return r.metrics }

// Enriched reports whether the derived fields have been computed.
func (r Record) Enriched() bool { return r.enriched }

// ============================================================================
// DATASET — load-once immutable snapshot
// ============================================================================

// Dataset is the read-only snapshot every analysis runs against.
// Concurrent readers need no locking; nothing in the engine writes to it.
type Dataset struct {
	ID       string
	Source   string
	LoadedAt time.Time

	records []Record
	view    RecordView
}

// Len returns the number of records in the snapshot.
func (d *Dataset) Len() int { return len(d.records) }

// View returns the base RecordView over the snapshot.
func (d *Dataset) View() RecordView { return d.view }

// ============================================================================
// FILTERSPEC — optional equality predicate per dimension
// ============================================================================

// FilterSpec constrains the working subset. An empty field means "no constraint".
type FilterSpec struct {
	State    string `json:"state,omitempty"`
	District string `json:"district,omitempty"`
	Month    string `json:"month,omitempty"`
	Weekday  string `json:"weekday,omitempty"`
}

// IsEmpty returns true if no predicate is set.
func (f FilterSpec) IsEmpty() bool {
	return f.State == "" && f.District == "" && f.Month == "" && f.Weekday == ""
}

// predicates returns the set predicates in application order:
// state → district → month → weekday.
func (f FilterSpec) predicates() [][2]string {
	var out [][2]string
	for _, p := range [][2]string{
		{FieldState, f.State},
		{FieldDistrict, f.District},
		{FieldMonth, f.Month},
		{FieldWeekday, f.Weekday},
	} {
		if p[1] != "" {
			out = append(out, p)
		}
	}
	return out
}

// Label builds a human-readable description of the filter.
func (f FilterSpec) Label() string {
	preds := f.predicates()
	if len(preds) == 0 {
		return "All records"
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, fmt.Sprintf("%s=%s", p[0], p[1]))
	}
	return strings.Join(parts, ", ")
}

// CacheKey returns a stable key for result caching.
func (f FilterSpec) CacheKey() string {
	return strings.Join([]string{"s:" + f.State, "d:" + f.District, "m:" + f.Month, "w:" + f.Weekday}, "|")
}

// ============================================================================
// GROUP — aggregation result
// ============================================================================

// Group is one bucket of a group-by: the key tuple and the summed value fields.
type Group struct {
	Key    []string           `json:"key"`
	Label  string             `json:"label"`
	Values map[string]float64 `json:"values"`
	Count  int                `json:"count"`
}

// Value returns the summed value for field (0 if it was not aggregated).
func (g Group) Value(field string) float64 { return g.Values[field] }

// ============================================================================
// ANOMALY / CONCENTRATION / REPORT
// ============================================================================

// Anomaly is a record whose metric lies more than the threshold above the mean.
type Anomaly struct {
	Index      int               `json:"index"` // position in the scanned view
	Dimensions map[string]string `json:"dimensions"`
	Value      float64           `json:"value"`
	ZScore     float64           `json:"zscore"`
}

// CurvePoint is one rank position of a concentration curve.
type CurvePoint struct {
	Rank            int     `json:"rank"`
	Key             string  `json:"key"`
	Value           float64 `json:"value"`
	CumulativeShare float64 `json:"cumulativeShare"`
}

// ConcentrationResult is the 80/20-style breakdown of a value over a group field.
type ConcentrationResult struct {
	GroupField   string       `json:"groupField"`
	ValueField   string       `json:"valueField"`
	TargetShare  float64      `json:"targetShare"`
	GroupsNeeded int          `json:"groupsNeeded"`
	WithinTarget int          `json:"withinTarget"`
	TotalGroups  int          `json:"totalGroups"`
	GrandTotal   float64      `json:"grandTotal"`
	HHI          float64      `json:"hhi"`
	Curve        []CurvePoint `json:"curve"`
}

// Shares returns the cumulative share per rank position.
func (c *ConcentrationResult) Shares() []float64 {
	out := make([]float64, len(c.Curve))
	for i, p := range c.Curve {
		out[i] = p.CumulativeShare
	}
	return out
}

// TopShare returns the share of the grand total held by the top n groups.
func (c *ConcentrationResult) TopShare(n int) float64 {
	if n <= 0 || len(c.Curve) == 0 {
		return 0
	}
	if n > len(c.Curve) {
		n = len(c.Curve)
	}
	return c.Curve[n-1].CumulativeShare
}

// DistrictRef names a district within its state.
type DistrictRef struct {
	State    string `json:"state"`
	District string `json:"district"`
}

// ReportSummary is the fixed-shape summary behind the textual report.
type ReportSummary struct {
	TotalEnrolments     int64       `json:"totalEnrolments"`
	TotalDemoUpdates    int64       `json:"totalDemoUpdates"`
	TotalBioUpdates     int64       `json:"totalBioUpdates"`
	TotalActivity       int64       `json:"totalActivity"`
	BestMonth           string      `json:"bestMonth"`
	BestWeekday         string      `json:"bestWeekday"`
	TopDistrict         DistrictRef `json:"topDistrict"`
	TopDistrictActivity int64       `json:"topDistrictActivity"`
	UpdatesShare        float64     `json:"updatesShare"`
}

// EmptyReport returns the summary for an empty record set.
func EmptyReport() ReportSummary {
	return ReportSummary{
		BestMonth:   NotAvailable,
		BestWeekday: NotAvailable,
		TopDistrict: DistrictRef{State: NotAvailable, District: NotAvailable},
	}
}

// RegionRatio is one row of the mature-regions analysis.
type RegionRatio struct {
	State        string  `json:"state"`
	UpdatesTotal float64 `json:"updatesTotal"`
	EnroTotal    float64 `json:"enroTotal"`
	Ratio        float64 `json:"updateEnrolRatio"`
}

// BioShareRow is one row of the biometric-dominance analysis.
type BioShareRow struct {
	State     string  `json:"state"`
	District  string  `json:"district"`
	BioTotal  float64 `json:"bioTotal"`
	DemoTotal float64 `json:"demoTotal"`
	BioShare  float64 `json:"bioShare"`
}

// KeyMetrics are the headline tiles of the dashboard.
type KeyMetrics struct {
	Records       int   `json:"records"`
	Enrolments    int64 `json:"enrolments"`
	DemoUpdates   int64 `json:"demoUpdates"`
	BioUpdates    int64 `json:"bioUpdates"`
	TotalActivity int64 `json:"totalActivity"`
}

// ============================================================================
// TABLE TYPES — ordered, exportable tables
// ============================================================================

// TableData is a render- and export-ready table. Column order is the display
// and export order.
type TableData struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number", "ratio"
	Align string `json:"align"` // "left", "right"
}

// Header returns the column keys in order.
func (t *TableData) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Key
	}
	return out
}

// ============================================================================
// CHART TYPES — figures as data
// ============================================================================

// ChartConfig describes a figure as labelled series. Nothing is rendered.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "bar", "line", "barh"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
