package engine

import (
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// Analyses never own the dataset. They read through this interface.
//
// Implementations:
//   DomainView[T]  — reads typed structs via accessor functions (zero-copy)
//   SubView        — filtered subset (indices into parent, zero-copy)
//
// The enrolment schema is registered once (recordAdapter); analyses read
// millions of times.
// ============================================================================

// RecordView provides indexed, field-name access to a dataset.
// Analyses call Dimension/Measure in tight loops — keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string
	Measure(index int, key string) float64
	DimensionKeys() []string // available dimension keys
	MeasureKeys() []string   // available measure keys
}

// hasDimension reports whether key is a dimension of the view's schema.
func hasDimension(view RecordView, key string) bool {
	for _, k := range view.DimensionKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// hasMeasure reports whether key is a measure of the view's schema.
func hasMeasure(view RecordView, key string) bool {
	for _, k := range view.MeasureKeys() {
		if k == key {
			return true
		}
	}
	return false
}

// checkFields validates dimension and measure names against the view schema.
func checkFields(view RecordView, dims, measures []string) error {
	for _, d := range dims {
		if !hasDimension(view, d) {
			return &InvalidKeyError{Field: d, Kind: "dimension"}
		}
	}
	for _, m := range measures {
		if !hasMeasure(view, m) {
			return &InvalidKeyError{Field: m, Kind: "measure"}
		}
	}
	return nil
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent — no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.indices) {
		return 0
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) DimensionKeys() []string { return v.parent.DimensionKeys() }
func (v *SubView) MeasureKeys() []string   { return v.parent.MeasureKeys() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Record]().
//	    Dimension("state", func(r Record) string { return r.State }).
//	    Measure("bio_total", func(r Record) float64 { return float64(r.Metrics().BioTotal) })
//
//	view := adapter.Bind(records)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	dimOrder []string
	mesOrder []string
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) float64),
	}
}

// Dimension registers a dimension accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.dimOrder = append(a.dimOrder, key)
	}
	a.dims[key] = fn
	return a
}

// Measure registers a measure accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) float64) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.mesOrder = append(a.mesOrder, key)
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy — holds reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:     data,
		dims:     a.dims,
		meas:     a.meas,
		dimKeys:  a.dimOrder,
		measKeys: a.mesOrder,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data     []T
	dims     map[string]func(T) string
	meas     map[string]func(T) float64
	dimKeys  []string
	measKeys []string
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) float64 {
	if i < 0 || i >= len(v.data) {
		return 0
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return 0
}

func (v *DomainView[T]) DimensionKeys() []string { return v.dimKeys }
func (v *DomainView[T]) MeasureKeys() []string   { return v.measKeys }

// ============================================================================
// ENROLMENT SCHEMA — accessors for Record
// ============================================================================

var recordAdapter = NewDomainAdapter[Record]().
	Dimension(FieldState, func(r Record) string { return r.State }).
	Dimension(FieldDistrict, func(r Record) string { return r.District }).
	Dimension(FieldPincode, func(r Record) string { return r.Pincode }).
	Dimension(FieldMonth, func(r Record) string { return r.Month }).
	Dimension(FieldDay, func(r Record) string { return r.Day }).
	Dimension(FieldWeekday, func(r Record) string { return r.Weekday }).
	Measure(FieldDemoAge5To17, func(r Record) float64 { return float64(r.Counts.DemoAge5To17) }).
	Measure(FieldDemoAge17Plus, func(r Record) float64 { return float64(r.Counts.DemoAge17Plus) }).
	Measure(FieldBioAge5To17, func(r Record) float64 { return float64(r.Counts.BioAge5To17) }).
	Measure(FieldBioAge17Plus, func(r Record) float64 { return float64(r.Counts.BioAge17Plus) }).
	Measure(FieldEnroAge0To5, func(r Record) float64 { return float64(r.Counts.EnroAge0To5) }).
	Measure(FieldEnroAge5To17, func(r Record) float64 { return float64(r.Counts.EnroAge5To17) }).
	Measure(FieldEnroAge18Plus, func(r Record) float64 { return float64(r.Counts.EnroAge18Plus) }).
	Measure(FieldDemoTotal, func(r Record) float64 { return float64(r.metrics.DemoTotal) }).
	Measure(FieldBioTotal, func(r Record) float64 { return float64(r.metrics.BioTotal) }).
	Measure(FieldEnroTotal, func(r Record) float64 { return float64(r.metrics.EnroTotal) }).
	Measure(FieldUpdatesTotal, func(r Record) float64 { return float64(r.metrics.UpdatesTotal) }).
	Measure(FieldTotalActivity, func(r Record) float64 { return float64(r.metrics.TotalActivity) }).
	Measure(FieldStressIndex, func(r Record) float64 { return r.metrics.StressIndex }).
	Measure(FieldBioShare, func(r Record) float64 { return r.metrics.BioShare })

// NewRecordView binds enriched records to the enrolment schema.
// Records that were not enriched are enriched into a private copy first.
func NewRecordView(records []Record) RecordView {
	for _, r := range records {
		if !r.enriched {
			return recordAdapter.Bind(EnrichAll(records))
		}
	}
	return recordAdapter.Bind(records)
}

// NewDataset builds the load-once snapshot. The records are enriched into a
// slice owned by the dataset, so later changes to the caller's slice are not
// visible through it.
func NewDataset(source string, records []Record) *Dataset {
	owned := EnrichAll(records)
	return &Dataset{
		ID:       uuid.NewString(),
		Source:   source,
		LoadedAt: time.Now().UTC(),
		records:  owned,
		view:     recordAdapter.Bind(owned),
	}
}
