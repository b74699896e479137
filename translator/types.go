package translator

import (
	"github.com/spektr-org/aadhaar-pulse/engine"
	"github.com/spektr-org/aadhaar-pulse/schema"
)

// ============================================================================
// TRANSLATOR — caller filter input → engine.FilterSpec
// ============================================================================
// Three front doors share one rule set:
//   ParseExpr   "state=Kerala,month=3"          (CLI, config files)
//   FromValues  ?state=Kerala&month=3           (HTTP query string)
//   ParseJSON   {"state": "Kerala", "month": 3} (HTTP bodies, saved views)
//
// Keys are normalized like input headers and must name a filterable
// dimension of the schema; anything else is an *engine.InvalidKeyError.
// An empty value or "All" (the dashboard's default choice) sets no predicate.
// ============================================================================

// AllChoice is the sentinel value meaning "no constraint".
const AllChoice = "All"

// Translator turns caller input into a FilterSpec.
type Translator struct {
	schema     schema.Config
	filterable map[string]bool
}

// New returns a Translator bound to sch.
func New(sch schema.Config) *Translator {
	keys := make(map[string]bool)
	for _, k := range sch.FilterableKeys() {
		keys[k] = true
	}
	return &Translator{schema: sch, filterable: keys}
}

// Default returns a Translator for the enrolment dataset.
func Default() *Translator {
	return New(schema.Enrolment())
}

// Keys returns the filterable dimension keys in schema order.
func (t *Translator) Keys() []string {
	return t.schema.FilterableKeys()
}

// set applies one key/value pair to spec.
func (t *Translator) set(spec *engine.FilterSpec, rawKey, rawValue string) error {
	key := schema.NormalizeHeader(rawKey)
	if !t.filterable[key] {
		return &engine.InvalidKeyError{Field: rawKey, Kind: "dimension"}
	}

	value := normalizeValue(rawValue)
	switch key {
	case engine.FieldState:
		spec.State = value
	case engine.FieldDistrict:
		spec.District = value
	case engine.FieldMonth:
		spec.Month = value
	case engine.FieldWeekday:
		spec.Weekday = value
	default:
		return &engine.InvalidKeyError{Field: rawKey, Kind: "dimension"}
	}
	return nil
}
