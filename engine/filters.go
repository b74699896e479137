package engine

import (
	"sort"

	"github.com/samber/lo"
)

// ============================================================================
// FILTERS — Dimension equality filtering via RecordView
// ============================================================================
// Single-pass filter: checks every set predicate per record in one loop.
// Returns a SubView (index list into parent) — zero data copy.
// Matching is exact and case-sensitive.
// ============================================================================

// ApplyFilters returns a view of records matching every set predicate of spec.
// Predicates are AND-combined and applied state → district → month → weekday.
// Empty spec = no restriction (returns the input view itself).
func ApplyFilters(view RecordView, spec FilterSpec) RecordView {
	preds := spec.predicates()
	if len(preds) == 0 {
		return view
	}

	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, p := range preds {
			if view.Dimension(i, p[0]) != p[1] {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// ============================================================================
// FILTER OPTIONS — cascading choices for the dashboard sidebar
// ============================================================================

// FilterChoices lists the values offered for each filter dimension.
type FilterChoices struct {
	States    []string `json:"states"`
	Districts []string `json:"districts"`
	Months    []string `json:"months"`
	Weekdays  []string `json:"weekdays"`
}

// FilterOptions returns the distinct values selectable for each dimension,
// given the choices already made upstream. District options reflect the
// chosen state, month options reflect state and district, and weekday
// options reflect state, district and month.
func FilterOptions(view RecordView, spec FilterSpec) FilterChoices {
	byState := ApplyFilters(view, FilterSpec{State: spec.State})
	byDistrict := ApplyFilters(byState, FilterSpec{District: spec.District})
	byMonth := ApplyFilters(byDistrict, FilterSpec{Month: spec.Month})

	return FilterChoices{
		States:    DistinctValues(view, FieldState),
		Districts: DistinctValues(byState, FieldDistrict),
		Months:    DistinctValues(byDistrict, FieldMonth),
		Weekdays:  DistinctValues(byMonth, FieldWeekday),
	}
}

// DistinctValues returns the non-empty distinct values of a dimension,
// in natural order (numeric values compare as numbers).
func DistinctValues(view RecordView, dimension string) []string {
	values := make([]string, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v := view.Dimension(i, dimension); v != "" {
			values = append(values, v)
		}
	}
	out := lo.Uniq(values)
	sort.SliceStable(out, func(i, j int) bool { return naturalLess(out[i], out[j]) })
	return out
}
