package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ============================================================================
// AGGREGATORS — Grouping, Summation, and Ranking via RecordView
// ============================================================================
// GroupSum is an explicit hash-map group-by: one pass over the view, groups
// kept in first-appearance order. TopN ranks the result without touching it.
// ============================================================================

// keySep joins key tuples into map keys. Dimension values never contain NUL.
const keySep = "\x00"

// GroupSum partitions view by the tuple of keyFields and sums each valueField
// within every group. Groups appear in the order their key was first seen.
// An empty view yields an empty result; unknown fields yield InvalidKey.
func GroupSum(view RecordView, keyFields, valueFields []string) ([]Group, error) {
	if err := checkFields(view, keyFields, valueFields); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	groups := make([]Group, 0)
	key := make([]string, len(keyFields))

	for i := 0; i < view.Len(); i++ {
		for k, f := range keyFields {
			key[k] = view.Dimension(i, f)
		}
		mapKey := strings.Join(key, keySep)

		pos, ok := index[mapKey]
		if !ok {
			pos = len(groups)
			index[mapKey] = pos
			tuple := append([]string(nil), key...)
			groups = append(groups, Group{
				Key:    tuple,
				Label:  groupLabel(tuple),
				Values: make(map[string]float64, len(valueFields)),
			})
		}

		g := &groups[pos]
		g.Count++
		for _, f := range valueFields {
			g.Values[f] += view.Measure(i, f)
		}
	}

	return groups, nil
}

func groupLabel(key []string) string {
	if len(key) == 0 {
		return "Total"
	}
	return strings.Join(key, " / ")
}

// TopN returns the first n groups ordered by sortField. The sort is stable,
// so ties keep their first-encountered order. n ≥ len(groups) returns all;
// n ≤ 0 returns none. The input slice is not modified.
//
// sortField is checked against the groups themselves: a field missing from
// any group is InvalidKey, but an empty slice carries no fields to check and
// returns no error for any sortField. Validate against the view with
// GroupSum (which rejects unknown measures even on an empty view) first.
func TopN(groups []Group, sortField string, n int, descending bool) ([]Group, error) {
	for _, g := range groups {
		if _, ok := g.Values[sortField]; !ok {
			return nil, &InvalidKeyError{Field: sortField, Kind: "sort field"}
		}
	}
	if n <= 0 || len(groups) == 0 {
		return []Group{}, nil
	}

	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Values[sortField] > sorted[j].Values[sortField]
		}
		return sorted[i].Values[sortField] < sorted[j].Values[sortField]
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// SortGroupsByKey orders groups by key tuple in natural order: numeric key
// parts compare as numbers ("2" < "10"), others lexically.
func SortGroupsByKey(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Key, groups[j].Key
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return naturalLess(a[k], b[k])
			}
		}
		return len(a) < len(b)
	})
}

// naturalLess compares numerically when both values are integers.
// Integers sort before non-numeric values.
func naturalLess(a, b string) bool {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return ai < bi
	case aErr == nil:
		return true
	case bErr == nil:
		return false
	default:
		return a < b
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int64) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatCount formats an integer-valued float sum with comma separators.
func FormatCount(v float64) string {
	return FormatInt(int64(math.Round(v)))
}

// FormatFloat formats a float with the given number of decimals.
func FormatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// LabelForField returns a display label for a field key:
// "total_activity" → "Total Activity".
func LabelForField(field string) string {
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	// Casers are stateful and must not be shared across goroutines.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
