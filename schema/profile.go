package schema

import (
	"sort"

	"github.com/spektr-org/aadhaar-pulse/engine"
)

// ============================================================================
// PROFILE — cardinality, samples and hierarchy checks over loaded data
// ============================================================================
// Dimension values are inspected through engine.RecordView, so a profile can
// be taken of the full snapshot or of any filtered subset.
// ============================================================================

// maxSamples caps SampleValues per dimension.
const maxSamples = 10

// Profile returns a copy of c with each dimension's sample values,
// cardinality and hierarchy conflicts filled in from view.
//
// A child value seen under more than one parent is a conflict; district names
// repeat across states, which is why rankings key on (state, district).
func (c Config) Profile(view engine.RecordView) Config {
	out := c
	out.Dimensions = make([]DimensionMeta, len(c.Dimensions))

	for i, d := range c.Dimensions {
		unique := make(map[string]bool)
		parents := make(map[string]map[string]bool)

		for r := 0; r < view.Len(); r++ {
			val := view.Dimension(r, d.Key)
			if val == "" {
				continue
			}
			unique[val] = true
			if d.Parent == "" {
				continue
			}
			if parents[val] == nil {
				parents[val] = make(map[string]bool)
			}
			parents[val][view.Dimension(r, d.Parent)] = true
		}

		d.Cardinality = len(unique)
		d.CardinalityHint = cardinalityHint(len(unique))
		d.SampleValues = collectSamples(unique, maxSamples)
		d.ParentConflicts = nil
		for child, ps := range parents {
			if len(ps) > 1 {
				d.ParentConflicts = append(d.ParentConflicts, child)
			}
		}
		sort.Strings(d.ParentConflicts)

		out.Dimensions[i] = d
	}
	return out
}

func cardinalityHint(n int) string {
	switch {
	case n <= 10:
		return "low"
	case n <= 100:
		return "medium"
	default:
		return "high"
	}
}

func collectSamples(uniqueSet map[string]bool, limit int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}

	// Sort for deterministic output
	sort.Strings(samples)

	if len(samples) > limit {
		samples = samples[:limit]
	}
	return samples
}
