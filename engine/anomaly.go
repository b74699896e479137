package engine

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// ANOMALY DETECTOR — z-score outliers over a per-record metric
// ============================================================================
// Population mean and standard deviation (denominator N). Only the upper
// tail is flagged: z must strictly exceed the threshold.
// ============================================================================

// DefaultZThreshold is the z-score above which a record is anomalous.
const DefaultZThreshold = 5.0

// zEpsilon keeps the z-score finite when every value is equal.
const zEpsilon = 1e-9

// anomalyDimensions are snapshotted onto each Anomaly.
var anomalyDimensions = []string{FieldState, FieldDistrict, FieldPincode, FieldMonth, FieldDay, FieldWeekday}

// DetectAnomalies returns the records of view whose metric z-score strictly
// exceeds threshold, ordered by z-score descending (ties keep view order).
func DetectAnomalies(view RecordView, metric string, threshold float64) ([]Anomaly, error) {
	if err := checkFields(view, nil, []string{metric}); err != nil {
		return nil, err
	}
	n := view.Len()
	if n == 0 {
		return []Anomaly{}, nil
	}

	values := make([]float64, n)
	for i := 0; i < n; i++ {
		values[i] = view.Measure(i, metric)
	}
	mean, std := values[0], 0.0
	if n > 1 {
		// gonum's sample variance is 0/0 for a single value.
		mean, std = stat.PopMeanStdDev(values, nil)
	}

	out := make([]Anomaly, 0)
	for i, v := range values {
		z := (v - mean) / (std + zEpsilon)
		if z <= threshold {
			continue
		}
		dims := make(map[string]string, len(anomalyDimensions))
		for _, d := range anomalyDimensions {
			if hasDimension(view, d) {
				dims[d] = view.Dimension(i, d)
			}
		}
		out = append(out, Anomaly{Index: i, Dimensions: dims, Value: v, ZScore: z})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ZScore > out[j].ZScore })
	return out, nil
}
