package engine

// ============================================================================
// METRIC DERIVER — per-record derived fields
// ============================================================================
// Pure functions of one record's raw counts. Derive once at ingestion;
// Enrich is idempotent so a second pass never double-counts.
// ============================================================================

// Stress index weights: biometric work counts double, enrolment half.
const (
	stressWeightBio  = 2.0
	stressWeightDemo = 1.0
	stressWeightEnro = 0.5
)

// Derive computes the derived metrics from raw counts.
func Derive(c RawCounts) Metrics {
	demo := c.DemoAge5To17 + c.DemoAge17Plus
	bio := c.BioAge5To17 + c.BioAge17Plus
	enro := c.EnroAge0To5 + c.EnroAge5To17 + c.EnroAge18Plus
	updates := demo + bio

	return Metrics{
		DemoTotal:     demo,
		BioTotal:      bio,
		EnroTotal:     enro,
		UpdatesTotal:  updates,
		TotalActivity: updates + enro,
		StressIndex:   stressWeightBio*float64(bio) + stressWeightDemo*float64(demo) + stressWeightEnro*float64(enro),
		// +1 guards the all-zero row.
		BioShare: float64(bio) / float64(bio+demo+1),
	}
}

// Enrich returns r with its derived metrics populated.
func Enrich(r Record) Record {
	if r.enriched {
		return r
	}
	r.metrics = Derive(r.Counts)
	r.enriched = true
	return r
}

// EnrichAll enriches a batch of records into a new slice.
func EnrichAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = Enrich(r)
	}
	return out
}
