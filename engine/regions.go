package engine

import (
	"sort"
)

// ============================================================================
// REGIONS — state and district ratio analyses
// ============================================================================

// DefaultMatureMinUpdates is the updates_total a state must exceed to be
// ranked as a mature region.
const DefaultMatureMinUpdates = 1000

// MatureRegions ranks states by updates per enrolment. Only states whose
// updates_total exceeds minUpdates are kept; ratio = updates / (enro + 1).
// The result is sorted by ratio descending (ties keep first-seen order).
func MatureRegions(view RecordView, minUpdates int64) ([]RegionRatio, error) {
	groups, err := GroupSum(view, []string{FieldState}, []string{FieldUpdatesTotal, FieldEnroTotal})
	if err != nil {
		return nil, err
	}

	out := make([]RegionRatio, 0, len(groups))
	for _, g := range groups {
		updates := g.Value(FieldUpdatesTotal)
		if updates <= float64(minUpdates) {
			continue
		}
		enro := g.Value(FieldEnroTotal)
		out = append(out, RegionRatio{
			State:        g.Key[0],
			UpdatesTotal: updates,
			EnroTotal:    enro,
			Ratio:        updates / (enro + 1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Ratio > out[j].Ratio })
	return out, nil
}

// BioDominance ranks (state, district) pairs by biometric share of updates,
// bio / (bio + demo + 1), descending.
func BioDominance(view RecordView) ([]BioShareRow, error) {
	groups, err := GroupSum(view, []string{FieldState, FieldDistrict}, []string{FieldBioTotal, FieldDemoTotal})
	if err != nil {
		return nil, err
	}

	out := make([]BioShareRow, 0, len(groups))
	for _, g := range groups {
		bio, demo := g.Value(FieldBioTotal), g.Value(FieldDemoTotal)
		out = append(out, BioShareRow{
			State:     g.Key[0],
			District:  g.Key[1],
			BioTotal:  bio,
			DemoTotal: demo,
			BioShare:  bio / (bio + demo + 1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].BioShare > out[j].BioShare })
	return out, nil
}
