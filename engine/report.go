package engine

import (
	"math"
	"strings"

	"github.com/samber/lo"
)

// ============================================================================
// REPORT COMPOSER — fixed-shape summary over the current subset
// ============================================================================
// Totals → best month / weekday → top district → updates share.
// Winners come from GroupSum + TopN, so ties go to the first-seen group.
// ============================================================================

// ComposeReport builds the summary for view. An empty view yields zero totals
// and "N/A" sentinels.
func ComposeReport(view RecordView) (ReportSummary, error) {
	if view.Len() == 0 {
		return EmptyReport(), nil
	}

	km, err := ComputeKeyMetrics(view)
	if err != nil {
		return ReportSummary{}, err
	}

	summary := EmptyReport()
	summary.TotalEnrolments = km.Enrolments
	summary.TotalDemoUpdates = km.DemoUpdates
	summary.TotalBioUpdates = km.BioUpdates
	summary.TotalActivity = km.TotalActivity
	summary.UpdatesShare = float64(km.DemoUpdates+km.BioUpdates) / float64(km.TotalActivity+1)

	if best, ok, err := bestGroup(view, FieldMonth); err != nil {
		return ReportSummary{}, err
	} else if ok {
		summary.BestMonth = best.Key[0]
	}

	if best, ok, err := bestGroup(view, FieldWeekday); err != nil {
		return ReportSummary{}, err
	} else if ok {
		summary.BestWeekday = best.Key[0]
	}

	if best, ok, err := bestGroup(view, FieldState, FieldDistrict); err != nil {
		return ReportSummary{}, err
	} else if ok {
		summary.TopDistrict = DistrictRef{State: best.Key[0], District: best.Key[1]}
		summary.TopDistrictActivity = int64(math.Round(best.Value(FieldTotalActivity)))
	}

	return summary, nil
}

// bestGroup returns the group with the highest total_activity. Groups with a
// blank key part never win; with no other group the caller keeps "N/A".
func bestGroup(view RecordView, keys ...string) (Group, bool, error) {
	groups, err := GroupSum(view, keys, []string{FieldTotalActivity})
	if err != nil {
		return Group{}, false, err
	}
	groups = lo.Reject(groups, func(g Group, _ int) bool {
		return lo.SomeBy(g.Key, func(k string) bool { return strings.TrimSpace(k) == "" })
	})
	top, err := TopN(groups, FieldTotalActivity, 1, true)
	if err != nil {
		return Group{}, false, err
	}
	if len(top) == 0 {
		return Group{}, false, nil
	}
	return top[0], true, nil
}

// ComputeKeyMetrics sums the headline totals of view.
func ComputeKeyMetrics(view RecordView) (KeyMetrics, error) {
	fields := []string{FieldEnroTotal, FieldDemoTotal, FieldBioTotal, FieldTotalActivity}
	if err := checkFields(view, nil, fields); err != nil {
		return KeyMetrics{}, err
	}
	sum := func(f string) int64 { return int64(math.Round(SumMeasure(view, f))) }
	return KeyMetrics{
		Records:       view.Len(),
		Enrolments:    sum(FieldEnroTotal),
		DemoUpdates:   sum(FieldDemoTotal),
		BioUpdates:    sum(FieldBioTotal),
		TotalActivity: sum(FieldTotalActivity),
	}, nil
}
