package engine

import (
	"fmt"
)

// ============================================================================
// CONCENTRATION — cumulative share vs. sorted rank (80/20 style)
// ============================================================================
// group-sum → sort descending (stable) → prefix sums / (grand total + ε).
// ============================================================================

// DefaultTargetShare is the share used by the dashboard's 80/20 view.
const DefaultTargetShare = 0.80

// shareEpsilon guards the division by the grand total.
const shareEpsilon = 1e-9

// Concentration ranks the groups of groupField by their summed valueField and
// reports how much of the total the leading groups hold.
//
// GroupsNeeded is the smallest number of top-ranked groups whose cumulative
// share reaches targetShare (never more than the group count). It is decided
// on the unguarded ratio, so a group landing exactly on the target counts.
// WithinTarget counts the leading positions whose cumulative share is
// ≤ targetShare.
// A zero grand total yields zero counts and an empty curve.
func Concentration(view RecordView, groupField, valueField string, targetShare float64) (*ConcentrationResult, error) {
	if targetShare <= 0 || targetShare > 1 {
		return nil, fmt.Errorf("%w: target share %v is outside (0, 1]", ErrInvalidArgument, targetShare)
	}

	groups, err := GroupSum(view, []string{groupField}, []string{valueField})
	if err != nil {
		return nil, err
	}

	res := &ConcentrationResult{
		GroupField:  groupField,
		ValueField:  valueField,
		TargetShare: targetShare,
		TotalGroups: len(groups),
		Curve:       []CurvePoint{},
	}

	for _, g := range groups {
		res.GrandTotal += g.Values[valueField]
	}
	if res.GrandTotal == 0 {
		return res, nil
	}

	ranked, err := TopN(groups, valueField, len(groups), true)
	if err != nil {
		return nil, err
	}

	var cumulative float64
	for i, g := range ranked {
		v := g.Values[valueField]
		cumulative += v
		share := cumulative / (res.GrandTotal + shareEpsilon)
		res.Curve = append(res.Curve, CurvePoint{
			Rank:            i + 1,
			Key:             g.Label,
			Value:           v,
			CumulativeShare: share,
		})

		if share <= targetShare {
			res.WithinTarget++
		}
		if res.GroupsNeeded == 0 && cumulative/res.GrandTotal >= targetShare {
			res.GroupsNeeded = i + 1
		}

		part := v / res.GrandTotal
		res.HHI += part * part
	}

	// Float rounding can keep the last share a hair under a target of 1.0.
	if res.GroupsNeeded == 0 {
		res.GroupsNeeded = len(ranked)
	}

	return res, nil
}
