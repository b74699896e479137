package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pincodeView(values map[string]int64, order []string) RecordView {
	records := make([]Record, 0, len(order))
	for _, pin := range order {
		records = append(records, rec("S", "D", pin, "1", "Monday", 0, 0, 0, 0, values[pin], 0, 0))
	}
	return NewRecordView(records)
}

func TestConcentration_ParetoSplit(t *testing.T) {
	view := pincodeView(map[string]int64{"a": 10, "b": 20, "c": 70}, []string{"a", "b", "c"})

	res, err := Concentration(view, FieldPincode, FieldTotalActivity, 0.80)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.70, 0.90, 1.00}, res.Shares(), 1e-9)
	assert.Equal(t, 2, res.GroupsNeeded)
	assert.Equal(t, 1, res.WithinTarget)
	assert.Equal(t, 3, res.TotalGroups)
	assert.Equal(t, 100.0, res.GrandTotal)
	assert.Equal(t, []string{"c", "b", "a"}, []string{res.Curve[0].Key, res.Curve[1].Key, res.Curve[2].Key})
	assert.InDelta(t, 0.49+0.04+0.01, res.HHI, 1e-12)
	assert.InDelta(t, 0.90, res.TopShare(2), 1e-9)
	assert.InDelta(t, 1.00, res.TopShare(10), 1e-9)
	assert.Equal(t, 0.0, res.TopShare(0))
}

func TestConcentration_ExactlyOnTarget(t *testing.T) {
	view := pincodeView(map[string]int64{"a": 80, "b": 20}, []string{"a", "b"})

	res, err := Concentration(view, FieldPincode, FieldTotalActivity, 0.80)
	require.NoError(t, err)

	assert.Equal(t, 1, res.GroupsNeeded)
	assert.Equal(t, 1, res.WithinTarget)
	assert.Less(t, res.Curve[0].CumulativeShare, 0.80)

	view = pincodeView(map[string]int64{"a": 30, "b": 30, "c": 40}, []string{"a", "b", "c"})
	res, err = Concentration(view, FieldPincode, FieldTotalActivity, 0.70)
	require.NoError(t, err)
	assert.Equal(t, 2, res.GroupsNeeded)
	assert.Equal(t, 2, res.WithinTarget)
}

func TestConcentration_Properties(t *testing.T) {
	res, err := Concentration(fixtureView(), FieldPincode, FieldTotalActivity, DefaultTargetShare)
	require.NoError(t, err)

	shares := res.Shares()
	for i := 1; i < len(shares); i++ {
		assert.GreaterOrEqual(t, shares[i], shares[i-1])
	}
	assert.InDelta(t, 1.0, shares[len(shares)-1], 1e-9)
	assert.LessOrEqual(t, res.GroupsNeeded, res.TotalGroups)

	// 100, 30, 23, 7 of 160 → 0.625, 0.8125, ...
	assert.Equal(t, 2, res.GroupsNeeded)
	assert.Equal(t, 1, res.WithinTarget)
}

func TestConcentration_FullTargetCapped(t *testing.T) {
	view := pincodeView(map[string]int64{"a": 1, "b": 2}, []string{"a", "b"})
	res, err := Concentration(view, FieldPincode, FieldTotalActivity, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.GroupsNeeded)
	assert.Equal(t, 2, res.WithinTarget)
}

func TestConcentration_ZeroTotal(t *testing.T) {
	view := pincodeView(map[string]int64{"a": 0, "b": 0}, []string{"a", "b"})
	res, err := Concentration(view, FieldPincode, FieldTotalActivity, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 0, res.GroupsNeeded)
	assert.Equal(t, 0, res.WithinTarget)
	assert.Equal(t, 2, res.TotalGroups)
	assert.Empty(t, res.Curve)

	empty := ApplyFilters(fixtureView(), FilterSpec{State: "Atlantis"})
	res, err = Concentration(empty, FieldPincode, FieldTotalActivity, 0.8)
	require.NoError(t, err)
	assert.Equal(t, 0, res.GroupsNeeded)
	assert.Equal(t, 0, res.TotalGroups)
	assert.Empty(t, res.Curve)
}

func TestConcentration_Errors(t *testing.T) {
	_, err := Concentration(fixtureView(), "ward", FieldTotalActivity, 0.8)
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = Concentration(fixtureView(), FieldPincode, "footfall", 0.8)
	assert.ErrorIs(t, err, ErrInvalidKey)

	for _, target := range []float64{0, -0.5, 1.2} {
		_, err = Concentration(fixtureView(), FieldPincode, FieldTotalActivity, target)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}
