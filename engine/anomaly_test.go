package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectAnomalies_SingleSpike(t *testing.T) {
	values := make([]int64, 101)
	for i := range values {
		values[i] = 1
	}
	values[42] = 1000

	got, err := DetectAnomalies(activityView(values...), FieldTotalActivity, DefaultZThreshold)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// One outlier among n values sits exactly sqrt(n-1) population std devs out.
	assert.Equal(t, 42, got[0].Index)
	assert.Equal(t, 1000.0, got[0].Value)
	assert.InDelta(t, 10.0, got[0].ZScore, 1e-6)
	assert.Equal(t, "S", got[0].Dimensions[FieldState])
	assert.Equal(t, "P", got[0].Dimensions[FieldPincode])
}

func TestDetectAnomalies_PopulationStdDev(t *testing.T) {
	got, err := DetectAnomalies(fixtureView(), FieldTotalActivity, 1.0)
	require.NoError(t, err)
	require.Len(t, got, 1)

	// values 23, 30, 100, 7: mean 40, population variance 1269.5
	want := 60 / (math.Sqrt(1269.5) + 1e-9)
	assert.Equal(t, 2, got[0].Index)
	assert.InDelta(t, want, got[0].ZScore, 1e-12)
	assert.Equal(t, "Patna", got[0].Dimensions[FieldDistrict])
}

func TestDetectAnomalies_SortedDescending(t *testing.T) {
	got, err := DetectAnomalies(activityView(1, 1, 1, 1, 1, 1, 1, 1, 50, 80), FieldTotalActivity, 0.5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 9, got[0].Index)
	assert.Equal(t, 8, got[1].Index)
	assert.Greater(t, got[0].ZScore, got[1].ZScore)
}

func TestDetectAnomalies_IdenticalValues(t *testing.T) {
	for _, threshold := range []float64{0.001, 1, 5} {
		got, err := DetectAnomalies(activityView(7, 7, 7, 7), FieldTotalActivity, threshold)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestDetectAnomalies_StrictThreshold(t *testing.T) {
	// mean 0.5, std 0.5: z of the 1 is just under 1 because of the epsilon.
	got, err := DetectAnomalies(activityView(0, 1), FieldTotalActivity, 0.999999)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = DetectAnomalies(activityView(0, 1), FieldTotalActivity, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetectAnomalies_EmptyAndSingle(t *testing.T) {
	empty := ApplyFilters(fixtureView(), FilterSpec{State: "Atlantis"})
	got, err := DetectAnomalies(empty, FieldTotalActivity, DefaultZThreshold)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = DetectAnomalies(activityView(99), FieldTotalActivity, 0)
	require.NoError(t, err)
	assert.Empty(t, got, "a lone value has z = 0")
}

func TestDetectAnomalies_InvalidMetric(t *testing.T) {
	_, err := DetectAnomalies(fixtureView(), "footfall", DefaultZThreshold)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
