package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilters_EmptySpecReturnsInput(t *testing.T) {
	view := fixtureView()
	got := ApplyFilters(view, FilterSpec{})
	assert.True(t, got == view, "empty spec must return the input view itself")
}

func TestApplyFilters_Conjunctive(t *testing.T) {
	view := fixtureView()

	kerala := ApplyFilters(view, FilterSpec{State: "Kerala"})
	assert.Equal(t, 3, kerala.Len())

	ernakulamMarch := ApplyFilters(view, FilterSpec{State: "Kerala", District: "Ernakulam", Month: "3"})
	assert.Equal(t, 1, ernakulamMarch.Len())
	assert.Equal(t, "682001", ernakulamMarch.Dimension(0, FieldPincode))

	monday := ApplyFilters(view, FilterSpec{Weekday: "Monday"})
	assert.Equal(t, 2, monday.Len())
	assert.Equal(t, "Patna", monday.Dimension(1, FieldDistrict))
}

func TestApplyFilters_CaseSensitive(t *testing.T) {
	assert.Equal(t, 0, ApplyFilters(fixtureView(), FilterSpec{State: "kerala"}).Len())
}

func TestApplyFilters_NoMatchIsEmptyView(t *testing.T) {
	view := fixtureView()
	got := ApplyFilters(view, FilterSpec{State: "Atlantis"})

	assert.Equal(t, 0, got.Len())
	assert.Equal(t, view.DimensionKeys(), got.DimensionKeys())
	assert.Equal(t, 4, view.Len(), "base view is not mutated")
}

func TestApplyFilters_Nested(t *testing.T) {
	view := fixtureView()
	byState := ApplyFilters(view, FilterSpec{State: "Kerala"})
	byMonth := ApplyFilters(byState, FilterSpec{Month: "12"})

	assert.Equal(t, 1, byMonth.Len())
	assert.Equal(t, 7.0, byMonth.Measure(0, FieldTotalActivity))
}

func TestDistinctValues_NaturalOrder(t *testing.T) {
	view := fixtureView()
	assert.Equal(t, []string{"3", "12"}, DistinctValues(view, FieldMonth))
	assert.Equal(t, []string{"Bihar", "Kerala"}, DistinctValues(view, FieldState))
	assert.Empty(t, DistinctValues(ApplyFilters(view, FilterSpec{State: "Atlantis"}), FieldState))
}

func TestFilterOptions_Cascade(t *testing.T) {
	view := fixtureView()

	all := FilterOptions(view, FilterSpec{})
	assert.Equal(t, []string{"Bihar", "Kerala"}, all.States)
	assert.Equal(t, []string{"Ernakulam", "Patna", "Thrissur"}, all.Districts)
	assert.Equal(t, []string{"Monday", "Sunday", "Tuesday"}, all.Weekdays)

	kerala := FilterOptions(view, FilterSpec{State: "Kerala"})
	assert.Equal(t, []string{"Bihar", "Kerala"}, kerala.States, "state list is never narrowed")
	assert.Equal(t, []string{"Ernakulam", "Thrissur"}, kerala.Districts)
	assert.Equal(t, []string{"3", "12"}, kerala.Months)

	ernakulam := FilterOptions(view, FilterSpec{State: "Kerala", District: "Ernakulam", Month: "12"})
	assert.Equal(t, []string{"Sunday"}, ernakulam.Weekdays)
}
