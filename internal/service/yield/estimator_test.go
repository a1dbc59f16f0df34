package yield

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

func sampleReference() []models.ReferenceYieldRecord {
	return []models.ReferenceYieldRecord{
		{Crop: "Wheat", YieldPerAcre: 500, PricePerKg: 20},
		{Crop: "Rice", YieldPerAcre: 800, PricePerKg: 15},
	}
}

func TestEstimate_WheatRiceCornScenario(t *testing.T) {
	entries := []models.CropEntry{
		{CropName: "", Acres: 2},
		{CropName: "Corn", Acres: 3},
	}

	got, err := Estimate(entries, sampleReference())
	require.NoError(t, err)

	want := models.EstimationResult{
		Projections: []models.CropProjection{
			{Crop: "Wheat", Acres: 2, YieldPerAcre: 500, ExpectedYield: 1000, PricePerKg: 20, TotalIncome: 20000},
			{Crop: "Corn", Acres: 3, YieldPerAcre: 800, ExpectedYield: 2400, PricePerKg: 15, TotalIncome: 36000},
		},
		TotalIncome: 56000,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Estimate() mismatch (-want +got):\n%s", diff)
	}
}

func TestEstimate_EmptyReference(t *testing.T) {
	for _, entries := range [][]models.CropEntry{
		nil,
		{},
		{{CropName: "Wheat", Acres: 4}},
	} {
		_, err := Estimate(entries, nil)
		require.Error(t, err)

		var invalid *InvalidInputError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "reference", invalid.Field)
		assert.ErrorIs(t, err, ErrEmptyReference)

		_, err = Estimate(entries, []models.ReferenceYieldRecord{})
		assert.ErrorIs(t, err, ErrEmptyReference)
	}
}

func TestEstimate_NoEntries(t *testing.T) {
	got, err := Estimate(nil, sampleReference())
	require.NoError(t, err)
	assert.Empty(t, got.Projections)
	assert.Zero(t, got.TotalIncome)
}

func TestEstimate_CyclesReferenceIgnoringNames(t *testing.T) {
	reference := []models.ReferenceYieldRecord{
		{Crop: "Wheat", YieldPerAcre: 100, PricePerKg: 1},
		{Crop: "Rice", YieldPerAcre: 200, PricePerKg: 2},
		{Crop: "Maize", YieldPerAcre: 300, PricePerKg: 3},
	}
	entries := make([]models.CropEntry, 7)
	for i := range entries {
		// Names deliberately point at a different record than the position.
		entries[i] = models.CropEntry{CropName: reference[(i+1)%len(reference)].Crop, Acres: 1}
	}

	got, err := Estimate(entries, reference)
	require.NoError(t, err)
	require.Len(t, got.Projections, len(entries))

	for i, p := range got.Projections {
		record := reference[i%len(reference)]
		assert.Equal(t, record.YieldPerAcre, p.YieldPerAcre, "entry %d", i)
		assert.Equal(t, record.PricePerKg, p.PricePerKg, "entry %d", i)
		assert.Equal(t, entries[i].CropName, p.Crop, "entry %d keeps its own name", i)
	}
}

func TestEstimate_DefaultsAcres(t *testing.T) {
	entries := []models.CropEntry{
		{Acres: 0},
		{Acres: -3},
		{Acres: math.NaN()},
		{Acres: math.Inf(1)},
		{Acres: 0.5},
	}

	got, err := Estimate(entries, sampleReference())
	require.NoError(t, err)

	wantAcres := []float64{1, 1, 1, 1, 0.5}
	for i, p := range got.Projections {
		assert.Equal(t, wantAcres[i], p.Acres, "entry %d", i)
		assert.Equal(t, p.YieldPerAcre*p.Acres, p.ExpectedYield, "entry %d", i)
	}
}

func TestEstimate_TotalIsSumOfProjections(t *testing.T) {
	entries := []models.CropEntry{
		{CropName: "a", Acres: 1.1},
		{CropName: "b", Acres: 2.7},
		{CropName: "c", Acres: 0.3},
		{CropName: "d", Acres: 9.9},
	}
	reference := []models.ReferenceYieldRecord{
		{Crop: "x", YieldPerAcre: 1162.3, PricePerKg: 22.5},
		{Crop: "y", YieldPerAcre: 176.4, PricePerKg: 65.1},
		{Crop: "z", YieldPerAcre: 9713.7, PricePerKg: 17.25},
	}

	got, err := Estimate(entries, reference)
	require.NoError(t, err)

	var sum float64
	for _, p := range got.Projections {
		sum += p.TotalIncome
	}
	assert.Equal(t, sum, got.TotalIncome)
}

func TestEstimate_Deterministic(t *testing.T) {
	entries := []models.CropEntry{{CropName: "Tea", Acres: 3.3}, {Acres: 7}}

	first, err := Estimate(entries, sampleReference())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Estimate(entries, sampleReference())
		require.NoError(t, err)
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("run %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestEstimate_DoesNotMutateInputs(t *testing.T) {
	entries := []models.CropEntry{{CropName: "", Acres: 0}}
	reference := sampleReference()

	_, err := Estimate(entries, reference)
	require.NoError(t, err)

	assert.Equal(t, models.CropEntry{CropName: "", Acres: 0}, entries[0])
	assert.Equal(t, sampleReference(), reference)
}

func TestEstimate_MatchByName(t *testing.T) {
	entries := []models.CropEntry{
		{CropName: " rice ", Acres: 1},
		{CropName: "Corn", Acres: 1},
		{CropName: "", Acres: 1},
	}

	got, err := Estimate(entries, sampleReference(), WithMatchMode(MatchByName))
	require.NoError(t, err)

	// Matched by name.
	assert.Equal(t, 800.0, got.Projections[0].YieldPerAcre)
	assert.Equal(t, " rice ", got.Projections[0].Crop)
	// Unknown name falls back to position 1.
	assert.Equal(t, 800.0, got.Projections[1].YieldPerAcre)
	// Empty name falls back to position 2 -> reference[0].
	assert.Equal(t, 500.0, got.Projections[2].YieldPerAcre)
	assert.Equal(t, "Wheat", got.Projections[2].Crop)
}

func TestParseMatchMode(t *testing.T) {
	assert.Equal(t, MatchByName, ParseMatchMode("name"))
	assert.Equal(t, MatchByName, ParseMatchMode(" BY_NAME "))
	assert.Equal(t, MatchPositional, ParseMatchMode(""))
	assert.Equal(t, MatchPositional, ParseMatchMode("whatever"))
	assert.Equal(t, "name", MatchByName.String())
	assert.Equal(t, "positional", MatchPositional.String())
}

func TestParseAcres(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"nil", nil, 1},
		{"float", 2.5, 2.5},
		{"int", 3, 3},
		{"int64", int64(4), 4},
		{"zero", 0.0, 1},
		{"negative", -2.0, 1},
		{"string", "12", 12},
		{"padded string", "  6.25 ", 6.25},
		{"empty string", "", 1},
		{"garbage", "ten", 1},
		{"json number", json.Number("8"), 8},
		{"bad json number", json.Number("x"), 1},
		{"bool", true, 1},
		{"nan string", "NaN", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAcres(tt.raw))
		})
	}
}
