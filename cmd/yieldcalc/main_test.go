package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
	"github.com/mamadbah2/agriadvisor/internal/service/estimation"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		raw  string
		want models.CropEntry
	}{
		{"Rice:2", models.CropEntry{CropName: "Rice", Acres: 2}},
		{" Sweet Potato : 1.5", models.CropEntry{CropName: "Sweet Potato", Acres: 1.5}},
		{"Wheat", models.CropEntry{CropName: "Wheat", Acres: 1}},
		{"Maize:abc", models.CropEntry{CropName: "Maize", Acres: 1}},
		{"Cotton:-3", models.CropEntry{CropName: "Cotton", Acres: 1}},
		{"a:b:4", models.CropEntry{CropName: "a:b", Acres: 4}},
		{":", models.CropEntry{CropName: "", Acres: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parseEntry(tt.raw))
		})
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRun_Markdown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"crop":"Wheat","yieldPerAcre":500,"pricePerKg":20},
		{"crop":"Rice","yieldPerAcre":800,"pricePerKg":15}
	]`), 0o600))

	out, err := execute(t, "--reference", path, "--format", "markdown", "--title", "Plan",
		"--crop", ":2", "--crop", "Corn:3")
	require.NoError(t, err)

	assert.Contains(t, out, "# Plan")
	assert.Contains(t, out, "| Corn | 3.00 | 800.00 | 2400.00 | 15.00 | 36000.00 |")
	assert.Contains(t, out, "**Total Income:** 56000.00")
}

func TestRun_RowsWithBundledReference(t *testing.T) {
	out, err := execute(t, "--crop", "Rice:2")
	require.NoError(t, err)

	assert.Contains(t, out, "Expected Yield (kg)")
	assert.Contains(t, out, "Total Income: 51128.00")
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t)
	assert.Error(t, err)

	_, err = execute(t, "--crop", "a:1", "--format", "pdf")
	assert.ErrorContains(t, err, "unknown format")

	args := []string{}
	for i := 0; i < 6; i++ {
		args = append(args, "--crop", "x:1")
	}
	_, err = execute(t, args...)
	assert.ErrorIs(t, err, estimation.ErrTooManyEntries)

	_, err = execute(t, append(args, "--max-entries", "0")...)
	assert.NoError(t, err)

	_, err = execute(t, "--crop", "a:1e306")
	assert.ErrorIs(t, err, estimation.ErrNonFiniteResult)

	_, err = execute(t, "--crop", "a:1", "--reference", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "open reference file")
}
