// Package yield turns crop entries and a reference yield table into per-crop
// and aggregate income projections. The package does no I/O and holds no
// state, so Estimate is safe to call concurrently.
//
// The number of entries is not bounded here. Callers that cap a run enforce
// that themselves.
package yield

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

// ErrEmptyReference is wrapped by the InvalidInputError returned when no
// reference records are supplied.
var ErrEmptyReference = errors.New("reference dataset is empty")

// InvalidInputError reports input that cannot be estimated. It is not
// retryable: the caller has to fix the input first.
type InvalidInputError struct {
	Field  string
	Reason string
	Err    error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// MatchMode selects how a reference record is picked for each entry.
type MatchMode int

const (
	// MatchPositional cycles through the reference table: entry i uses
	// reference[i mod len(reference)] whatever its crop name says.
	MatchPositional MatchMode = iota
	// MatchByName looks the entry's crop up in the reference table and falls
	// back to the positional record when the name is empty or unknown.
	MatchByName
)

// String returns the wire name of the mode.
func (m MatchMode) String() string {
	switch m {
	case MatchByName:
		return "name"
	default:
		return "positional"
	}
}

// ParseMatchMode maps a wire name to a MatchMode. Empty and unknown values
// resolve to MatchPositional.
func ParseMatchMode(value string) MatchMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "name", "by_name", "byname":
		return MatchByName
	default:
		return MatchPositional
	}
}

type options struct {
	mode MatchMode
}

// Option customises a single Estimate call.
type Option func(*options)

// WithMatchMode overrides the default positional selection.
func WithMatchMode(mode MatchMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

// Estimate computes one projection per entry, in input order, plus the
// summed income. Acres that are not a positive finite number count as 1.
func Estimate(entries []models.CropEntry, reference []models.ReferenceYieldRecord, opts ...Option) (models.EstimationResult, error) {
	if len(reference) == 0 {
		return models.EstimationResult{}, &InvalidInputError{
			Field:  "reference",
			Reason: "at least one reference record is required",
			Err:    ErrEmptyReference,
		}
	}

	cfg := options{mode: MatchPositional}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var byName map[string]int
	if cfg.mode == MatchByName {
		byName = indexByName(reference)
	}

	result := models.EstimationResult{
		Projections: make([]models.CropProjection, 0, len(entries)),
	}

	for i, entry := range entries {
		record := reference[i%len(reference)]
		if byName != nil {
			if idx, ok := byName[normalizeName(entry.CropName)]; ok {
				record = reference[idx]
			}
		}

		projection := project(entry, record)
		result.Projections = append(result.Projections, projection)
		result.TotalIncome += projection.TotalIncome
	}

	return result, nil
}

func project(entry models.CropEntry, record models.ReferenceYieldRecord) models.CropProjection {
	acres := NormalizeAcres(entry.Acres)
	expectedYield := record.YieldPerAcre * acres

	crop := entry.CropName
	if crop == "" {
		crop = record.Crop
	}

	return models.CropProjection{
		Crop:          crop,
		Acres:         acres,
		YieldPerAcre:  record.YieldPerAcre,
		ExpectedYield: expectedYield,
		PricePerKg:    record.PricePerKg,
		TotalIncome:   expectedYield * record.PricePerKg,
	}
}

// indexByName keeps the first record for each normalised crop name.
func indexByName(reference []models.ReferenceYieldRecord) map[string]int {
	index := make(map[string]int, len(reference))
	for i, record := range reference {
		key := normalizeName(record.Crop)
		if key == "" {
			continue
		}
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}
	return index
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
