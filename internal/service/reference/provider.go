// Package reference supplies the yield/price tables estimations run against.
package reference

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

// ErrNoRecords indicates a source produced an empty table.
var ErrNoRecords = errors.New("reference table has no records")

//go:embed data/yield_data.json
var bundledYieldData []byte

// Provider supplies an ordered reference table. Implementations must return
// the same ordering for repeated calls unless the underlying source changed.
type Provider interface {
	Records(ctx context.Context) ([]models.ReferenceYieldRecord, error)
}

// StaticProvider serves a fixed table.
type StaticProvider struct {
	records []models.ReferenceYieldRecord
}

// NewStaticProvider wraps records. The slice is copied.
func NewStaticProvider(records []models.ReferenceYieldRecord) *StaticProvider {
	return &StaticProvider{records: cloneRecords(records)}
}

// Records returns a copy of the table.
func (p *StaticProvider) Records(_ context.Context) ([]models.ReferenceYieldRecord, error) {
	if len(p.records) == 0 {
		return nil, ErrNoRecords
	}
	return cloneRecords(p.records), nil
}

// Bundled returns the sample table shipped with the binary.
func Bundled() (*StaticProvider, error) {
	records, err := LoadJSON(bytes.NewReader(bundledYieldData))
	if err != nil {
		return nil, fmt.Errorf("load bundled reference data: %w", err)
	}
	return NewStaticProvider(records), nil
}

// LoadJSON decodes a JSON array of reference records, dropping records that
// have no crop name or a yield or price that is not a positive finite number.
func LoadJSON(r io.Reader) ([]models.ReferenceYieldRecord, error) {
	var raw []models.ReferenceYieldRecord
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode reference json: %w", err)
	}

	records := make([]models.ReferenceYieldRecord, 0, len(raw))
	for _, rec := range raw {
		if !valid(rec) {
			continue
		}
		rec.Crop = strings.TrimSpace(rec.Crop)
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

func valid(rec models.ReferenceYieldRecord) bool {
	return strings.TrimSpace(rec.Crop) != "" && positiveFinite(rec.YieldPerAcre) && positiveFinite(rec.PricePerKg)
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

func cloneRecords(records []models.ReferenceYieldRecord) []models.ReferenceYieldRecord {
	if records == nil {
		return nil
	}
	out := make([]models.ReferenceYieldRecord, len(records))
	copy(out, records)
	return out
}
