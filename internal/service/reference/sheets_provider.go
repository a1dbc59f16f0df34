package reference

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
	repo "github.com/mamadbah2/agriadvisor/internal/repository/sheets"
)

// DefaultSheetRange is where the reference table lives when none is configured.
// Columns: crop, yield per acre (kg), price per kg.
const DefaultSheetRange = "Reference!A:C"

// SheetsProvider reads the reference table from a Google Sheet.
type SheetsProvider struct {
	repo       repo.Repository
	sheetRange string
	logger     *zap.Logger
}

// NewSheetsProvider wires a provider over the sheets repository.
func NewSheetsProvider(repository repo.Repository, sheetRange string, logger *zap.Logger) *SheetsProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sheetRange == "" {
		sheetRange = DefaultSheetRange
	}
	return &SheetsProvider{repo: repository, sheetRange: sheetRange, logger: logger}
}

// Records loads the sheet, skipping a header row and any row whose numbers
// do not parse or are not positive. Row order is preserved.
func (p *SheetsProvider) Records(ctx context.Context) ([]models.ReferenceYieldRecord, error) {
	rows, err := p.repo.ReadRange(ctx, p.sheetRange)
	if err != nil {
		return nil, fmt.Errorf("load reference range: %w", err)
	}

	records := make([]models.ReferenceYieldRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 {
			continue
		}

		crop := strings.TrimSpace(fmt.Sprint(row[0]))
		yieldPerAcre, err := parseFloat(row[1])
		if err != nil {
			if i > 0 {
				p.logger.Debug("skip reference row with invalid yield", zap.Int("row", i+1), zap.Any("value", row[1]), zap.Error(err))
			}
			continue
		}

		pricePerKg, err := parseFloat(row[2])
		if err != nil {
			p.logger.Debug("skip reference row with invalid price", zap.Int("row", i+1), zap.Any("value", row[2]), zap.Error(err))
			continue
		}

		rec := models.ReferenceYieldRecord{Crop: crop, YieldPerAcre: yieldPerAcre, PricePerKg: pricePerKg}
		if !valid(rec) {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	return records, nil
}

func parseFloat(value interface{}) (float64, error) {
	str := strings.TrimSpace(fmt.Sprint(value))
	if str == "" {
		return 0, fmt.Errorf("empty numeric value")
	}
	// Sheets may hand back locale formatted numbers such as "1,162".
	str = strings.ReplaceAll(str, ",", "")
	return strconv.ParseFloat(str, 64)
}
