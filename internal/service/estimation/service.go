package estimation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
	"github.com/mamadbah2/agriadvisor/internal/repository/mongodb"
	repo "github.com/mamadbah2/agriadvisor/internal/repository/sheets"
	"github.com/mamadbah2/agriadvisor/internal/service/reference"
	"github.com/mamadbah2/agriadvisor/internal/service/report"
	"github.com/mamadbah2/agriadvisor/internal/service/yield"
)

// DefaultMaxEntries is the number of crops a single run accepts by default.
const DefaultMaxEntries = 5

const dateLayout = "2006-01-02"

// ErrTooManyEntries is returned when a run exceeds the configured entry cap.
var ErrTooManyEntries = errors.New("too many crop entries")

// ErrReferenceUnavailable wraps failures to load the reference table.
var ErrReferenceUnavailable = errors.New("reference data unavailable")

// ErrNonFiniteResult is returned when the inputs overflow a projection.
// Nothing is persisted or exported in that case.
var ErrNonFiniteResult = errors.New("estimation result is not a finite number")

// Request describes one estimation run.
type Request struct {
	Title     string
	MatchMode yield.MatchMode
	Entries   []models.CropEntry
}

// Outcome is the persisted report plus its display rows.
type Outcome struct {
	Report models.YieldReport
	Rows   []report.Row
}

// Service runs estimations for the HTTP and CLI callers, enforcing the entry
// cap and persisting every report.
type Service struct {
	reference   reference.Provider
	reports     mongodb.Repository
	exporter    repo.Repository
	exportRange string
	maxEntries  int
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// Option customises the service.
type Option func(*Service)

// WithSheetsExport appends each report's rows to the given sheet range.
func WithSheetsExport(exporter repo.Repository, sheetRange string) Option {
	return func(s *Service) {
		s.exporter = exporter
		s.exportRange = sheetRange
	}
}

// WithMaxEntries sets the entry cap. Zero disables the cap.
func WithMaxEntries(n int) Option {
	return func(s *Service) {
		s.maxEntries = n
	}
}

// NewService wires the estimation service.
func NewService(provider reference.Provider, reports mongodb.Repository, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reports == nil {
		reports = mongodb.NewMemoryRepository()
	}

	s := &Service{
		reference:  provider,
		reports:    reports,
		maxEntries: DefaultMaxEntries,
		logger:     logger,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxEntries reports the configured cap; zero means unlimited.
func (s *Service) MaxEntries() int {
	return s.maxEntries
}

// Estimate validates the run against the cap, computes the projections,
// renders the report document and stores it.
func (s *Service) Estimate(ctx context.Context, req Request) (Outcome, error) {
	if s.maxEntries > 0 && len(req.Entries) > s.maxEntries {
		return Outcome{}, fmt.Errorf("%w: you can only add up to %d crops", ErrTooManyEntries, s.maxEntries)
	}

	records, err := s.Reference(ctx)
	if err != nil {
		return Outcome{}, err
	}

	result, err := yield.Estimate(req.Entries, records, yield.WithMatchMode(req.MatchMode))
	if err != nil {
		return Outcome{}, err
	}
	if err := CheckFinite(result); err != nil {
		return Outcome{}, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = report.DefaultTitle
	}

	entries := make([]models.CropEntry, len(req.Entries))
	copy(entries, req.Entries)

	yr := models.YieldReport{
		ID:        s.newID(),
		Title:     title,
		MatchMode: req.MatchMode.String(),
		Entries:   entries,
		Result:    result,
		Document:  report.ToReportDocument(result, title),
		CreatedAt: s.now().UTC(),
	}

	if err := s.reports.SaveYieldReport(ctx, yr); err != nil {
		return Outcome{}, fmt.Errorf("persist yield report: %w", err)
	}

	s.logger.Info("yield estimated",
		zap.String("report_id", yr.ID),
		zap.Int("entries", len(entries)),
		zap.String("match_mode", yr.MatchMode),
		zap.Float64("total_income", result.TotalIncome))

	s.export(ctx, yr)

	return Outcome{Report: yr, Rows: report.ToRows(result)}, nil
}

// CheckFinite returns ErrNonFiniteResult when any figure of result overflowed.
func CheckFinite(result models.EstimationResult) error {
	for i, p := range result.Projections {
		for _, v := range []float64{p.Acres, p.YieldPerAcre, p.ExpectedYield, p.PricePerKg, p.TotalIncome} {
			if math.IsInf(v, 0) || math.IsNaN(v) {
				return fmt.Errorf("%w: entry %d (%s)", ErrNonFiniteResult, i+1, p.Crop)
			}
		}
	}
	if math.IsInf(result.TotalIncome, 0) || math.IsNaN(result.TotalIncome) {
		return fmt.Errorf("%w: total income", ErrNonFiniteResult)
	}
	return nil
}

// Report loads a stored report.
func (s *Service) Report(ctx context.Context, id string) (models.YieldReport, error) {
	return s.reports.FindYieldReport(ctx, id)
}

// ReportHTML renders a stored report as HTML.
func (s *Service) ReportHTML(ctx context.Context, id string) (string, error) {
	yr, err := s.reports.FindYieldReport(ctx, id)
	if err != nil {
		return "", err
	}
	return report.ToHTML(yr.Document)
}

// Reference returns the reference table estimations currently run against.
func (s *Service) Reference(ctx context.Context) ([]models.ReferenceYieldRecord, error) {
	if s.reference == nil {
		return nil, fmt.Errorf("%w: no provider configured", ErrReferenceUnavailable)
	}
	records, err := s.reference.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReferenceUnavailable, err)
	}
	return records, nil
}

// ReferenceRefreshedAt reports when a cached reference table was last
// reloaded. It is zero for static tables and caches never refreshed.
func (s *Service) ReferenceRefreshedAt() time.Time {
	if r, ok := s.reference.(interface{ LastRefresh() time.Time }); ok {
		return r.LastRefresh()
	}
	return time.Time{}
}

// export is best effort: the report is already stored, so a sheet failure is
// only logged.
func (s *Service) export(ctx context.Context, yr models.YieldReport) {
	if s.exporter == nil || s.exportRange == "" || len(yr.Result.Projections) == 0 {
		return
	}

	date := yr.CreatedAt.Format(dateLayout)
	rows := make([][]interface{}, 0, len(yr.Result.Projections))
	for _, p := range yr.Result.Projections {
		rows = append(rows, []interface{}{yr.ID, date, p.Crop, p.Acres, p.YieldPerAcre, p.ExpectedYield, p.PricePerKg, p.TotalIncome})
	}

	var err error
	if batch, ok := s.exporter.(repo.BatchWriter); ok {
		err = batch.WriteRows(ctx, s.exportRange, rows)
	} else {
		for _, row := range rows {
			if err = s.exporter.WriteRow(ctx, s.exportRange, row); err != nil {
				break
			}
		}
	}

	if err != nil {
		s.logger.Warn("yield report export failed", zap.String("report_id", yr.ID), zap.Error(err))
		return
	}
	s.logger.Debug("yield report exported", zap.String("report_id", yr.ID), zap.Int("rows", len(rows)))
}
