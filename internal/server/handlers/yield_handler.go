package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
	"github.com/mamadbah2/agriadvisor/internal/repository/mongodb"
	"github.com/mamadbah2/agriadvisor/internal/service/estimation"
	"github.com/mamadbah2/agriadvisor/internal/service/lookup"
	"github.com/mamadbah2/agriadvisor/internal/service/report"
	"github.com/mamadbah2/agriadvisor/internal/service/yield"
)

// EstimationService is the subset of estimation.Service the HTTP layer uses.
type EstimationService interface {
	Estimate(ctx context.Context, req estimation.Request) (estimation.Outcome, error)
	Report(ctx context.Context, id string) (models.YieldReport, error)
	ReportHTML(ctx context.Context, id string) (string, error)
	Reference(ctx context.Context) ([]models.ReferenceYieldRecord, error)
	ReferenceRefreshedAt() time.Time
	MaxEntries() int
}

// CropLookup resolves reference figures for one crop.
type CropLookup interface {
	Lookup(ctx context.Context, crop string) (models.ReferenceYieldRecord, error)
}

// YieldHandler exposes estimation and report endpoints.
type YieldHandler struct {
	svc    EstimationService
	lookup CropLookup
	logger *zap.Logger
}

// NewYieldHandler constructs the HTTP handler adapter. lookup may be nil.
func NewYieldHandler(svc EstimationService, lookup CropLookup, logger *zap.Logger) *YieldHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YieldHandler{svc: svc, lookup: lookup, logger: logger}
}

// Estimate runs an estimation and returns rows, projections and the report id.
func (h *YieldHandler) Estimate(c *gin.Context) {
	var req models.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid estimate payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entries := make([]models.CropEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, models.CropEntry{CropName: e.CropName, Acres: yield.ParseAcres(e.Acres)})
	}

	out, err := h.svc.Estimate(c.Request.Context(), estimation.Request{
		Title:     req.Title,
		MatchMode: yield.ParseMatchMode(req.MatchMode),
		Entries:   entries,
	})
	if err != nil {
		h.writeEstimateError(c, err)
		return
	}

	rows := make([][]string, 0, len(out.Rows))
	for _, row := range out.Rows {
		rows = append(rows, row.Cells())
	}

	c.JSON(http.StatusOK, models.EstimateResponse{
		ReportID:    out.Report.ID,
		Header:      report.Header(),
		Rows:        rows,
		Projections: out.Report.Result.Projections,
		TotalIncome: out.Report.Result.TotalIncome,
		Document:    out.Report.Document,
	})
}

func (h *YieldHandler) writeEstimateError(c *gin.Context, err error) {
	var invalid *yield.InvalidInputError

	switch {
	case errors.Is(err, estimation.ErrTooManyEntries):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, estimation.ErrNonFiniteResult):
		h.logger.Warn("estimate overflowed", zap.Error(err))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "acreage too large to estimate"})
	case errors.As(err, &invalid), errors.Is(err, estimation.ErrReferenceUnavailable):
		h.logger.Error("reference data unusable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reference data unavailable"})
	default:
		h.logger.Error("failed estimating yield", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to estimate yield"})
	}
}

// GetReport returns a stored report as JSON.
func (h *YieldHandler) GetReport(c *gin.Context) {
	yr, err := h.svc.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.JSON(http.StatusOK, yr)
}

// GetReportHTML returns a stored report rendered as HTML.
func (h *YieldHandler) GetReportHTML(c *gin.Context) {
	html, err := h.svc.ReportHTML(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeReportError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *YieldHandler) writeReportError(c *gin.Context, err error) {
	if errors.Is(err, mongodb.ErrReportNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	h.logger.Error("failed loading report", zap.String("id", c.Param("id")), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
}

// Reference returns the table estimations currently run against.
func (h *YieldHandler) Reference(c *gin.Context) {
	records, err := h.svc.Reference(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading reference table", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reference data unavailable"})
		return
	}
	body := gin.H{"records": records, "max_entries": h.svc.MaxEntries()}
	if refreshed := h.svc.ReferenceRefreshedAt(); !refreshed.IsZero() {
		body["refreshed_at"] = refreshed.UTC()
	}
	c.JSON(http.StatusOK, body)
}

// KnownCrops lists the crops whose yields the lookup resolves without the AI.
func (h *YieldHandler) KnownCrops(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"crops": lookup.KnownCrops()})
}

// LookupCrop resolves yield and price for a single crop.
func (h *YieldHandler) LookupCrop(c *gin.Context) {
	if h.lookup == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "crop lookup disabled"})
		return
	}

	rec, err := h.lookup.Lookup(c.Request.Context(), c.Param("crop"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, rec)
	case errors.Is(err, lookup.ErrEmptyCrop):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, lookup.ErrAIUnavailable):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		h.logger.Warn("crop lookup failed", zap.String("crop", c.Param("crop")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not determine yield or price"})
	}
}
