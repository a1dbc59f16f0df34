package mongodb

import (
	"context"
	"fmt"
	"sync"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

// MemoryRepository keeps reports in process. It backs the service when no
// MongoDB URI is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	reports map[string]models.YieldReport
}

// NewMemoryRepository creates an empty in-process store.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reports: make(map[string]models.YieldReport)}
}

// SaveYieldReport stores the report, rejecting duplicate ids like a unique _id index would.
func (r *MemoryRepository) SaveYieldReport(_ context.Context, report models.YieldReport) error {
	if report.ID == "" {
		return fmt.Errorf("yield report id must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.reports[report.ID]; exists {
		return fmt.Errorf("yield report %s already exists", report.ID)
	}
	r.reports[report.ID] = report
	return nil
}

// FindYieldReport returns the stored report or ErrReportNotFound.
func (r *MemoryRepository) FindYieldReport(_ context.Context, id string) (models.YieldReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.reports[id]
	if !ok {
		return models.YieldReport{}, ErrReportNotFound
	}
	return report, nil
}
