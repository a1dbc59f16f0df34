package reference

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

// CachedProvider serves a snapshot of a slower source. Refresh replaces the
// snapshot; a failed refresh keeps the last good one. Until the first
// successful refresh, Records delegates to the fallback provider.
type CachedProvider struct {
	source   Provider
	fallback Provider
	logger   *zap.Logger
	now      func() time.Time

	mu        sync.RWMutex
	records   []models.ReferenceYieldRecord
	refreshed time.Time
}

// NewCachedProvider wires a cache over source. fallback may be nil.
func NewCachedProvider(source, fallback Provider, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		source:   source,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// Records returns the current snapshot.
func (p *CachedProvider) Records(ctx context.Context) ([]models.ReferenceYieldRecord, error) {
	p.mu.RLock()
	records := cloneRecords(p.records)
	p.mu.RUnlock()

	if len(records) > 0 {
		return records, nil
	}

	if p.fallback == nil {
		return nil, ErrNoRecords
	}
	return p.fallback.Records(ctx)
}

// Refresh reloads the snapshot from the source.
func (p *CachedProvider) Refresh(ctx context.Context) error {
	if p.source == nil {
		return fmt.Errorf("refresh reference cache: no source configured")
	}

	records, err := p.source.Records(ctx)
	if err != nil {
		p.logger.Warn("reference refresh failed, keeping previous snapshot", zap.Error(err))
		return fmt.Errorf("refresh reference cache: %w", err)
	}

	p.mu.Lock()
	p.records = cloneRecords(records)
	p.refreshed = p.now()
	p.mu.Unlock()

	p.logger.Info("reference table refreshed", zap.Int("records", len(records)))
	return nil
}

// LastRefresh reports when the snapshot was last replaced. Zero means never.
func (p *CachedProvider) LastRefresh() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.refreshed
}
