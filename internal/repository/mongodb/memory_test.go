package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.FindYieldReport(ctx, "missing")
	assert.ErrorIs(t, err, ErrReportNotFound)

	report := models.YieldReport{ID: "r1", Title: "Season", CreatedAt: time.Unix(0, 0).UTC()}
	require.NoError(t, repo.SaveYieldReport(ctx, report))

	got, err := repo.FindYieldReport(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, report, got)

	assert.Error(t, repo.SaveYieldReport(ctx, report), "duplicate id")
	assert.Error(t, repo.SaveYieldReport(ctx, models.YieldReport{}), "empty id")
}
