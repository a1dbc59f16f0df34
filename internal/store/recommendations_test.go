package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

func TestRecommendationStore(t *testing.T) {
	s := NewRecommendationStore()
	fixed := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	_, ok := s.Get("alice")
	assert.False(t, ok)

	loc := models.LocationData{Lat: "12.9", Long: "77.5", Address: "560001"}
	recs := []models.CropRecommendation{{Crop: "Ragi", Type: "cereals", Score: "90", Reason: "regional staple"}}
	put := s.Put("alice", loc, recs)
	assert.Equal(t, fixed, put.UpdatedAt)

	recs[0].Crop = "mutated"
	got, ok := s.Get("alice")
	require.True(t, ok)
	assert.Equal(t, "Ragi", got.Recommendations[0].Crop)
	assert.Equal(t, loc, got.Location)

	got.Recommendations[0].Crop = "mutated again"
	again, _ := s.Get("alice")
	assert.Equal(t, "Ragi", again.Recommendations[0].Crop)

	s.Delete("alice")
	_, ok = s.Get("alice")
	assert.False(t, ok)
}

func TestRecommendationStore_Concurrent(t *testing.T) {
	s := NewRecommendationStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i%4)
			s.Put(id, models.LocationData{}, []models.CropRecommendation{{Crop: id}})
			s.Get(id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		set, ok := s.Get(fmt.Sprintf("session-%d", i))
		require.True(t, ok)
		assert.Len(t, set.Recommendations, 1)
	}
}
