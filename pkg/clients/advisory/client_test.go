package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/agriadvisor/internal/config"
	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.AdvisoryConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
}

func TestRecommendCrops(t *testing.T) {
	var got models.LocationData
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, recommendPath, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"crop": "Ragi", "type": "cereals", "score": "92", "reason": "drought tolerant"},
			{"crop": "Tomato", "type": "vegetables", "score": "81", "reason": "market demand"}
		]`))
	})

	loc := models.LocationData{Lat: "12.97", Long: "77.59", Address: "560001"}
	recs, err := client.RecommendCrops(context.Background(), loc)
	require.NoError(t, err)

	assert.Equal(t, loc, got)
	require.Len(t, recs, 2)
	assert.Equal(t, models.CropRecommendation{Crop: "Ragi", Type: "cereals", Score: "92", Reason: "drought tolerant"}, recs[0])
}

func TestRecommendCrops_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "No recommendations found."}`))
	})

	_, err := client.RecommendCrops(context.Background(), models.LocationData{Lat: "1", Long: "2"})
	assert.ErrorIs(t, err, ErrNoRecommendations)
}

func TestRecommendCrops_EmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.RecommendCrops(context.Background(), models.LocationData{Lat: "1", Long: "2"})
	assert.ErrorIs(t, err, ErrNoRecommendations)
}

func TestRecommendCrops_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "model crashed"}`))
	})

	_, err := client.RecommendCrops(context.Background(), models.LocationData{Lat: "1", Long: "2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
	assert.Contains(t, err.Error(), "model crashed")
}
