// Package store holds state shared between requests. The advisory handler
// is the only writer; readers get copies.
package store

import (
	"sync"
	"time"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
)

// RecommendationSet is what the advisory service returned for one session.
type RecommendationSet struct {
	Location        models.LocationData         `json:"location"`
	Recommendations []models.CropRecommendation `json:"recommendations"`
	UpdatedAt       time.Time                   `json:"updated_at"`
}

// RecommendationStore keeps the latest recommendations per session.
type RecommendationStore struct {
	sets map[string]RecommendationSet
	mu   sync.RWMutex
	now  func() time.Time
}

// NewRecommendationStore creates an empty store.
func NewRecommendationStore() *RecommendationStore {
	return &RecommendationStore{
		sets: make(map[string]RecommendationSet),
		now:  time.Now,
	}
}

// Get returns a copy of the session's recommendations.
func (s *RecommendationStore) Get(sessionID string) (RecommendationSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[sessionID]
	if !ok {
		return RecommendationSet{}, false
	}
	set.Recommendations = cloneRecommendations(set.Recommendations)
	return set, true
}

// Put replaces the session's recommendations.
func (s *RecommendationStore) Put(sessionID string, location models.LocationData, recs []models.CropRecommendation) RecommendationSet {
	set := RecommendationSet{
		Location:        location,
		Recommendations: cloneRecommendations(recs),
		UpdatedAt:       s.now().UTC(),
	}

	s.mu.Lock()
	s.sets[sessionID] = set
	s.mu.Unlock()

	set.Recommendations = cloneRecommendations(set.Recommendations)
	return set
}

// Delete removes a session.
func (s *RecommendationStore) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sets, sessionID)
}

func cloneRecommendations(recs []models.CropRecommendation) []models.CropRecommendation {
	out := make([]models.CropRecommendation, len(recs))
	copy(out, recs)
	return out
}
