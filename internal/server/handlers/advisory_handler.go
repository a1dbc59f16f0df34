package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/agriadvisor/internal/domain/models"
	"github.com/mamadbah2/agriadvisor/internal/store"
	"github.com/mamadbah2/agriadvisor/pkg/clients/advisory"
)

// AdvisoryHandler fetches crop recommendations and keeps them per session so
// later requests can read them back.
type AdvisoryHandler struct {
	client advisory.Client
	store  *store.RecommendationStore
	logger *zap.Logger
}

// NewAdvisoryHandler constructs the handler.
func NewAdvisoryHandler(client advisory.Client, recs *store.RecommendationStore, logger *zap.Logger) *AdvisoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recs == nil {
		recs = store.NewRecommendationStore()
	}
	return &AdvisoryHandler{client: client, store: recs, logger: logger}
}

// Recommend calls the advisory service for the posted location.
func (h *AdvisoryHandler) Recommend(c *gin.Context) {
	var req models.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recommendation payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recs, err := h.client.RecommendCrops(c.Request.Context(), req.LocationData)
	if errors.Is(err, advisory.ErrNoRecommendations) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recommendations found"})
		return
	}
	if err != nil {
		h.logger.Error("advisory request failed", zap.String("session", req.SessionID), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "advisory service unavailable"})
		return
	}

	set := h.store.Put(req.SessionID, req.LocationData, recs)
	h.logger.Info("recommendations stored", zap.String("session", req.SessionID), zap.Int("count", len(recs)))
	c.JSON(http.StatusOK, set)
}

// Get returns the recommendations stored for a session.
func (h *AdvisoryHandler) Get(c *gin.Context) {
	set, ok := h.store.Get(c.Param("session"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no recommendations for session"})
		return
	}
	c.JSON(http.StatusOK, set)
}

// Delete forgets a session's recommendations.
func (h *AdvisoryHandler) Delete(c *gin.Context) {
	h.store.Delete(c.Param("session"))
	c.Status(http.StatusNoContent)
}
