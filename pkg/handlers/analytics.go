package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kodinet/kodibot-engine/pkg/repositories"
	"github.com/kodinet/kodibot-engine/pkg/services"
)

// PopularIntentsResponse wraps the intent frequency aggregate.
type PopularIntentsResponse struct {
	PopularIntents []repositories.IntentCount `json:"popular_intents"`
}

// AnalyticsHandler exposes conversation log aggregates.
type AnalyticsHandler struct {
	analytics services.AnalyticsService
	logger    *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analytics services.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, logger: logger}
}

// RegisterRoutes registers the analytics handler's routes on the given mux.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /analytics/popular-intents", h.PopularIntents)
}

// PopularIntents handles GET /analytics/popular-intents requests.
func (h *AnalyticsHandler) PopularIntents(w http.ResponseWriter, r *http.Request) {
	counts, err := h.analytics.PopularIntents(r.Context())
	if err != nil {
		h.logger.Error("Failed to aggregate popular intents", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to aggregate intents")
		return
	}
	if counts == nil {
		counts = []repositories.IntentCount{}
	}

	if err := WriteJSON(w, http.StatusOK, PopularIntentsResponse{PopularIntents: counts}); err != nil {
		h.logger.Error("Failed to encode analytics response", zap.Error(err))
	}
}
