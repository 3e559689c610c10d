package recommend

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lindenmoor/teahouse/backend/internal/analytics"
	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	"github.com/lindenmoor/teahouse/backend/internal/service/recommend"
	"github.com/lindenmoor/teahouse/backend/pkg/utils"
)

// Handler serves sommelier recommendations.
type Handler struct {
	engine *recommend.Engine
	store  catalog.Store
}

// New creates the recommendations handler.
func New(engine *recommend.Engine, store catalog.Store) *Handler {
	return &Handler{engine: engine, store: store}
}

// RegisterRoutes registers the recommendation endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/recommendations", h.handleRecommend)
}

type recommendRequest struct {
	Preference string `json:"preference"`
}

// handleRecommend always answers 200 with a recommendation; the engine
// absorbs upstream failures via its deterministic fallback.
func (h *Handler) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var payload recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Preference == "" {
		utils.RespondError(w, http.StatusBadRequest, "preference is required")
		return
	}

	result := h.engine.Recommend(r.Context(), payload.Preference, h.store.List())
	analytics.Log(analytics.RecommendationServed, map[string]any{
		"usedFallback": result.UsedFallback,
		"count":        len(result.ProductIDs),
	})
	utils.RespondJSON(w, http.StatusOK, result)
}
