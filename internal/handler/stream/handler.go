package stream

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	"github.com/lindenmoor/teahouse/backend/internal/service/advisor"
	"github.com/lindenmoor/teahouse/backend/pkg/utils"
)

// Handler streams advisor replies over Server-Sent Events.
type Handler struct {
	advisorSvc *advisor.Service
	store      catalog.Store
}

// New creates the stream handler.
func New(advisorSvc *advisor.Service, store catalog.Store) *Handler {
	return &Handler{advisorSvc: advisorSvc, store: store}
}

// RegisterRoutes registers the streaming endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

// handleStream runs one chat turn and forwards reply chunks as they
// arrive. EventSource only supports GET, so the turn input travels in
// the query string; an optional productId scopes the conversation to
// one catalog entry.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	message := r.URL.Query().Get("message")
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	systemPrompt := advisor.DefaultSystemPrompt
	if productID := r.URL.Query().Get("productId"); productID != "" {
		product, found := h.store.ByID(productID)
		if !found {
			utils.RespondError(w, http.StatusNotFound, "product not found")
			return
		}
		systemPrompt = advisor.ProductSystemPrompt(product)
	}

	utils.SetupSSEHeaders(w)
	utils.SendSSEEvent(w, flusher, "start", map[string]string{"sessionId": sessionID})

	completion, err := h.advisorSvc.RespondStream(r.Context(), sessionID, message, systemPrompt, func(chunk string) {
		utils.SendSSEEvent(w, flusher, "chunk", map[string]string{"content": chunk})
	})
	if err != nil {
		utils.SendSSEEvent(w, flusher, "error", map[string]string{"error": err.Error()})
		return
	}

	utils.SendSSEEvent(w, flusher, "end", map[string]any{
		"sessionId": sessionID,
		"length":    len(completion.Content),
	})
}
