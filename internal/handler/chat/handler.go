package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lindenmoor/teahouse/backend/internal/analytics"
	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	"github.com/lindenmoor/teahouse/backend/internal/service/advisor"
	"github.com/lindenmoor/teahouse/backend/internal/service/memory"
	"github.com/lindenmoor/teahouse/backend/pkg/llmerr"
	"github.com/lindenmoor/teahouse/backend/pkg/utils"
)

// Handler exposes the tea advisor chat over HTTP.
type Handler struct {
	advisorSvc *advisor.Service
	store      *memory.Store
}

// New creates the chat handler.
func New(advisorSvc *advisor.Service, store *memory.Store) *Handler {
	return &Handler{
		advisorSvc: advisorSvc,
		store:      store,
	}
}

// RegisterRoutes registers the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleTurn)
	r.Post("/chat/session", h.handleCreateSession)
	r.Get("/chat/stats", h.handleStats)
	r.Get("/chat/{sessionID}/history", h.handleHistory)
	r.Delete("/chat/{sessionID}", h.handleClear)
}

type turnRequest struct {
	SessionID string           `json:"sessionId"`
	Message   string           `json:"message"`
	Product   *catalog.Product `json:"product,omitempty"`
}

type turnResponse struct {
	Success bool   `json:"success"`
	Content string `json:"content"`
	Usage   any    `json:"usage,omitempty"`
}

// handleTurn runs one advisor chat turn. A failing completion call leaves
// the user message persisted; the client substitutes its own apology text.
func (h *Handler) handleTurn(w http.ResponseWriter, r *http.Request) {
	var payload turnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Message == "" || payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "message and sessionId are required")
		return
	}

	systemPrompt := advisor.DefaultSystemPrompt
	if payload.Product != nil {
		systemPrompt = advisor.ProductSystemPrompt(*payload.Product)
	}

	completion, err := h.advisorSvc.Respond(r.Context(), payload.SessionID, payload.Message, systemPrompt)
	if err != nil {
		analytics.Log(analytics.AdvisorTurnFailed, map[string]any{"sessionId": payload.SessionID})
		status := http.StatusBadGateway
		if llmerr.IsConfiguration(err) {
			status = http.StatusInternalServerError
		}
		utils.RespondJSON(w, status, map[string]any{"success": false, "error": err.Error()})
		return
	}

	analytics.Log(analytics.AdvisorTurnCompleted, map[string]any{"sessionId": payload.SessionID})
	utils.RespondJSON(w, http.StatusOK, turnResponse{
		Success: true,
		Content: completion.Content,
		Usage:   completion.Usage,
	})
}

// handleCreateSession issues a fresh opaque session id. Session state
// itself is created lazily on first use.
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	analytics.Log(analytics.AdvisorOpened, nil)
	utils.RespondJSON(w, http.StatusCreated, map[string]string{"sessionId": uuid.NewString()})
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"messages":  h.store.History(sessionID),
	})
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear(chi.URLParam(r, "sessionID"))
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Stats())
}
