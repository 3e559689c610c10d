package products

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lindenmoor/teahouse/backend/internal/analytics"
	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	"github.com/lindenmoor/teahouse/backend/pkg/utils"
)

// Handler serves the tea catalog.
type Handler struct {
	store catalog.Store
}

// New creates the products handler.
func New(store catalog.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes registers the catalog endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/products", h.handleList)
	r.Get("/products/{productID}", h.handleByID)
	r.Get("/products/{productID}/similar", h.handleSimilar)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	if category := r.URL.Query().Get("category"); category != "" {
		utils.RespondJSON(w, http.StatusOK, h.store.ByCategory(category))
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.store.List())
}

func (h *Handler) handleByID(w http.ResponseWriter, r *http.Request) {
	product, ok := h.store.ByID(chi.URLParam(r, "productID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, product)
}

type similarResponse struct {
	Similar  []catalog.Product         `json:"similar"`
	Premium  []catalog.Product         `json:"premium"`
	Contrast []catalog.Product         `json:"contrast"`
	Weights  catalog.SimilarityWeights `json:"weights"`
}

// handleSimilar resolves the precomputed relations for one product into
// full product records. Ids that no longer exist in the catalog are
// dropped silently.
func (h *Handler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if _, ok := h.store.ByID(productID); !ok {
		utils.RespondError(w, http.StatusNotFound, "product not found")
		return
	}

	mapping, ok := catalog.SimilarProducts(productID)
	if !ok {
		utils.RespondJSON(w, http.StatusOK, similarResponse{
			Similar:  []catalog.Product{},
			Premium:  []catalog.Product{},
			Contrast: []catalog.Product{},
		})
		return
	}

	analytics.Log(analytics.DiscoveryOpened, map[string]any{"productId": productID})
	utils.RespondJSON(w, http.StatusOK, similarResponse{
		Similar:  h.resolve(mapping.Similar),
		Premium:  h.resolve(mapping.Premium),
		Contrast: h.resolve(mapping.Contrast),
		Weights:  mapping.Weights,
	})
}

func (h *Handler) resolve(ids []string) []catalog.Product {
	out := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := h.store.ByID(id); ok {
			out = append(out, p)
		}
	}
	return out
}
