package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/lindenmoor/teahouse/backend/internal/handler/chat"
	productsHandler "github.com/lindenmoor/teahouse/backend/internal/handler/products"
	recommendHandler "github.com/lindenmoor/teahouse/backend/internal/handler/recommend"
	streamHandler "github.com/lindenmoor/teahouse/backend/internal/handler/stream"
	middlewarePkg "github.com/lindenmoor/teahouse/backend/internal/middleware"
	"github.com/lindenmoor/teahouse/backend/internal/model/catalog"
	"github.com/lindenmoor/teahouse/backend/internal/service/advisor"
	"github.com/lindenmoor/teahouse/backend/internal/service/memory"
	"github.com/lindenmoor/teahouse/backend/internal/service/recommend"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(products catalog.Store, store *memory.Store, advisorSvc *advisor.Service, engine *recommend.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		productsHandler.New(products).RegisterRoutes(api)
		chatHandler.New(advisorSvc, store).RegisterRoutes(api)
		recommendHandler.New(engine, products).RegisterRoutes(api)
		streamHandler.New(advisorSvc, products).RegisterRoutes(api)
	})

	return r
}
