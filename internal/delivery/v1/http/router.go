package http

import (
	_ "github.com/DRSN-tech/go-storefront/docs" // регистрация swagger-документа
	"github.com/DRSN-tech/go-storefront/internal/usecase"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, cartUC usecase.CartUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.router.Route("/api/v1", func(v1 chi.Router) {
		catalogHandler := NewCatalogHandler(catalogUC, r.logger)
		registerCatalogRoutes(v1, catalogHandler)

		cartHandler := NewCartHandler(cartUC, r.logger)
		registerCartRoutes(v1, cartHandler)
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.getProducts)
		pr.Get("/{id}", h.getProduct)
	})

	router.Route("/categories", func(cr chi.Router) {
		cr.Get("/", h.getCategories)
		cr.Put("/current", h.selectCategory)
	})

	router.Get("/sync/status", h.getSyncStatus)
}

func registerCartRoutes(router chi.Router, h *CartHandler) {
	router.Route("/cart", func(cr chi.Router) {
		cr.Get("/", h.getCart)
		cr.Post("/toggle", h.toggle)
		cr.Post("/items", h.addItem)
		cr.Patch("/items/{id}", h.updateItem)
		cr.Delete("/items/{id}", h.removeItem)
	})
}
