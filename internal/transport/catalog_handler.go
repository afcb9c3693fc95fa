package transport

import (
	"net/http"

	"coqueta/internal/cart"
	"coqueta/internal/catalog"
	"coqueta/internal/domain"
	"coqueta/internal/middleware"
	"coqueta/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryResponse is a category with the labels a shopper can pick
type CategoryResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"nombre"`
	Subcategories []string `json:"subcategorias"`
}

// CatalogHandler serves the public storefront
type CatalogHandler struct {
	catalog  service.CatalogService
	checkout service.CheckoutService
	logger   *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, checkoutService service.CheckoutService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalogService,
		checkout: checkoutService,
		logger:   logger,
	}
}

// RegisterRoutes registers the storefront read routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/productos", h.ListProducts)
	r.Get("/api/productos/{id}", h.GetProduct)
	r.Get("/api/productos/{id}/whatsapp", h.ProductWhatsApp)
	r.Get("/api/categorias", h.ListCategories)
}

// filterFromQuery reads ?q=&categoria=&subcategoria=
func filterFromQuery(r *http.Request) catalog.Filter {
	q := r.URL.Query()
	return catalog.Filter{
		Query:       q.Get("q"),
		Category:    q.Get("categoria"),
		Subcategory: q.Get("subcategoria"),
	}
}

// ListProducts returns the denormalized catalog, filtered by the query string
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context(), filterFromQuery(r))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	if products == nil {
		products = []domain.CatalogProduct{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns one catalog product
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ProductWhatsApp prepares the "buy this product" chat message.
// cantidad defaults to 1.
func (h *CatalogHandler) ProductWhatsApp(w http.ResponseWriter, r *http.Request) {
	quantity := 1
	if raw := r.URL.Query().Get("cantidad"); raw != "" {
		n, err := cart.ParseQuantity(raw)
		if err != nil {
			middleware.RespondWithDomainError(w, h.logger, err)
			return
		}
		quantity = n
	}

	handoff, err := h.checkout.ProductHandoff(r.Context(), chi.URLParam(r, "id"), quantity)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, handoff)
}

// ListCategories returns every category with its subcategory labels
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponses(categories))
}

func toCategoryResponses(categories []*domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		labels := c.Subcategories
		if labels == nil {
			labels = []string{}
		}
		out = append(out, CategoryResponse{ID: c.ID, Name: c.Name, Subcategories: labels})
	}
	return out
}
