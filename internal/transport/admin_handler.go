package transport

import (
	"net/http"

	"coqueta/internal/domain"
	"coqueta/internal/media"
	"coqueta/internal/middleware"
	"coqueta/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductRequest is the register/edit form of the back office.
// Media takes URLs straight from the upload relay and is split into
// images and video by their path.
type ProductRequest struct {
	Name          string           `json:"nombre" validate:"required"`
	Description   string           `json:"descripcion"`
	Brand         string           `json:"marca"`
	Tone          string           `json:"tono"`
	PurchasePrice *decimal.Decimal `json:"precioCompra"`
	SalePrice     *decimal.Decimal `json:"precioVenta"`
	Stock         *int             `json:"stock" validate:"omitempty,gte=0"`
	CategoryID    string           `json:"categoria"`
	Subcategory   string           `json:"subcategoria"`
	Images        []string         `json:"imagenes" validate:"max=3,dive,url"`
	Video         string           `json:"video" validate:"omitempty,url"`
	Media         []string         `json:"media" validate:"dive,url"`
}

func (req ProductRequest) toProduct(id string) *domain.Product {
	images := append([]string{}, req.Images...)
	video := req.Video
	if len(req.Media) > 0 {
		mediaImages, mediaVideos := media.SplitMediaURLs(req.Media)
		images = append(images, mediaImages...)
		if video == "" && len(mediaVideos) > 0 {
			video = mediaVideos[0]
		}
	}

	return &domain.Product{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		Brand:         req.Brand,
		Tone:          req.Tone,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		CategoryID:    req.CategoryID,
		Subcategory:   req.Subcategory,
		Images:        images,
		Video:         video,
	}
}

// CategoryRequest creates or replaces a category
type CategoryRequest struct {
	Name          string   `json:"nombre" validate:"required"`
	Subcategories []string `json:"subcategorias"`
}

// AdminHandler serves the back office product register, inventory and categories
type AdminHandler struct {
	products   service.ProductService
	categories service.CategoryService
	logger     *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(products service.ProductService, categories service.CategoryService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{products: products, categories: categories, logger: logger}
}

// RegisterRoutes registers the admin routes on a router that already
// enforces authentication
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/productos", func(r chi.Router) {
		r.Get("/", h.Inventory)
		r.Post("/", h.CreateProduct)
		r.Get("/{id}", h.GetProduct)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})
	r.Route("/categorias", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Get("/{id}", h.GetCategory)
		r.Put("/{id}", h.UpdateCategory)
		r.Delete("/{id}", h.DeleteCategory)
	})
}

// Inventory lists products filtered by category id and raw subcategory
func (h *AdminHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Inventory(r.Context(), filterFromQuery(r))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// GetProduct returns the stored product without display names
func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CreateProduct registers a new product; the store assigns its id
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product := req.toProduct("")
	if err := h.products.Create(r.Context(), product); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct overwrites every field of an existing product
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	product := req.toProduct(chi.URLParam(r, "id"))
	if err := h.products.Update(r.Context(), product); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCategories returns every category
func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponses(categories))
}

// GetCategory returns one category
func (h *AdminHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categories.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponses([]*domain.Category{category})[0])
}

// CreateCategory adds a category with its subcategory labels
func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category := &domain.Category{Name: req.Name, Subcategories: req.Subcategories}
	if err := h.categories.Create(r.Context(), category); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, toCategoryResponses([]*domain.Category{category})[0])
}

// UpdateCategory replaces a category's name and labels
func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	category := &domain.Category{ID: chi.URLParam(r, "id"), Name: req.Name, Subcategories: req.Subcategories}
	if err := h.categories.Update(r.Context(), category); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, toCategoryResponses([]*domain.Category{category})[0])
}

// DeleteCategory removes a category. Products that referenced it fall
// back to the uncategorized label in the catalog.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
