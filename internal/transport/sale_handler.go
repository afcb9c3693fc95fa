package transport

import (
	"net/http"

	"coqueta/internal/domain"
	"coqueta/internal/middleware"
	"coqueta/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleRequest is a point of sale ticket: the cart and the cash handed over
type SaleRequest struct {
	Items    []service.CartLine `json:"items" validate:"required,min=1,dive"`
	Tendered decimal.Decimal    `json:"efectivo"`
}

// SaleHandler records sales and serves the sales history
type SaleHandler struct {
	builder *service.CartBuilder
	sales   service.SaleService
	logger  *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(builder *service.CartBuilder, sales service.SaleService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{builder: builder, sales: sales, logger: logger}
}

// RegisterRoutes registers the sales routes on a router that already
// enforces authentication
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/ventas", func(r chi.Router) {
		r.Get("/", h.ListSales)
		r.Post("/", h.RecordSale)
		r.Get("/{id}", h.GetSale)
	})
}

// RecordSale builds the cart from current products and records the sale
func (h *SaleHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithDecodeError(w, err)
		return
	}

	c, err := h.builder.Build(r.Context(), req.Items)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	receipt, err := h.sales.Record(r.Context(), c, req.Tendered)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, receipt.Sale)
}

// ListSales returns the sales history
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.sales.List(r.Context())
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	if sales == nil {
		sales = []*domain.Sale{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

// GetSale returns one sale
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	sale, err := h.sales.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sale)
}
