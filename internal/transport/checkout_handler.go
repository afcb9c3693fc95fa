package transport

import (
	"net/http"

	"coqueta/internal/middleware"
	"coqueta/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest is the shopper's cart as sent by the storefront
type CheckoutRequest struct {
	Items []service.CartLine `json:"items" validate:"required,min=1,dive"`
}

// CheckoutHandler turns a cart into a WhatsApp handoff
type CheckoutHandler struct {
	checkout service.CheckoutService
	logger   *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService service.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkoutService, logger: logger}
}

// RegisterRoutes registers POST /api/checkout behind the given middleware
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, mws ...func(http.Handler) http.Handler) {
	r.With(mws...).Post("/api/checkout", h.Checkout)
}

// Checkout prices the cart against current products and returns the
// message and deep link. Nothing is stored.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return
	}

	handoff, err := h.checkout.Checkout(r.Context(), req.Items)
	if err != nil {
		middleware.RespondWithDomainError(w, h.logger, err)
		return
	}

	h.logger.Info("Checkout handoff prepared",
		zap.Int("items", handoff.Count),
		zap.String("total", handoff.Total.StringFixed(2)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, handoff)
}
