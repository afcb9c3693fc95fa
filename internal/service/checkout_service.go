package service

import (
	"context"

	"coqueta/internal/domain"
	"coqueta/internal/messaging"

	"github.com/shopspring/decimal"
)

// Handoff is a prepared chat message and the deep link that opens it
type Handoff struct {
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Message string          `json:"message"`
	URL     string          `json:"url"`
}

// CheckoutService turns carts into messaging handoffs. Nothing is
// persisted; the order only exists as the chat message.
type CheckoutService interface {
	Checkout(ctx context.Context, lines []CartLine) (*Handoff, error)
	ProductHandoff(ctx context.Context, productID string, quantity int) (*Handoff, error)
}

type checkoutService struct {
	builder  *CartBuilder
	composer *messaging.Composer
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(builder *CartBuilder, composer *messaging.Composer) CheckoutService {
	return &checkoutService{builder: builder, composer: composer}
}

func (s *checkoutService) Checkout(ctx context.Context, lines []CartLine) (*Handoff, error) {
	c, err := s.builder.Build(ctx, lines)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, &domain.ValidationError{Field: "items", Err: domain.ErrInsufficientCart}
	}

	message := s.composer.CartMessage(c)
	return &Handoff{
		Total:   c.Total(),
		Count:   c.Count(),
		Message: message,
		URL:     s.composer.DeepLink(message),
	}, nil
}

// ProductHandoff prepares the single product purchase message
func (s *checkoutService) ProductHandoff(ctx context.Context, productID string, quantity int) (*Handoff, error) {
	c, err := s.builder.Build(ctx, []CartLine{{ProductID: productID, Quantity: quantity}})
	if err != nil {
		return nil, err
	}

	item, _ := c.Get(productID)
	message := s.composer.ProductMessage(item.Product, item.Quantity)
	return &Handoff{
		Total:   item.Subtotal(),
		Count:   item.Quantity,
		Message: message,
		URL:     s.composer.DeepLink(message),
	}, nil
}
