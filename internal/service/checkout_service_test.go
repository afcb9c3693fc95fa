package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"coqueta/internal/domain"
	"coqueta/internal/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCheckout() (CheckoutService, *mockProductRepository) {
	p1, p2 := exampleProducts()
	products := newMockProductRepository(p1, p2,
		&domain.Product{ID: "free", Name: "Muestra"},
	)
	composer := messaging.NewComposer("+502 3572-4563", "https://coqueta.gt")
	return NewCheckoutService(NewCartBuilder(products), composer), products
}

func TestCartBuilder_MergesRepeatedLines(t *testing.T) {
	p1, p2 := exampleProducts()
	builder := NewCartBuilder(newMockProductRepository(p1, p2))

	c, err := builder.Build(context.Background(), []CartLine{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 3, c.Count())
	assert.Equal(t, "60.5", c.Total().String())
}

func TestCartBuilder_Rejections(t *testing.T) {
	_, products := newTestCheckout()
	builder := NewCartBuilder(products)

	_, err := builder.Build(context.Background(), []CartLine{{ProductID: "missing", Quantity: 1}})
	var nf *domain.NotFoundError
	assert.True(t, errors.As(err, &nf))

	_, err = builder.Build(context.Background(), []CartLine{{ProductID: "free", Quantity: 1}})
	assert.ErrorIs(t, err, domain.ErrMissingPrice)

	_, err = builder.Build(context.Background(), []CartLine{{ProductID: "p1", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCheckoutService_Checkout(t *testing.T) {
	svc, _ := newTestCheckout()

	handoff, err := svc.Checkout(context.Background(), []CartLine{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, "60.5", handoff.Total.String())
	assert.Equal(t, 3, handoff.Count)
	assert.Contains(t, handoff.Message, "🧾 Total: Q60.50")
	assert.Contains(t, handoff.Message, "https://coqueta.gt/productos/p1")
	assert.True(t, strings.HasPrefix(handoff.URL, "https://wa.me/50235724563?text="))
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	svc, _ := newTestCheckout()

	_, err := svc.Checkout(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientCart)
}

func TestCheckoutService_ProductHandoff(t *testing.T) {
	svc, _ := newTestCheckout()

	handoff, err := svc.ProductHandoff(context.Background(), "p2", 3)
	require.NoError(t, err)
	assert.Equal(t, "31.5", handoff.Total.String())
	assert.Equal(t, "Hola, quiero comprar *Rubor* (Q10.50) x3.\n\nVer producto: https://coqueta.gt/productos/p2", handoff.Message)
}
