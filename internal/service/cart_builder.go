package service

import (
	"context"

	"coqueta/internal/cart"
	"coqueta/internal/repository"
)

// CartLine is a requested product and quantity
type CartLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"cantidad" validate:"required,gte=1"`
}

// CartBuilder rebuilds a cart from client lines using current product
// snapshots. The server keeps no cart between requests.
type CartBuilder struct {
	products repository.ProductRepository
}

func NewCartBuilder(products repository.ProductRepository) *CartBuilder {
	return &CartBuilder{products: products}
}

// Build adds the lines in order, merging repeated product ids. A product
// that cannot be priced is rejected.
func (b *CartBuilder) Build(ctx context.Context, lines []CartLine) (cart.Cart, error) {
	c := cart.New()
	for _, line := range lines {
		product, err := b.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return cart.Cart{}, err
		}
		if _, err := product.UnitPrice(); err != nil {
			return cart.Cart{}, err
		}
		if c, err = c.Add(*product, line.Quantity); err != nil {
			return cart.Cart{}, err
		}
	}
	return c, nil
}
