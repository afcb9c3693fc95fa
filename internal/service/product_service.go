package service

import (
	"context"

	"coqueta/internal/catalog"
	"coqueta/internal/domain"
	"coqueta/internal/repository"

	"go.uber.org/zap"
)

// ProductService is the back office product register
type ProductService interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Product, error)
	Inventory(ctx context.Context, filter catalog.Filter) ([]*domain.Product, error)
}

type productService struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(products repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productService{products: products, logger: logger}
}

func (s *productService) Create(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return err
	}
	s.logger.Info("Product registered", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return nil
}

// Update overwrites the stored product. The creation time is kept, and
// product is refreshed with what the store now holds.
func (s *productService) Update(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if err := s.products.Update(ctx, product); err != nil {
		return err
	}
	stored, err := s.products.FindByID(ctx, product.ID)
	if err != nil {
		return err
	}
	*product = *stored
	s.logger.Info("Product updated", zap.String("product_id", product.ID))
	return nil
}

func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *productService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// Inventory lists products filtered by name, category id and subcategory
func (s *productService) Inventory(ctx context.Context, filter catalog.Filter) ([]*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Inventory(products), nil
}
