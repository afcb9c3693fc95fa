package service

import (
	"context"

	"coqueta/internal/catalog"
	"coqueta/internal/domain"
	"coqueta/internal/repository"

	"golang.org/x/sync/errgroup"
)

// CatalogService serves the denormalized storefront catalog
type CatalogService interface {
	List(ctx context.Context, filter catalog.Filter) ([]domain.CatalogProduct, error)
	Get(ctx context.Context, id string) (*domain.CatalogProduct, error)
	Categories(ctx context.Context) ([]*domain.Category, error)
}

type catalogService struct {
	products      repository.ProductRepository
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	subcategories repository.SubcategoryRepository,
) CatalogService {
	return &catalogService{
		products:      products,
		categories:    categories,
		subcategories: subcategories,
	}
}

// lookups loads the category and subcategory name indexes concurrently
func (s *catalogService) lookups(ctx context.Context) (map[string]string, map[string]string, error) {
	var (
		categories    []*domain.Category
		subcategories []*domain.Subcategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		categories, err = s.categories.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		subcategories, err = s.subcategories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return catalog.CategoryNameIndex(categories), catalog.SubcategoryNameIndex(subcategories), nil
}

// List loads every product, resolves its names and applies filter
func (s *catalogService) List(ctx context.Context, filter catalog.Filter) ([]domain.CatalogProduct, error) {
	var products []*domain.Product
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.products.List(gctx)
		return err
	})

	var categoryNames, subcategoryNames map[string]string
	g.Go(func() (err error) {
		categoryNames, subcategoryNames, err = s.lookups(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	state := catalog.NewState(catalog.Denormalize(products, categoryNames, subcategoryNames))
	return state.WithFilter(filter).Visible(), nil
}

// Get returns one denormalized product
func (s *catalogService) Get(ctx context.Context, id string) (*domain.CatalogProduct, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	categoryNames, subcategoryNames, err := s.lookups(ctx)
	if err != nil {
		return nil, err
	}

	items := catalog.Denormalize([]*domain.Product{product}, categoryNames, subcategoryNames)
	return &items[0], nil
}

func (s *catalogService) Categories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}
