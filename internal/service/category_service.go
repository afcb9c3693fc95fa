package service

import (
	"context"
	"strings"

	"coqueta/internal/domain"
	"coqueta/internal/repository"

	"go.uber.org/zap"
)

// CategoryService manages categories and their subcategory labels
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	categories repository.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService
func NewCategoryService(categories repository.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryService{categories: categories, logger: logger}
}

// normalizeCategory trims the name and labels and drops blank labels.
// Repeated labels are kept as entered.
func normalizeCategory(category *domain.Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return &domain.ValidationError{Field: "nombre", Message: "el nombre es obligatorio"}
	}

	labels := make([]string, 0, len(category.Subcategories))
	for _, label := range category.Subcategories {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	category.Subcategories = labels
	return nil
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *categoryService) Create(ctx context.Context, category *domain.Category) error {
	if err := normalizeCategory(category); err != nil {
		return err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return err
	}
	s.logger.Info("Category created", zap.String("category_id", category.ID), zap.String("name", category.Name))
	return nil
}

func (s *categoryService) Update(ctx context.Context, category *domain.Category) error {
	if err := normalizeCategory(category); err != nil {
		return err
	}
	return s.categories.Update(ctx, category)
}

// Delete removes the category. Products keep the dangling id and show
// the uncategorized label.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Category deleted", zap.String("category_id", id))
	return nil
}
