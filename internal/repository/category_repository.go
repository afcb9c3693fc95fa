package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"coqueta/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	categoriesCollection    = "categorias"
	subcategoriesCollection = "subcategorias"
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	List(ctx context.Context) ([]*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// SubcategoryRepository reads the id to name subcategory lookup
type SubcategoryRepository interface {
	List(ctx context.Context) ([]*domain.Subcategory, error)
}

type categoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(db *sql.DB, logger *zap.Logger) CategoryRepository {
	return &categoryRepository{db: db, logger: logger}
}

func decodeSubcategories(id string, raw []byte) ([]string, error) {
	labels := []string{}
	if len(raw) == 0 {
		return labels, nil
	}
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, fmt.Errorf("category %s: malformed subcategories: %w", id, err)
	}
	return labels, nil
}

func encodeSubcategories(labels []string) (string, error) {
	if labels == nil {
		labels = []string{}
	}
	b, err := json.Marshal(labels)
	return string(b), err
}

// List retrieves all categories in creation order
func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `
		SELECT id, name, subcategories
		FROM categories
		ORDER BY created_at, id
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewRepositoryError("list categories", err)
	}
	defer rows.Close()

	categories := []*domain.Category{}
	for rows.Next() {
		var (
			category = &domain.Category{}
			raw      []byte
		)
		if err := rows.Scan(&category.ID, &category.Name, &raw); err != nil {
			return nil, domain.NewRepositoryError("scan category", err)
		}
		if category.Subcategories, err = decodeSubcategories(category.ID, raw); err != nil {
			r.logger.Warn("Skipping malformed category document", zap.String("id", category.ID), zap.Error(err))
			continue
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("iterate categories", err)
	}

	return categories, nil
}

// FindByID retrieves a category by ID using parameterized queries
func (r *categoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT id, name, subcategories
		FROM categories
		WHERE id = $1
	`

	var (
		category = &domain.Category{}
		raw      []byte
	)
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Collection: categoriesCollection, ID: id}
		}
		return nil, domain.NewRepositoryError("find category", err)
	}

	if category.Subcategories, err = decodeSubcategories(id, raw); err != nil {
		return nil, domain.NewRepositoryError("decode category", err)
	}
	return category, nil
}

// Create assigns a new id and inserts the category
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	category.ID = uuid.New().String()

	labels, err := encodeSubcategories(category.Subcategories)
	if err != nil {
		return domain.NewRepositoryError("encode category", err)
	}

	query := `
		INSERT INTO categories (id, name, subcategories, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = conn(ctx, r.db).ExecContext(ctx, query, category.ID, category.Name, labels, time.Now().UTC())
	if err != nil {
		return domain.NewRepositoryError("create category", err)
	}

	return nil
}

// Update overwrites the name and subcategory labels of a category
func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	labels, err := encodeSubcategories(category.Subcategories)
	if err != nil {
		return domain.NewRepositoryError("encode category", err)
	}

	query := `UPDATE categories SET name = $2, subcategories = $3 WHERE id = $1`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, category.ID, category.Name, labels)
	if err != nil {
		return domain.NewRepositoryError("update category", err)
	}

	return expectOneRow(result, categoriesCollection, category.ID)
}

// Delete permanently removes a category. Products that referenced it fall
// back to the uncategorized label.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return domain.NewRepositoryError("delete category", err)
	}

	return expectOneRow(result, categoriesCollection, id)
}

type subcategoryRepository struct {
	db *sql.DB
}

// NewSubcategoryRepository creates a new instance of SubcategoryRepository
func NewSubcategoryRepository(db *sql.DB) SubcategoryRepository {
	return &subcategoryRepository{db: db}
}

// List retrieves the whole subcategory lookup
func (r *subcategoryRepository) List(ctx context.Context) ([]*domain.Subcategory, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, `SELECT id, name FROM subcategories ORDER BY name`)
	if err != nil {
		return nil, domain.NewRepositoryError("list subcategories", err)
	}
	defer rows.Close()

	subcategories := []*domain.Subcategory{}
	for rows.Next() {
		s := &domain.Subcategory{}
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, domain.NewRepositoryError("scan subcategory", err)
		}
		subcategories = append(subcategories, s)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("iterate subcategories", err)
	}

	return subcategories, nil
}
