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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const productsCollection = "productos"

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, id string, quantity int) error
}

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB, logger *zap.Logger) ProductRepository {
	return &productRepository{db: db, logger: logger}
}

const productColumns = `id, name, description, brand, tone, purchase_price, sale_price, stock,
	category_id, subcategory, images, video, created_at, updated_at`

// productRow is the stored shape of a product before validation
type productRow struct {
	ID            string
	Name          string
	Description   string
	Brand         string
	Tone          string
	PurchasePrice decimal.NullDecimal
	SalePrice     decimal.NullDecimal
	Stock         sql.NullInt64
	CategoryID    string
	Subcategory   string
	Images        []byte
	Video         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductRow(s rowScanner) (*productRow, error) {
	row := &productRow{}
	err := s.Scan(
		&row.ID,
		&row.Name,
		&row.Description,
		&row.Brand,
		&row.Tone,
		&row.PurchasePrice,
		&row.SalePrice,
		&row.Stock,
		&row.CategoryID,
		&row.Subcategory,
		&row.Images,
		&row.Video,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	return row, err
}

// decode validates the stored document and converts it to a domain product
func (row *productRow) decode() (*domain.Product, error) {
	p := &domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Brand:       row.Brand,
		Tone:        row.Tone,
		CategoryID:  row.CategoryID,
		Subcategory: row.Subcategory,
		Video:       row.Video,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if row.PurchasePrice.Valid {
		p.PurchasePrice = &row.PurchasePrice.Decimal
	}
	if row.SalePrice.Valid {
		p.SalePrice = &row.SalePrice.Decimal
	}
	if row.Stock.Valid {
		stock := int(row.Stock.Int64)
		p.Stock = &stock
	}
	if len(row.Images) > 0 {
		if err := json.Unmarshal(row.Images, &p.Images); err != nil {
			return nil, fmt.Errorf("product %s: malformed images: %w", row.ID, err)
		}
	}
	if len(p.Images) > domain.MaxProductImages {
		return nil, fmt.Errorf("product %s: %w", row.ID, domain.ErrTooManyImages)
	}
	return p, nil
}

func productArgs(p *domain.Product) ([]any, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return nil, err
	}
	var stock any
	if p.Stock != nil {
		stock = *p.Stock
	}
	return []any{
		p.ID,
		p.Name,
		p.Description,
		p.Brand,
		p.Tone,
		nullDecimal(p.PurchasePrice),
		nullDecimal(p.SalePrice),
		stock,
		p.CategoryID,
		p.Subcategory,
		string(imagesJSON),
		p.Video,
		p.CreatedAt,
		p.UpdatedAt,
	}, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

// List retrieves every product in creation order. Documents that fail to
// decode are skipped and logged.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewRepositoryError("list products", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		row, err := scanProductRow(rows)
		if err != nil {
			return nil, domain.NewRepositoryError("scan product", err)
		}
		product, err := row.decode()
		if err != nil {
			r.logger.Warn("Skipping malformed product document", zap.String("id", row.ID), zap.Error(err))
			continue
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("iterate products", err)
	}

	return products, nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	row, err := scanProductRow(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Collection: productsCollection, ID: id}
		}
		return nil, domain.NewRepositoryError("find product", err)
	}

	product, err := row.decode()
	if err != nil {
		return nil, domain.NewRepositoryError("decode product", err)
	}
	return product, nil
}

// Create assigns a new id and timestamps, then inserts the product
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC()
	product.ID = uuid.New().String()
	product.CreatedAt = now
	product.UpdatedAt = now

	args, err := productArgs(product)
	if err != nil {
		return domain.NewRepositoryError("encode product", err)
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := conn(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		return domain.NewRepositoryError("create product", err)
	}

	return nil
}

// Update overwrites every field of an existing product
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	product.UpdatedAt = time.Now().UTC()

	args, err := productArgs(product)
	if err != nil {
		return domain.NewRepositoryError("encode product", err)
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, brand = $4, tone = $5, purchase_price = $6,
		    sale_price = $7, stock = $8, category_id = $9, subcategory = $10,
		    images = $11, video = $12, updated_at = $13
		WHERE id = $1
	`
	// created_at is never overwritten
	args = append(args[:12], product.UpdatedAt)
	result, err := conn(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return domain.NewRepositoryError("update product", err)
	}

	return expectOneRow(result, productsCollection, product.ID)
}

// Delete permanently removes a product
func (r *productRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return domain.NewRepositoryError("delete product", err)
	}

	return expectOneRow(result, productsCollection, id)
}

// DecrementStock subtracts quantity from the stored stock in a single
// statement. Unknown (NULL) stock stays unknown. Stock may go negative.
func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = $3
		WHERE id = $1
	`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, id, quantity, time.Now().UTC())
	if err != nil {
		return domain.NewRepositoryError("decrement stock", err)
	}

	return expectOneRow(result, productsCollection, id)
}

func expectOneRow(result sql.Result, collection, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewRepositoryError("rows affected", err)
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Collection: collection, ID: id}
	}
	return nil
}
