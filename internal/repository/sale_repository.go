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

const salesCollection = "ventas"

// SaleRepository defines the interface for sale records. Sales are
// immutable, there is no update or delete.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	List(ctx context.Context) ([]*domain.Sale, error)
	FindByID(ctx context.Context, id string) (*domain.Sale, error)
}

type saleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db *sql.DB, logger *zap.Logger) SaleRepository {
	return &saleRepository{db: db, logger: logger}
}

func decodeSaleLines(id string, raw []byte) ([]domain.SaleLine, error) {
	var lines []domain.SaleLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("sale %s: malformed lines: %w", id, err)
	}
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			return nil, fmt.Errorf("sale %s: invalid line for product %q", id, l.ProductID)
		}
	}
	return lines, nil
}

// Create assigns an id and timestamp, then inserts the sale with its lines
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	sale.ID = uuid.New().String()
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}

	lines, err := json.Marshal(sale.Lines)
	if err != nil {
		return domain.NewRepositoryError("encode sale", err)
	}

	query := `
		INSERT INTO sales (id, created_at, lines, total, tendered, change_due)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = conn(ctx, r.db).ExecContext(ctx, query,
		sale.ID,
		sale.CreatedAt,
		string(lines),
		sale.Total,
		sale.Tendered,
		sale.Change,
	)
	if err != nil {
		return domain.NewRepositoryError("create sale", err)
	}

	return nil
}

// List retrieves every sale, newest first
func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	query := `
		SELECT id, created_at, lines, total, tendered, change_due
		FROM sales
		ORDER BY created_at DESC
	`

	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		return nil, domain.NewRepositoryError("list sales", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			r.logger.Warn("Skipping malformed sale document", zap.Error(err))
			continue
		}
		sales = append(sales, sale)
	}

	if err = rows.Err(); err != nil {
		return nil, domain.NewRepositoryError("iterate sales", err)
	}

	return sales, nil
}

// FindByID retrieves one sale
func (r *saleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `
		SELECT id, created_at, lines, total, tendered, change_due
		FROM sales
		WHERE id = $1
	`

	sale, err := scanSale(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Collection: salesCollection, ID: id}
		}
		return nil, domain.NewRepositoryError("find sale", err)
	}
	return sale, nil
}

func scanSale(s rowScanner) (*domain.Sale, error) {
	var (
		sale = &domain.Sale{}
		raw  []byte
	)
	if err := s.Scan(&sale.ID, &sale.CreatedAt, &raw, &sale.Total, &sale.Tendered, &sale.Change); err != nil {
		return nil, err
	}
	lines, err := decodeSaleLines(sale.ID, raw)
	if err != nil {
		return nil, err
	}
	sale.Lines = lines
	return sale, nil
}
