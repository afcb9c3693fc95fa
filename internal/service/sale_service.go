package service

import (
	"context"

	"coqueta/internal/cart"
	"coqueta/internal/domain"
	"coqueta/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Receipt is the outcome of a recorded sale. Cart and Tendered are the
// reset values the register starts the next sale with.
type Receipt struct {
	Sale     *domain.Sale
	Cart     cart.Cart
	Tendered decimal.Decimal
}

// SaleService records point of sale transactions
type SaleService interface {
	Record(ctx context.Context, c cart.Cart, tendered decimal.Decimal) (*Receipt, error)
	List(ctx context.Context) ([]*domain.Sale, error)
	Get(ctx context.Context, id string) (*domain.Sale, error)
}

type saleService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	tx       repository.Transactor
	logger   *zap.Logger
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	tx repository.Transactor,
	logger *zap.Logger,
) SaleService {
	return &saleService{sales: sales, products: products, tx: tx, logger: logger}
}

// Snapshot copies each cart line into an immutable sale record
func Snapshot(c cart.Cart, tendered decimal.Decimal) *domain.Sale {
	total := c.Total()
	sale := &domain.Sale{
		Lines:    make([]domain.SaleLine, 0, c.Len()),
		Total:    total,
		Tendered: tendered,
		Change:   tendered.Sub(total),
	}
	for _, it := range c.Items() {
		sale.Lines = append(sale.Lines, domain.SaleLine{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice(),
		})
	}
	return sale
}

// Record writes the sale, then decrements stock line by line in cart order.
// Available stock is not checked. On a store without transactions a failure
// after the sale write is reported as a PartialSaleError.
func (s *saleService) Record(ctx context.Context, c cart.Cart, tendered decimal.Decimal) (*Receipt, error) {
	if c.IsEmpty() {
		return nil, &domain.ValidationError{Field: "carrito", Err: domain.ErrInsufficientCart}
	}
	if !domain.IsMoney(tendered) {
		return nil, &domain.ValidationError{Field: "efectivo", Err: domain.ErrTooManyDecimals}
	}
	if tendered.LessThan(c.Total()) {
		return nil, &domain.ValidationError{Field: "efectivo", Err: domain.ErrInsufficientCash}
	}

	var (
		sale    *domain.Sale
		saved   bool
		applied []string
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// a retried transaction starts over
		sale, saved, applied = Snapshot(c, tendered), false, nil

		if err := s.sales.Create(ctx, sale); err != nil {
			return err
		}
		saved = true

		for _, it := range c.Items() {
			if err := s.products.DecrementStock(ctx, it.Product.ID, it.Quantity); err != nil {
				return err
			}
			applied = append(applied, it.Product.ID)
		}
		return nil
	})
	if err != nil {
		if saved && !s.tx.Atomic() {
			return nil, &domain.PartialSaleError{
				SaleID:  sale.ID,
				Applied: applied,
				Pending: pendingIDs(c, len(applied)),
				Err:     err,
			}
		}
		return nil, domain.NewRepositoryError("record sale", err)
	}

	s.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID),
		zap.String("total", sale.Total.String()),
		zap.Int("lines", len(sale.Lines)),
	)
	return &Receipt{Sale: sale, Cart: c.Clear(), Tendered: decimal.Zero}, nil
}

func pendingIDs(c cart.Cart, applied int) []string {
	items := c.Items()
	pending := make([]string, 0, len(items)-applied)
	for _, it := range items[applied:] {
		pending = append(pending, it.Product.ID)
	}
	return pending
}

func (s *saleService) List(ctx context.Context) ([]*domain.Sale, error) {
	return s.sales.List(ctx)
}

func (s *saleService) Get(ctx context.Context, id string) (*domain.Sale, error) {
	return s.sales.FindByID(ctx, id)
}
