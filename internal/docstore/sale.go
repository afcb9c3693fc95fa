package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"coqueta/internal/domain"
	"coqueta/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type saleLineDoc struct {
	ProductID string               `bson:"id"`
	Name      string               `bson:"nombre"`
	Quantity  int                  `bson:"cantidad"`
	UnitPrice primitive.Decimal128 `bson:"precio"`
}

type saleDoc struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	CreatedAt time.Time            `bson:"fecha"`
	Lines     []saleLineDoc        `bson:"productos"`
	Total     primitive.Decimal128 `bson:"total"`
	Tendered  primitive.Decimal128 `bson:"efectivo"`
	Change    primitive.Decimal128 `bson:"cambio"`
}

func encodeSale(s *domain.Sale) (*saleDoc, error) {
	doc := &saleDoc{CreatedAt: s.CreatedAt, Lines: make([]saleLineDoc, 0, len(s.Lines))}
	for _, l := range s.Lines {
		price, err := toDecimal128(l.UnitPrice)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, saleLineDoc{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
	}
	var err error
	if doc.Total, err = toDecimal128(s.Total); err != nil {
		return nil, err
	}
	if doc.Tendered, err = toDecimal128(s.Tendered); err != nil {
		return nil, err
	}
	if doc.Change, err = toDecimal128(s.Change); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *saleDoc) decode() (*domain.Sale, error) {
	sale := &domain.Sale{ID: d.ID.Hex(), CreatedAt: d.CreatedAt}
	for _, l := range d.Lines {
		if l.ProductID == "" || l.Quantity < 1 {
			return nil, fmt.Errorf("sale %s: invalid line for product %q", sale.ID, l.ProductID)
		}
		price, err := fromDecimal128(l.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("sale %s: malformed price: %w", sale.ID, err)
		}
		sale.Lines = append(sale.Lines, domain.SaleLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: price,
		})
	}
	var err error
	if sale.Total, err = fromDecimal128(d.Total); err != nil {
		return nil, fmt.Errorf("sale %s: malformed total: %w", sale.ID, err)
	}
	if sale.Tendered, err = fromDecimal128(d.Tendered); err != nil {
		return nil, fmt.Errorf("sale %s: malformed tendered: %w", sale.ID, err)
	}
	if sale.Change, err = fromDecimal128(d.Change); err != nil {
		return nil, fmt.Errorf("sale %s: malformed change: %w", sale.ID, err)
	}
	return sale, nil
}

type saleRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewSaleRepository creates a SaleRepository on the ventas collection
func NewSaleRepository(s *Store, logger *zap.Logger) repository.SaleRepository {
	return &saleRepository{coll: s.db.Collection(salesCollection), logger: logger}
}

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	doc, err := encodeSale(sale)
	if err != nil {
		return domain.NewRepositoryError("encode sale", err)
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.NewRepositoryError("create sale", err)
	}
	sale.ID = doc.ID.Hex()
	return nil
}

func (r *saleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fecha", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, domain.NewRepositoryError("list sales", err)
	}
	defer cursor.Close(ctx)

	sales := []*domain.Sale{}
	for cursor.Next(ctx) {
		var doc saleDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping malformed sale document", zap.Error(err))
			continue
		}
		sale, err := doc.decode()
		if err != nil {
			r.logger.Warn("Skipping malformed sale document", zap.Error(err))
			continue
		}
		sales = append(sales, sale)
	}

	if err := cursor.Err(); err != nil {
		return nil, domain.NewRepositoryError("iterate sales", err)
	}
	return sales, nil
}

func (r *saleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	oid, err := objectID(salesCollection, id)
	if err != nil {
		return nil, err
	}

	var doc saleDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Collection: salesCollection, ID: id}
		}
		return nil, domain.NewRepositoryError("find sale", err)
	}

	sale, err := doc.decode()
	if err != nil {
		return nil, domain.NewRepositoryError("decode sale", err)
	}
	return sale, nil
}
