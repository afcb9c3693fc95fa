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

// productDoc is the stored shape of a product
type productDoc struct {
	ID            primitive.ObjectID    `bson:"_id,omitempty"`
	Name          string                `bson:"nombre"`
	Description   string                `bson:"descripcion"`
	Brand         string                `bson:"marca"`
	Tone          string                `bson:"tono"`
	PurchasePrice *primitive.Decimal128 `bson:"precioCompra"`
	SalePrice     *primitive.Decimal128 `bson:"precioVenta"`
	Stock         *int                  `bson:"stock"`
	CategoryID    string                `bson:"categoria"`
	Subcategory   string                `bson:"subcategoria"`
	Images        []string              `bson:"imagenes"`
	Video         string                `bson:"video"`
	CreatedAt     time.Time             `bson:"createdAt"`
	UpdatedAt     time.Time             `bson:"updatedAt"`
}

func encodeProduct(p *domain.Product) (*productDoc, error) {
	purchase, err := toNullableDecimal128(p.PurchasePrice)
	if err != nil {
		return nil, err
	}
	sale, err := toNullableDecimal128(p.SalePrice)
	if err != nil {
		return nil, err
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return &productDoc{
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		Tone:          p.Tone,
		PurchasePrice: purchase,
		SalePrice:     sale,
		Stock:         p.Stock,
		CategoryID:    p.CategoryID,
		Subcategory:   p.Subcategory,
		Images:        images,
		Video:         p.Video,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}, nil
}

func (d *productDoc) decode() (*domain.Product, error) {
	purchase, err := fromNullableDecimal128(d.PurchasePrice)
	if err != nil {
		return nil, fmt.Errorf("product %s: malformed purchase price: %w", d.ID.Hex(), err)
	}
	sale, err := fromNullableDecimal128(d.SalePrice)
	if err != nil {
		return nil, fmt.Errorf("product %s: malformed sale price: %w", d.ID.Hex(), err)
	}
	if len(d.Images) > domain.MaxProductImages {
		return nil, fmt.Errorf("product %s: %w", d.ID.Hex(), domain.ErrTooManyImages)
	}
	return &domain.Product{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Description:   d.Description,
		Brand:         d.Brand,
		Tone:          d.Tone,
		PurchasePrice: purchase,
		SalePrice:     sale,
		Stock:         d.Stock,
		CategoryID:    d.CategoryID,
		Subcategory:   d.Subcategory,
		Images:        d.Images,
		Video:         d.Video,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}

type productRepository struct {
	coll   *mongo.Collection
	logger *zap.Logger
}

// NewProductRepository creates a ProductRepository on the productos collection
func NewProductRepository(s *Store, logger *zap.Logger) repository.ProductRepository {
	return &productRepository{coll: s.db.Collection(productsCollection), logger: logger}
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, domain.NewRepositoryError("list products", err)
	}
	defer cursor.Close(ctx)

	products := []*domain.Product{}
	for cursor.Next(ctx) {
		var doc productDoc
		if err := cursor.Decode(&doc); err != nil {
			r.logger.Warn("Skipping malformed product document", zap.Any("id", cursor.Current.Lookup("_id")), zap.Error(err))
			continue
		}
		product, err := doc.decode()
		if err != nil {
			r.logger.Warn("Skipping malformed product document", zap.String("id", doc.ID.Hex()), zap.Error(err))
			continue
		}
		products = append(products, product)
	}

	if err := cursor.Err(); err != nil {
		return nil, domain.NewRepositoryError("iterate products", err)
	}
	return products, nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := objectID(productsCollection, id)
	if err != nil {
		return nil, err
	}

	var doc productDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &domain.NotFoundError{Collection: productsCollection, ID: id}
		}
		return nil, domain.NewRepositoryError("find product", err)
	}

	product, err := doc.decode()
	if err != nil {
		return nil, domain.NewRepositoryError("decode product", err)
	}
	return product, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	product.CreatedAt = now
	product.UpdatedAt = now

	doc, err := encodeProduct(product)
	if err != nil {
		return domain.NewRepositoryError("encode product", err)
	}
	doc.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return domain.NewRepositoryError("create product", err)
	}
	product.ID = doc.ID.Hex()
	return nil
}

// Update overwrites every field except the creation time
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	oid, err := objectID(productsCollection, product.ID)
	if err != nil {
		return err
	}
	product.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	doc, err := encodeProduct(product)
	if err != nil {
		return domain.NewRepositoryError("encode product", err)
	}

	update := bson.M{"$set": bson.M{
		"nombre":       doc.Name,
		"descripcion":  doc.Description,
		"marca":        doc.Brand,
		"tono":         doc.Tone,
		"precioCompra": doc.PurchasePrice,
		"precioVenta":  doc.SalePrice,
		"stock":        doc.Stock,
		"categoria":    doc.CategoryID,
		"subcategoria": doc.Subcategory,
		"imagenes":     doc.Images,
		"video":        doc.Video,
		"updatedAt":    doc.UpdatedAt,
	}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return domain.NewRepositoryError("update product", err)
	}
	if result.MatchedCount == 0 {
		return &domain.NotFoundError{Collection: productsCollection, ID: product.ID}
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(productsCollection, id)
	if err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewRepositoryError("delete product", err)
	}
	if result.DeletedCount == 0 {
		return &domain.NotFoundError{Collection: productsCollection, ID: id}
	}
	return nil
}

// DecrementStock applies $inc only to numeric stock, so an unknown stock
// stays unknown. A miss is then resolved into NotFound or a no-op.
func (r *productRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	oid, err := objectID(productsCollection, id)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": oid, "stock": bson.M{"$type": "number"}}
	update := bson.M{
		"$inc": bson.M{"stock": -quantity},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return domain.NewRepositoryError("decrement stock", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.NewRepositoryError("decrement stock", err)
	}
	if count == 0 {
		return &domain.NotFoundError{Collection: productsCollection, ID: id}
	}
	return nil
}
