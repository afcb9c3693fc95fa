// Package docstore implements the repository interfaces on a MongoDB
// database, using the collection names of the hosted catalog.
package docstore

import (
	"context"
	"fmt"
	"time"

	"coqueta/internal/config"
	"coqueta/internal/domain"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	productsCollection      = "productos"
	categoriesCollection    = "categorias"
	subcategoriesCollection = "subcategorias"
	salesCollection         = "ventas"
)

// Store owns the Mongo client and the database the repositories read
type Store struct {
	client       *mongo.Client
	db           *mongo.Database
	transactions bool
}

// Connect dials MongoDB and verifies the primary answers
func Connect(ctx context.Context, cfg config.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Store{
		client:       client,
		db:           client.Database(cfg.Database),
		transactions: cfg.Transactions,
	}, nil
}

func (s *Store) Database() *mongo.Database { return s.db }

// Health reports whether the primary answers
func (s *Store) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	return map[string]string{"status": "up", "database": s.db.Name()}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// objectID parses a hex id. A malformed id can never match a document.
func objectID(collection, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, &domain.NotFoundError{Collection: collection, ID: id}
	}
	return oid, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

func toNullableDecimal128(d *decimal.Decimal) (*primitive.Decimal128, error) {
	if d == nil {
		return nil, nil
	}
	v, err := toDecimal128(*d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func fromNullableDecimal128(d *primitive.Decimal128) (*decimal.Decimal, error) {
	if d == nil {
		return nil, nil
	}
	v, err := fromDecimal128(*d)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
