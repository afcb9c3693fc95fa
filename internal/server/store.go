package server

import (
	"context"
	"fmt"

	"coqueta/internal/config"
	"coqueta/internal/database"
	"coqueta/internal/docstore"
	"coqueta/internal/repository"
	"coqueta/migrations"

	"go.uber.org/zap"
)

// Store bundles the repositories of the configured backing database
type Store struct {
	Products      repository.ProductRepository
	Categories    repository.CategoryRepository
	Subcategories repository.SubcategoryRepository
	Sales         repository.SaleRepository
	Tx            repository.Transactor

	health func(ctx context.Context) map[string]string
	close  func(ctx context.Context) error
}

// Health reports whether the backing database answers
func (s *Store) Health(ctx context.Context) map[string]string {
	if s.health == nil {
		return map[string]string{"status": "up"}
	}
	return s.health(ctx)
}

// Close releases the database connections
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStore connects to the database named by cfg.Store.Driver. Postgres
// schemas are migrated before the store is returned.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		return openMongo(ctx, cfg.Mongo, logger)
	case config.StoreDriverPostgres, "":
		return openPostgres(ctx, cfg.Database, logger)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	svc, err := database.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	db := svc.DB()
	if err := database.RunMigrations(db, migrations.FS, logger); err != nil {
		svc.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Postgres store ready", zap.String("host", cfg.Host), zap.String("database", cfg.Database))
	return &Store{
		Products:      repository.NewProductRepository(db, logger),
		Categories:    repository.NewCategoryRepository(db, logger),
		Subcategories: repository.NewSubcategoryRepository(db),
		Sales:         repository.NewSaleRepository(db, logger),
		Tx:            repository.NewTransactor(db),
		health:        svc.Health,
		close:         func(context.Context) error { return svc.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Store, error) {
	s, err := docstore.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tx := s.NewTransactor()
	if !tx.Atomic() {
		logger.Warn("Mongo transactions disabled, sales may be partially applied")
	}

	logger.Info("Mongo store ready", zap.String("database", cfg.Database), zap.Bool("transactions", tx.Atomic()))
	return &Store{
		Products:      docstore.NewProductRepository(s, logger),
		Categories:    docstore.NewCategoryRepository(s, logger),
		Subcategories: docstore.NewSubcategoryRepository(s),
		Sales:         docstore.NewSaleRepository(s, logger),
		Tx:            tx,
		health:        s.Health,
		close:         s.Close,
	}, nil
}
