package repository

import (
	"context"
	"errors"
	"testing"

	"coqueta/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProduct(name string, price int64, stock *int) *domain.Product {
	sale := decimal.New(price, -2)
	return &domain.Product{
		Name:        name,
		Brand:       "Coqueta",
		SalePrice:   &sale,
		Stock:       stock,
		CategoryID:  "cat-labios",
		Subcategory: "Labiales",
		Images:      []string{"https://res.cloudinary.com/demo/image/upload/a.jpg"},
	}
}

func intPtr(i int) *int { return &i }

func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	repo := NewProductRepository(testDB, zap.NewNop())

	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, cents int64, stock int) bool {
			ctx := context.Background()

			product := newTestProduct(name, cents, intPtr(stock))
			if err := repo.Create(ctx, product); err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			if retrieved.Name != product.Name || retrieved.Brand != product.Brand {
				t.Logf("FAIL: text mismatch. Expected %q, got %q", product.Name, retrieved.Name)
				return false
			}
			if !retrieved.SalePrice.Equal(*product.SalePrice) {
				t.Logf("FAIL: Price mismatch. Expected %s, got %s", product.SalePrice, retrieved.SalePrice)
				return false
			}
			if retrieved.PurchasePrice != nil {
				t.Logf("FAIL: absent purchase price came back as %s", retrieved.PurchasePrice)
				return false
			}
			if retrieved.Stock == nil || *retrieved.Stock != stock {
				t.Logf("FAIL: Stock mismatch. Expected %d, got %v", stock, retrieved.Stock)
				return false
			}
			if len(retrieved.Images) != 1 || retrieved.Images[0] != product.Images[0] {
				t.Logf("FAIL: Images mismatch: %v", retrieved.Images)
				return false
			}
			return !retrieved.CreatedAt.IsZero()
		},
		gen.RegexMatch(`[A-Za-z ]{1,40}`),
		gen.Int64Range(0, 1000000),
		gen.IntRange(0, 500),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_DecrementStockIsRelative(t *testing.T) {
	repo := NewProductRepository(testDB, zap.NewNop())

	properties := gopter.NewProperties(nil)

	properties.Property("stock after decrement equals stock minus quantity", prop.ForAll(
		func(stock, quantity int) bool {
			ctx := context.Background()

			product := newTestProduct("Rubor", 4500, intPtr(stock))
			if err := repo.Create(ctx, product); err != nil {
				return false
			}
			if err := repo.DecrementStock(ctx, product.ID, quantity); err != nil {
				t.Logf("FAIL: decrement: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, product.ID)
			if err != nil {
				return false
			}
			return retrieved.Stock != nil && *retrieved.Stock == stock-quantity
		},
		gen.IntRange(0, 20),
		gen.IntRange(1, 30),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestDecrementStock_UnknownStockStaysUnknown(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testDB, zap.NewNop())

	product := newTestProduct("Sombra", 3000, nil)
	require.NoError(t, repo.Create(ctx, product))
	require.NoError(t, repo.DecrementStock(ctx, product.ID, 2))

	retrieved, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, retrieved.Stock)
}

func TestProductRepository_MissingIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testDB, zap.NewNop())

	var nf *domain.NotFoundError

	_, err := repo.FindByID(ctx, "missing")
	assert.True(t, errors.As(err, &nf))

	err = repo.DecrementStock(ctx, "missing", 1)
	assert.True(t, errors.As(err, &nf))

	err = repo.Delete(ctx, "missing")
	assert.True(t, errors.As(err, &nf))

	err = repo.Update(ctx, &domain.Product{ID: "missing", Name: "x"})
	assert.True(t, errors.As(err, &nf))
}

func TestProductRepository_UpdateOverwritesAndKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testDB, zap.NewNop())

	product := newTestProduct("Labial Mate", 2500, intPtr(5))
	require.NoError(t, repo.Create(ctx, product))
	created, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)

	product.Name = "Labial Mate Rojo"
	product.Images = nil
	product.Stock = nil
	require.NoError(t, repo.Update(ctx, product))

	updated, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Labial Mate Rojo", updated.Name)
	assert.Empty(t, updated.Images)
	assert.Nil(t, updated.Stock)
	assert.True(t, created.CreatedAt.Equal(updated.CreatedAt))
}

func TestProductRepository_ListSkipsMalformedDocuments(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewProductRepository(testDB, zap.NewNop())

	good := newTestProduct("Base", 8000, intPtr(3))
	require.NoError(t, repo.Create(ctx, good))

	_, err := testDB.Exec(`
		INSERT INTO products (id, name, images, created_at, updated_at)
		VALUES ('bad', 'Roto', '["a", 1]', NOW(), NOW())
	`)
	require.NoError(t, err)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, good.ID, products[0].ID)

	_, err = repo.FindByID(ctx, "bad")
	var re *domain.RepositoryError
	assert.True(t, errors.As(err, &re))
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(testDB, zap.NewNop())
	tx := NewTransactor(testDB)

	product := newTestProduct("Delineador", 1500, intPtr(10))
	require.NoError(t, repo.Create(ctx, product))

	boom := errors.New("boom")
	err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := repo.DecrementStock(ctx, product.ID, 4); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.True(t, tx.Atomic())

	retrieved, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, *retrieved.Stock)
}

func TestSaleRepository_CreateListFind(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewSaleRepository(testDB, zap.NewNop())

	sale := &domain.Sale{
		Lines: []domain.SaleLine{
			{ProductID: "p1", Name: "Labial", Quantity: 2, UnitPrice: decimal.RequireFromString("25.00")},
			{ProductID: "p2", Name: "Rubor", Quantity: 1, UnitPrice: decimal.RequireFromString("10.50")},
		},
		Total:    decimal.RequireFromString("60.50"),
		Tendered: decimal.RequireFromString("70"),
		Change:   decimal.RequireFromString("9.50"),
	}
	require.NoError(t, repo.Create(ctx, sale))
	assert.NotEmpty(t, sale.ID)

	found, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, found.Total.Equal(sale.Total))
	assert.True(t, found.Change.Equal(sale.Change))
	require.Len(t, found.Lines, 2)
	assert.Equal(t, "Labial", found.Lines[0].Name)

	sales, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)

	_, err = repo.FindByID(ctx, "missing")
	var nf *domain.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestCategoryRepository_CRUD(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	repo := NewCategoryRepository(testDB, zap.NewNop())

	category := &domain.Category{Name: "Labios", Subcategories: []string{"Labiales", "Gloss"}}
	require.NoError(t, repo.Create(ctx, category))

	category.Subcategories = append(category.Subcategories, "Delineadores")
	require.NoError(t, repo.Update(ctx, category))

	found, err := repo.FindByID(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Labiales", "Gloss", "Delineadores"}, found.Subcategories)

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)

	require.NoError(t, repo.Delete(ctx, category.ID))
	_, err = repo.FindByID(ctx, category.ID)
	var nf *domain.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestSubcategoryRepository_List(t *testing.T) {
	resetTables(t)
	_, err := testDB.Exec(`INSERT INTO subcategories (id, name) VALUES ('s2', 'Labiales'), ('s1', 'Bases')`)
	require.NoError(t, err)

	subcategories, err := NewSubcategoryRepository(testDB).List(context.Background())
	require.NoError(t, err)
	require.Len(t, subcategories, 2)
	assert.Equal(t, "Bases", subcategories[0].Name)
}
