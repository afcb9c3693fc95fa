package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"coqueta/internal/domain"

	"github.com/shopspring/decimal"
)

// Mock repositories for testing

type mockProductRepository struct {
	mu         sync.Mutex
	products   map[string]*domain.Product
	order      []string
	decrements []string
	failOn     string
	nextID     int
	listErr    error
}

func newMockProductRepository(products ...*domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[string]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return m
}

func (m *mockProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.Product, 0, len(m.order))
	for _, id := range m.order {
		cp := *m.products[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Collection: "productos", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	product.ID = fmt.Sprintf("gen-%d", m.nextID)
	product.CreatedAt = time.Now().UTC()
	cp := *product
	m.products[product.ID] = &cp
	m.order = append(m.order, product.ID)
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.products[product.ID]
	if !ok {
		return &domain.NotFoundError{Collection: "productos", ID: product.ID}
	}
	cp := *product
	cp.CreatedAt = current.CreatedAt
	m.products[product.ID] = &cp
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return &domain.NotFoundError{Collection: "productos", ID: id}
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == m.failOn {
		return &domain.RepositoryError{Op: "decrement stock", Err: errors.New("network error")}
	}
	p, ok := m.products[id]
	if !ok {
		return &domain.NotFoundError{Collection: "productos", ID: id}
	}
	if p.Stock != nil {
		stock := *p.Stock - quantity
		p.Stock = &stock
	}
	m.decrements = append(m.decrements, id)
	return nil
}

func (m *mockProductRepository) stock(id string) *int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[id].Stock
}

type mockCategoryRepository struct {
	categories []*domain.Category
	nextID     int
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, &domain.NotFoundError{Collection: "categorias", ID: id}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.nextID++
	category.ID = fmt.Sprintf("cat-%d", m.nextID)
	m.categories = append(m.categories, category)
	return nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	for i, c := range m.categories {
		if c.ID == category.ID {
			m.categories[i] = category
			return nil
		}
	}
	return &domain.NotFoundError{Collection: "categorias", ID: category.ID}
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	for i, c := range m.categories {
		if c.ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return &domain.NotFoundError{Collection: "categorias", ID: id}
}

type mockSubcategoryRepository struct {
	subcategories []*domain.Subcategory
}

func (m *mockSubcategoryRepository) List(ctx context.Context) ([]*domain.Subcategory, error) {
	return m.subcategories, nil
}

type mockSaleRepository struct {
	sales     []*domain.Sale
	createErr error
}

func (m *mockSaleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	if m.createErr != nil {
		return m.createErr
	}
	sale.ID = fmt.Sprintf("venta-%d", len(m.sales)+1)
	m.sales = append(m.sales, sale)
	return nil
}

func (m *mockSaleRepository) List(ctx context.Context) ([]*domain.Sale, error) {
	return m.sales, nil
}

func (m *mockSaleRepository) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	for _, s := range m.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, &domain.NotFoundError{Collection: "ventas", ID: id}
}

// mockTransactor runs fn directly; atomic only changes what it reports
type mockTransactor struct {
	atomic bool
}

func (t mockTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (t mockTransactor) Atomic() bool { return t.atomic }

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func stock(n int) *int { return &n }
