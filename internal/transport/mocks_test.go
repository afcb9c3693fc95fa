package transport

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"coqueta/internal/domain"
	"coqueta/internal/media"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory document store backing every repository the
// handlers reach through their services
type memStore struct {
	mu            sync.Mutex
	products      map[string]*domain.Product
	categories    map[string]*domain.Category
	subcategories []*domain.Subcategory
	sales         []*domain.Sale
	failDecrement string
	nextID        int
}

func newMemStore() *memStore {
	return &memStore{
		products:   make(map[string]*domain.Product),
		categories: make(map[string]*domain.Category),
	}
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *memStore) addProduct(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
}

type memProducts struct{ *memStore }

func (m memProducts) List(ctx context.Context) ([]*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memProducts) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, &domain.NotFoundError{Collection: "productos", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (m memProducts) Create(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product.ID = m.id("prod")
	product.CreatedAt = time.Now().UTC()
	product.UpdatedAt = product.CreatedAt
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m memProducts) Update(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.products[product.ID]
	if !ok {
		return &domain.NotFoundError{Collection: "productos", ID: product.ID}
	}
	product.UpdatedAt = time.Now().UTC()
	cp := *product
	cp.CreatedAt = current.CreatedAt
	m.products[product.ID] = &cp
	return nil
}

func (m memProducts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return &domain.NotFoundError{Collection: "productos", ID: id}
	}
	delete(m.products, id)
	return nil
}

func (m memProducts) DecrementStock(ctx context.Context, id string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == m.failDecrement {
		return &domain.RepositoryError{Op: "decrement stock", Err: errors.New("connection reset")}
	}
	p, ok := m.products[id]
	if !ok {
		return &domain.NotFoundError{Collection: "productos", ID: id}
	}
	if p.Stock != nil {
		n := *p.Stock - quantity
		p.Stock = &n
	}
	return nil
}

type memCategories struct{ *memStore }

func (m memCategories) List(ctx context.Context) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m memCategories) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, &domain.NotFoundError{Collection: "categorias", ID: id}
	}
	return c, nil
}

func (m memCategories) Create(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category.ID = m.id("cat")
	m.categories[category.ID] = category
	return nil
}

func (m memCategories) Update(ctx context.Context, category *domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return &domain.NotFoundError{Collection: "categorias", ID: category.ID}
	}
	m.categories[category.ID] = category
	return nil
}

func (m memCategories) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return &domain.NotFoundError{Collection: "categorias", ID: id}
	}
	delete(m.categories, id)
	return nil
}

type memSubcategories struct{ *memStore }

func (m memSubcategories) List(ctx context.Context) ([]*domain.Subcategory, error) {
	return m.subcategories, nil
}

type memSales struct{ *memStore }

func (m memSales) Create(ctx context.Context, sale *domain.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sale.ID = m.id("venta")
	m.sales = append(m.sales, sale)
	return nil
}

func (m memSales) List(ctx context.Context) ([]*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Sale(nil), m.sales...), nil
}

func (m memSales) FindByID(ctx context.Context, id string) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sales {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, &domain.NotFoundError{Collection: "ventas", ID: id}
}

// directTransactor runs fn without a transaction, like a Mongo deployment
// without replica set sessions
type directTransactor struct{}

func (directTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (directTransactor) Atomic() bool { return false }

type stubHost struct {
	mu      sync.Mutex
	assets  []media.Asset
	failOn  string
	message string
}

func (h *stubHost) Upload(_ context.Context, asset media.Asset) (media.UploadResult, error) {
	h.mu.Lock()
	h.assets = append(h.assets, asset)
	h.mu.Unlock()

	if asset.Filename == h.failOn {
		return media.UploadResult{}, &domain.UploadError{Message: h.message}
	}
	return media.UploadResult{
		SecureURL: fmt.Sprintf("https://res.cloudinary.com/coqueta/%s/upload/%s", asset.ResourceType, asset.Filename),
	}, nil
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func units(n int) *int { return &n }
