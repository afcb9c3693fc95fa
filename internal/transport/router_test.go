package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"coqueta/internal/config"
	"coqueta/internal/domain"
	"coqueta/internal/media"
	"coqueta/internal/messaging"
	"coqueta/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@coqueta.gt"
	adminPassword = "labial-rojo-2024"
)

type testEnv struct {
	router http.Handler
	store  *memStore
	host   *stubHost
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()

	store := newMemStore()
	store.categories["c1"] = &domain.Category{ID: "c1", Name: "Labios", Subcategories: []string{"Labiales", "Gloss"}}
	store.categories["c2"] = &domain.Category{ID: "c2", Name: "Rostro"}
	store.addProduct(&domain.Product{ID: "p1", Name: "Labial rojo", SalePrice: money("25.00"), Stock: units(5), CategoryID: "c1", Subcategory: "Labiales", Images: []string{"https://img/p1.jpg"}})
	store.addProduct(&domain.Product{ID: "p2", Name: "Rubor", SalePrice: money("10.50"), CategoryID: "c2"})
	store.addProduct(&domain.Product{ID: "p3", Name: "Muestra gratis", CategoryID: "c2"})

	products := memProducts{store}
	builder := service.NewCartBuilder(products)
	composer := messaging.NewComposer("+502 3572-4563", "https://coqueta.gt")
	checkout := service.NewCheckoutService(builder, composer)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	auth := service.NewAuthService(
		config.AdminConfig{Email: adminEmail, PasswordHash: string(hash)},
		config.JWTConfig{Secret: "test-secret", AccessExpiry: 60},
	)

	host := &stubHost{}
	relay := media.NewRelay(host, "productos_coqueta", logger)

	r := chi.NewRouter()
	NewCatalogHandler(service.NewCatalogService(products, memCategories{store}, memSubcategories{store}), checkout, logger).RegisterRoutes(r)
	NewCheckoutHandler(checkout, logger).RegisterRoutes(r)
	NewUploadHandler(relay, logger).RegisterRoutes(r)
	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", NewAuthHandler(auth, logger).Login)
		NewAdminHandler(
			service.NewProductService(products, logger),
			service.NewCategoryService(memCategories{store}, logger),
			logger,
		).RegisterRoutes(r)
		NewSaleHandler(builder, service.NewSaleService(memSales{store}, products, directTransactor{}, logger), logger).RegisterRoutes(r)
	})

	return &testEnv{router: r, store: store, host: host}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// errorEnvelope mirrors middleware.ErrorResponse with loosely typed details
type errorEnvelope struct {
	Error struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}
