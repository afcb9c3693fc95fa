package transport

import (
	"net/http"
	"testing"

	"coqueta/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_RegisterProductFromRelayURLs(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/productos", map[string]interface{}{
		"nombre":       "Sombra dorada",
		"marca":        "Coqueta",
		"precioCompra": "12.00",
		"precioVenta":  "35.50",
		"stock":        4,
		"categoria":    "c1",
		"subcategoria": "Gloss",
		"media": []string{
			"https://res.cloudinary.com/coqueta/image/upload/v1/a.jpg",
			"https://res.cloudinary.com/coqueta/video/upload/v1/b.mp4",
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created domain.Product
	decodeBody(t, w, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"https://res.cloudinary.com/coqueta/image/upload/v1/a.jpg"}, created.Images)
	assert.Equal(t, "https://res.cloudinary.com/coqueta/video/upload/v1/b.mp4", created.Video)
	assert.Equal(t, "35.5", created.SalePrice.String())

	w = env.do(t, http.MethodGet, "/api/admin/productos/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminHandler_ProductValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]map[string]interface{}{
		"missing name":    {"precioVenta": "10"},
		"negative stock":  {"nombre": "x", "stock": -1},
		"four images":     {"nombre": "x", "imagenes": []string{"https://a/1", "https://a/2", "https://a/3", "https://a/4"}},
		"negative price":  {"nombre": "x", "precioVenta": "-1"},
		"sub-cent price":  {"nombre": "x", "precioVenta": "9.999"},
		"too much media":  {"nombre": "x", "imagenes": []string{"https://a/image/1", "https://a/image/2"}, "media": []string{"https://a/image/3", "https://a/image/4"}},
		"not a media url": {"nombre": "x", "video": "grabacion"},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/admin/productos", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestAdminHandler_UpdateAndDelete(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPut, "/api/admin/productos/p2", map[string]interface{}{
		"nombre":      "Rubor durazno",
		"precioVenta": "11.00",
		"categoria":   "c2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored, err := memProducts{env.store}.FindByID(t.Context(), "p2")
	require.NoError(t, err)
	assert.Equal(t, "Rubor durazno", stored.Name)

	w = env.do(t, http.MethodPut, "/api/admin/productos/ghost", map[string]interface{}{"nombre": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/productos/p2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodDelete, "/api/admin/productos/p2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandler_UpdateKeepsCreationTime(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/productos", map[string]interface{}{"nombre": "Primer"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created domain.Product
	decodeBody(t, w, &created)
	require.False(t, created.CreatedAt.IsZero())

	w = env.do(t, http.MethodPut, "/api/admin/productos/"+created.ID, map[string]interface{}{
		"nombre":      "Primer matificante",
		"precioVenta": "80.00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated domain.Product
	decodeBody(t, w, &updated)
	assert.Equal(t, "Primer matificante", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "creation time %v, got %v", created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.CreatedAt))
}

func TestAdminHandler_InventoryFiltersByCategoryID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/admin/productos?categoria=c2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var products []domain.Product
	decodeBody(t, w, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "p2", products[0].ID)
	assert.Equal(t, "p3", products[1].ID)

	w = env.do(t, http.MethodGet, "/api/admin/productos?categoria=Rostro", nil)
	decodeBody(t, w, &products)
	assert.Empty(t, products)
}

func TestAdminHandler_Categories(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/admin/categorias", map[string]interface{}{
		"nombre":        "  Ojos ",
		"subcategorias": []string{"Sombras", " Sombras", "", "Delineadores"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created CategoryResponse
	decodeBody(t, w, &created)
	assert.Equal(t, "Ojos", created.Name)
	assert.Equal(t, []string{"Sombras", "Sombras", "Delineadores"}, created.Subcategories)

	w = env.do(t, http.MethodPut, "/api/admin/categorias/"+created.ID, map[string]interface{}{
		"nombre":        "Ojos",
		"subcategorias": []string{"Pestañas"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/categorias/"+created.ID, nil)
	decodeBody(t, w, &created)
	assert.Equal(t, []string{"Pestañas"}, created.Subcategories)

	w = env.do(t, http.MethodPost, "/api/admin/categorias", map[string]interface{}{"nombre": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodDelete, "/api/admin/categorias/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = env.do(t, http.MethodGet, "/api/admin/categorias/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
