package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/go-storefront/internal/domain"
	"github.com/DRSN-tech/go-storefront/internal/usecase"
	"github.com/DRSN-tech/go-storefront/pkg/e"
	"github.com/DRSN-tech/go-storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	products []usecase.ProductView
	selected string
	err      error
}

func (s *stubCatalog) Products(context.Context) (*usecase.ProductsRes, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.ProductsRes{Products: s.products, CurrentCategory: s.selected}, nil
}

func (s *stubCatalog) Product(_ context.Context, id string) (*usecase.ProductView, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, e.Wrap(id, e.ErrProductNotFound)
}

func (s *stubCatalog) Categories(context.Context) (*usecase.CategoriesRes, error) {
	return &usecase.CategoriesRes{
		Categories:      []domain.Category{{ID: "c1", Name: "Food"}},
		CurrentCategory: s.selected,
	}, nil
}

func (s *stubCatalog) SelectCategory(_ context.Context, id string) error {
	s.selected = id
	return nil
}

func (s *stubCatalog) Status() usecase.SyncStatus {
	return usecase.SyncStatus{
		Products:   usecase.LoadStateHydrated,
		Categories: usecase.LoadStateEmpty,
		Cart:       usecase.LoadStateLoading,
	}
}

type stubCart struct {
	lastID  string
	lastQty int
}

func (s *stubCart) res() *usecase.CartRes {
	return &usecase.CartRes{
		Lines: []domain.CartLine{
			{ID: "p1", Name: "Tin of Cookies", Price: decimal.RequireFromString("2.99"), PurchaseQuantity: 2},
		},
		Total:      decimal.RequireFromString("5.98"),
		ItemsCount: 2,
		Open:       true,
	}
}

func (s *stubCart) Cart(context.Context) (*usecase.CartRes, error) { return s.res(), nil }

func (s *stubCart) AddProduct(_ context.Context, id string) (*usecase.CartRes, error) {
	if id == "missing" {
		return nil, e.Wrap(id, e.ErrProductNotFound)
	}
	s.lastID = id
	return s.res(), nil
}

func (s *stubCart) SetQuantity(_ context.Context, id string, qty int) (*usecase.CartRes, error) {
	if qty < 0 {
		return nil, e.ErrInvalidQuantity
	}
	s.lastID, s.lastQty = id, qty
	return s.res(), nil
}

func (s *stubCart) Remove(_ context.Context, id string) (*usecase.CartRes, error) {
	s.lastID = id
	return s.res(), nil
}

func (s *stubCart) Toggle(context.Context) (*usecase.CartRes, error) { return s.res(), nil }

func newTestRouter(catalog *stubCatalog, cart *stubCart) http.Handler {
	mux := chi.NewRouter()
	NewRouter(mux, logger.NewNopLogger()).Init(catalog, cart)
	return mux
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// ---------- catalog ----------

func TestGetProducts(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{products: []usecase.ProductView{{
		Product: domain.Product{
			ID:       "p1",
			Name:     "Tin of Cookies",
			Price:    decimal.RequireFromString("2.99"),
			Category: domain.CategoryRef{ID: "c1"},
		},
		ImageURL: "https://cdn.local/cookie-tin.jpg",
	}}}
	h := newTestRouter(catalog, &stubCart{})

	rec := do(t, h, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[ProductsResponse](t, rec)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "2.99", res.Products[0].Price)
	assert.Equal(t, "https://cdn.local/cookie-tin.jpg", res.Products[0].Image)
	assert.Equal(t, "c1", res.Products[0].CategoryID)
}

func TestGetProducts_InternalError(t *testing.T) {
	t.Parallel()

	h := newTestRouter(&stubCatalog{err: e.ErrCacheUnavailable}, &stubCart{})

	rec := do(t, h, http.MethodGet, "/api/v1/products", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, e.ErrInternalServerError.Error(), decode[ErrorResponse](t, rec).Message)
}

func TestGetProduct_NotFound(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(&stubCatalog{}, &stubCart{}), http.MethodGet, "/api/v1/products/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelectCategory(t *testing.T) {
	t.Parallel()

	catalog := &stubCatalog{}
	h := newTestRouter(catalog, &stubCart{})

	rec := do(t, h, http.MethodPut, "/api/v1/categories/current", `{"id":"c1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c1", decode[CategoriesResponse](t, rec).CurrentCategory)

	rec = do(t, h, http.MethodPut, "/api/v1/categories/current", `{"id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncStatus(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(&stubCatalog{}, &stubCart{}), http.MethodGet, "/api/v1/sync/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SyncStatusResponse{Products: "HYDRATED", Categories: "EMPTY", Cart: "LOADING"},
		decode[SyncStatusResponse](t, rec))
}

// ---------- cart ----------

func TestGetCart(t *testing.T) {
	t.Parallel()

	rec := do(t, newTestRouter(&stubCatalog{}, &stubCart{}), http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusOK, rec.Code)

	res := decode[CartResponse](t, rec)
	assert.Equal(t, "5.98", res.Total)
	assert.Equal(t, 2, res.ItemsCount)
	assert.True(t, res.Open)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 2, res.Items[0].PurchaseQuantity)
}

func TestAddItem(t *testing.T) {
	t.Parallel()

	cart := &stubCart{}
	h := newTestRouter(&stubCatalog{}, cart)

	rec := do(t, h, http.MethodPost, "/api/v1/cart/items", `{"product_id":"p1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", cart.lastID)

	rec = do(t, h, http.MethodPost, "/api/v1/cart/items", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/cart/items", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/cart/items", `{"product_id":"missing"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateItem(t *testing.T) {
	t.Parallel()

	cart := &stubCart{}
	h := newTestRouter(&stubCatalog{}, cart)

	rec := do(t, h, http.MethodPatch, "/api/v1/cart/items/p1", `{"purchase_quantity":0}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", cart.lastID)
	assert.Equal(t, 0, cart.lastQty)

	rec = do(t, h, http.MethodPatch, "/api/v1/cart/items/p1", `{"purchase_quantity":-2}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/v1/cart/items/p1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveItemAndToggle(t *testing.T) {
	t.Parallel()

	cart := &stubCart{}
	h := newTestRouter(&stubCatalog{}, cart)

	rec := do(t, h, http.MethodDelete, "/api/v1/cart/items/p9", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p9", cart.lastID)

	rec = do(t, h, http.MethodPost, "/api/v1/cart/toggle", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
