package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorefront implements every inbound port.
type MockStorefront struct {
	mock.Mock
}

func (m *MockStorefront) CreateCart(ctx context.Context) (domain.Cart, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockStorefront) AddToCart(
	ctx context.Context, cartID string, line domain.CartLineInput,
) (domain.Cart, error) {
	args := m.Called(ctx, cartID, line)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockStorefront) RemoveFromCart(ctx context.Context, cartID, lineID string) (domain.Cart, error) {
	args := m.Called(ctx, cartID, lineID)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockStorefront) UpdateCart(
	ctx context.Context, cartID string, lines []domain.CartLineUpdate,
) (domain.Cart, error) {
	args := m.Called(ctx, cartID, lines)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockStorefront) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(domain.Cart), args.Error(1)
}

func (m *MockStorefront) GetProduct(ctx context.Context, handle string) (domain.Product, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockStorefront) GetProducts(ctx context.Context, pq domain.ProductQuery) ([]domain.Product, error) {
	args := m.Called(ctx, pq)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) GetProductRecommendations(ctx context.Context, id string) ([]domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) GetCollection(ctx context.Context, handle string) (domain.Collection, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(domain.Collection), args.Error(1)
}

func (m *MockStorefront) GetCollections(ctx context.Context) ([]domain.Collection, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Collection), args.Error(1)
}

func (m *MockStorefront) GetCollectionProducts(
	ctx context.Context, q domain.CollectionProductsQuery,
) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefront) GetPage(ctx context.Context, handle string) (domain.Page, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(domain.Page), args.Error(1)
}

func (m *MockStorefront) GetPages(ctx context.Context) ([]domain.Page, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Page), args.Error(1)
}

func (m *MockStorefront) GetMenu(ctx context.Context, handle string) ([]domain.Menu, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).([]domain.Menu), args.Error(1)
}

func (m *MockStorefront) Revalidate(ctx context.Context, topic, secret string) (bool, error) {
	args := m.Called(ctx, topic, secret)
	return args.Bool(0), args.Error(1)
}

func newMux(m *MockStorefront) http.Handler {
	mux := http.NewServeMux()
	httphandler.RegisterCarts(mux, m)
	httphandler.RegisterCatalog(mux, m)
	httphandler.RegisterContent(mux, m)
	httphandler.RegisterRevalidate(mux, m)
	return httphandler.WithRequestID(httphandler.AllowJSON(mux))
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func testCart() domain.Cart {
	return domain.Cart{
		ID:            "o1",
		CheckoutURL:   "https://cms.example.com/checkout?id=o1",
		TotalQuantity: 1,
		Cost: domain.CartCost{
			TotalAmount: domain.Money{Amount: "12.5", CurrencyCode: "USD"},
		},
		Lines: []domain.CartItem{{
			ID:       "l1",
			Quantity: 1,
			Merchandise: domain.Merchandise{
				ID:    "p1",
				Title: "Default",
				Product: domain.Product{
					ID:     "p1",
					Handle: "p1",
				},
			},
		}},
	}
}

func TestCartsHandler(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("CreateCart", mock.Anything).Return(testCart(), nil)

		rec := serve(newMux(m), http.MethodPost, "/v1/carts", "")
		require.Equal(t, http.StatusCreated, rec.Code)

		var cart httphandler.Cart
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&cart))
		assert.Equal(t, "o1", cart.ID)
		assert.Equal(t, "12.5", cart.Cost.TotalAmount.Amount)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, []string{}, cart.Lines[0].Merchandise.Product.Tags)
	})

	t.Run("GetMissing", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("GetCart", mock.Anything, "o9").Return(domain.Cart{}, domain.ErrNotFound)

		rec := serve(newMux(m), http.MethodGet, "/v1/carts/o9", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("AddLine", func(t *testing.T) {
		m := new(MockStorefront)
		line := domain.CartLineInput{MerchandiseID: "abc:xyz", Quantity: 5}
		m.On("AddToCart", mock.Anything, "o1", line).Return(testCart(), nil)

		rec := serve(newMux(m), http.MethodPost, "/v1/carts/o1/lines",
			`{"merchandiseId": "abc:xyz", "quantity": 5}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		m.AssertExpectations(t)
	})

	t.Run("AddLineBadJSON", func(t *testing.T) {
		m := new(MockStorefront)

		rec := serve(newMux(m), http.MethodPost, "/v1/carts/o1/lines", `{"merchandiseId": `)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		m.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UpdateLines", func(t *testing.T) {
		m := new(MockStorefront)
		lines := []domain.CartLineUpdate{{ID: "l1", MerchandiseID: "p1", Quantity: 3}}
		m.On("UpdateCart", mock.Anything, "o1", lines).Return(testCart(), nil)

		rec := serve(newMux(m), http.MethodPatch, "/v1/carts/o1/lines",
			`[{"id": "l1", "merchandiseId": "p1", "quantity": 3}]`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UpdateInvalid", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("UpdateCart", mock.Anything, "o1", []domain.CartLineUpdate{}).
			Return(domain.Cart{}, domain.ErrInvalidInput)

		rec := serve(newMux(m), http.MethodPatch, "/v1/carts/o1/lines", `[]`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RemoveLine", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("RemoveFromCart", mock.Anything, "o1", "l1").Return(testCart(), nil)

		rec := serve(newMux(m), http.MethodDelete, "/v1/carts/o1/lines/l1", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("UpstreamReportedError", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("RemoveFromCart", mock.Anything, "o1", "l1").
			Return(domain.Cart{}, &domain.UpstreamError{Status: 422, Message: "line is locked"})

		rec := serve(newMux(m), http.MethodDelete, "/v1/carts/o1/lines/l1", "")
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "line is locked")
	})

	t.Run("TransportError", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("CreateCart", mock.Anything).
			Return(domain.Cart{}, &domain.TransportError{Err: errors.New("dial tcp")})

		rec := serve(newMux(m), http.MethodPost, "/v1/carts", "")
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestCatalogHandler(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   domain.ProductQuery
	}{
		{
			name:   "SortSlug",
			target: "/v1/products?q=mug&sort=price-desc",
			want:   domain.ProductQuery{Query: "mug", SortKey: domain.SortPrice, Reverse: true},
		},
		{
			name:   "LatestSlug",
			target: "/v1/products?sort=latest-desc",
			want:   domain.ProductQuery{SortKey: domain.SortCreateDate, Reverse: true},
		},
		{
			name:   "RawSortKey",
			target: "/v1/products?sort=price&reverse=true",
			want:   domain.ProductQuery{SortKey: domain.SortPrice, Reverse: true},
		},
		{
			name:   "NoSort",
			target: "/v1/products",
			want:   domain.ProductQuery{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := new(MockStorefront)
			m.On("GetProducts", mock.Anything, tt.want).Return([]domain.Product{{ID: "p1"}}, nil)

			rec := serve(newMux(m), http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, rec.Code)

			var ps []httphandler.Product
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&ps))
			require.Len(t, ps, 1)
			assert.Equal(t, "p1", ps[0].ID)
		})
	}

	t.Run("InvalidReverse", func(t *testing.T) {
		m := new(MockStorefront)

		rec := serve(newMux(m), http.MethodGet, "/v1/products?reverse=maybe", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Product", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("GetProduct", mock.Anything, "mug").Return(domain.Product{ID: "p1", Handle: "mug"}, nil)

		rec := serve(newMux(m), http.MethodGet, "/v1/products/mug", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"handle":"mug"`)
	})

	t.Run("Recommendations", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("GetProductRecommendations", mock.Anything, "p1").Return([]domain.Product{}, nil)

		rec := serve(newMux(m), http.MethodGet, "/v1/products/p1/recommendations", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("Collections", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("GetCollections", mock.Anything).Return([]domain.Collection{
			{Handle: "", Title: "All", Path: "/search"},
			{Handle: "summer", Title: "Summer", Path: "/search/summer"},
		}, nil)

		rec := serve(newMux(m), http.MethodGet, "/v1/collections", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var cs []httphandler.Collection
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&cs))
		require.Len(t, cs, 2)
		assert.Equal(t, "/search", cs[0].Path)
	})

	t.Run("CollectionProducts", func(t *testing.T) {
		m := new(MockStorefront)
		q := domain.CollectionProductsQuery{Collection: "summer", SortKey: domain.SortPrice}
		m.On("GetCollectionProducts", mock.Anything, q).Return([]domain.Product{}, nil)

		rec := serve(newMux(m), http.MethodGet, "/v1/collections/summer/products?sort=price-asc", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		m.AssertExpectations(t)
	})
}

func TestContentHandler(t *testing.T) {
	t.Run("Menu", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("GetMenu", mock.Anything, "next-js-frontend-header-menu").
			Return([]domain.Menu{{Title: "About", Path: "/about"}}, nil)

		rec := serve(newMux(m), http.MethodGet, "/v1/menus/next-js-frontend-header-menu", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"title": "About", "path": "/about"}]`, rec.Body.String())
	})

	t.Run("PageMissing", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("GetPage", mock.Anything, "gone").Return(domain.Page{}, domain.ErrNotFound)

		rec := serve(newMux(m), http.MethodGet, "/v1/pages/gone", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Pages", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("GetPages", mock.Anything).Return([]domain.Page{{ID: "pg", Handle: "about"}}, nil)

		rec := serve(newMux(m), http.MethodGet, "/v1/pages", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var ps []httphandler.Page
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&ps))
		assert.Equal(t, "about", ps[0].Handle)
	})
}

func TestRevalidateHandler(t *testing.T) {
	post := func(h http.Handler, topic, secret string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/revalidate?secret="+secret, nil)
		req.Header.Set("x-topic", topic)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	t.Run("Revalidated", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("Revalidate", mock.Anything, "products/update", "s3cret").Return(true, nil)

		rec := post(newMux(m), "products/update", "s3cret")
		require.Equal(t, http.StatusOK, rec.Code)

		var res httphandler.RevalidateResult
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
		assert.Equal(t, http.StatusOK, res.Status)
		assert.True(t, res.Revalidated)
		assert.Positive(t, res.Now)
	})

	t.Run("WrongSecretStillOK", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("Revalidate", mock.Anything, "products/update", "nope").Return(false, nil)

		rec := post(newMux(m), "products/update", "nope")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status": 200}`, rec.Body.String())
	})

	t.Run("PublishFailure", func(t *testing.T) {
		m := new(MockStorefront)
		m.On("Revalidate", mock.Anything, "collections/create", "s3cret").
			Return(false, errors.New("broker down"))

		rec := post(newMux(m), "collections/create", "s3cret")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
