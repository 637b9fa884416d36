package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	"github.com/pratham101201/supermall/internal/service"
)

func TestSearch_QueryAcrossShopsAndProducts(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	shop := *sampleShop("owner-001")
	product := domain.Product{
		ID:            "550e8400-e29b-41d4-a716-446655440005",
		ShopID:        shop.ID,
		Name:          "Coffee Mug",
		Price:         12.50,
		StockQuantity: 8,
		IsAvailable:   true,
	}

	repos.shops.On("List", mock.Anything, mock.MatchedBy(func(f repository.ShopFilter) bool {
		return f.ActiveOnly && f.Query != nil && *f.Query == "coffee"
	})).Return([]domain.Shop{shop}, 1, nil)
	repos.products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.AvailableOnly && f.Query != nil && *f.Query == "coffee"
	})).Return([]domain.Product{product}, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=coffee", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	var result SearchResponse
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 1, result.TotalShops)
	assert.Equal(t, 1, result.TotalProducts)
	require.Len(t, result.Shops, 1)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Coffee House", result.Shops[0].Name)
	assert.Equal(t, "Coffee Mug", result.Products[0].Name)
	assert.True(t, result.Products[0].IsInStock)
}

func TestSearch_NoMatches(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	repos.shops.On("List", mock.Anything, mock.Anything).Return([]domain.Shop{}, 0, nil)
	repos.products.On("List", mock.Anything, mock.Anything).Return([]domain.Product{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=zzz", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	var result service.SearchResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, 0, result.TotalShops)
	assert.Equal(t, 0, result.TotalProducts)
	// Empty result sets serialize as [], never null.
	assert.NotNil(t, result.Shops)
	assert.NotNil(t, result.Products)
}
