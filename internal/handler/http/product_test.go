package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

func sampleProduct(shopID string) *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:            "550e8400-e29b-41d4-a716-446655440003",
		ShopID:        shopID,
		Name:          "Espresso Beans 1kg",
		Description:   "Single-origin arabica",
		Price:         24.50,
		Category:      "coffee",
		StockQuantity: 40,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ============================================================================
// POST /api/v1/products
// ============================================================================

func TestCreateProduct_Success(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)
	repos.products.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ShopID == shop.ID && p.Name == "Espresso Beans 1kg" && p.ID != ""
	})).Return(nil)

	body, err := json.Marshal(CreateProductRequest{
		ShopID:        shop.ID,
		Name:          "Espresso Beans 1kg",
		Price:         24.50,
		Category:      "coffee",
		StockQuantity: 40,
		IsAvailable:   true,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "owner-001", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	var created domain.Product
	require.NoError(t, json.Unmarshal(resp.Data, &created))
	assert.Equal(t, shop.ID, created.ShopID)
	assert.Equal(t, "Espresso Beans 1kg", created.Name)
	repos.products.AssertExpectations(t)
}

func TestCreateProduct_NotShopOwner(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)

	body, err := json.Marshal(CreateProductRequest{
		ShopID: shop.ID,
		Name:   "Espresso Beans 1kg",
		Price:  24.50,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "intruder-007", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	repos.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProduct_ValidationError(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	// Missing shop_id and name, negative price.
	body := []byte(`{"price": -5}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "owner-001", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "ShopID")
	assert.Contains(t, resp.Error.Fields, "Name")
	assert.Contains(t, resp.Error.Fields, "Price")
}

func TestCreateProduct_Unauthenticated(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	body := []byte(`{"shop_id": "550e8400-e29b-41d4-a716-446655440001", "name": "Beans", "price": 10}`)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repos.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// ============================================================================
// GET /api/v1/products and /api/v1/shops/{id}/products
// ============================================================================

func TestListProducts_WithFilters(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	products := []domain.Product{*sampleProduct("550e8400-e29b-41d4-a716-446655440001")}
	repos.products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.AvailableOnly &&
			f.Query != nil && *f.Query == "espresso" &&
			f.Category != nil && *f.Category == "coffee" &&
			f.Page == 1 && f.PerPage == 20
	})).Return(products, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?q=espresso&category=coffee", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	listResp := decodeListResponse(t, rec)
	assert.Equal(t, 1, listResp.TotalCount)
	repos.products.AssertExpectations(t)
}

func TestListShopProducts_Success(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	shopID := "550e8400-e29b-41d4-a716-446655440001"
	products := []domain.Product{*sampleProduct(shopID)}
	repos.products.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.ShopID != nil && *f.ShopID == shopID
	})).Return(products, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/"+shopID+"/products", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	listResp := decodeListResponse(t, rec)
	assert.Equal(t, 1, listResp.TotalCount)
	repos.products.AssertExpectations(t)
}

// ============================================================================
// GET /api/v1/products/{id}
// ============================================================================

func TestGetProduct_Success(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	product := sampleProduct("550e8400-e29b-41d4-a716-446655440001")
	repos.products.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	var got ProductResponse
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, product.Name, got.Name)
	assert.InDelta(t, 24.50, got.Price, 0.001)
	assert.True(t, got.IsInStock)
	assert.False(t, got.IsLowStock)
}

func TestGetProduct_LowStockFlags(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	product := sampleProduct("550e8400-e29b-41d4-a716-446655440001")
	product.StockQuantity = 3
	product.LowStockThreshold = 5
	repos.products.On("GetByID", mock.Anything, product.ID).Return(product, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+product.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	var body map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	assert.Equal(t, true, body["is_in_stock"])
	assert.Equal(t, true, body["is_low_stock"])
}

func TestGetProduct_NotFound(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	repos.products.On("GetByID", mock.Anything, "missing-id").Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/missing-id", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// ============================================================================
// PUT /api/v1/products/{id} and DELETE /api/v1/products/{id}
// ============================================================================

func TestUpdateProduct_Success(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	product := sampleProduct(shop.ID)
	repos.products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)
	repos.products.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ID == product.ID && p.Price == 19.99
	})).Return(nil)

	body := []byte(`{"price": 19.99}`)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/products/"+product.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "owner-001", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repos.products.AssertExpectations(t)
}

func TestDeleteProduct_NotOwner(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	product := sampleProduct(shop.ID)
	repos.products.On("GetByID", mock.Anything, product.ID).Return(product, nil)
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/"+product.ID, nil)
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "intruder-007", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repos.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
