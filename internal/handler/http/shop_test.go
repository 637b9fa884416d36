package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

// ============================================================================
// GET /api/v1/shops
// ============================================================================

func TestListShops_Success(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	shops := []domain.Shop{*sampleShop("owner-001")}
	repos.shops.On("List", mock.Anything, mock.MatchedBy(func(f repository.ShopFilter) bool {
		return f.ActiveOnly && f.Page == 1 && f.PerPage == 20
	})).Return(shops, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	listResp := decodeListResponse(t, rec)
	assert.Equal(t, 1, listResp.TotalCount)
	assert.Equal(t, 1, listResp.TotalPages)
	repos.shops.AssertExpectations(t)
}

func TestListShops_WithFilters(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	shops := []domain.Shop{*sampleShop("owner-001")}
	repos.shops.On("List", mock.Anything, mock.MatchedBy(func(f repository.ShopFilter) bool {
		return f.Query != nil && *f.Query == "coffee" &&
			f.Category != nil && *f.Category == "food" &&
			f.Location != nil && *f.Location == "downtown" &&
			f.Page == 2 && f.PerPage == 10
	})).Return(shops, 11, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops?q=coffee&category=food&location=downtown&page=2&per_page=10", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	listResp := decodeListResponse(t, rec)
	assert.Equal(t, 11, listResp.TotalCount)
	assert.Equal(t, 2, listResp.TotalPages)
	repos.shops.AssertExpectations(t)
}

// ============================================================================
// GET /api/v1/shops/{id}
// ============================================================================

func TestGetShop_Success(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	shop := sampleShop("owner-001")
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/"+shop.ID, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)

	var got domain.Shop
	require.NoError(t, json.Unmarshal(resp.Data, &got))
	assert.Equal(t, "Coffee House", got.Name)
	assert.Equal(t, 4.5, got.Rating)
}

func TestGetShop_NotFound(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	id := "550e8400-e29b-41d4-a716-446655440099"
	repos.shops.On("GetByID", mock.Anything, id).Return(nil, apperrors.ErrNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shops/"+id, nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

// ============================================================================
// POST /api/v1/shops
// ============================================================================

func TestCreateShop_Success(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	repos.shops.On("Create", mock.Anything, mock.MatchedBy(func(s *domain.Shop) bool {
		return s.OwnerID == "owner-001" && s.Name == "Coffee House"
	})).Return(nil)

	body, _ := json.Marshal(CreateShopRequest{
		Name:     "Coffee House",
		Category: "food",
		Location: "downtown",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shops", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "owner-001", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Nil(t, resp.Error)
	repos.shops.AssertExpectations(t)
}

func TestCreateShop_Unauthenticated(t *testing.T) {
	repos := newTestRepos()
	router, _ := newTestRouter(repos)

	body, _ := json.Marshal(CreateShopRequest{
		Name:     "Coffee House",
		Category: "food",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shops", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repos.shops.AssertNotCalled(t, "Create")
}

func TestCreateShop_ValidationError(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	body, _ := json.Marshal(CreateShopRequest{
		// Name and Category intentionally omitted
		Location: "downtown",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shops", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "owner-001", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	repos.shops.AssertNotCalled(t, "Create")
}

// ============================================================================
// PUT /api/v1/shops/{id}
// ============================================================================

func TestUpdateShop_Success(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)
	repos.shops.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Shop) bool {
		return s.Description == "Now with outdoor seating"
	})).Return(nil)

	desc := "Now with outdoor seating"
	body, _ := json.Marshal(UpdateShopRequest{Description: &desc})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/shops/"+shop.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "owner-001", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repos.shops.AssertExpectations(t)
}

func TestUpdateShop_NotOwner(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)

	desc := "hijacked"
	body, _ := json.Marshal(UpdateShopRequest{Description: &desc})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/shops/"+shop.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "someone-else", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
	repos.shops.AssertNotCalled(t, "Update")
}

// ============================================================================
// DELETE /api/v1/shops/{id}
// ============================================================================

func TestDeleteShop_Success(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)
	repos.shops.On("Delete", mock.Anything, shop.ID).Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/shops/"+shop.ID, nil)
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "owner-001", domain.RoleShopOwner))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repos.shops.AssertExpectations(t)
}

func TestDeleteShop_NotOwner(t *testing.T) {
	repos := newTestRepos()
	router, jwtManager := newTestRouter(repos)

	shop := sampleShop("owner-001")
	repos.shops.On("GetByID", mock.Anything, shop.ID).Return(shop, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/shops/"+shop.ID, nil)
	req.Header.Set("Authorization", bearerToken(t, jwtManager, "someone-else", domain.RoleCustomer))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	repos.shops.AssertNotCalled(t, "Delete")
}
