package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

func testProduct(shopID string) *domain.Product {
	now := time.Now().UTC()
	return &domain.Product{
		ID:                "product-001",
		ShopID:            shopID,
		Name:              "Espresso Beans 1kg",
		Description:       "Dark roast arabica",
		Price:             24.50,
		Category:          "food",
		StockQuantity:     40,
		LowStockThreshold: 5,
		IsAvailable:       true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestProductService_CreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	shopRepo.On("GetByID", mock.Anything, "shop-001").Return(testShop("owner-001"), nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.ShopID == "shop-001" && p.Name == "Espresso Beans 1kg" && p.ID != ""
	})).Return(nil)

	product, err := svc.CreateProduct(context.Background(), "owner-001", &CreateProductInput{
		ShopID:        "shop-001",
		Name:          "Espresso Beans 1kg",
		Price:         24.50,
		Category:      "food",
		StockQuantity: 40,
		IsAvailable:   true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, product.ID)
	repo.AssertExpectations(t)
}

func TestProductService_CreateProduct_NotShopOwner(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	shopRepo.On("GetByID", mock.Anything, "shop-001").Return(testShop("owner-001"), nil)

	_, err := svc.CreateProduct(context.Background(), "someone-else", &CreateProductInput{
		ShopID: "shop-001",
		Name:   "Espresso Beans 1kg",
		Price:  24.50,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Create")
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	_, err := svc.CreateProduct(context.Background(), "owner-001", &CreateProductInput{
		ShopID: "shop-001",
		Price:  24.50,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), "owner-001", &CreateProductInput{
		ShopID: "shop-001",
		Name:   "Espresso Beans 1kg",
		Price:  -1,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.CreateProduct(context.Background(), "owner-001", &CreateProductInput{
		ShopID:        "shop-001",
		Name:          "Espresso Beans 1kg",
		Price:         24.50,
		StockQuantity: -3,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	shopRepo.AssertNotCalled(t, "GetByID")
}

func TestProductService_CreateProduct_ShopNotFound(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	shopRepo.On("GetByID", mock.Anything, "missing-shop").Return(nil, apperrors.ErrNotFound)

	_, err := svc.CreateProduct(context.Background(), "owner-001", &CreateProductInput{
		ShopID: "missing-shop",
		Name:   "Espresso Beans 1kg",
		Price:  24.50,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductService_UpdateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	repo.On("GetByID", mock.Anything, "product-001").Return(testProduct("shop-001"), nil)
	shopRepo.On("GetByID", mock.Anything, "shop-001").Return(testShop("owner-001"), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Price == 19.99 && p.StockQuantity == 12 && p.Name == "Espresso Beans 1kg"
	})).Return(nil)

	product, err := svc.UpdateProduct(context.Background(), "owner-001", "product-001", &UpdateProductInput{
		Price:         floatPtr(19.99),
		StockQuantity: intPtr(12),
	})
	require.NoError(t, err)
	assert.Equal(t, 19.99, product.Price)
	repo.AssertExpectations(t)
}

func TestProductService_UpdateProduct_NotShopOwner(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	repo.On("GetByID", mock.Anything, "product-001").Return(testProduct("shop-001"), nil)
	shopRepo.On("GetByID", mock.Anything, "shop-001").Return(testShop("owner-001"), nil)

	_, err := svc.UpdateProduct(context.Background(), "someone-else", "product-001", &UpdateProductInput{
		Price: floatPtr(19.99),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Update")
}

func TestProductService_UpdateProduct_NegativePrice(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	repo.On("GetByID", mock.Anything, "product-001").Return(testProduct("shop-001"), nil)
	shopRepo.On("GetByID", mock.Anything, "shop-001").Return(testShop("owner-001"), nil)

	_, err := svc.UpdateProduct(context.Background(), "owner-001", "product-001", &UpdateProductInput{
		Price: floatPtr(-0.01),
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update")
}

func TestProductService_DeleteProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	repo.On("GetByID", mock.Anything, "product-001").Return(testProduct("shop-001"), nil)
	shopRepo.On("GetByID", mock.Anything, "shop-001").Return(testShop("owner-001"), nil)
	repo.On("Delete", mock.Anything, "product-001").Return(nil)

	err := svc.DeleteProduct(context.Background(), "owner-001", "product-001")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestProductService_DeleteProduct_NotShopOwner(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	repo.On("GetByID", mock.Anything, "product-001").Return(testProduct("shop-001"), nil)
	shopRepo.On("GetByID", mock.Anything, "shop-001").Return(testShop("owner-001"), nil)

	err := svc.DeleteProduct(context.Background(), "someone-else", "product-001")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Delete")
}

func TestProductService_ListProducts_FilterPassthrough(t *testing.T) {
	repo := new(mockProductRepository)
	shopRepo := new(mockShopRepository)
	svc := NewProductService(repo, shopRepo, newTestLogger())

	repo.On("List", mock.Anything, mock.MatchedBy(func(f repository.ProductFilter) bool {
		return f.AvailableOnly && f.ShopID != nil && *f.ShopID == "shop-001" && f.Page == 1 && f.PerPage == 20
	})).Return([]domain.Product{*testProduct("shop-001")}, 1, nil)

	products, total, err := svc.ListProducts(context.Background(), repository.ProductFilter{
		AvailableOnly: true,
		ShopID:        strPtr("shop-001"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, products, 1)
}
