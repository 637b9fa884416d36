package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo     repository.ProductRepository
	shopRepo repository.ShopRepository
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, shopRepo repository.ShopRepository, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		shopRepo: shopRepo,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	ShopID            string
	Name              string
	Description       string
	Price             float64
	Category          string
	Subcategory       string
	StockQuantity     int
	LowStockThreshold int
	IsAvailable       bool
	IsFeatured        bool
}

// UpdateProductInput holds the parameters for updating a product.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	Price             *float64
	Category          *string
	Subcategory       *string
	StockQuantity     *int
	LowStockThreshold *int
	IsAvailable       *bool
	IsFeatured        *bool
}

// CreateProduct creates a new product under a shop owned by the caller.
func (s *ProductService) CreateProduct(ctx context.Context, callerID string, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("product price must not be negative")
	}
	if input.StockQuantity < 0 {
		return nil, apperrors.InvalidInput("stock quantity must not be negative")
	}

	shop, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, fmt.Errorf("get shop for product create: %w", err)
	}
	if err := assertShopOwner(shop, callerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:                uuid.New().String(),
		ShopID:            input.ShopID,
		Name:              input.Name,
		Description:       input.Description,
		Price:             input.Price,
		Category:          input.Category,
		Subcategory:       input.Subcategory,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: input.LowStockThreshold,
		IsAvailable:       input.IsAvailable,
		IsFeatured:        input.IsFeatured,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("shop_id", product.ShopID),
	)

	return product, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// ListProducts returns a filtered, paginated list of products.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// UpdateProduct applies partial updates to a product under a shop owned by the caller.
func (s *ProductService) UpdateProduct(ctx context.Context, callerID, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	shop, err := s.shopRepo.GetByID(ctx, product.ShopID)
	if err != nil {
		return nil, fmt.Errorf("get shop for product update: %w", err)
	}
	if err := assertShopOwner(shop, callerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("product price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Subcategory != nil {
		product.Subcategory = *input.Subcategory
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, apperrors.InvalidInput("stock quantity must not be negative")
		}
		product.StockQuantity = *input.StockQuantity
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// DeleteProduct removes a product under a shop owned by the caller.
func (s *ProductService) DeleteProduct(ctx context.Context, callerID, id string) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	shop, err := s.shopRepo.GetByID(ctx, product.ShopID)
	if err != nil {
		return fmt.Errorf("get shop for product delete: %w", err)
	}
	if err := assertShopOwner(shop, callerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
		slog.String("shop_id", product.ShopID),
	)

	return nil
}
