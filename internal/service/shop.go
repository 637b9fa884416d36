package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/event"
	"github.com/pratham101201/supermall/internal/repository"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

// assertShopOwner verifies that the caller owns the given shop. Any mutation
// of a shop or its products and offers must pass this check first.
func assertShopOwner(shop *domain.Shop, callerID string) error {
	if shop.OwnerID != callerID {
		return apperrors.NotOwner("shop")
	}
	return nil
}

// ShopService implements the business logic for shop operations.
type ShopService struct {
	repo     repository.ShopRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewShopService creates a new shop service.
func NewShopService(repo repository.ShopRepository, producer *event.Producer, logger *slog.Logger) *ShopService {
	return &ShopService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateShopInput holds the parameters for creating a shop.
type CreateShopInput struct {
	Name        string
	Description string
	Category    string
	Location    string
	Address     string
	Phone       string
	Email       string
	Latitude    *float64
	Longitude   *float64
}

// UpdateShopInput holds the parameters for updating a shop.
type UpdateShopInput struct {
	Name        *string
	Description *string
	Category    *string
	Location    *string
	Address     *string
	Phone       *string
	Email       *string
	Latitude    *float64
	Longitude   *float64
	IsActive    *bool
}

// CreateShop creates a new shop owned by the caller. Any authenticated
// caller may create a shop and becomes its owner.
func (s *ShopService) CreateShop(ctx context.Context, ownerID string, input *CreateShopInput) (*domain.Shop, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("shop name is required")
	}
	if input.Category == "" {
		return nil, apperrors.InvalidInput("shop category is required")
	}

	now := time.Now().UTC()
	shop := &domain.Shop{
		ID:           uuid.New().String(),
		OwnerID:      ownerID,
		Name:         input.Name,
		Description:  input.Description,
		Category:     input.Category,
		Location:     input.Location,
		Address:      input.Address,
		Phone:        input.Phone,
		Email:        input.Email,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Rating:       0,
		TotalReviews: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, shop); err != nil {
		return nil, fmt.Errorf("create shop: %w", err)
	}

	if err := s.producer.PublishShopCreated(ctx, shop); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish shop.created event",
			slog.String("shop_id", shop.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "shop created",
		slog.String("shop_id", shop.ID),
		slog.String("owner_id", shop.OwnerID),
	)

	return shop, nil
}

// GetShop retrieves a shop by its ID.
func (s *ShopService) GetShop(ctx context.Context, id string) (*domain.Shop, error) {
	shop, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shop by id: %w", err)
	}
	return shop, nil
}

// ListShops returns a filtered, paginated list of shops.
func (s *ShopService) ListShops(ctx context.Context, filter repository.ShopFilter) ([]domain.Shop, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	shops, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list shops: %w", err)
	}

	return shops, total, nil
}

// UpdateShop applies partial updates to a shop owned by the caller.
func (s *ShopService) UpdateShop(ctx context.Context, callerID, id string, input *UpdateShopInput) (*domain.Shop, error) {
	shop, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get shop for update: %w", err)
	}

	if err := assertShopOwner(shop, callerID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("shop name must not be empty")
		}
		shop.Name = *input.Name
	}
	if input.Description != nil {
		shop.Description = *input.Description
	}
	if input.Category != nil {
		shop.Category = *input.Category
	}
	if input.Location != nil {
		shop.Location = *input.Location
	}
	if input.Address != nil {
		shop.Address = *input.Address
	}
	if input.Phone != nil {
		shop.Phone = *input.Phone
	}
	if input.Email != nil {
		shop.Email = *input.Email
	}
	if input.Latitude != nil {
		shop.Latitude = input.Latitude
	}
	if input.Longitude != nil {
		shop.Longitude = input.Longitude
	}
	if input.IsActive != nil {
		shop.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, shop); err != nil {
		return nil, fmt.Errorf("update shop: %w", err)
	}

	s.logger.InfoContext(ctx, "shop updated",
		slog.String("shop_id", shop.ID),
	)

	return shop, nil
}

// DeleteShop removes a shop owned by the caller together with its products,
// offers, and reviews.
func (s *ShopService) DeleteShop(ctx context.Context, callerID, id string) error {
	shop, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get shop for delete: %w", err)
	}

	if err := assertShopOwner(shop, callerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}

	if err := s.producer.PublishShopDeleted(ctx, shop); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish shop.deleted event",
			slog.String("shop_id", shop.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "shop deleted",
		slog.String("shop_id", shop.ID),
		slog.String("owner_id", shop.OwnerID),
	)

	return nil
}
