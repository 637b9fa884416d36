package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/event"
	"github.com/pratham101201/supermall/internal/repository"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

// OfferCache caches a shop's active offer list. Mutations to a shop's
// offers invalidate the cached entry.
type OfferCache interface {
	Get(ctx context.Context, shopID string) ([]domain.Offer, error)
	Set(ctx context.Context, shopID string, offers []domain.Offer) error
	Invalidate(ctx context.Context, shopID string) error
}

// OfferService implements the business logic for offer operations.
type OfferService struct {
	repo     repository.OfferRepository
	shopRepo repository.ShopRepository
	cache    OfferCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewOfferService creates a new offer service.
func NewOfferService(repo repository.OfferRepository, shopRepo repository.ShopRepository, cache OfferCache, producer *event.Producer, logger *slog.Logger) *OfferService {
	return &OfferService{
		repo:     repo,
		shopRepo: shopRepo,
		cache:    cache,
		producer: producer,
		logger:   logger,
	}
}

// CreateOfferInput holds the parameters for creating an offer.
type CreateOfferInput struct {
	ShopID             string
	ProductID          *string
	Title              string
	Description        string
	OfferType          string
	DiscountPercentage *float64
	DiscountAmount     *float64
	MinimumOrderValue  *float64
	MaximumDiscount    *float64
	StartDate          time.Time
	EndDate            time.Time
	UsageLimit         *int
}

// UpdateOfferInput holds the parameters for updating an offer.
type UpdateOfferInput struct {
	Title              *string
	Description        *string
	OfferType          *string
	DiscountPercentage *float64
	DiscountAmount     *float64
	MinimumOrderValue  *float64
	MaximumDiscount    *float64
	StartDate          *time.Time
	EndDate            *time.Time
	UsageLimit         *int
	IsActive           *bool
}

// OfferEvaluation holds the derived validity fields of an offer at an instant.
type OfferEvaluation struct {
	IsValid       bool `json:"is_valid"`
	DaysRemaining int  `json:"days_remaining"`
}

// CreateOffer creates a new offer under a shop owned by the caller.
func (s *OfferService) CreateOffer(ctx context.Context, callerID string, input *CreateOfferInput) (*domain.Offer, error) {
	if input.Title == "" {
		return nil, apperrors.InvalidInput("offer title is required")
	}
	if !domain.IsValidOfferType(input.OfferType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid offer type %q, must be one of: %s", input.OfferType, strings.Join(domain.ValidOfferTypes(), ", ")))
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.InvalidInput("end date must be after start date")
	}
	if input.DiscountPercentage != nil && (*input.DiscountPercentage < 0 || *input.DiscountPercentage > 100) {
		return nil, apperrors.InvalidInput("discount percentage must be between 0 and 100")
	}
	if input.DiscountAmount != nil && *input.DiscountAmount < 0 {
		return nil, apperrors.InvalidInput("discount amount must not be negative")
	}

	shop, err := s.shopRepo.GetByID(ctx, input.ShopID)
	if err != nil {
		return nil, fmt.Errorf("get shop for offer create: %w", err)
	}
	if err := assertShopOwner(shop, callerID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	offer := &domain.Offer{
		ID:                 uuid.New().String(),
		ShopID:             input.ShopID,
		ProductID:          input.ProductID,
		Title:              input.Title,
		Description:        input.Description,
		OfferType:          input.OfferType,
		DiscountPercentage: input.DiscountPercentage,
		DiscountAmount:     input.DiscountAmount,
		MinimumOrderValue:  input.MinimumOrderValue,
		MaximumDiscount:    input.MaximumDiscount,
		StartDate:          input.StartDate,
		EndDate:            input.EndDate,
		UsageLimit:         input.UsageLimit,
		UsedCount:          0,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	s.invalidateCache(ctx, offer.ShopID)

	if err := s.producer.PublishOfferCreated(ctx, offer); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish offer.created event",
			slog.String("offer_id", offer.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "offer created",
		slog.String("offer_id", offer.ID),
		slog.String("shop_id", offer.ShopID),
	)

	return offer, nil
}

// GetOffer retrieves an offer by its ID.
func (s *OfferService) GetOffer(ctx context.Context, id string) (*domain.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer by id: %w", err)
	}
	return offer, nil
}

// ListOffers returns a filtered, paginated list of offers.
func (s *OfferService) ListOffers(ctx context.Context, filter repository.OfferFilter) ([]domain.Offer, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	offers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}

	return offers, total, nil
}

// ListValidOffers returns the offers of a shop that are valid right now.
// The shop's active offer list is served read-through from the cache;
// temporal validity is always evaluated against the current instant.
func (s *OfferService) ListValidOffers(ctx context.Context, shopID string) ([]domain.Offer, error) {
	offers, err := s.cache.Get(ctx, shopID)
	if err != nil {
		offers, _, err = s.repo.List(ctx, repository.OfferFilter{
			ActiveOnly: true,
			ShopID:     &shopID,
			PerPage:    100,
		})
		if err != nil {
			return nil, fmt.Errorf("list active offers: %w", err)
		}

		if err := s.cache.Set(ctx, shopID, offers); err != nil {
			s.logger.WarnContext(ctx, "failed to cache active offers",
				slog.String("shop_id", shopID),
				slog.String("error", err.Error()),
			)
		}
	}

	now := time.Now().UTC()
	valid := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if o.IsValid(now) {
			valid = append(valid, o)
		}
	}

	return valid, nil
}

// UpdateOffer applies partial updates to an offer under a shop owned by the caller.
func (s *OfferService) UpdateOffer(ctx context.Context, callerID, id string, input *UpdateOfferInput) (*domain.Offer, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer for update: %w", err)
	}

	shop, err := s.shopRepo.GetByID(ctx, offer.ShopID)
	if err != nil {
		return nil, fmt.Errorf("get shop for offer update: %w", err)
	}
	if err := assertShopOwner(shop, callerID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, apperrors.InvalidInput("offer title must not be empty")
		}
		offer.Title = *input.Title
	}
	if input.Description != nil {
		offer.Description = *input.Description
	}
	if input.OfferType != nil {
		if !domain.IsValidOfferType(*input.OfferType) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid offer type %q, must be one of: %s", *input.OfferType, strings.Join(domain.ValidOfferTypes(), ", ")))
		}
		offer.OfferType = *input.OfferType
	}
	if input.DiscountPercentage != nil {
		if *input.DiscountPercentage < 0 || *input.DiscountPercentage > 100 {
			return nil, apperrors.InvalidInput("discount percentage must be between 0 and 100")
		}
		offer.DiscountPercentage = input.DiscountPercentage
	}
	if input.DiscountAmount != nil {
		if *input.DiscountAmount < 0 {
			return nil, apperrors.InvalidInput("discount amount must not be negative")
		}
		offer.DiscountAmount = input.DiscountAmount
	}
	if input.MinimumOrderValue != nil {
		offer.MinimumOrderValue = input.MinimumOrderValue
	}
	if input.MaximumDiscount != nil {
		offer.MaximumDiscount = input.MaximumDiscount
	}
	if input.StartDate != nil {
		offer.StartDate = *input.StartDate
	}
	if input.EndDate != nil {
		offer.EndDate = *input.EndDate
	}
	if input.UsageLimit != nil {
		offer.UsageLimit = input.UsageLimit
	}
	if input.IsActive != nil {
		offer.IsActive = *input.IsActive
	}

	if !offer.EndDate.After(offer.StartDate) {
		return nil, apperrors.InvalidInput("end date must be after start date")
	}

	if err := s.repo.Update(ctx, offer); err != nil {
		return nil, fmt.Errorf("update offer: %w", err)
	}

	s.invalidateCache(ctx, offer.ShopID)

	s.logger.InfoContext(ctx, "offer updated",
		slog.String("offer_id", offer.ID),
	)

	return offer, nil
}

// DeleteOffer removes an offer under a shop owned by the caller.
func (s *OfferService) DeleteOffer(ctx context.Context, callerID, id string) error {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get offer for delete: %w", err)
	}

	shop, err := s.shopRepo.GetByID(ctx, offer.ShopID)
	if err != nil {
		return fmt.Errorf("get shop for offer delete: %w", err)
	}
	if err := assertShopOwner(shop, callerID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	s.invalidateCache(ctx, offer.ShopID)

	s.logger.InfoContext(ctx, "offer deleted",
		slog.String("offer_id", id),
		slog.String("shop_id", offer.ShopID),
	)

	return nil
}

// EvaluateOffer returns the derived validity fields of an offer at the
// current instant.
func (s *OfferService) EvaluateOffer(ctx context.Context, id string) (*OfferEvaluation, error) {
	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer for evaluate: %w", err)
	}

	now := time.Now().UTC()
	return &OfferEvaluation{
		IsValid:       offer.IsValid(now),
		DaysRemaining: offer.DaysRemaining(now),
	}, nil
}

// CalculateDiscount computes the discount an offer grants for the given
// order value. It is read-only and never consumes the offer's usage limit.
func (s *OfferService) CalculateDiscount(ctx context.Context, id string, orderValue float64) (float64, error) {
	if orderValue < 0 {
		return 0, apperrors.InvalidInput("order value must not be negative")
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get offer for discount: %w", err)
	}

	return offer.CalculateDiscount(orderValue, time.Now().UTC()), nil
}

// RedeemOffer applies an offer to an order: it computes the discount,
// consumes one use of the offer's usage limit, and publishes a redemption
// event. An offer that grants no discount for the order cannot be redeemed.
func (s *OfferService) RedeemOffer(ctx context.Context, userID, id string, orderValue float64) (float64, error) {
	if orderValue < 0 {
		return 0, apperrors.InvalidInput("order value must not be negative")
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get offer for redeem: %w", err)
	}

	now := time.Now().UTC()
	if !offer.IsValid(now) {
		return 0, apperrors.InvalidInput("offer is not valid")
	}

	discount := offer.CalculateDiscount(orderValue, now)
	if discount <= 0 {
		return 0, apperrors.InvalidInput("offer grants no discount for this order")
	}

	if err := s.repo.IncrementUsage(ctx, id); err != nil {
		return 0, fmt.Errorf("increment offer usage: %w", err)
	}

	s.invalidateCache(ctx, offer.ShopID)

	if err := s.producer.PublishOfferRedeemed(ctx, offer, userID, orderValue, discount); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish offer.redeemed event",
			slog.String("offer_id", offer.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "offer redeemed",
		slog.String("offer_id", offer.ID),
		slog.String("user_id", userID),
		slog.Float64("discount", discount),
	)

	return discount, nil
}

func (s *OfferService) invalidateCache(ctx context.Context, shopID string) {
	if err := s.cache.Invalidate(ctx, shopID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate offer cache",
			slog.String("shop_id", shopID),
			slog.String("error", err.Error()),
		)
	}
}
