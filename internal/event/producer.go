package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pratham101201/supermall/internal/domain"
	pkgkafka "github.com/pratham101201/supermall/pkg/kafka"
)

// Kafka topic constants for marketplace domain events.
const (
	TopicUserRegistered = "supermall.user.registered"
	TopicShopCreated    = "supermall.shop.created"
	TopicShopDeleted    = "supermall.shop.deleted"
	TopicOfferCreated   = "supermall.offer.created"
	TopicOfferRedeemed  = "supermall.offer.redeemed"
	TopicReviewCreated  = "supermall.review.created"
)

// Aggregate type constants.
const (
	AggregateTypeUser   = "user"
	AggregateTypeShop   = "shop"
	AggregateTypeOffer  = "offer"
	AggregateTypeReview = "review"
)

// Source identifier for events originating from this service.
const SourceSupermall = "supermall"

// UserRegisteredData is the payload for a user.registered event.
type UserRegisteredData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ShopCreatedData is the payload for a shop.created event.
type ShopCreatedData struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// ShopDeletedData is the payload for a shop.deleted event.
type ShopDeletedData struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
}

// OfferCreatedData is the payload for an offer.created event.
type OfferCreatedData struct {
	ID        string `json:"id"`
	ShopID    string `json:"shop_id"`
	Title     string `json:"title"`
	OfferType string `json:"offer_type"`
}

// OfferRedeemedData is the payload for an offer.redeemed event.
type OfferRedeemedData struct {
	ID         string  `json:"id"`
	ShopID     string  `json:"shop_id"`
	UserID     string  `json:"user_id"`
	OrderValue float64 `json:"order_value"`
	Discount   float64 `json:"discount"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`
	UserID string `json:"user_id"`
	Rating int    `json:"rating"`
}

// Producer publishes marketplace domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishUserRegistered publishes a user.registered event.
func (p *Producer) PublishUserRegistered(ctx context.Context, user *domain.User) error {
	data := UserRegisteredData{
		ID:    user.ID,
		Email: user.Email,
		Role:  user.Role,
	}

	event, err := pkgkafka.NewEvent(TopicUserRegistered, user.ID, AggregateTypeUser, SourceSupermall, data)
	if err != nil {
		return fmt.Errorf("create user.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicUserRegistered, event); err != nil {
		return fmt.Errorf("publish user.registered event: %w", err)
	}

	p.logger.DebugContext(ctx, "published user.registered event",
		slog.String("user_id", user.ID),
	)

	return nil
}

// PublishShopCreated publishes a shop.created event.
func (p *Producer) PublishShopCreated(ctx context.Context, shop *domain.Shop) error {
	data := ShopCreatedData{
		ID:       shop.ID,
		OwnerID:  shop.OwnerID,
		Name:     shop.Name,
		Category: shop.Category,
		Location: shop.Location,
	}

	event, err := pkgkafka.NewEvent(TopicShopCreated, shop.ID, AggregateTypeShop, SourceSupermall, data)
	if err != nil {
		return fmt.Errorf("create shop.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicShopCreated, event); err != nil {
		return fmt.Errorf("publish shop.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published shop.created event",
		slog.String("shop_id", shop.ID),
		slog.String("owner_id", shop.OwnerID),
	)

	return nil
}

// PublishShopDeleted publishes a shop.deleted event.
func (p *Producer) PublishShopDeleted(ctx context.Context, shop *domain.Shop) error {
	data := ShopDeletedData{
		ID:      shop.ID,
		OwnerID: shop.OwnerID,
	}

	event, err := pkgkafka.NewEvent(TopicShopDeleted, shop.ID, AggregateTypeShop, SourceSupermall, data)
	if err != nil {
		return fmt.Errorf("create shop.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicShopDeleted, event); err != nil {
		return fmt.Errorf("publish shop.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published shop.deleted event",
		slog.String("shop_id", shop.ID),
	)

	return nil
}

// PublishOfferCreated publishes an offer.created event.
func (p *Producer) PublishOfferCreated(ctx context.Context, offer *domain.Offer) error {
	data := OfferCreatedData{
		ID:        offer.ID,
		ShopID:    offer.ShopID,
		Title:     offer.Title,
		OfferType: offer.OfferType,
	}

	event, err := pkgkafka.NewEvent(TopicOfferCreated, offer.ID, AggregateTypeOffer, SourceSupermall, data)
	if err != nil {
		return fmt.Errorf("create offer.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOfferCreated, event); err != nil {
		return fmt.Errorf("publish offer.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published offer.created event",
		slog.String("offer_id", offer.ID),
		slog.String("shop_id", offer.ShopID),
	)

	return nil
}

// PublishOfferRedeemed publishes an offer.redeemed event.
func (p *Producer) PublishOfferRedeemed(ctx context.Context, offer *domain.Offer, userID string, orderValue, discount float64) error {
	data := OfferRedeemedData{
		ID:         offer.ID,
		ShopID:     offer.ShopID,
		UserID:     userID,
		OrderValue: orderValue,
		Discount:   discount,
	}

	event, err := pkgkafka.NewEvent(TopicOfferRedeemed, offer.ID, AggregateTypeOffer, SourceSupermall, data)
	if err != nil {
		return fmt.Errorf("create offer.redeemed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOfferRedeemed, event); err != nil {
		return fmt.Errorf("publish offer.redeemed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published offer.redeemed event",
		slog.String("offer_id", offer.ID),
		slog.String("user_id", userID),
	)

	return nil
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ID:     review.ID,
		ShopID: review.ShopID,
		UserID: review.UserID,
		Rating: review.Rating,
	}

	event, err := pkgkafka.NewEvent(TopicReviewCreated, review.ID, AggregateTypeReview, SourceSupermall, data)
	if err != nil {
		return fmt.Errorf("create review.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewCreated, event); err != nil {
		return fmt.Errorf("publish review.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published review.created event",
		slog.String("review_id", review.ID),
		slog.String("shop_id", review.ShopID),
	)

	return nil
}
