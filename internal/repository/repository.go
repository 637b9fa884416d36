package repository

import (
	"context"

	"github.com/pratham101201/supermall/internal/domain"
)

// ShopFilter defines filter criteria for listing shops. All criteria are
// optional and composed conjunctively. Query matches as a case-sensitive
// substring of the shop name or description.
type ShopFilter struct {
	ActiveOnly bool
	Query      *string
	Category   *string
	Location   *string
	OwnerID    *string
	Page       int
	PerPage    int
}

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	AvailableOnly bool
	ShopID        *string
	Category      *string
	Query         *string
	Page          int
	PerPage       int
}

// OfferFilter defines filter criteria for listing offers.
type OfferFilter struct {
	ActiveOnly bool
	ShopID     *string
	ProductID  *string
	Page       int
	PerPage    int
}

// ReviewFilter defines filter criteria for listing reviews.
type ReviewFilter struct {
	ShopID  *string
	UserID  *string
	Page    int
	PerPage int
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error
}

// ShopRepository defines the interface for shop persistence operations.
type ShopRepository interface {
	// Create inserts a new shop into the store.
	Create(ctx context.Context, shop *domain.Shop) error

	// GetByID retrieves a shop by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Shop, error)

	// List returns shops matching the given filter along with the total count.
	List(ctx context.Context, filter ShopFilter) ([]domain.Shop, int, error)

	// Update modifies an existing shop in the store.
	Update(ctx context.Context, shop *domain.Shop) error

	// Delete removes a shop together with its products, offers, and reviews
	// in a single transaction.
	Delete(ctx context.Context, id string) error
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product by its ID.
	Delete(ctx context.Context, id string) error
}

// OfferRepository defines the interface for offer persistence operations.
type OfferRepository interface {
	// Create inserts a new offer into the store.
	Create(ctx context.Context, offer *domain.Offer) error

	// GetByID retrieves an offer by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Offer, error)

	// List returns offers matching the given filter along with the total count.
	List(ctx context.Context, filter OfferFilter) ([]domain.Offer, int, error)

	// Update modifies an existing offer in the store.
	Update(ctx context.Context, offer *domain.Offer) error

	// Delete removes an offer by its ID.
	Delete(ctx context.Context, id string) error

	// IncrementUsage atomically increments the used_count of an offer.
	IncrementUsage(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
// Review mutations recompute the owning shop's aggregate rating and review
// count from the full review set inside the same transaction.
type ReviewRepository interface {
	// Create inserts a new review and recomputes the shop aggregate.
	Create(ctx context.Context, review *domain.Review) error

	// GetByID retrieves a review by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// List returns reviews matching the given filter along with the total count.
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, int, error)

	// Update modifies an existing review and recomputes the shop aggregate.
	Update(ctx context.Context, review *domain.Review) error

	// Delete removes a review and recomputes the shop aggregate.
	Delete(ctx context.Context, id string) error
}
