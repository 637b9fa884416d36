package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	"github.com/pratham101201/supermall/pkg/database"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
)

// OfferRepository implements repository.OfferRepository using PostgreSQL.
type OfferRepository struct {
	db database.DBTX
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
func NewOfferRepository(db database.DBTX) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `id, shop_id, product_id, title, description, offer_type,
		   discount_percentage, discount_amount, minimum_order_value, maximum_discount,
		   start_date, end_date, usage_limit, used_count, is_active,
		   created_at, updated_at`

// Create inserts a new offer into the database.
func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer) error {
	query := `
		INSERT INTO offers (
			id, shop_id, product_id, title, description, offer_type,
			discount_percentage, discount_amount, minimum_order_value, maximum_discount,
			start_date, end_date, usage_limit, used_count, is_active,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.Exec(ctx, query,
		o.ID,
		o.ShopID,
		o.ProductID,
		o.Title,
		o.Description,
		o.OfferType,
		o.DiscountPercentage,
		o.DiscountAmount,
		o.MinimumOrderValue,
		o.MaximumDiscount,
		o.StartDate,
		o.EndDate,
		o.UsageLimit,
		o.UsedCount,
		o.IsActive,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}

	return nil
}

// GetByID retrieves an offer by its ID.
func (r *OfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	query := fmt.Sprintf(`SELECT %s FROM offers WHERE id = $1`, offerColumns)

	var o domain.Offer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.ShopID,
		&o.ProductID,
		&o.Title,
		&o.Description,
		&o.OfferType,
		&o.DiscountPercentage,
		&o.DiscountAmount,
		&o.MinimumOrderValue,
		&o.MaximumDiscount,
		&o.StartDate,
		&o.EndDate,
		&o.UsageLimit,
		&o.UsedCount,
		&o.IsActive,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan offer: %w", err)
	}

	return &o, nil
}

// List returns offers matching the given filter with the total count.
// ActiveOnly filters only on the is_active flag; temporal validity is
// evaluated by the caller against the current instant.
func (r *OfferRepository) List(ctx context.Context, filter repository.OfferFilter) ([]domain.Offer, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	if filter.ShopID != nil {
		conditions = append(conditions, fmt.Sprintf("shop_id = $%d", argIndex))
		args = append(args, *filter.ShopID)
		argIndex++
	}

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", argIndex))
		args = append(args, *filter.ProductID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM offers
		%s
		ORDER BY created_at ASC
		LIMIT $%d OFFSET $%d`,
		offerColumns, whereClause, argIndex, argIndex+1,
	)

	limit, offset := pageBounds(filter.Page, filter.PerPage)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}
	defer rows.Close()

	var (
		offers     []domain.Offer
		totalCount int
	)

	for rows.Next() {
		var o domain.Offer
		if err := rows.Scan(
			&o.ID,
			&o.ShopID,
			&o.ProductID,
			&o.Title,
			&o.Description,
			&o.OfferType,
			&o.DiscountPercentage,
			&o.DiscountAmount,
			&o.MinimumOrderValue,
			&o.MaximumDiscount,
			&o.StartDate,
			&o.EndDate,
			&o.UsageLimit,
			&o.UsedCount,
			&o.IsActive,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan offer row: %w", err)
		}
		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate offer rows: %w", err)
	}

	if offers == nil {
		offers = []domain.Offer{}
	}

	return offers, totalCount, nil
}

// Update modifies an existing offer in the database.
func (r *OfferRepository) Update(ctx context.Context, o *domain.Offer) error {
	o.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE offers
		SET title = $1, description = $2, offer_type = $3,
		    discount_percentage = $4, discount_amount = $5,
		    minimum_order_value = $6, maximum_discount = $7,
		    start_date = $8, end_date = $9, usage_limit = $10,
		    is_active = $11, updated_at = $12
		WHERE id = $13`

	ct, err := r.db.Exec(ctx, query,
		o.Title,
		o.Description,
		o.OfferType,
		o.DiscountPercentage,
		o.DiscountAmount,
		o.MinimumOrderValue,
		o.MaximumDiscount,
		o.StartDate,
		o.EndDate,
		o.UsageLimit,
		o.IsActive,
		o.UpdatedAt,
		o.ID,
	)
	if err != nil {
		return fmt.Errorf("update offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("offer", o.ID)
	}

	return nil
}

// Delete removes an offer by its ID.
func (r *OfferRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("offer", id)
	}

	return nil
}

// IncrementUsage atomically consumes one use of an offer. The usage-limit
// check happens in the UPDATE itself so concurrent redemptions cannot push
// used_count past usage_limit; an exhausted offer affects zero rows.
func (r *OfferRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `
		UPDATE offers
		SET used_count = used_count + 1, updated_at = NOW()
		WHERE id = $1
		  AND (usage_limit IS NULL OR used_count < usage_limit)`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment offer usage: %w", err)
	}

	if ct.RowsAffected() == 0 {
		// Either the offer does not exist or its usage limit is spent;
		// callers fetch the offer first, so report the limit.
		return apperrors.InvalidInput("offer usage limit reached")
	}

	return nil
}
