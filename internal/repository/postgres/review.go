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

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
// Every review mutation recomputes the owning shop's rating and review count
// from the full review set inside the same transaction, so the aggregate can
// never drift from the underlying reviews.
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

const reviewColumns = `id, shop_id, user_id, rating, comment, is_approved, is_featured,
		   created_at, updated_at`

// Create inserts a new review and recomputes the shop aggregate atomically.
func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create review: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	query := `
		INSERT INTO reviews (
			id, shop_id, user_id, rating, comment, is_approved, is_featured,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, query,
		rv.ID,
		rv.ShopID,
		rv.UserID,
		rv.Rating,
		rv.Comment,
		rv.IsApproved,
		rv.IsFeatured,
		rv.CreatedAt,
		rv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("review", "shop_id/user_id", rv.ShopID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	if err := recomputeShopAggregate(ctx, tx, rv.ShopID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create review: %w", err)
	}

	return nil
}

// GetByID retrieves a review by its ID.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)

	var rv domain.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rv.ID,
		&rv.ShopID,
		&rv.UserID,
		&rv.Rating,
		&rv.Comment,
		&rv.IsApproved,
		&rv.IsFeatured,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}

	return &rv, nil
}

// List returns reviews matching the given filter with the total count.
func (r *ReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.ShopID != nil {
		conditions = append(conditions, fmt.Sprintf("shop_id = $%d", argIndex))
		args = append(args, *filter.ShopID)
		argIndex++
	}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM reviews
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		reviewColumns, whereClause, argIndex, argIndex+1,
	)

	limit, offset := pageBounds(filter.Page, filter.PerPage)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var (
		reviews    []domain.Review
		totalCount int
	)

	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(
			&rv.ID,
			&rv.ShopID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.IsApproved,
			&rv.IsFeatured,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, totalCount, nil
}

// Update modifies an existing review and recomputes the shop aggregate atomically.
func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update review: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	rv.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, is_approved = $3, is_featured = $4, updated_at = $5
		WHERE id = $6`

	ct, err := tx.Exec(ctx, query,
		rv.Rating,
		rv.Comment,
		rv.IsApproved,
		rv.IsFeatured,
		rv.UpdatedAt,
		rv.ID,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("review", rv.ID)
	}

	if err := recomputeShopAggregate(ctx, tx, rv.ShopID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit update review: %w", err)
	}

	return nil
}

// Delete removes a review and recomputes the shop aggregate atomically.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete review: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	var shopID string
	err = tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING shop_id`, id).Scan(&shopID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("review", id)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	if err := recomputeShopAggregate(ctx, tx, shopID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete review: %w", err)
	}

	return nil
}

// recomputeShopAggregate recalculates a shop's rating and total_reviews from
// the complete review set. The ratings are read back and fed through
// domain.RecomputeRating so the stored aggregate always matches the domain
// definition. It runs inside the caller's transaction so the review mutation
// and the aggregate write apply as a unit.
func recomputeShopAggregate(ctx context.Context, tx pgx.Tx, shopID string) error {
	rows, err := tx.Query(ctx, `SELECT rating FROM reviews WHERE shop_id = $1`, shopID)
	if err != nil {
		return fmt.Errorf("read shop review ratings: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.Rating); err != nil {
			return fmt.Errorf("scan review rating: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate review ratings: %w", err)
	}

	rating, total := domain.RecomputeRating(reviews)

	ct, err := tx.Exec(ctx,
		`UPDATE shops SET rating = $1, total_reviews = $2, updated_at = NOW() WHERE id = $3`,
		rating, total, shopID,
	)
	if err != nil {
		return fmt.Errorf("update shop aggregate: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("shop", shopID)
	}

	return nil
}
