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

// ShopRepository implements repository.ShopRepository using PostgreSQL.
type ShopRepository struct {
	db database.DBTX
}

// NewShopRepository creates a new PostgreSQL-backed shop repository.
func NewShopRepository(db database.DBTX) *ShopRepository {
	return &ShopRepository{db: db}
}

const shopColumns = `id, owner_id, name, description, category, location,
		   address, phone, email, latitude, longitude, rating, total_reviews,
		   is_active, is_verified, created_at, updated_at`

// Create inserts a new shop into the database.
func (r *ShopRepository) Create(ctx context.Context, s *domain.Shop) error {
	query := `
		INSERT INTO shops (
			id, owner_id, name, description, category, location,
			address, phone, email, latitude, longitude, rating, total_reviews,
			is_active, is_verified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.Exec(ctx, query,
		s.ID,
		s.OwnerID,
		s.Name,
		s.Description,
		s.Category,
		s.Location,
		s.Address,
		s.Phone,
		s.Email,
		s.Latitude,
		s.Longitude,
		s.Rating,
		s.TotalReviews,
		s.IsActive,
		s.IsVerified,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("shop", "name", s.Name)
		}
		return fmt.Errorf("insert shop: %w", err)
	}

	return nil
}

// GetByID retrieves a shop by its ID.
func (r *ShopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	query := fmt.Sprintf(`SELECT %s FROM shops WHERE id = $1`, shopColumns)

	var s domain.Shop
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.OwnerID,
		&s.Name,
		&s.Description,
		&s.Category,
		&s.Location,
		&s.Address,
		&s.Phone,
		&s.Email,
		&s.Latitude,
		&s.Longitude,
		&s.Rating,
		&s.TotalReviews,
		&s.IsActive,
		&s.IsVerified,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan shop: %w", err)
	}

	return &s, nil
}

// List returns shops matching the given filter with the total count.
// The text query matches as a case-sensitive substring of name or
// description; results are ordered by creation time for a stable order.
func (r *ShopRepository) List(ctx context.Context, filter repository.ShopFilter) ([]domain.Shop, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	if filter.Query != nil {
		conditions = append(conditions, fmt.Sprintf(
			"(name LIKE '%%' || $%d || '%%' OR description LIKE '%%' || $%d || '%%')",
			argIndex, argIndex,
		))
		args = append(args, *filter.Query)
		argIndex++
	}

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Location != nil {
		conditions = append(conditions, fmt.Sprintf("location LIKE '%%' || $%d || '%%'", argIndex))
		args = append(args, *filter.Location)
		argIndex++
	}

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIndex))
		args = append(args, *filter.OwnerID)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT %s,
			   count(*) OVER() AS total_count
		FROM shops
		%s
		ORDER BY created_at ASC
		LIMIT $%d OFFSET $%d`,
		shopColumns, whereClause, argIndex, argIndex+1,
	)

	limit, offset := pageBounds(filter.Page, filter.PerPage)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	var (
		shops      []domain.Shop
		totalCount int
	)

	for rows.Next() {
		var s domain.Shop
		if err := rows.Scan(
			&s.ID,
			&s.OwnerID,
			&s.Name,
			&s.Description,
			&s.Category,
			&s.Location,
			&s.Address,
			&s.Phone,
			&s.Email,
			&s.Latitude,
			&s.Longitude,
			&s.Rating,
			&s.TotalReviews,
			&s.IsActive,
			&s.IsVerified,
			&s.CreatedAt,
			&s.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan shop row: %w", err)
		}
		shops = append(shops, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate shop rows: %w", err)
	}

	if shops == nil {
		shops = []domain.Shop{}
	}

	return shops, totalCount, nil
}

// Update modifies an existing shop in the database.
func (r *ShopRepository) Update(ctx context.Context, s *domain.Shop) error {
	s.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE shops
		SET name = $1, description = $2, category = $3, location = $4,
		    address = $5, phone = $6, email = $7, latitude = $8, longitude = $9,
		    is_active = $10, is_verified = $11, updated_at = $12
		WHERE id = $13`

	ct, err := r.db.Exec(ctx, query,
		s.Name,
		s.Description,
		s.Category,
		s.Location,
		s.Address,
		s.Phone,
		s.Email,
		s.Latitude,
		s.Longitude,
		s.IsActive,
		s.IsVerified,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("shop", "name", s.Name)
		}
		return fmt.Errorf("update shop: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("shop", s.ID)
	}

	return nil
}

// Delete removes a shop and its dependent reviews, offers, and products
// inside a single transaction.
func (r *ShopRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete shop: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE shop_id = $1`, id); err != nil {
		return fmt.Errorf("delete shop reviews: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM offers WHERE shop_id = $1`, id); err != nil {
		return fmt.Errorf("delete shop offers: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM products WHERE shop_id = $1`, id); err != nil {
		return fmt.Errorf("delete shop products: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("shop", id)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete shop: %w", err)
	}

	return nil
}
