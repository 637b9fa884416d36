package postgres

import (
	"strings"
)

const defaultPerPage = 20

// pageBounds converts a page/per-page pair into LIMIT/OFFSET values.
func pageBounds(page, perPage int) (limit, offset int) {
	limit = perPage
	if limit <= 0 {
		limit = defaultPerPage
	}
	if page > 1 {
		offset = (page - 1) * limit
	}
	return limit, offset
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
