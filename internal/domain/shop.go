package domain

import (
	"time"
)

// Shop represents a shop listed in the marketplace directory.
type Shop struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Rating       float64   `json:"rating"`
	TotalReviews int       `json:"total_reviews"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecomputeRating derives a shop's aggregate rating and review count from
// the complete review set. It is a full recomputation, never an incremental
// running average, so a corrupted prior aggregate is always repaired by the
// next call. An empty set yields 0.0 and 0.
func RecomputeRating(reviews []Review) (rating float64, total int) {
	if len(reviews) == 0 {
		return 0.0, 0
	}
	var sum int
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews)), len(reviews)
}
