package domain

import (
	"time"
)

// Review represents a customer rating and comment for a shop.
type Review struct {
	ID         string    `json:"id"`
	ShopID     string    `json:"shop_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	IsApproved bool      `json:"is_approved"`
	IsFeatured bool      `json:"is_featured"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
