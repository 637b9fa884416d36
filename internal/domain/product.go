package domain

import (
	"time"
)

// Product represents an item listed by a shop.
type Product struct {
	ID                string    `json:"id"`
	ShopID            string    `json:"shop_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Category          string    `json:"category"`
	Subcategory       string    `json:"subcategory,omitempty"`
	StockQuantity     int       `json:"stock_quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	IsAvailable       bool      `json:"is_available"`
	IsFeatured        bool      `json:"is_featured"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsInStock reports whether the product has any stock remaining.
func (p Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// IsLowStock reports whether the stock quantity has fallen to or below
// the product's low-stock threshold.
func (p Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}
