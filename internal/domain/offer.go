package domain

import (
	"time"
)

// Offer type constants.
const (
	OfferTypePercentage   = "percentage"
	OfferTypeAmount       = "amount"
	OfferTypeBogo         = "bogo"
	OfferTypeFreeDelivery = "free_delivery"
)

// Offer represents a time-bounded promotional offer attached to a shop,
// optionally scoped to a single product.
type Offer struct {
	ID                 string    `json:"id"`
	ShopID             string    `json:"shop_id"`
	ProductID          *string   `json:"product_id,omitempty"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	OfferType          string    `json:"offer_type"`
	DiscountPercentage *float64  `json:"discount_percentage,omitempty"`
	DiscountAmount     *float64  `json:"discount_amount,omitempty"`
	MinimumOrderValue  *float64  `json:"minimum_order_value,omitempty"`
	MaximumDiscount    *float64  `json:"maximum_discount,omitempty"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	UsageLimit         *int      `json:"usage_limit,omitempty"`
	UsedCount          int       `json:"used_count"`
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ValidOfferTypes returns the set of valid offer types.
func ValidOfferTypes() []string {
	return []string{
		OfferTypePercentage,
		OfferTypeAmount,
		OfferTypeBogo,
		OfferTypeFreeDelivery,
	}
}

// IsValidOfferType checks whether the given type string is a valid offer type.
func IsValidOfferType(t string) bool {
	for _, v := range ValidOfferTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// IsValid reports whether the offer can be applied at the given instant.
// An offer is valid when it is active, the instant falls inside the
// [StartDate, EndDate] window, and the usage limit (if any) has not been
// exhausted. A nil usage limit means unlimited use.
func (o Offer) IsValid(now time.Time) bool {
	if !o.IsActive {
		return false
	}
	if now.Before(o.StartDate) || now.After(o.EndDate) {
		return false
	}
	if o.UsageLimit != nil && o.UsedCount >= *o.UsageLimit {
		return false
	}
	return true
}

// DaysRemaining returns the number of whole days until the offer's end date,
// truncated toward zero. An invalid or already-ended offer yields 0, so a
// remaining window of less than 24 hours also reports 0.
func (o Offer) DaysRemaining(now time.Time) int {
	if !o.IsValid(now) {
		return 0
	}
	if now.After(o.EndDate) {
		return 0
	}
	return int(o.EndDate.Sub(now).Hours() / 24)
}

// CalculateDiscount computes the discount the offer grants for the given
// order value at the given instant. Invalid offers, orders below the minimum
// order value, and offer types without a priced discount (bogo, free
// delivery) all yield 0. Percentage discounts are capped at MaximumDiscount
// when set, and no discount ever exceeds the order value.
func (o Offer) CalculateDiscount(orderValue float64, now time.Time) float64 {
	if !o.IsValid(now) {
		return 0
	}
	if o.MinimumOrderValue != nil && orderValue < *o.MinimumOrderValue {
		return 0
	}

	var raw float64
	switch {
	case o.OfferType == OfferTypePercentage && o.DiscountPercentage != nil:
		raw = orderValue * *o.DiscountPercentage / 100
		if o.MaximumDiscount != nil && raw > *o.MaximumDiscount {
			raw = *o.MaximumDiscount
		}
	case o.OfferType == OfferTypeAmount && o.DiscountAmount != nil:
		raw = *o.DiscountAmount
	default:
		return 0
	}

	if raw > orderValue {
		return orderValue
	}
	return raw
}
