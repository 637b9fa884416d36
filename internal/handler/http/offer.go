package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	"github.com/pratham101201/supermall/internal/service"
	"github.com/pratham101201/supermall/pkg/middleware"
	"github.com/pratham101201/supermall/pkg/validator"
)

// OfferHandler handles HTTP requests for offer endpoints.
type OfferHandler struct {
	service *service.OfferService
	logger  *slog.Logger
}

// NewOfferHandler creates a new offer HTTP handler.
func NewOfferHandler(svc *service.OfferService, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateOfferRequest is the JSON request body for creating an offer.
type CreateOfferRequest struct {
	ShopID             string   `json:"shop_id" validate:"required,uuid"`
	ProductID          *string  `json:"product_id" validate:"omitempty,uuid"`
	Title              string   `json:"title" validate:"required,min=1,max=255"`
	Description        string   `json:"description"`
	OfferType          string   `json:"offer_type" validate:"required,oneof=percentage amount bogo free_delivery"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"omitempty,gt=0,lte=100"`
	DiscountAmount     *float64 `json:"discount_amount" validate:"omitempty,gte=0"`
	MinimumOrderValue  *float64 `json:"minimum_order_value" validate:"omitempty,gte=0"`
	MaximumDiscount    *float64 `json:"maximum_discount" validate:"omitempty,gte=0"`
	StartDate          string   `json:"start_date" validate:"required"`
	EndDate            string   `json:"end_date" validate:"required"`
	UsageLimit         *int     `json:"usage_limit" validate:"omitempty,gt=0"`
}

// UpdateOfferRequest is the JSON request body for updating an offer.
type UpdateOfferRequest struct {
	Title              *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description        *string  `json:"description"`
	OfferType          *string  `json:"offer_type" validate:"omitempty,oneof=percentage amount bogo free_delivery"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"omitempty,gt=0,lte=100"`
	DiscountAmount     *float64 `json:"discount_amount" validate:"omitempty,gte=0"`
	MinimumOrderValue  *float64 `json:"minimum_order_value" validate:"omitempty,gte=0"`
	MaximumDiscount    *float64 `json:"maximum_discount" validate:"omitempty,gte=0"`
	StartDate          *string  `json:"start_date"`
	EndDate            *string  `json:"end_date"`
	UsageLimit         *int     `json:"usage_limit" validate:"omitempty,gt=0"`
	IsActive           *bool    `json:"is_active"`
}

// CalculateDiscountRequest is the JSON request body for calculating a discount.
type CalculateDiscountRequest struct {
	OrderValue float64 `json:"order_value" validate:"gte=0"`
}

// RedeemOfferRequest is the JSON request body for redeeming an offer.
type RedeemOfferRequest struct {
	OrderValue float64 `json:"order_value" validate:"gt=0"`
}

// OfferResponse is an offer with its derived validity fields attached,
// evaluated at response time.
type OfferResponse struct {
	domain.Offer
	IsValid       bool `json:"is_valid"`
	DaysRemaining int  `json:"days_remaining"`
}

func newOfferResponse(o domain.Offer, now time.Time) OfferResponse {
	return OfferResponse{
		Offer:         o,
		IsValid:       o.IsValid(now),
		DaysRemaining: o.DaysRemaining(now),
	}
}

func newOfferResponseList(offers []domain.Offer, now time.Time) []OfferResponse {
	out := make([]OfferResponse, len(offers))
	for i, o := range offers {
		out[i] = newOfferResponse(o, now)
	}
	return out
}

// DiscountResponse carries the result of a discount calculation.
type DiscountResponse struct {
	OfferID    string  `json:"offer_id"`
	OrderValue float64 `json:"order_value"`
	Discount   float64 `json:"discount"`
	FinalValue float64 `json:"final_value"`
}

// --- Handlers ---

// CreateOffer handles POST /api/v1/offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	var req CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeBadRequest(w, "start_date must be in RFC3339 format")
		return
	}

	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		writeBadRequest(w, "end_date must be in RFC3339 format")
		return
	}

	input := &service.CreateOfferInput{
		ShopID:             req.ShopID,
		ProductID:          req.ProductID,
		Title:              req.Title,
		Description:        req.Description,
		OfferType:          req.OfferType,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		MinimumOrderValue:  req.MinimumOrderValue,
		MaximumDiscount:    req.MaximumDiscount,
		StartDate:          startDate,
		EndDate:            endDate,
		UsageLimit:         req.UsageLimit,
	}

	offer, err := h.service.CreateOffer(r.Context(), callerID, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: newOfferResponse(*offer, time.Now().UTC())})
}

// ListOffers handles GET /api/v1/offers
func (h *OfferHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationParams(r)
	filter := repository.OfferFilter{
		ActiveOnly: true,
		Page:       page,
		PerPage:    perPage,
	}

	if v := r.URL.Query().Get("shop_id"); v != "" {
		filter.ShopID = &v
	}
	if v := r.URL.Query().Get("product_id"); v != "" {
		filter.ProductID = &v
	}

	offers, total, err := h.service.ListOffers(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(newOfferResponseList(offers, time.Now().UTC()), total, filter.Page, filter.PerPage))
}

// ListValidShopOffers handles GET /api/v1/shops/{id}/offers/valid
func (h *OfferHandler) ListValidShopOffers(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "id")
	if shopID == "" {
		writeBadRequest(w, "shop id is required")
		return
	}

	offers, err := h.service.ListValidOffers(r.Context(), shopID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newOfferResponseList(offers, time.Now().UTC())})
}

// GetOffer handles GET /api/v1/offers/{id}
func (h *OfferHandler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "offer id is required")
		return
	}

	offer, err := h.service.GetOffer(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newOfferResponse(*offer, time.Now().UTC())})
}

// EvaluateOffer handles GET /api/v1/offers/{id}/evaluate
func (h *OfferHandler) EvaluateOffer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "offer id is required")
		return
	}

	evaluation, err := h.service.EvaluateOffer(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: evaluation})
}

// CalculateDiscount handles POST /api/v1/offers/{id}/calculate
func (h *OfferHandler) CalculateDiscount(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "offer id is required")
		return
	}

	var req CalculateDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	discount, err := h.service.CalculateDiscount(r.Context(), id, req.OrderValue)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: DiscountResponse{
		OfferID:    id,
		OrderValue: req.OrderValue,
		Discount:   discount,
		FinalValue: req.OrderValue - discount,
	}})
}

// RedeemOffer handles POST /api/v1/offers/{id}/redeem
func (h *OfferHandler) RedeemOffer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "offer id is required")
		return
	}

	var req RedeemOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	discount, err := h.service.RedeemOffer(r.Context(), callerID, id, req.OrderValue)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: DiscountResponse{
		OfferID:    id,
		OrderValue: req.OrderValue,
		Discount:   discount,
		FinalValue: req.OrderValue - discount,
	}})
}

// UpdateOffer handles PUT /api/v1/offers/{id}
func (h *OfferHandler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "offer id is required")
		return
	}

	var req UpdateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := &service.UpdateOfferInput{
		Title:              req.Title,
		Description:        req.Description,
		OfferType:          req.OfferType,
		DiscountPercentage: req.DiscountPercentage,
		DiscountAmount:     req.DiscountAmount,
		MinimumOrderValue:  req.MinimumOrderValue,
		MaximumDiscount:    req.MaximumDiscount,
		UsageLimit:         req.UsageLimit,
		IsActive:           req.IsActive,
	}

	if req.StartDate != nil {
		startDate, err := time.Parse(time.RFC3339, *req.StartDate)
		if err != nil {
			writeBadRequest(w, "start_date must be in RFC3339 format")
			return
		}
		input.StartDate = &startDate
	}

	if req.EndDate != nil {
		endDate, err := time.Parse(time.RFC3339, *req.EndDate)
		if err != nil {
			writeBadRequest(w, "end_date must be in RFC3339 format")
			return
		}
		input.EndDate = &endDate
	}

	offer, err := h.service.UpdateOffer(r.Context(), callerID, id, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newOfferResponse(*offer, time.Now().UTC())})
}

// DeleteOffer handles DELETE /api/v1/offers/{id}
func (h *OfferHandler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "offer id is required")
		return
	}

	if err := h.service.DeleteOffer(r.Context(), callerID, id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
