package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratham101201/supermall/internal/repository"
	"github.com/pratham101201/supermall/internal/service"
	"github.com/pratham101201/supermall/pkg/middleware"
	"github.com/pratham101201/supermall/pkg/validator"
)

// ShopHandler handles HTTP requests for shop endpoints.
type ShopHandler struct {
	service *service.ShopService
	logger  *slog.Logger
}

// NewShopHandler creates a new shop HTTP handler.
func NewShopHandler(svc *service.ShopService, logger *slog.Logger) *ShopHandler {
	return &ShopHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateShopRequest is the JSON request body for creating a shop.
type CreateShopRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=255"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"required,min=1,max=100"`
	Location    string   `json:"location" validate:"max=255"`
	Address     string   `json:"address" validate:"max=500"`
	Phone       string   `json:"phone" validate:"max=30"`
	Email       string   `json:"email" validate:"omitempty,email"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

// UpdateShopRequest is the JSON request body for updating a shop.
type UpdateShopRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,min=1,max=100"`
	Location    *string  `json:"location" validate:"omitempty,max=255"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	Phone       *string  `json:"phone" validate:"omitempty,max=30"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	IsActive    *bool    `json:"is_active"`
}

// --- Handlers ---

// CreateShop handles POST /api/v1/shops
func (h *ShopHandler) CreateShop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	var req CreateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := &service.CreateShopInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	shop, err := h.service.CreateShop(r.Context(), callerID, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: shop})
}

// ListShops handles GET /api/v1/shops
func (h *ShopHandler) ListShops(w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationParams(r)
	filter := repository.ShopFilter{
		ActiveOnly: true,
		Page:       page,
		PerPage:    perPage,
	}

	if v := r.URL.Query().Get("q"); v != "" {
		filter.Query = &v
	}
	if v := r.URL.Query().Get("category"); v != "" {
		filter.Category = &v
	}
	if v := r.URL.Query().Get("location"); v != "" {
		filter.Location = &v
	}
	if v := r.URL.Query().Get("owner_id"); v != "" {
		filter.OwnerID = &v
	}

	shops, total, err := h.service.ListShops(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(shops, total, filter.Page, filter.PerPage))
}

// GetShop handles GET /api/v1/shops/{id}
func (h *ShopHandler) GetShop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "shop id is required")
		return
	}

	shop, err := h.service.GetShop(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: shop})
}

// UpdateShop handles PUT /api/v1/shops/{id}
func (h *ShopHandler) UpdateShop(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "shop id is required")
		return
	}

	var req UpdateShopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := &service.UpdateShopInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		IsActive:    req.IsActive,
	}

	shop, err := h.service.UpdateShop(r.Context(), callerID, id, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: shop})
}

// DeleteShop handles DELETE /api/v1/shops/{id}
func (h *ShopHandler) DeleteShop(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "shop id is required")
		return
	}

	if err := h.service.DeleteShop(r.Context(), callerID, id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
