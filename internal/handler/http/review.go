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

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateReviewRequest is the JSON request body for creating a review.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// UpdateReviewRequest is the JSON request body for updating a review.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=2000"`
}

// --- Handlers ---

// CreateReview handles POST /api/v1/shops/{id}/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	userID := middleware.UserIDFromContext(r.Context())

	shopID := chi.URLParam(r, "id")
	if shopID == "" {
		writeBadRequest(w, "shop id is required")
		return
	}

	var req CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	review, err := h.service.CreateReview(r.Context(), userID, &service.CreateReviewInput{
		ShopID:  shopID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: review})
}

// ListShopReviews handles GET /api/v1/shops/{id}/reviews
func (h *ReviewHandler) ListShopReviews(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "id")
	if shopID == "" {
		writeBadRequest(w, "shop id is required")
		return
	}

	page, perPage := paginationParams(r)
	filter := repository.ReviewFilter{
		ShopID:  &shopID,
		Page:    page,
		PerPage: perPage,
	}

	reviews, total, err := h.service.ListReviews(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(reviews, total, filter.Page, filter.PerPage))
}

// GetReview handles GET /api/v1/reviews/{id}
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: review})
}

// UpdateReview handles PUT /api/v1/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	var req UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	review, err := h.service.UpdateReview(r.Context(), callerID, id, &service.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: review})
}

// DeleteReview handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "review id is required")
		return
	}

	if err := h.service.DeleteReview(r.Context(), callerID, id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
