package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
	"github.com/pratham101201/supermall/internal/service"
	"github.com/pratham101201/supermall/pkg/middleware"
	"github.com/pratham101201/supermall/pkg/validator"
)

// ProductHandler handles HTTP requests for product endpoints.
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product HTTP handler.
func NewProductHandler(svc *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	ShopID            string  `json:"shop_id" validate:"required,uuid"`
	Name              string  `json:"name" validate:"required,min=1,max=255"`
	Description       string  `json:"description"`
	Price             float64 `json:"price" validate:"gte=0"`
	Category          string  `json:"category" validate:"max=100"`
	Subcategory       string  `json:"subcategory" validate:"max=100"`
	StockQuantity     int     `json:"stock_quantity" validate:"gte=0"`
	LowStockThreshold int     `json:"low_stock_threshold" validate:"gte=0"`
	IsAvailable       bool    `json:"is_available"`
	IsFeatured        bool    `json:"is_featured"`
}

// UpdateProductRequest is the JSON request body for updating a product.
type UpdateProductRequest struct {
	Name              *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price" validate:"omitempty,gte=0"`
	Category          *string  `json:"category" validate:"omitempty,max=100"`
	Subcategory       *string  `json:"subcategory" validate:"omitempty,max=100"`
	StockQuantity     *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	LowStockThreshold *int     `json:"low_stock_threshold" validate:"omitempty,gte=0"`
	IsAvailable       *bool    `json:"is_available"`
	IsFeatured        *bool    `json:"is_featured"`
}

// ProductResponse is a product with its derived stock fields attached.
type ProductResponse struct {
	domain.Product
	IsInStock  bool `json:"is_in_stock"`
	IsLowStock bool `json:"is_low_stock"`
}

func newProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		Product:    p,
		IsInStock:  p.IsInStock(),
		IsLowStock: p.IsLowStock(),
	}
}

func newProductResponseList(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = newProductResponse(p)
	}
	return out
}

// --- Handlers ---

// CreateProduct handles POST /api/v1/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := &service.CreateProductInput{
		ShopID:            req.ShopID,
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Category:          req.Category,
		Subcategory:       req.Subcategory,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		IsAvailable:       req.IsAvailable,
		IsFeatured:        req.IsFeatured,
	}

	product, err := h.service.CreateProduct(r.Context(), callerID, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: newProductResponse(*product)})
}

// ListProducts handles GET /api/v1/products
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationParams(r)
	filter := repository.ProductFilter{
		AvailableOnly: true,
		Page:          page,
		PerPage:       perPage,
	}

	if v := r.URL.Query().Get("q"); v != "" {
		filter.Query = &v
	}
	if v := r.URL.Query().Get("category"); v != "" {
		filter.Category = &v
	}
	if v := r.URL.Query().Get("shop_id"); v != "" {
		filter.ShopID = &v
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(newProductResponseList(products), total, filter.Page, filter.PerPage))
}

// ListShopProducts handles GET /api/v1/shops/{id}/products
func (h *ProductHandler) ListShopProducts(w http.ResponseWriter, r *http.Request) {
	shopID := chi.URLParam(r, "id")
	if shopID == "" {
		writeBadRequest(w, "shop id is required")
		return
	}

	page, perPage := paginationParams(r)
	filter := repository.ProductFilter{
		AvailableOnly: true,
		ShopID:        &shopID,
		Page:          page,
		PerPage:       perPage,
	}

	products, total, err := h.service.ListProducts(r.Context(), filter)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newListResponse(newProductResponseList(products), total, filter.Page, filter.PerPage))
}

// GetProduct handles GET /api/v1/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "product id is required")
		return
	}

	product, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newProductResponse(*product)})
}

// UpdateProduct handles PUT /api/v1/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "product id is required")
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	input := &service.UpdateProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Price:             req.Price,
		Category:          req.Category,
		Subcategory:       req.Subcategory,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		IsAvailable:       req.IsAvailable,
		IsFeatured:        req.IsFeatured,
	}

	product, err := h.service.UpdateProduct(r.Context(), callerID, id, input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: newProductResponse(*product)})
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())

	id := chi.URLParam(r, "id")
	if id == "" {
		writeBadRequest(w, "product id is required")
		return
	}

	if err := h.service.DeleteProduct(r.Context(), callerID, id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}
