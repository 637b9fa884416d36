package http

import (
	"log/slog"
	"net/http"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/service"
)

// SearchResponse mirrors service.SearchResult with the product set carrying
// its derived stock fields.
type SearchResponse struct {
	Shops         []domain.Shop     `json:"shops"`
	Products      []ProductResponse `json:"products"`
	TotalShops    int               `json:"total_shops"`
	TotalProducts int               `json:"total_products"`
}

// SearchHandler handles HTTP requests for the search endpoint.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{service: svc, logger: logger}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, perPage := paginationParams(r)
	input := &service.SearchInput{
		Page:    page,
		PerPage: perPage,
	}

	if v := r.URL.Query().Get("q"); v != "" {
		input.Query = &v
	}
	if v := r.URL.Query().Get("category"); v != "" {
		input.Category = &v
	}
	if v := r.URL.Query().Get("location"); v != "" {
		input.Location = &v
	}

	result, err := h.service.Search(r.Context(), input)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: SearchResponse{
		Shops:         result.Shops,
		Products:      newProductResponseList(result.Products),
		TotalShops:    result.TotalShops,
		TotalProducts: result.TotalProducts,
	}})
}
