package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/repository"
)

// SearchService composes shop and product lookups into a combined search.
type SearchService struct {
	shopRepo    repository.ShopRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(shopRepo repository.ShopRepository, productRepo repository.ProductRepository, logger *slog.Logger) *SearchService {
	return &SearchService{
		shopRepo:    shopRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// SearchInput holds the optional search criteria. Query matches shop and
// product names and descriptions as a case-sensitive substring; category
// applies to both result sets; location applies to shops only.
type SearchInput struct {
	Query    *string
	Category *string
	Location *string
	Page     int
	PerPage  int
}

// SearchResult holds the two independent result sets of a search. A match
// in one set never gates the other. Each set is returned in the store's
// insertion order; no relevance ranking is applied.
type SearchResult struct {
	Shops         []domain.Shop    `json:"shops"`
	Products      []domain.Product `json:"products"`
	TotalShops    int              `json:"total_shops"`
	TotalProducts int              `json:"total_products"`
}

// Search runs the shop and product searches with the applicable subset of
// the given criteria and returns both result sets.
func (s *SearchService) Search(ctx context.Context, input *SearchInput) (*SearchResult, error) {
	page := input.Page
	if page <= 0 {
		page = 1
	}
	perPage := input.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	shops, totalShops, err := s.shopRepo.List(ctx, repository.ShopFilter{
		ActiveOnly: true,
		Query:      input.Query,
		Category:   input.Category,
		Location:   input.Location,
		Page:       page,
		PerPage:    perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("search shops: %w", err)
	}

	products, totalProducts, err := s.productRepo.List(ctx, repository.ProductFilter{
		AvailableOnly: true,
		Query:         input.Query,
		Category:      input.Category,
		Page:          page,
		PerPage:       perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	s.logger.DebugContext(ctx, "search executed",
		slog.Int("shops", len(shops)),
		slog.Int("products", len(products)),
	)

	return &SearchResult{
		Shops:         shops,
		Products:      products,
		TotalShops:    totalShops,
		TotalProducts: totalProducts,
	}, nil
}
