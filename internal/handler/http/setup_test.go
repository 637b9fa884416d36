package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pratham101201/supermall/internal/auth"
	"github.com/pratham101201/supermall/internal/domain"
	"github.com/pratham101201/supermall/internal/event"
	"github.com/pratham101201/supermall/internal/repository"
	"github.com/pratham101201/supermall/internal/service"
	apperrors "github.com/pratham101201/supermall/pkg/errors"
	"github.com/pratham101201/supermall/pkg/health"
	pkgkafka "github.com/pratham101201/supermall/pkg/kafka"
	"github.com/pratham101201/supermall/pkg/middleware"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type mockShopRepository struct {
	mock.Mock
}

func (m *mockShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *mockShopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shop), args.Error(1)
}

func (m *mockShopRepository) List(ctx context.Context, filter repository.ShopFilter) ([]domain.Shop, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Shop), args.Int(1), args.Error(2)
}

func (m *mockShopRepository) Update(ctx context.Context, shop *domain.Shop) error {
	args := m.Called(ctx, shop)
	return args.Error(0)
}

func (m *mockShopRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockOfferRepository struct {
	mock.Mock
}

func (m *mockOfferRepository) Create(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *mockOfferRepository) GetByID(ctx context.Context, id string) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *mockOfferRepository) List(ctx context.Context, filter repository.OfferFilter) ([]domain.Offer, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Offer), args.Int(1), args.Error(2)
}

func (m *mockOfferRepository) Update(ctx context.Context, offer *domain.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *mockOfferRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOfferRepository) IncrementUsage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]domain.Review, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Review), args.Int(1), args.Error(2)
}

func (m *mockReviewRepository) Update(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// nopOfferCache always misses so service tests hit the repository.
type nopOfferCache struct{}

func (nopOfferCache) Get(ctx context.Context, shopID string) ([]domain.Offer, error) {
	return nil, apperrors.ErrNotFound
}

func (nopOfferCache) Set(ctx context.Context, shopID string, offers []domain.Offer) error {
	return nil
}

func (nopOfferCache) Invalidate(ctx context.Context, shopID string) error {
	return nil
}

// ============================================================================
// Test helpers
// ============================================================================

type testRepos struct {
	users    *mockUserRepository
	shops    *mockShopRepository
	products *mockProductRepository
	offers   *mockOfferRepository
	reviews  *mockReviewRepository
}

func newTestRepos() *testRepos {
	return &testRepos{
		users:    new(mockUserRepository),
		shops:    new(mockShopRepository),
		products: new(mockProductRepository),
		offers:   new(mockOfferRepository),
		reviews:  new(mockReviewRepository),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
}

// newTestRouter builds the production router backed by mock repositories.
func newTestRouter(repos *testRepos) (http.Handler, *auth.JWTManager) {
	logger := testLogger()
	producer := testEventProducer()
	jwtManager := testJWTManager()

	services := Services{
		User:    service.NewUserService(repos.users, jwtManager, producer, logger),
		Shop:    service.NewShopService(repos.shops, producer, logger),
		Product: service.NewProductService(repos.products, repos.shops, logger),
		Offer:   service.NewOfferService(repos.offers, repos.shops, nopOfferCache{}, producer, logger),
		Review:  service.NewReviewService(repos.reviews, repos.shops, producer, logger),
		Search:  service.NewSearchService(repos.shops, repos.products, logger),
	}

	router := NewRouter(services, jwtManager, health.NewHandler(), logger, middleware.DefaultCORSConfig())
	return router, jwtManager
}

func bearerToken(t *testing.T, jwtManager *auth.JWTManager, userID, role string) string {
	t.Helper()
	token, err := jwtManager.GenerateAccessToken(userID, userID+"@example.test", role)
	require.NoError(t, err)
	return "Bearer " + token
}

// testResponse mirrors the JSON envelope for decoding in assertions.
type testResponse struct {
	Data  json.RawMessage `json:"data"`
	Error *errorResponse  `json:"error"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) testResponse {
	t.Helper()
	var resp testResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

type testListResponse struct {
	Data       json.RawMessage `json:"data"`
	TotalCount int             `json:"total_count"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalPages int             `json:"total_pages"`
}

func decodeListResponse(t *testing.T, rec *httptest.ResponseRecorder) testListResponse {
	t.Helper()
	var resp testListResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

// sampleShop returns a shop owned by the given user for test assertions.
func sampleShop(ownerID string) *domain.Shop {
	now := time.Now().UTC()
	return &domain.Shop{
		ID:           "550e8400-e29b-41d4-a716-446655440001",
		OwnerID:      ownerID,
		Name:         "Coffee House",
		Description:  "Specialty coffee and pastries",
		Category:     "food",
		Location:     "downtown",
		Rating:       4.5,
		TotalReviews: 12,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func sampleOffer(shopID string) *domain.Offer {
	now := time.Now().UTC()
	pct := 20.0
	maxDiscount := 50.0
	minOrder := 100.0
	return &domain.Offer{
		ID:                 "550e8400-e29b-41d4-a716-446655440002",
		ShopID:             shopID,
		Title:              "Autumn Special",
		OfferType:          domain.OfferTypePercentage,
		DiscountPercentage: &pct,
		MaximumDiscount:    &maxDiscount,
		MinimumOrderValue:  &minOrder,
		IsActive:           true,
		StartDate:          now.Add(-24 * time.Hour),
		EndDate:            now.Add(10 * 24 * time.Hour),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
