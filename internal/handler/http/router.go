package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pratham101201/supermall/internal/auth"
	"github.com/pratham101201/supermall/internal/service"
	"github.com/pratham101201/supermall/pkg/health"
	"github.com/pratham101201/supermall/pkg/middleware"
)

// Services bundles the service dependencies of the router.
type Services struct {
	User    *service.UserService
	Shop    *service.ShopService
	Product *service.ProductService
	Offer   *service.OfferService
	Review  *service.ReviewService
	Search  *service.SearchService
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(
	services Services,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("supermall"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}
	requireAuth := middleware.Auth(tokenValidator)

	authHandler := NewAuthHandler(services.User, logger)
	shopHandler := NewShopHandler(services.Shop, logger)
	productHandler := NewProductHandler(services.Product, logger)
	offerHandler := NewOfferHandler(services.Offer, logger)
	reviewHandler := NewReviewHandler(services.Review, logger)
	searchHandler := NewSearchHandler(services.Search, logger)

	// Auth endpoints (public)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)
	})

	// Profile endpoints (auth required)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(requireAuth)

		r.Get("/me", authHandler.GetProfile)
		r.Put("/me", authHandler.UpdateProfile)
	})

	r.Route("/api/v1/shops", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public directory browsing
		r.Get("/", shopHandler.ListShops)
		r.Get("/{id}", shopHandler.GetShop)
		r.Get("/{id}/products", productHandler.ListShopProducts)
		r.Get("/{id}/offers/valid", offerHandler.ListValidShopOffers)
		r.Get("/{id}/reviews", reviewHandler.ListShopReviews)

		// Mutations require auth
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", shopHandler.CreateShop)
			r.Put("/{id}", shopHandler.UpdateShop)
			r.Delete("/{id}", shopHandler.DeleteShop)
			r.Post("/{id}/reviews", reviewHandler.CreateReview)
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", productHandler.ListProducts)
		r.Get("/{id}", productHandler.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", productHandler.CreateProduct)
			r.Put("/{id}", productHandler.UpdateProduct)
			r.Delete("/{id}", productHandler.DeleteProduct)
		})
	})

	r.Route("/api/v1/offers", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/", offerHandler.ListOffers)
		r.Get("/{id}", offerHandler.GetOffer)
		r.Get("/{id}/evaluate", offerHandler.EvaluateOffer)
		r.Post("/{id}/calculate", offerHandler.CalculateDiscount)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Post("/", offerHandler.CreateOffer)
			r.Put("/{id}", offerHandler.UpdateOffer)
			r.Delete("/{id}", offerHandler.DeleteOffer)
			r.Post("/{id}/redeem", offerHandler.RedeemOffer)
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Get("/{id}", reviewHandler.GetReview)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Put("/{id}", reviewHandler.UpdateReview)
			r.Delete("/{id}", reviewHandler.DeleteReview)
		})
	})

	r.Get("/api/v1/search", searchHandler.Search)

	return r
}
