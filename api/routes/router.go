package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doctorpiscinas/storefront-backend/api/controllers"
	"github.com/doctorpiscinas/storefront-backend/api/middleware"
	"github.com/doctorpiscinas/storefront-backend/internal/auth"
	"github.com/doctorpiscinas/storefront-backend/internal/cart"
	"github.com/doctorpiscinas/storefront-backend/internal/coupons"
	"github.com/doctorpiscinas/storefront-backend/internal/notify"
	"github.com/doctorpiscinas/storefront-backend/internal/orders"
	products "github.com/doctorpiscinas/storefront-backend/internal/products"
	"github.com/doctorpiscinas/storefront-backend/internal/promotions"
	"github.com/doctorpiscinas/storefront-backend/internal/services"
	"github.com/doctorpiscinas/storefront-backend/pkg/auth/session"
	"github.com/doctorpiscinas/storefront-backend/pkg/config"
	"github.com/doctorpiscinas/storefront-backend/pkg/enums"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
	"github.com/doctorpiscinas/storefront-backend/pkg/metrics"
	pkgredis "github.com/doctorpiscinas/storefront-backend/pkg/redis"
)

// KVStore is the redis surface the HTTP layer needs for idempotency,
// login throttling and readiness.
type KVStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Deps carries everything NewRouter wires into handlers.
type Deps struct {
	DB       controllers.Pinger
	Store    KVStore
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer
	HTTP     *metrics.HTTPMetrics

	Auth       auth.Service
	Products   products.Service
	Services   services.Service
	Promotions promotions.Service
	Coupons    coupons.Service
	Cart       cart.Service
	Orders     orders.Service
	WhatsApp   *notify.WhatsAppComposer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(deps.HTTP),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	secureCookie := cfg.App.IsProd()

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Store,
		}, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(cart.NewSessionID, logg))
		r.Use(middleware.Idempotency(deps.Store, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{itemId}", controllers.CartSetQuantity(deps.Cart, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Post("/coupon", controllers.CartApplyCoupon(deps.Cart, logg))
			r.Delete("/coupon", controllers.CartRemoveCoupon(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.Checkout(deps.Cart, deps.Orders, deps.WhatsApp, logg))
			r.Get("/", controllers.TrackOrders(deps.Orders, logg))
			r.Get("/{orderId}", controllers.GetOrder(deps.Orders, logg))
		})

		r.Get("/products", controllers.ListProducts(deps.Products, logg))
		r.Get("/products/{productId}", controllers.GetProduct(deps.Products, logg))

		r.Get("/services", controllers.ListServices(deps.Services, logg))
		r.Get("/services/{serviceId}", controllers.GetService(deps.Services, logg))
		r.Get("/service-categories", controllers.ListServiceCategories(deps.Services, logg))

		r.Get("/banners", controllers.ListBanners(deps.Promotions, logg))
		r.Get("/promotional-spots", controllers.ListPromotionalSpots(deps.Promotions, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Store, logg)).
			Post("/auth/login", controllers.AdminLogin(deps.Auth, secureCookie, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.RequireRole(logg, enums.AdminRoleOwner))
			r.Use(middleware.Idempotency(deps.Store, logg))

			r.Post("/auth/logout", controllers.AdminLogout(deps.Auth, secureCookie, logg))
			r.Get("/dashboard", controllers.AdminDashboard(deps.Orders, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(deps.Orders, logg))
				r.Get("/{orderId}", controllers.AdminGetOrder(deps.Orders, logg))
				r.Patch("/{orderId}/status", controllers.AdminUpdateOrderStatus(deps.Orders, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.AdminListProducts(deps.Products, logg))
				r.Post("/", controllers.AdminCreateProduct(deps.Products, logg))
				r.Get("/{productId}", controllers.AdminGetProduct(deps.Products, logg))
				r.Patch("/{productId}", controllers.AdminUpdateProduct(deps.Products, logg))
				r.Delete("/{productId}", controllers.AdminDeleteProduct(deps.Products, logg))
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.AdminListCoupons(deps.Coupons, logg))
				r.Post("/", controllers.AdminCreateCoupon(deps.Coupons, logg))
				r.Delete("/{code}", controllers.AdminDeleteCoupon(deps.Coupons, logg))
			})

			r.Route("/services", func(r chi.Router) {
				r.Get("/", controllers.ListServices(deps.Services, logg))
				r.Post("/", controllers.AdminCreateService(deps.Services, logg))
				r.Get("/{serviceId}", controllers.GetService(deps.Services, logg))
				r.Patch("/{serviceId}", controllers.AdminUpdateService(deps.Services, logg))
				r.Delete("/{serviceId}", controllers.AdminDeleteService(deps.Services, logg))
			})

			r.Route("/service-categories", func(r chi.Router) {
				r.Get("/", controllers.ListServiceCategories(deps.Services, logg))
				r.Post("/", controllers.AdminCreateServiceCategory(deps.Services, logg))
				r.Delete("/{slug}", controllers.AdminDeleteServiceCategory(deps.Services, logg))
			})

			r.Route("/banners", func(r chi.Router) {
				r.Get("/", controllers.AdminListBanners(deps.Promotions, logg))
				r.Post("/", controllers.AdminCreateBanner(deps.Promotions, logg))
				r.Get("/{bannerId}", controllers.AdminGetBanner(deps.Promotions, logg))
				r.Patch("/{bannerId}", controllers.AdminUpdateBanner(deps.Promotions, logg))
				r.Delete("/{bannerId}", controllers.AdminDeleteBanner(deps.Promotions, logg))
			})

			r.Route("/promotional-spots", func(r chi.Router) {
				r.Get("/", controllers.AdminListPromotionalSpots(deps.Promotions, logg))
				r.Post("/", controllers.AdminCreatePromotionalSpot(deps.Promotions, logg))
				r.Get("/{spotId}", controllers.AdminGetPromotionalSpot(deps.Promotions, logg))
				r.Patch("/{spotId}", controllers.AdminUpdatePromotionalSpot(deps.Promotions, logg))
				r.Delete("/{spotId}", controllers.AdminDeletePromotionalSpot(deps.Promotions, logg))
			})
		})
	})

	return r
}
