package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/doctorpiscinas/storefront-backend/api/routes"
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
	"github.com/doctorpiscinas/storefront-backend/pkg/db"
	"github.com/doctorpiscinas/storefront-backend/pkg/logger"
	"github.com/doctorpiscinas/storefront-backend/pkg/metrics"
	"github.com/doctorpiscinas/storefront-backend/pkg/migrate"
	"github.com/doctorpiscinas/storefront-backend/pkg/redis"
	"github.com/doctorpiscinas/storefront-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		FilePath:    cfg.App.LogFile,
	})

	if security.NeedsRehash(cfg.Admin.PasswordHash, cfg.Password) {
		logg.Warn(context.Background(), "admin password hash is weaker than the configured argon2 cost; regenerate it with cmd/hashpw")
	}

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(logg, "session manager", err)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	productService, err := products.NewService(products.NewRepository(dbClient.DB()))
	requireResource(logg, "product service", err)

	serviceCatalog, err := services.NewService(services.NewRepository(dbClient.DB()))
	requireResource(logg, "services catalog", err)

	promotionService, err := promotions.NewService(promotions.NewRepository(dbClient.DB()))
	requireResource(logg, "promotions service", err)

	couponService, err := coupons.NewService(coupons.NewRepository(dbClient.DB()))
	requireResource(logg, "coupon service", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Storage: func(sessionID string) cart.Storage {
			return cart.NewRedisStorage(redisClient, sessionID, cfg.Checkout.CartTTL)
		},
		Items:         productService,
		Coupons:       couponService,
		Metrics:       checkoutMetrics,
		CouponTimeout: cfg.Checkout.CouponTimeout,
	})
	requireResource(logg, "cart service", err)

	orderService, err := orders.NewService(orders.ServiceParams{
		Repo:             orders.NewRepository(dbClient.DB()),
		Tx:               dbClient,
		Stock:            productService,
		Metrics:          checkoutMetrics,
		PlacementTimeout: cfg.Checkout.PlacementTimeout,
	})
	requireResource(logg, "order service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Admin:          cfg.Admin,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	requireResource(logg, "auth service", err)

	composer, err := notify.NewWhatsAppComposer(cfg.Checkout.WhatsAppNumber)
	requireResource(logg, "whatsapp composer", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			DB:         dbClient,
			Store:      redisClient,
			Sessions:   sessionManager,
			Gatherer:   registry,
			HTTP:       httpMetrics,
			Auth:       authService,
			Products:   productService,
			Services:   serviceCatalog,
			Promotions: promotionService,
			Coupons:    couponService,
			Cart:       cartService,
			Orders:     orderService,
			WhatsApp:   composer,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}

func requireResource(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to initialize "+name, err)
	os.Exit(1)
}
