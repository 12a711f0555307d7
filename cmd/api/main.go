package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/petfeliz/storefront-backend/api/controllers"
	"github.com/petfeliz/storefront-backend/api/routes"
	checkoutsvc "github.com/petfeliz/storefront-backend/internal/checkout"
	"github.com/petfeliz/storefront-backend/internal/coupon"
	"github.com/petfeliz/storefront-backend/internal/guestcart"
	"github.com/petfeliz/storefront-backend/internal/merge"
	"github.com/petfeliz/storefront-backend/internal/orders"
	"github.com/petfeliz/storefront-backend/internal/remotecart"
	"github.com/petfeliz/storefront-backend/internal/shipping"
	"github.com/petfeliz/storefront-backend/internal/upstream"
	"github.com/petfeliz/storefront-backend/pkg/config"
	"github.com/petfeliz/storefront-backend/pkg/logger"
	"github.com/petfeliz/storefront-backend/pkg/metrics"
	"github.com/petfeliz/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	guestStore, err := guestcart.Open(cfg.GuestStore.Path, cfg.GuestStore.Namespace)
	if err != nil {
		logg.Error(context.Background(), "failed to open guest cart store", err)
		os.Exit(1)
	}

	guestSvc, err := guestcart.NewService(guestStore, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create guest cart service", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	transport, err := upstream.NewClient(cfg.Upstream.BaseURL, upstream.WithTimeout(cfg.Upstream.Timeout))
	if err != nil {
		logg.Error(context.Background(), "failed to build upstream transport", err)
		os.Exit(1)
	}

	cartClient, err := remotecart.NewClient(transport)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart client", err)
		os.Exit(1)
	}

	couponValidator, err := coupon.NewClient(transport)
	if err != nil {
		logg.Error(context.Background(), "failed to create coupon validator", err)
		os.Exit(1)
	}

	estimator, err := shipping.NewClient(transport)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping estimator", err)
		os.Exit(1)
	}

	ordersClient, err := orders.NewClient(transport)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	mergeFlow, err := merge.NewCoordinator(guestSvc, cartClient, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create merge coordinator", err)
		os.Exit(1)
	}

	calculator, err := checkoutsvc.NewCalculator(cartClient, estimator, couponValidator)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout calculator", err)
		os.Exit(1)
	}

	executor, err := checkoutsvc.NewExecutor(transport, calculator, checkoutsvc.ExecutorConfig{
		MaxRetries:     cfg.Checkout.MaxRetries,
		RetryBaseDelay: cfg.Checkout.RetryBaseDelay,
	}, logg, checkoutMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout executor", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			Metrics:         checkoutMetrics,
			Registry:        registry,
			RedisClient:     redisClient,
			GuestCart:       guestSvc,
			RemoteCart:      cartClient,
			CouponValidator: couponValidator,
			MergeFlow:       mergeFlow,
			Calculator:      calculator,
			Executor:        executor,
			Orders:          ordersClient,
			Probes: []controllers.Probe{
				{Name: "guest_store", Check: guestStore.Ping},
				{Name: "redis", Check: redisClient.Ping},
			},
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront server stopped unexpectedly", err)
		os.Exit(1)
	}
}
