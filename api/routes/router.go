package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petfeliz/storefront-backend/api/controllers"
	"github.com/petfeliz/storefront-backend/api/middleware"
	checkoutsvc "github.com/petfeliz/storefront-backend/internal/checkout"
	"github.com/petfeliz/storefront-backend/internal/coupon"
	"github.com/petfeliz/storefront-backend/internal/guestcart"
	"github.com/petfeliz/storefront-backend/internal/merge"
	"github.com/petfeliz/storefront-backend/internal/orders"
	"github.com/petfeliz/storefront-backend/internal/remotecart"
	"github.com/petfeliz/storefront-backend/pkg/config"
	"github.com/petfeliz/storefront-backend/pkg/logger"
	"github.com/petfeliz/storefront-backend/pkg/metrics"
	"github.com/petfeliz/storefront-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Metrics         *metrics.CheckoutMetrics
	Registry        *prometheus.Registry
	RedisClient     redis.IdempotencyStore
	GuestCart       guestcart.Service
	RemoteCart      remotecart.Client
	CouponValidator coupon.Validator
	MergeFlow       merge.Coordinator
	Calculator      checkoutsvc.Calculator
	Executor        checkoutsvc.Executor
	Orders          orders.Client
	Probes          []controllers.Probe
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Session(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Probes...))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.RedisClient, cfg.Checkout.IdempotencyTTL, logg, deps.Metrics))

		r.Route("/guest-cart", func(r chi.Router) {
			r.Use(middleware.RequireGuest(logg))
			r.Get("/", controllers.GuestCartGet(deps.GuestCart, logg))
			r.Post("/items", controllers.GuestCartAddItem(deps.GuestCart, logg))
			r.Patch("/items/{lineID}", controllers.GuestCartUpdateItem(deps.GuestCart, logg))
			r.Delete("/items/{lineID}", controllers.GuestCartRemoveItem(deps.GuestCart, logg))
			r.Delete("/", controllers.GuestCartClear(deps.GuestCart, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.RemoteCart, logg))
				r.Post("/items", controllers.CartAddItem(deps.RemoteCart, logg))
				r.Patch("/items/{lineID}", controllers.CartUpdateItem(deps.RemoteCart, logg))
				r.Delete("/items/{lineID}", controllers.CartRemoveItem(deps.RemoteCart, logg))
				r.Post("/merge", controllers.CartMerge(deps.MergeFlow, logg))
				r.Post("/apply-coupon", controllers.CartApplyCoupon(deps.CouponValidator, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/summary", controllers.CheckoutSummary(deps.Calculator, logg))
				r.Post("/finalize", controllers.CheckoutFinalize(deps.Executor, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(deps.Orders, logg))
				r.Get("/{orderID}", controllers.OrdersGet(deps.Orders, logg))
			})
		})
	})

	return r
}
