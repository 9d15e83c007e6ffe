package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/greenhouse-storefront/api/controllers"
	"github.com/angelmondragon/greenhouse-storefront/api/middleware"
	"github.com/angelmondragon/greenhouse-storefront/internal/cart"
	"github.com/angelmondragon/greenhouse-storefront/internal/catalog"
	checkoutsvc "github.com/angelmondragon/greenhouse-storefront/internal/checkout"
	"github.com/angelmondragon/greenhouse-storefront/internal/promotions"
	"github.com/angelmondragon/greenhouse-storefront/pkg/config"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
	"github.com/angelmondragon/greenhouse-storefront/pkg/metrics"
	"github.com/angelmondragon/greenhouse-storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	idempotencyStore redis.IdempotencyStore,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	catalogService catalog.Service,
	promotionService promotions.Service,
	cartStore cart.Store,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisP,
		}, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))

		r.Get("/ping", controllers.Ping())

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/home", controllers.CatalogHome(catalogService, logg))
			r.Get("/categories", controllers.CatalogCategories(catalogService, logg))
			r.Get("/products", controllers.CatalogProducts(catalogService, logg))
			r.Get("/products/{productId}", controllers.CatalogProduct(catalogService, logg))
		})
		r.Get("/promotions", controllers.ActivePromotions(promotionService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.DeviceContext(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartStore, logg))
				r.Delete("/", controllers.CartClear(cartStore, logg))
				r.Post("/items", controllers.CartAddItem(cartStore, catalogService, cfg.Cart.MaxLineQty, logg))
				r.Patch("/items/{productId}", controllers.CartUpdateItem(cartStore, cfg.Cart.MaxLineQty, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(cartStore, logg))
				r.With(middleware.RequireUser(logg)).Post("/transfer", controllers.CartTransfer(cartStore, logg))
			})

			r.With(middleware.Idempotency(idempotencyStore, logg)).Post("/checkout", controllers.Checkout(checkoutService, logg))
		})
	})

	return r
}
