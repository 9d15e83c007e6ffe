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

	"github.com/angelmondragon/greenhouse-storefront/api/routes"
	"github.com/angelmondragon/greenhouse-storefront/internal/cart"
	"github.com/angelmondragon/greenhouse-storefront/internal/catalog"
	"github.com/angelmondragon/greenhouse-storefront/internal/checkout"
	"github.com/angelmondragon/greenhouse-storefront/internal/promotions"
	"github.com/angelmondragon/greenhouse-storefront/pkg/config"
	"github.com/angelmondragon/greenhouse-storefront/pkg/db"
	"github.com/angelmondragon/greenhouse-storefront/pkg/instance"
	"github.com/angelmondragon/greenhouse-storefront/pkg/logger"
	"github.com/angelmondragon/greenhouse-storefront/pkg/metrics"
	"github.com/angelmondragon/greenhouse-storefront/pkg/migrate"
	"github.com/angelmondragon/greenhouse-storefront/pkg/orderapi"
	"github.com/angelmondragon/greenhouse-storefront/pkg/redis"
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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	promotionService, err := promotions.NewService(promotions.NewRepository(dbClient.DB()))
	if err != nil {
		return err
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), promotionService)
	if err != nil {
		return err
	}

	cartStore, err := cart.NewStore(redisClient, logg, cart.Options{
		TTL:             cfg.Cart.TTL,
		MaxLineQuantity: cfg.Cart.MaxLineQty,
		Metrics:         metrics.NewCartMetrics(registry),
	})
	if err != nil {
		return err
	}

	orderClient, err := orderapi.NewClient(cfg.OrderAPI.BaseURL,
		orderapi.WithAPIKey(cfg.OrderAPI.APIKey),
		orderapi.WithTimeout(cfg.OrderAPI.Timeout),
	)
	if err != nil {
		return err
	}
	checkoutService, err := checkout.NewService(cartStore, orderClient, logg)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"driver":   dbClient.Dialect(),
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			redisClient,
			registry,
			metrics.NewHTTPMetrics(registry),
			catalogService,
			promotionService,
			cartStore,
			checkoutService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
