package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/rowdysden/rowdysden-backend/api/controllers"
	"github.com/rowdysden/rowdysden-backend/api/routes"
	"github.com/rowdysden/rowdysden-backend/internal/cart"
	"github.com/rowdysden/rowdysden-backend/internal/categories"
	"github.com/rowdysden/rowdysden-backend/internal/items"
	"github.com/rowdysden/rowdysden-backend/internal/orders"
	"github.com/rowdysden/rowdysden-backend/internal/roles"
	"github.com/rowdysden/rowdysden-backend/internal/uploads"
	"github.com/rowdysden/rowdysden-backend/internal/users"
	"github.com/rowdysden/rowdysden-backend/internal/wishlist"
	"github.com/rowdysden/rowdysden-backend/pkg/config"
	"github.com/rowdysden/rowdysden-backend/pkg/db"
	"github.com/rowdysden/rowdysden-backend/pkg/instance"
	"github.com/rowdysden/rowdysden-backend/pkg/logger"
	"github.com/rowdysden/rowdysden-backend/pkg/metrics"
	"github.com/rowdysden/rowdysden-backend/pkg/migrate"
	"github.com/rowdysden/rowdysden-backend/pkg/redis"
	"github.com/rowdysden/rowdysden-backend/pkg/session"
	"github.com/rowdysden/rowdysden-backend/pkg/storage"
	"github.com/rowdysden/rowdysden-backend/pkg/storage/local"
	"github.com/rowdysden/rowdysden-backend/pkg/storage/minio"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
	shutdownTimeout   = 15 * time.Second
)

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
	defer func() { err = multierr.Append(err, dbClient.Close()) }()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	readiness := []controllers.ReadinessCheck{{Name: "database", Ping: dbClient.Ping}}

	var idempotency redis.IdempotencyStore
	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logg.Warn(ctx, "redis not configured, idempotent replay disabled")
	case err != nil:
		return err
	default:
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		idempotency = redisClient
		readiness = append(readiness, controllers.ReadinessCheck{Name: "redis", Ping: redisClient.Ping})
	}

	store, localDir, err := newObjectStore(ctx, cfg.Storage, logg)
	if err != nil {
		return err
	}
	readiness = append(readiness, controllers.ReadinessCheck{Name: "storage", Ping: store.Ping})

	sessions, err := session.New(cfg.Session)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gdb := dbClient.DB()
	categoryRepo := categories.NewRepository(gdb)
	itemRepo := items.NewRepository(gdb)
	cartRepo := cart.NewRepository(gdb)

	categorySvc, err := categories.NewService(categoryRepo)
	if err != nil {
		return err
	}
	itemSvc, err := items.NewService(itemRepo, categoryRepo)
	if err != nil {
		return err
	}
	cartSvc, err := cart.NewService(cartRepo, itemRepo, logg)
	if err != nil {
		return err
	}
	orderSvc, err := orders.NewService(orders.ServiceParams{
		Repo:              orders.NewRepository(gdb),
		Carts:             cartRepo,
		Items:             itemRepo,
		Tx:                dbClient,
		Metrics:           metrics.NewOrderMetrics(reg),
		Logger:            logg,
		StrictTransitions: cfg.Orders.StrictTransitions,
	})
	if err != nil {
		return err
	}
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlist.NewRepository(gdb),
		ItemRepo:     itemRepo,
	})
	if err != nil {
		return err
	}
	userSvc, err := users.NewService(users.NewRepository(gdb), cfg.Password)
	if err != nil {
		return err
	}
	roleSvc, err := roles.NewService(roles.NewRepository(gdb))
	if err != nil {
		return err
	}
	uploadSvc, err := uploads.NewService(store, cfg.Storage.MaxUploadBytes(), logg)
	if err != nil {
		return err
	}

	handler := routes.NewRouter(routes.Dependencies{
		Config:          cfg,
		Logger:          logg,
		Gatherer:        reg,
		Metrics:         metrics.NewHTTPMetrics(reg),
		Sessions:        sessions,
		Idempotency:     idempotency,
		Readiness:       readiness,
		LocalUploadsDir: localDir,
		Categories:      categorySvc,
		Items:           itemSvc,
		Cart:            cartSvc,
		Orders:          orderSvc,
		Wishlist:        wishlistSvc,
		Users:           userSvc,
		Roles:           roleSvc,
		Uploads:         uploadSvc,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	logCtx := logg.WithFields(ctx, map[string]any{
		"env":             cfg.App.Env,
		"addr":            server.Addr,
		"instance":        instance.GetID(),
		"storage_driver":  cfg.Storage.Driver,
		"redis_enabled":   idempotency != nil,
		"strict_statuses": cfg.Orders.StrictTransitions,
	})
	logg.Info(logCtx, "starting api server")

	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newObjectStore picks the upload backend. The returned directory is non-empty
// only for the local driver, whose files the API serves itself.
func newObjectStore(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (storage.ObjectStore, string, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.Driver), config.StorageDriverMinio) {
		client, err := minio.New(ctx, cfg, logg)
		if err != nil {
			return nil, "", err
		}
		return client, "", nil
	}
	client, err := local.New(cfg)
	if err != nil {
		return nil, "", err
	}
	return client, client.Dir(), nil
}
