package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/checkout-demo/internal/cache"
	"github.com/nikolayk812/checkout-demo/internal/config"
	"github.com/nikolayk812/checkout-demo/internal/handler"
	"github.com/nikolayk812/checkout-demo/internal/memstore"
	"github.com/nikolayk812/checkout-demo/internal/migrations"
	"github.com/nikolayk812/checkout-demo/internal/notify"
	"github.com/nikolayk812/checkout-demo/internal/port"
	"github.com/nikolayk812/checkout-demo/internal/repository"
	"github.com/nikolayk812/checkout-demo/internal/service"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config.Load: %v\n", err)
		os.Exit(1)
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "zap.Build: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tx, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	var guard port.CheckoutGuard
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() { _ = rdb.Close() }()

		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("rdb.Ping: %w", err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

		guard, err = cache.NewCheckoutGuard(rdb, cfg.CheckoutGuardTTL)
		if err != nil {
			return fmt.Errorf("cache.NewCheckoutGuard: %w", err)
		}
	}

	hub := notify.NewHub(logger.Named("notify"))
	defer hub.Close()

	svc, err := newServices(cfg, tx, guard, hub, logger)
	if err != nil {
		return err
	}

	h, err := handler.New(svc, hub, logger.Named("http"))
	if err != nil {
		return fmt.Errorf("handler.New: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(logger.Named("http")))
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))
	h.Register(router, handler.Authenticate(cfg.JWTSecret))

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("httpServer.ListenAndServe: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// websocket connections are hijacked and not tracked by Shutdown
	hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	logger.Info("http server stopped")

	return nil
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (port.Transactor, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL is empty, using the in-memory store")
		return memstore.New(), func() {}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.ParseConfig: %w", err)
	}
	poolCfg.MaxConns = cfg.DBMaxConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.NewWithConfig: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}
	logger.Info("connected to postgres")

	if cfg.Migrate {
		if err := migrations.Up(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migrations.Up: %w", err)
		}
	}

	tx, err := repository.NewTransactor(pool, cfg.TxMaxRetries, logger.Named("tx"))
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repository.NewTransactor: %w", err)
	}

	return tx, pool.Close, nil
}

func newServices(cfg config.Config, tx port.Transactor, guard port.CheckoutGuard, hub *notify.Hub, logger *zap.Logger) (handler.Services, error) {
	carts, err := service.NewCartService(tx, cfg.Currency, logger.Named("cart"))
	if err != nil {
		return handler.Services{}, fmt.Errorf("service.NewCartService: %w", err)
	}

	checkout, err := service.NewCheckoutService(tx, guard, hub, cfg.CheckoutTimeout, logger.Named("checkout"))
	if err != nil {
		return handler.Services{}, fmt.Errorf("service.NewCheckoutService: %w", err)
	}

	orders, err := service.NewOrderService(tx, hub, logger.Named("order"))
	if err != nil {
		return handler.Services{}, fmt.Errorf("service.NewOrderService: %w", err)
	}

	shipping, err := service.NewShippingService(tx)
	if err != nil {
		return handler.Services{}, fmt.Errorf("service.NewShippingService: %w", err)
	}

	catalog, err := service.NewCatalogService(tx, logger.Named("catalog"))
	if err != nil {
		return handler.Services{}, fmt.Errorf("service.NewCatalogService: %w", err)
	}

	return handler.Services{
		Carts:    carts,
		Checkout: checkout,
		Orders:   orders,
		Shipping: shipping,
		Catalog:  catalog,
	}, nil
}
