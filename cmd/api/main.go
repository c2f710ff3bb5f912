package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"

	"delicias-urbanas/internal/config"
	"delicias-urbanas/internal/db"
	"delicias-urbanas/internal/httpserver"
	historyrepo "delicias-urbanas/internal/repository/history"
	productrepo "delicias-urbanas/internal/repository/product"
	cartsvc "delicias-urbanas/internal/service/cart"
	ordersvc "delicias-urbanas/internal/service/order"
	productsvc "delicias-urbanas/internal/service/product"
	"delicias-urbanas/internal/service/schedule"
	sessionsvc "delicias-urbanas/internal/service/session"
	"delicias-urbanas/internal/whatsapp"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	checks := map[string]httpserver.Pinger{}

	var pool *pgxpool.Pool
	if cfg.StoreDriver == config.StorePostgres || cfg.CatalogSource == config.CatalogPostgres {
		var err error
		pool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer pool.Close()
		checks["db"] = pool
	}

	var history historyrepo.Store
	switch cfg.StoreDriver {
	case config.StoreMemory:
		history = historyrepo.NewMemory()
	case config.StorePostgres:
		history = historyrepo.NewPostgres(pool, logger)
	case config.StoreRedis:
		client, err := db.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer client.Close()
		checks["redis"] = redisPinger(client)
		history = historyrepo.NewRedis(client, "")
	default:
		logger.Fatalf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	var products productrepo.Repository
	switch cfg.CatalogSource {
	case config.CatalogEmbedded:
		menu, err := productrepo.EmbeddedMenu()
		if err != nil {
			logger.Fatalf("load embedded menu: %v", err)
		}
		products = productrepo.NewStatic(menu)
	case config.CatalogPostgres:
		products = productrepo.NewPostgres(pool, logger)
	default:
		logger.Fatalf("unknown CATALOG_SOURCE %q", cfg.CatalogSource)
	}

	loc := cfg.Shop.Location()
	validator := schedule.NewValidator(loc)
	watcher := schedule.NewWatcher(validator, nil, logger)
	chat := whatsapp.New(cfg.Shop.Phone)

	cartService := cartsvc.New(nil)
	sessionService := sessionsvc.New(cfg.SessionTTL, cartService.Drop, logger)
	productService := productsvc.New(products)
	orderService := ordersvc.New(history, cartService, validator, chat, logger)
	orderService.Load(ctx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, checks, httpserver.Deps{
		ProductSvc: productService,
		CartSvc:    cartService,
		OrderSvc:   orderService,
		SessionSvc: sessionService,
		Status:     watcher,
		Shop: httpserver.ShopInfo{
			Name:           cfg.Shop.Name,
			Address:        cfg.Shop.Address,
			PhoneDisplay:   cfg.Shop.PhoneDisplay,
			TransferAlias:  cfg.Shop.TransferAlias,
			TransferHolder: cfg.Shop.TransferHolder,
			ContactURL:     chat.ContactLink(),
		},
	}, cfg.CORSOrigins)
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	go watcher.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s store=%s catalog=%s tz=%s", cfg.HTTPAddr, cfg.StoreDriver, cfg.CatalogSource, loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}

func redisPinger(client *redis.Client) httpserver.Pinger {
	return httpserver.PingFunc(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
}
