package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nikolayk812/gourmet-ledger/internal/config"
	"github.com/nikolayk812/gourmet-ledger/internal/events"
	"github.com/nikolayk812/gourmet-ledger/internal/httpapi"
	"github.com/nikolayk812/gourmet-ledger/internal/ledger"
	"github.com/nikolayk812/gourmet-ledger/internal/logger"
	"github.com/nikolayk812/gourmet-ledger/internal/menu"
	"github.com/nikolayk812/gourmet-ledger/internal/port"
	"github.com/nikolayk812/gourmet-ledger/internal/repository"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("gourmet-ledger stopped", slog.Any("err", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log := logger.New(logger.Options{
		Service:   cfg.ServiceName,
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: cfg.AppEnv != "prod",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orders, closeOrders, err := openOrderStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeOrders()
	log.Info("order store ready", slog.String("store", string(cfg.OrderStore)))

	var publisher port.OrderPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.ServiceName)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("kafka publisher close", slog.Any("err", err))
			}
		}()
		publisher = kp
		log.Info("publishing placed orders", slog.String("topic", cfg.KafkaTopic))
	}

	newLedger := func(ownerID string) *ledger.Ledger {
		opts := []ledger.Option{
			ledger.WithMinOrder(cfg.MinOrderThreshold),
			ledger.WithCurrency(cfg.Currency),
			ledger.WithRestaurant(cfg.RestaurantName),
			ledger.WithLogger(log),
		}
		if publisher != nil {
			opts = append(opts, ledger.WithPublisher(publisher))
		}
		return ledger.New(ownerID, orders, opts...)
	}

	handler := &httpapi.Handler{
		Sessions:   httpapi.NewSessions(newLedger),
		Orders:     orders,
		Catalog:    menu.NewCatalog(repository.NewInMemoryMenu()),
		Currency:   cfg.Currency,
		ClearDelay: cfg.ClearDelay,
		Log:        log,
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server.ListenAndServe: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		handler.Sessions.RunSweeper(gctx, cfg.SessionIdleTTL/2, cfg.SessionIdleTTL, func(dropped int) {
			log.Info("idle sessions dropped", slog.Int("count", dropped))
		})
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server.Shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("bye")
	return nil
}

func openOrderStore(ctx context.Context, cfg config.Config) (port.OrderRepository, func(), error) {
	switch cfg.OrderStore {
	case config.OrderStorePostgres:
		if err := repository.Migrate(cfg.PostgresDSN); err != nil {
			return nil, nil, fmt.Errorf("repository.Migrate: %w", err)
		}

		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pool.Ping: %w", err)
		}
		return repository.NewOrders(pool), pool.Close, nil

	case config.OrderStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("client.Ping: %w", err)
		}
		return repository.NewRedisOrders(client), func() { _ = client.Close() }, nil

	default:
		return repository.NewInMemoryOrders(), func() {}, nil
	}
}
