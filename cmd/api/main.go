package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/peerpay/peer_pay/internal/config"
	"github.com/peerpay/peer_pay/internal/event"
	"github.com/peerpay/peer_pay/internal/infra"
	"github.com/peerpay/peer_pay/internal/logging"
	"github.com/peerpay/peer_pay/internal/notification"
	"github.com/peerpay/peer_pay/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var db *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		db, err = infra.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("connect postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("connect redis", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := cache.Close(); err != nil {
				logger.Warn("close redis", "error", err)
			}
		}()
	}

	var notificationRepo notification.Repository
	if db != nil {
		notificationRepo = notification.NewPostgresRepository(db)
	} else {
		notificationRepo = notification.NewMemoryRepository()
	}
	notificationSvc := notification.NewService(notificationRepo)

	var channel event.Channel
	if cache != nil {
		hostname, _ := os.Hostname()
		channel = event.NewRedisChannel(cache, cfg.EventStream, cfg.EventGroup, hostname, logger)
	} else {
		channel = event.NewMemoryChannel()
	}

	consumerErrCh := make(chan error, 1)
	go func() {
		consumerErrCh <- channel.Run(ctx, notificationSvc.HandleEvent)
	}()

	srv, err := server.New(cfg, db, cache, channel, notificationSvc, logger)
	if err != nil {
		logger.Error("build server", "error", err)
		os.Exit(1)
	}

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
		return
	case err := <-consumerErrCh:
		logger.Error("event consumer error", "error", err)
		os.Exit(1)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	cancel()
	if err := <-consumerErrCh; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("event consumer stopped", "error", err)
	}

	logger.Info("server exited cleanly")
}
