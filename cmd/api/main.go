package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microtask/internal/adapter/api/handler"
	"microtask/internal/app"
	"microtask/internal/domain/service"
	"microtask/internal/infrastructure/cache"
	"microtask/internal/infrastructure/events"
	"microtask/internal/infrastructure/firebase"
	"microtask/internal/infrastructure/messagequeue"
	"microtask/internal/infrastructure/storage"
	"microtask/internal/usecase"
	"microtask/pkg/config"
	"microtask/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := app.OpenStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", cfg.DatabaseDriver, err)
	}
	defer stores.Close()

	var verifier usecase.IdentityVerifier
	switch {
	case stores.Firebase != nil:
		verifier = stores.Firebase.Auth
	case cfg.FirebaseProject != "":
		clients, err := firebase.NewClients(ctx, cfg, false)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase Auth: %v", err)
		}
		verifier = clients.Auth
	default:
		logger.Warn("Firebase is not configured; /jwt only accepts development logins")
	}

	checks := map[string]handler.Pinger{}

	var idempotency cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Address:  cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisCache.Close()
		idempotency = redisCache
		checks["redis"] = redisCache.Ping
	}

	publisher := events.NewFanout()
	if cfg.RabbitMQURL != "" {
		mq, err := messagequeue.NewLedgerEventPublisher(messagequeue.RabbitMQConfig{
			URL:   cfg.RabbitMQURL,
			Queue: cfg.LedgerEventsQueue,
		})
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mq.Close()
		publisher.Add("rabbitmq", mq)
	}

	var images service.ImageStore
	if cfg.GCSBucket != "" {
		imageStore, err := storage.NewImageStore(ctx, storage.GCSConfig{
			Bucket:          cfg.GCSBucket,
			CredentialsJSON: cfg.FirebaseServiceAccountJSON,
			CredentialsPath: cfg.FirebaseServiceAccountPath,
		})
		if err != nil {
			log.Fatalf("Failed to create image store: %v", err)
		}
		defer imageStore.Close()
		images = imageStore
	}

	gateway := app.NewPaymentGateway(cfg)
	logger.Info("Using %s store and %s payments", stores.Driver, gateway.Name())

	server, err := app.NewServer(ctx, app.Options{
		Config:    cfg,
		Stores:    stores,
		Gateway:   gateway,
		Verifier:  verifier,
		Cache:     idempotency,
		Publisher: publisher,
		Checks:    checks,
		Images:    images,
	})
	if err != nil {
		log.Fatalf("Failed to build server: %v", err)
	}

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := server.Echo.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Echo.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed: %v", err)
	}
}
