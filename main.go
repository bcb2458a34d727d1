package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kendall-kelly/pizzeria-api/config"
	"github.com/kendall-kelly/pizzeria-api/logger"
	"github.com/kendall-kelly/pizzeria-api/repository"
	"github.com/kendall-kelly/pizzeria-api/services"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger is not configured yet
		zap.NewExample().Fatal("Failed to load configuration", zap.Error(err))
	}

	log, err := logger.New(cfg.GoEnv, cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	logger.Set(log)
	defer func() { _ = log.Sync() }()

	log.Info("Starting Pizzeria API server...", zap.String("env", cfg.GoEnv))

	if err := config.ConnectDatabase(cfg, log); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	db := config.GetDB()
	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database migration completed successfully")

	ctx := context.Background()
	deps := services.Dependencies{
		Store:  repository.NewStore(db),
		Config: cfg,
		Logger: log,
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unavailable, continuing without catalog cache", zap.Error(err))
			_ = client.Close()
		} else {
			defer client.Close()
			deps.Cache = services.NewRedisCatalogCache(client, cfg.CacheTTL)
			log.Info("Catalog cache enabled", zap.String("addr", cfg.RedisAddr))
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := services.NewKafkaEventPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		deps.Events = publisher
		log.Info("Publishing domain events to Kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.NewS3Service(ctx, cfg, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 service", zap.Error(err))
		}
		deps.Images = services.NewS3ImageService(s3Service)
		log.Info("Dish image storage enabled", zap.String("bucket", cfg.AWSS3Bucket))
	}

	svc := services.New(deps)

	created, err := svc.Users.SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		log.Fatal("Failed to seed admin user", zap.Error(err))
	}
	if created {
		log.Info("Admin user created", zap.String("username", cfg.AdminUsername))
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(cfg, svc, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server is running", zap.String("addr", "http://localhost:"+cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("Received shutdown signal")
	case err := <-serverErr:
		log.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
