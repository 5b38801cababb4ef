package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldops/catalog-system/internal/api"
	"github.com/fieldops/catalog-system/internal/core/service"
	"github.com/fieldops/catalog-system/internal/infrastructure/blob"
	mongodb "github.com/fieldops/catalog-system/internal/infrastructure/db/mongo"
	redisdb "github.com/fieldops/catalog-system/internal/infrastructure/db/redis"
	"github.com/fieldops/catalog-system/internal/infrastructure/queue"
	"github.com/fieldops/catalog-system/internal/infrastructure/recommender"
	"github.com/fieldops/catalog-system/internal/pkg/config"
	"github.com/fieldops/catalog-system/pkg/logger"
)

// @title        Field Catalog API
// @version      1.0
// @description  Catalog ingestion and scan event pipelines for field operators.
// @BasePath     /
func main() {
	// 1. Load config
	cfg := config.Load()

	// 2. Setup logger
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	log.Info().Str("env", cfg.Env).Msg("starting catalog api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect MongoDB
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	// 4. Connect Redis
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// 5. Blob store + recommendation client
	blobStore, err := blob.NewS3Store(blob.Config{
		Bucket:          cfg.Blob.Bucket,
		Region:          cfg.Blob.Region,
		Endpoint:        cfg.Blob.Endpoint,
		AccessKeyID:     cfg.Blob.AccessKeyID,
		SecretAccessKey: cfg.Blob.SecretAccessKey,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("blob store initialization failed")
	}
	recoClient := recommender.NewClient(cfg.Reco.BaseURL, cfg.Reco.Timeout)

	// 6. Repositories
	productRepo := mongodb.NewProductRepository(db)
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("product index creation failed")
	}
	userRepo := mongodb.NewUserRepository(db)

	// 7. Services + activation dispatcher
	ingestion := service.NewIngestionService(productRepo, blobStore, log)
	activation := service.NewActivationService(userRepo, log)

	dispatcher := queue.NewDispatcher(cfg.Workers, activation, log)
	dispatcher.Start(ctx)

	debouncer := redisdb.NewScanDebouncer(rdb, cfg.Scan.DebounceWindow)
	scans := service.NewScanService(debouncer, recoClient, dispatcher, log)

	// 8. Router + server
	e := api.NewRouter(api.Deps{
		Ingestion: ingestion,
		Scans:     scans,
		Activator: activation,
		Mongo:     db,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("catalog api listening")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
