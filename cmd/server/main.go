package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"anoa.com/skillnest/internal/bootstrap"
	"anoa.com/skillnest/internal/config"
	"anoa.com/skillnest/internal/server"
	"anoa.com/skillnest/pkg/database"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/scraper"
	"anoa.com/skillnest/pkg/storage"

	searchService "anoa.com/skillnest/internal/modules/search/service"

	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.Connect(database.Config{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		SSLMode:  cfg.DBSSLMode,
		Debug:    !cfg.IsProduction(),
	})
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal("migration failed", "error", err)
	}
	if err := bootstrap.SeedCategories(db); err != nil {
		log.Fatal("failed to seed categories", "error", err)
	}
	if err := bootstrap.SeedAdminUser(db, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Fatal("failed to seed admin user", "error", err)
	}

	redisClient := connectRedis(cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Keep the interface nil when search is off so services fall back to the database.
	var indexer searchService.Indexer
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		indexer = searchService.NewMeiliIndexer(meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey)), log)
		log.Info("meilisearch enabled", "host", host)
	} else {
		log.Warn("MEILISEARCH_HOST not set, search uses the database")
	}

	var imageStorage storage.ImageStorage
	cld, err := storage.NewCloudinaryStorage(storage.Config{
		URL:       cfg.CloudinaryURL,
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	})
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("cloudinary not configured, image uploads are disabled")
	case err != nil:
		log.Fatal("failed to initialize cloudinary storage", "error", err)
	default:
		imageStorage = cld
	}

	srv, err := server.NewServer(cfg, server.Deps{
		DB:           db,
		Redis:        redisClient,
		Indexer:      indexer,
		ImageStorage: imageStorage,
		Scraper:      scraper.NewWebScraper(10 * time.Second),
		Log:          log,
	})
	if err != nil {
		log.Fatal("failed to build server", "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal("server exited with error", "error", err)
		}
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// connectRedis returns nil when REDIS_URL is unset or unreachable; rate limits, view dedup and live notifications are then off.
func connectRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		log.Warn("REDIS_URL not set, running without redis")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("invalid REDIS_URL", "error", err)
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, running without redis", "error", err)
		_ = client.Close()
		return nil
	}

	log.Info("redis connected")
	return client
}
