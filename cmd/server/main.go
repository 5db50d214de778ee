package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huyhoangtran00/portfolio/internal/config"
	"github.com/huyhoangtran00/portfolio/internal/database"
	"github.com/huyhoangtran00/portfolio/internal/handlers"
	"github.com/huyhoangtran00/portfolio/internal/logging"
	"github.com/huyhoangtran00/portfolio/internal/mailer"
	"github.com/huyhoangtran00/portfolio/internal/metrics"
	"github.com/huyhoangtran00/portfolio/internal/repositories"
	"github.com/huyhoangtran00/portfolio/internal/services"
	"github.com/huyhoangtran00/portfolio/internal/storage"
	"github.com/huyhoangtran00/portfolio/internal/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx := context.Background()

	godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize database connections
	postgresPool, err := database.NewPostgresPool(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: cfg.DBMaxConnLifetime,
		MaxConnIdleTime: cfg.DBMaxConnIdleTime,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to create postgres pool: %v", err)
	}
	defer postgresPool.Close()

	if cfg.AutoMigrate {
		if err := database.RunMigrations(ctx, postgresPool); err != nil {
			logger.Fatalf("Failed to run migrations: %v", err)
		}
		logger.Info("Migrations applied")
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.RedisURL, database.RedisConfig{
		PoolSize:    cfg.RedisPoolSize,
		DialTimeout: cfg.RedisDialTimeout,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to create redis client: %v", err)
	}
	defer redisClient.Close()

	// Repositories
	accountRepo := repositories.NewPostgresAccountRepository(postgresPool)
	projectRepo := repositories.NewPostgresProjectRepository(postgresPool)
	consumedRepo := repositories.NewRedisConsumedTokenRepository(redisClient)

	var blobs storage.BlobStore
	staticDir := ""
	switch cfg.BlobBackend {
	case config.BlobBackendS3:
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UsePathStyle:  cfg.S3UsePathStyle,
			PublicBaseURL: cfg.S3PublicURL(),
		})
		if err != nil {
			logger.Fatalf("Failed to create S3 store: %v", err)
		}
		if err := s3Store.EnsureBucket(ctx); err != nil {
			logger.WithError(err).Warn("Could not ensure S3 bucket exists")
		}
		blobs = s3Store
	default:
		fileStore, err := storage.NewFileStore(cfg.StaticDir, cfg.StaticFilesBaseURL)
		if err != nil {
			logger.Fatalf("Failed to create file store: %v", err)
		}
		blobs = fileStore
		staticDir = fileStore.Dir()
	}
	logger.WithField("backend", cfg.BlobBackend).Info("Blob store configured")

	// Services
	authService := services.NewAuthService(
		accountRepo,
		consumedRepo,
		utils.NewBcryptHasher(cfg.BcryptCost),
		services.AuthTokens{
			Access:  services.NewTokenService(cfg.AccessSecret()),
			Refresh: services.NewTokenService(cfg.RefreshSecret()),
			Reset:   services.NewTokenService(cfg.ResetSecret()),
		},
		mailer.New(cfg.EmailAPIKey, cfg.SenderEmail, logger),
		services.AuthConfig{
			AccessTokenTTL:  cfg.AccessTokenTTL,
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			ResetTokenTTL:   cfg.ResetTokenTTL,
			FrontendURL:     cfg.FrontendURL,
		},
		logger,
	)
	profileService := services.NewProfileService(accountRepo, projectRepo, blobs, logger)
	projectService := services.NewProjectService(projectRepo, logger)

	var appMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		appMetrics = metrics.New()
	}

	// Initialize HTTP Server
	router := handlers.NewRouter(handlers.RouterConfig{
		Auth:        authService,
		Metrics:     appMetrics,
		Profiles:    profileService,
		Projects:    projectService,
		StaticDir:   staticDir,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Infof("Starting server on port %s", cfg.ServerPort)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Info("Server stopped gracefully")
}
