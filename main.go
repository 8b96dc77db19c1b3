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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/kidwell/api-backend/docs"
	"github.com/kidwell/api-backend/internal/config"
	"github.com/kidwell/api-backend/internal/database"
	"github.com/kidwell/api-backend/internal/handlers"
	"github.com/kidwell/api-backend/internal/logging"
	"github.com/kidwell/api-backend/internal/repositories"
	"github.com/kidwell/api-backend/internal/server"
	"github.com/kidwell/api-backend/internal/services"
	"github.com/kidwell/api-backend/internal/storage"
)

// @title KidWell API
// @version 1.0
// @description Child wellbeing tracker backend: daily health logs and AI health advice.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Parent token, sent as "Bearer <token>". Not required when authentication is disabled.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		return err
	}
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)

	dbConfig := database.DefaultConfig(cfg.Database.Path)
	dbConfig.Logger = logger
	db, err := database.InitDB(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	ctx := context.Background()

	if cfg.IsProduction() && !cfg.Auth.Enabled() {
		logger.Warn("AUTH_JWT_SECRET is not set in production; every request is served as the anonymous parent")
	}

	images, err := newImageStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	gateway, err := services.NewAdviceGateway(&services.AdviceGatewayConfig{
		BaseURL: cfg.Advice.BaseURL,
		BotID:   cfg.Advice.BotID,
		APIKey:  cfg.Advice.APIKey,
		Timeout: cfg.Advice.Timeout,
	}, logger.Named("gateway"))
	if err != nil {
		return fmt.Errorf("failed to create advice gateway: %w", err)
	}
	logger.Info("advice backend configured", zap.String("endpoint", gateway.Endpoint()))
	if cfg.Advice.APIKey == "" {
		logger.Warn("ADVICE_API_KEY is not set; advice requests will fail as unauthorized")
	}

	adviceService, err := services.NewAdviceService(gateway, &services.AdviceServiceConfig{
		MaxRetries:     cfg.Advice.MaxRetries,
		RetryBaseDelay: cfg.Advice.RetryBaseDelay,
	}, logger.Named("advice"))
	if err != nil {
		return fmt.Errorf("failed to create advice service: %w", err)
	}

	logRepo := repositories.NewDailyLogRepository(db)
	recordService := services.NewRecordService(logRepo, images, adviceService, logger.Named("records"))

	var digest services.DigestSender
	if cfg.Email.Enabled() {
		emailService, err := services.NewEmailService(ctx, &services.EmailConfig{
			FromEmail: cfg.Email.FromEmail,
			Region:    cfg.Email.Region,
		}, logger.Named("email"))
		if err != nil {
			return fmt.Errorf("failed to create email service: %w", err)
		}
		digest = emailService
	}

	deps := server.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Advice:  handlers.NewAdviceHandler(adviceService, recordService, digest, logger.Named("advice")),
		Records: handlers.NewRecordHandler(recordService, logger.Named("records")),
		Ready: func(ctx context.Context) error {
			return database.Ping(ctx, db)
		},
	}

	if cfg.Retention.Days > 0 {
		cleanupService := services.NewCleanupService(logRepo, images, cfg.Retention.Days, logger.Named("cleanup"))
		cleanupService.Start()
		defer cleanupService.Stop()
		deps.Cleanup = handlers.NewCleanupHandler(cleanupService, logger.Named("cleanup"))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           server.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout(cfg.Advice),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Server.Environment),
			zap.Bool("auth_enabled", cfg.Auth.Enabled()),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return waitForShutdown(srv, errCh, logger)
}

// requestSlack covers body parsing, photo storage and database work around the advice call
const requestSlack = 15 * time.Second

// writeTimeout bounds the slowest advice request: every attempt timing out,
// the full jittered backoff between attempts, then the digest email.
func writeTimeout(advice config.AdviceConfig) time.Duration {
	attempts := time.Duration(advice.MaxRetries + 1)
	var backoff time.Duration
	delay := advice.RetryBaseDelay
	for i := 0; i < advice.MaxRetries; i++ {
		backoff += delay
		delay *= 2
	}
	// retry jitter adds up to 10% to each delay
	backoff += backoff / 10
	return advice.Timeout*attempts + backoff + handlers.DigestTimeout + requestSlack
}

func newImageStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.ImageStore, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		store, err := storage.NewS3ImageStore(ctx, cfg.Storage.S3Bucket, cfg.Storage.S3Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create S3 image store: %w", err)
		}
		logger.Info("storing meal photos in S3", zap.String("bucket", cfg.Storage.S3Bucket))
		return store, nil
	default:
		store, err := storage.NewLocalImageStore(cfg.Storage.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create local image store: %w", err)
		}
		logger.Info("storing meal photos on disk", zap.String("root", store.Root()))
		return store, nil
	}
}

func waitForShutdown(srv *http.Server, errCh <-chan error, logger *zap.Logger) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-stop:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
