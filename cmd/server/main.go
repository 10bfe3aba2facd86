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

	"github.com/anonto42/pigstar/backend/internal/middleware"
	"github.com/anonto42/pigstar/backend/internal/router"
	"github.com/anonto42/pigstar/backend/pkg/config"
	"github.com/anonto42/pigstar/backend/pkg/firebase"
	"github.com/anonto42/pigstar/backend/pkg/logger"
	"github.com/anonto42/pigstar/backend/pkg/media"
	"github.com/anonto42/pigstar/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// Initialize database connections
	db, err := config.InitDB(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize databases", zap.Error(err))
	}
	defer db.CloseDB()

	ctx := context.Background()
	verifier, err := newVerifier(ctx, cfg)
	if err != nil {
		zlog.Fatal("failed to initialize identity verifier", zap.String("provider", cfg.AuthProvider), zap.Error(err))
	}

	store, err := media.NewS3Store(ctx, media.S3Config{
		Bucket:          cfg.MediaBucket,
		Prefix:          cfg.MediaPrefix,
		PublicBaseURL:   cfg.MediaPublicBaseURL,
		Region:          cfg.AWSRegion,
		Endpoint:        cfg.MediaEndpoint,
		AccessKeyID:     cfg.MediaAccessKeyID,
		SecretAccessKey: cfg.MediaSecretKey,
	})
	if err != nil {
		zlog.Fatal("failed to initialize media store", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e, zlog)

	// Setup routes and dependencies
	err = router.SetupRoutes(e, router.Dependencies{
		DB:             db.Postgres,
		Feed:           db.Feed,
		Verifier:       verifier,
		Media:          store,
		MaxUploadBytes: cfg.MediaMaxUploadBytes,
		Log:            zlog,
	})
	if err != nil {
		zlog.Fatal("failed to set up routes", zap.Error(err))
	}

	metricsServer := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: promhttp.Handler()}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server stopped", zap.Error(err))
		}
	}()
	zlog.Info("server started", zap.String("port", cfg.Port), zap.String("metrics_port", cfg.MetricsPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		zlog.Error("server shutdown failed", zap.Error(err))
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		zlog.Error("metrics server shutdown failed", zap.Error(err))
	}
}

func newVerifier(ctx context.Context, cfg *config.Config) (middleware.IdentityVerifier, error) {
	switch cfg.AuthProvider {
	case "jwt":
		return middleware.NewJWTVerifier(cfg.JWTSecret)
	case "firebase":
		app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return nil, err
		}
		return firebase.NewVerifier(app.AuthClient), nil
	default:
		return nil, errors.New("AUTH_PROVIDER must be firebase or jwt")
	}
}
