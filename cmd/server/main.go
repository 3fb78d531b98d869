package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice_server/internal/config"
	"invoice_server/internal/handler"
	"invoice_server/internal/logging"
	"invoice_server/internal/metrics"
	"invoice_server/internal/notify"
	"invoice_server/internal/otp"
	"invoice_server/internal/repository"
	"invoice_server/internal/service"
	"invoice_server/internal/storage"
	"invoice_server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.UsingDevSecret() {
		logger.Warn("JWT_SECRET not set, using the development secret")
	}

	ctx := context.Background()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Migrations ---
	if err := config.Migrate(cfg.DatabaseURL, "up"); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	billRepo := repository.NewBillRepository(dbPool)
	bottleOrderRepo := repository.NewBottleOrderRepository(dbPool)
	companyRepo := repository.NewCompanyRepository(dbPool)

	// --- Seed ---
	seeder := &service.Seeder{Users: userRepo, Products: productRepo, Logger: logger}
	if _, err := seeder.SeedProducts(ctx); err != nil {
		logger.Fatalf("Failed to seed products: %v", err)
	}
	if _, err := seeder.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatalf("Failed to seed admin user: %v", err)
	}

	// --- OTP ledger and delivery ---
	ledger, closeLedger, err := newLedger(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to set up OTP store: %v", err)
	}
	defer closeLedger()
	dispatcher := notify.NewDispatcher(newPushSender(ctx, cfg, logger), logger)

	// --- Images ---
	images, uploadsDir, err := newImageStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("Failed to set up image store: %v", err)
	}

	// --- Initialize Services ---
	jwtUtil := utils.NewJWTUtil(cfg.JWTSecret, utils.TokenValidityHours)
	m := metrics.New(prometheus.NewRegistry())

	authService := service.NewAuthService(service.AuthDeps{
		Users:       userRepo,
		JWT:         jwtUtil,
		Ledger:      ledger,
		AdminPhones: otp.ParseAdminPhones(cfg.AdminPhones),
		Deliverer:   dispatcher,
		Metrics:     m,
		Logger:      logger,
	})

	// --- Setup Gin Router ---
	router := handler.NewRouter(handler.RouterDeps{
		Auth:           authService,
		Products:       service.NewProductService(productRepo, images),
		Bills:          service.NewBillService(billRepo),
		BottleOrders:   service.NewBottleOrderService(bottleOrderRepo),
		Company:        service.NewCompanyService(companyRepo),
		JWT:            jwtUtil,
		Staff:          userRepo,
		Metrics:        m,
		Logger:         logger,
		Health:         dbPool.Ping,
		UploadsDir:     uploadsDir,
		FrontendOrigin: cfg.FrontendOrigin,
		Production:     cfg.IsProduction(),
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("API running at http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exiting")
}

func newLedger(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (otp.Ledger, func(), error) {
	if cfg.OTPStore != config.OTPStoreRedis {
		logger.Info("OTP codes kept in memory; run a single instance")
		return otp.NewMemoryLedger(), func() {}, nil
	}
	client, err := otp.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("OTP codes kept in Redis")
	return otp.NewRedisLedger(client), func() { _ = client.Close() }, nil
}

// newPushSender returns nil when FCM is not configured or cannot start;
// codes are then only logged.
func newPushSender(ctx context.Context, cfg *config.Config, logger *logrus.Logger) notify.Sender {
	var (
		sender *notify.FCMSender
		err    error
	)
	switch {
	case cfg.FCMServiceAccountKey != "":
		var key []byte
		key, err = os.ReadFile(cfg.FCMServiceAccountKey)
		if err == nil {
			sender, err = notify.NewFCMSender(ctx, cfg.FCMProjectID, key)
		}
	case cfg.FCMProjectID != "":
		sender, err = notify.NewDefaultFCMSender(ctx, cfg.FCMProjectID)
	default:
		logger.Info("FCM not configured, OTP codes will be logged")
		return nil
	}
	if err != nil {
		logger.WithError(err).Warn("FCM unavailable, OTP codes will be logged")
		return nil
	}
	logger.WithField("project", sender.ProjectID).Info("FCM push delivery enabled")
	return sender
}

// newImageStore also returns the directory to serve at /uploads, which is
// empty when images live in S3.
func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, string, error) {
	if cfg.ImageStore == config.ImageStoreS3 {
		store, err := storage.NewS3ImageStore(ctx, storage.S3Options{
			Bucket:        cfg.S3.Bucket,
			Region:        cfg.S3.Region,
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		return store, "", err
	}
	store, err := storage.NewLocalImageStore(cfg.UploadsDir)
	if err != nil {
		return nil, "", err
	}
	return store, cfg.UploadsDir, nil
}
