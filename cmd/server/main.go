package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tracebloom.backend/internal/config"
	"tracebloom.backend/internal/infrastructure/models"
	"tracebloom.backend/internal/infrastructure/repositories"
	"tracebloom.backend/internal/infrastructure/storage"
	"tracebloom.backend/internal/interfaces/http/handlers"
	"tracebloom.backend/internal/interfaces/http/middleware"
	"tracebloom.backend/internal/usecases"
	"tracebloom.backend/pkg/jwt"
	"tracebloom.backend/pkg/logger"
	"tracebloom.backend/pkg/metrics"
	"tracebloom.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	openDB     = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		gormCfg := &gorm.Config{TranslateError: true}
		switch cfg.Driver {
		case "sqlite":
			return gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		case "postgres", "":
			return gorm.Open(postgres.New(postgres.Config{
				DSN:                  cfg.URL(),
				PreferSimpleProtocol: true,
			}), gormCfg)
		}
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	connectRedis  = redis.New
	newImageStore = func(cfg config.StorageConfig) (storage.ImageStore, error) {
		switch cfg.Driver {
		case "cloudflare":
			return storage.NewCloudflareStore(cfg.CloudflareAccountID, cfg.CloudflareAPIToken)
		case "local", "":
			return storage.NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
		}
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Driver)
	}
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

// app is the wired server plus the resources it owns
type app struct {
	router  *gin.Engine
	db      *gorm.DB
	cache   *redis.Client
	metrics *metrics.Registry
}

func (a *app) close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if sqlDB, err := getStdDB(a.db); err == nil {
		_ = sqlDB.Close()
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	if err := logger.AttachSentry(cfg.Sentry.DSN, cfg.Server.Env); err != nil {
		logger.Warn(ctx, "Sentry disabled", zap.Error(err))
	}
	defer logger.Flush(2 * time.Second)
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "TraceBloom backend starting",
		zap.String("port", cfg.Server.Port),
		zap.String("api", "http://localhost:"+cfg.Server.Port+"/api"),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// buildApp connects the stores and wires repositories, usecases and handlers
func buildApp(cfg *config.Config) (*app, error) {
	ctx := context.Background()

	db, err := openDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		logger.Warn(ctx, "Database not available, endpoints will return errors", zap.Error(err))
	} else if cfg.Database.AutoMigrate {
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(ctx, "Database migrated", zap.String("driver", cfg.Database.Driver))
	}

	a := &app{db: db, metrics: metrics.NewRegistry()}

	// the replay cache is optional; without redis decisions run unguarded
	var idempotencyStore middleware.IdempotencyStore
	if cfg.Redis.URL != "" {
		cache, err := connectRedis(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.cache = cache
		idempotencyStore = cache
		logger.Info(ctx, "Redis initialized")
	}

	store, err := newImageStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry)

	uow := repositories.NewUnitOfWork(db)
	userRepo := repositories.NewUserRepository(db)
	batchRepo := repositories.NewBatchRepository(db)
	distributorActionRepo := repositories.NewDistributorActionRepository(db)
	consumerActionRepo := repositories.NewConsumerActionRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	consumerPaymentRepo := repositories.NewConsumerPaymentRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)

	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService)
	walletUsecase := usecases.NewWalletAuthUsecase(userRepo, jwtService)
	batchUsecase := usecases.NewBatchUsecase(batchRepo, userRepo, paymentRepo, storage.NewUploader(store))
	distributorUsecase := usecases.NewDistributorUsecase(uow, batchRepo, userRepo, distributorActionRepo, consumerActionRepo, paymentRepo, a.metrics)
	consumerUsecase := usecases.NewConsumerUsecase(uow, batchRepo, userRepo, distributorActionRepo, consumerActionRepo, consumerPaymentRepo, reviewRepo, a.metrics, cfg.Pricing.ConsumerRate)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(a.metrics))

	applyCORSMiddleware(r, cfg.CORS.AllowedOrigins)
	registerHealthRoute(r)
	r.GET("/metrics", gin.WrapH(a.metrics.Handler()))
	if local, ok := store.(*storage.LocalStore); ok {
		r.Static("/uploads", local.Dir())
	}

	registerAPIRoutes(r, routeDeps{
		authHandler:        handlers.NewAuthHandler(authUsecase, walletUsecase),
		farmerHandler:      handlers.NewFarmerHandler(batchUsecase),
		distributorHandler: handlers.NewDistributorHandler(distributorUsecase),
		consumerHandler:    handlers.NewConsumerHandler(consumerUsecase),
		authMiddleware:     middleware.AuthMiddleware(jwtService),
		idempotency:        middleware.IdempotencyMiddleware(idempotencyStore),
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	a.router = r
	return a, nil
}
