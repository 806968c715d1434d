package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rawwealthy.backend/internal/config"
	"rawwealthy.backend/internal/infrastructure/datasources/postgres"
	"rawwealthy.backend/internal/infrastructure/jobs"
	"rawwealthy.backend/internal/infrastructure/notifications"
	"rawwealthy.backend/internal/infrastructure/repositories"
	"rawwealthy.backend/internal/interfaces/http/handlers"
	"rawwealthy.backend/internal/interfaces/http/middleware"
	"rawwealthy.backend/internal/usecases"
	"rawwealthy.backend/pkg/jwt"
	"rawwealthy.backend/pkg/logger"
	"rawwealthy.backend/pkg/metrics"
	"rawwealthy.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv      = godotenv.Load
	loadCfg         = config.Load
	initLog         = logger.Init
	initRedis       = redis.Init
	openDB          = postgres.NewConnection
	migrateDB       = postgres.Migrate
	newSessionStore = redis.NewSessionStore
	runServer       = serve
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

// serve blocks until the listener fails or ctx is cancelled, then drains
// in-flight requests.
func serve(ctx context.Context, handler http.Handler, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	if cfg.Server.LogLevel != "" {
		logger.SetLevel(cfg.Server.LogLevel)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := migrateDB(db); err != nil {
			return err
		}
		logger.Info(ctx, "Database schema migrated")
	}

	collector := metrics.NewCollector()

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	userRepo := repositories.NewUserRepository(db)
	planRepo := repositories.NewInvestmentPlanRepository(db)
	uow := repositories.NewUnitOfWork(db)

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	notifier := notifications.NewLogNotifier(cfg.Security.PasswordResetURL)

	authUsecase := usecases.NewAuthUsecase(userRepo, uow, jwtService, sessionStore, notifier, collector, cfg.Security)
	userUsecase := usecases.NewUserUsecase(userRepo, uow)
	planUsecase := usecases.NewPlanUsecase(planRepo, userRepo, collector, cfg.Plans)

	authHandler := handlers.NewAuthHandler(authUsecase, handlers.CookieOptions{
		MaxAge: cfg.Security.SessionExpiry,
		Secure: cfg.Server.Env == "production",
	})
	userHandler := handlers.NewUserHandler(userUsecase)
	planHandler := handlers.NewPlanHandler(planUsecase)
	adminHandler := handlers.NewAdminHandler(userUsecase)
	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthCheck{
		"database": sqlDB.PingContext,
		"redis":    redis.Ping,
	})

	cleanupJob := jobs.NewResetTokenCleanupJob(userRepo, collector, cfg.Jobs.ResetTokenCleanupInterval)
	go cleanupJob.Start(ctx)
	defer cleanupJob.Stop()

	r := newRouter(collector, cfg.Server.AllowedOrigins)
	registerHealthRoute(r, healthHandler)
	if cfg.Metrics.Enabled {
		registerMetricsRoute(r, collector, cfg.Metrics.Path)
	}
	registerAPIV1Routes(r, routeDeps{
		authHandler:    authHandler,
		userHandler:    userHandler,
		planHandler:    planHandler,
		adminHandler:   adminHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService, authUsecase),
		idempotencyTTL: cfg.Security.IdempotencyTTL,
	})

	for _, route := range r.Routes() {
		logger.Debug(ctx, "Route registered", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	logger.Info(ctx, "Raw Wealthy backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)
	if err := runServer(ctx, r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(context.Background(), "Server stopped")
	return nil
}
