package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"rawwealthy.backend/internal/config"
	"rawwealthy.backend/internal/infrastructure/datasources/postgres"
	"rawwealthy.backend/internal/infrastructure/repositories"
	"rawwealthy.backend/internal/usecases"
	"rawwealthy.backend/pkg/logger"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	openDB     = postgres.NewConnection
	migrate    = postgres.Migrate
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context) error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := loadCfg()
	initLog(cfg.Server.Env)

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrate(db); err != nil {
		return err
	}

	result, err := seed(ctx, db, cfg)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Database seeded",
		zap.Int("usersCreated", result.UsersCreated),
		zap.Int("plansCreated", result.PlansCreated),
		zap.Int("plansSkipped", result.PlansSkipped),
	)
	return nil
}

func seed(ctx context.Context, db *gorm.DB, cfg *config.Config) (*summary, error) {
	userRepo := repositories.NewUserRepository(db)
	planRepo := repositories.NewInvestmentPlanRepository(db)
	s := &seeder{
		users:   userRepo,
		plans:   planRepo,
		creator: usecases.NewPlanUsecase(planRepo, userRepo, nil, cfg.Plans),
		cost:    cfg.Security.BcryptCost,
		now:     time.Now,
	}
	return s.run(ctx)
}
