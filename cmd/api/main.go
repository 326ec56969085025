package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/hint-engine-api/internal/catalog"
	"github.com/noah-isme/hint-engine-api/internal/config"
	"github.com/noah-isme/hint-engine-api/internal/database"
	"github.com/noah-isme/hint-engine-api/internal/handler"
	"github.com/noah-isme/hint-engine-api/internal/middleware"
	"github.com/noah-isme/hint-engine-api/internal/models"
	"github.com/noah-isme/hint-engine-api/internal/repository"
	"github.com/noah-isme/hint-engine-api/internal/router"
	"github.com/noah-isme/hint-engine-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := connectDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Session{}, &models.Submission{}, &models.LearningRecord{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// A catalog that leaves any (category, level) bucket uncovered must
	// abort startup, never surface mid-request.
	bank, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("failed to load hint catalog: %v", err)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer cache.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	sessionRepo := repository.NewSessionRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	learningRepo := repository.NewLearningRepository(db)

	selector := service.NewSelector(cfg.Epsilon)
	hintService := service.NewHintService(sessionRepo, submissionRepo, learningRepo, bank, selector, validate, logger)
	reportService := service.NewReportService(learningRepo, sessionRepo, submissionRepo, cache, cfg.ReportCacheTTL, logger)

	hintHandler := handler.NewHintHandler(hintService, validate, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		HintHandler:      hintHandler,
		ReportHandler:    reportHandler,
		APIKeyMiddleware: middleware.APIKeyProtected(cfg.APIKey),
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func connectDatabase(cfg config.Config) (*gorm.DB, error) {
	if cfg.UsesPostgres() {
		return database.ConnectPostgres(cfg.DatabaseURL)
	}
	return database.ConnectSQLite(cfg.SQLitePath)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
