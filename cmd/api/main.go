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
	"github.com/rs/zerolog"

	"github.com/taskscore/taskscore-api/internal/config"
	"github.com/taskscore/taskscore-api/internal/database"
	"github.com/taskscore/taskscore-api/internal/handler"
	"github.com/taskscore/taskscore-api/internal/middleware"
	"github.com/taskscore/taskscore-api/internal/models"
	"github.com/taskscore/taskscore-api/internal/repository"
	"github.com/taskscore/taskscore-api/internal/router"
	"github.com/taskscore/taskscore-api/internal/service"
	"github.com/taskscore/taskscore-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Task{}, &models.Evaluation{}, &models.Payment{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	generator := buildGenerator(cfg, logger)
	if generator == nil {
		logger.Warn().Str("provider", cfg.AIProvider).Msg("no AI provider configured; evaluation endpoint disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	taskRepo := repository.NewTaskRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	taskService := service.NewTaskService(taskRepo, validate, logger)
	reportService := service.NewReportService(evaluationRepo, redisClient, cfg.ReportCacheTTL, logger)
	evaluationService := service.NewEvaluationService(taskRepo, evaluationRepo, generator, validate, reportService, logger, service.EvaluationConfig{
		MaxAttempts: cfg.AIMaxAttempts,
		RetryBase:   cfg.AIRetryBackoff,
		Timeout:     cfg.EvaluationTimeout,
	})
	paymentService := service.NewPaymentService(paymentRepo, evaluationRepo, reportService, validate, logger, service.PaymentConfig{
		Amount:   cfg.PaymentAmount,
		Currency: cfg.PaymentCurrency,
	})

	taskHandler := handler.NewTaskHandler(taskService, validate, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TaskHandler:       taskHandler,
		EvaluationHandler: evaluationHandler,
		ReportHandler:     reportHandler,
		PaymentHandler:    paymentHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		EvaluateLimiter:   middleware.RateLimit("evaluate", 5, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func buildGenerator(cfg config.Config, logger zerolog.Logger) ai.TextGenerator {
	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil
		}
		generator, err := ai.NewOpenAIClient(ai.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.OpenAIModel,
			Temperature: float32(cfg.AITemperature),
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai client: %v", err)
		}
		return generator
	default:
		if cfg.GeminiAPIKey == "" {
			return nil
		}
		generator, err := ai.NewGeminiClient(ai.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			Temperature: cfg.AITemperature,
			Streaming:   cfg.GeminiStreaming,
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("failed to create gemini client: %v", err)
		}
		return generator
	}
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
