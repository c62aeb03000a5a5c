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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/config"
	"github.com/quizly-app/quizly-api/internal/database"
	"github.com/quizly-app/quizly-api/internal/handler"
	"github.com/quizly-app/quizly-api/internal/middleware"
	"github.com/quizly-app/quizly-api/internal/models"
	"github.com/quizly-app/quizly-api/internal/repository"
	"github.com/quizly-app/quizly-api/internal/router"
	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/pkg/ai"
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

	if err := db.AutoMigrate(&models.User{}, &models.Question{}, &models.Answer{}, &models.Appeal{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSUrl != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, appeal events stay in-process")
	}

	grader := buildGrader(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	appealRepo := repository.NewAppealRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	locks := service.NewUserLocks()
	notifier := service.NewAppealNotifier(natsConn, "", logger)

	activityService := service.NewActivityService(activityRepo, logger)
	answerService := service.NewAnswerService(answerRepo, userRepo, questionRepo, grader, locks, activityService, validate, logger)
	appealService := service.NewAppealService(appealRepo, answerRepo, userRepo, locks, activityService, notifier, validate, logger)
	questionService := service.NewQuestionService(questionRepo, userRepo, answerRepo, activityService, validate, logger)
	leaderboardService := service.NewLeaderboardService(userRepo, redisClient, cfg.LeaderboardCacheTTL, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AnswerHandler:            handler.NewAnswerHandler(answerService, logger),
		AppealHandler:            handler.NewAppealHandler(appealService, notifier, logger),
		QuestionHandler:          handler.NewQuestionHandler(questionService, logger),
		LeaderboardHandler:       handler.NewLeaderboardHandler(leaderboardService, logger),
		ProfessorAppealHandler:   handler.NewProfessorAppealHandler(appealService, logger),
		ProfessorQuestionHandler: handler.NewProfessorQuestionHandler(questionService, logger),
		ProfessorActivityHandler: handler.NewProfessorActivityHandler(activityService, logger),
		JWTMiddleware:            middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildGrader wires the configured AI provider behind the fallback decorator.
func buildGrader(cfg config.Config, logger zerolog.Logger) ai.Grader {
	var inner ai.Grader

	switch cfg.AIProvider {
	case "anthropic":
		grader, err := ai.NewAnthropicGrader(ai.AnthropicConfig{APIKey: cfg.AnthropicAPIKey, Model: cfg.AIModel})
		if err != nil {
			logger.Error().Err(err).Msg("anthropic grader unavailable")
		} else {
			inner = grader
		}
	default:
		grader, err := ai.NewOpenAIGrader(ai.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.AIModel,
			Logger: logger,
		})
		if err != nil {
			logger.Error().Err(err).Msg("openai grader unavailable")
		} else {
			inner = grader
		}
	}

	return ai.NewSafeGrader(inner, logger)
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
