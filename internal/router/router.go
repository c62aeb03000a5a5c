package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quizly-app/quizly-api/internal/config"
	"github.com/quizly-app/quizly-api/internal/handler"
	"github.com/quizly-app/quizly-api/internal/middleware"
	"github.com/quizly-app/quizly-api/internal/models"
	"github.com/quizly-app/quizly-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AnswerHandler            *handler.AnswerHandler
	AppealHandler            *handler.AppealHandler
	QuestionHandler          *handler.QuestionHandler
	LeaderboardHandler       *handler.LeaderboardHandler
	ProfessorAppealHandler   *handler.ProfessorAppealHandler
	ProfessorQuestionHandler *handler.ProfessorQuestionHandler
	ProfessorActivityHandler *handler.ProfessorActivityHandler
	JWTMiddleware            fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.QuestionHandler != nil {
		questions := api.Group("/questions", jwtMiddleware)
		deps.QuestionHandler.Register(questions)
	}

	if deps.AnswerHandler != nil {
		answers := api.Group("/answers", jwtMiddleware,
			middleware.RateLimit("answers", 20, time.Minute))
		deps.AnswerHandler.Register(answers)
	}

	if deps.AppealHandler != nil {
		appeals := api.Group("/appeals", jwtMiddleware)
		deps.AppealHandler.Register(appeals)
	}

	if deps.LeaderboardHandler != nil {
		leaderboard := api.Group("/leaderboard", jwtMiddleware)
		deps.LeaderboardHandler.Register(leaderboard)
	}

	professor := api.Group("/professor", jwtMiddleware, middleware.RequireRole(models.RoleProfessor))

	if deps.ProfessorAppealHandler != nil {
		deps.ProfessorAppealHandler.Register(professor.Group("/appeals"))
	}
	if deps.ProfessorQuestionHandler != nil {
		deps.ProfessorQuestionHandler.Register(professor.Group("/questions"))
	}
	if deps.ProfessorActivityHandler != nil {
		deps.ProfessorActivityHandler.Register(professor.Group("/activity"))
	}
}
