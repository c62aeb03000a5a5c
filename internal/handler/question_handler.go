package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/internal/utils"
)

// QuestionHandler serves the student-facing daily question endpoint.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler builds a question handler instance.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("/daily", h.daily)
}

func (h *QuestionHandler) daily(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	question, err := h.service.Daily(requestContext(c), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveQuestions):
			return utils.SendError(c, fiber.StatusNotFound, service.ErrNoActiveQuestions.Error())
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to assign daily question")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to assign daily question")
		}
	}

	return utils.SendSuccess(c, "daily question", question)
}
