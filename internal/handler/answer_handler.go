package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/internal/utils"
)

// AnswerHandler manages answer submission and history endpoints.
type AnswerHandler struct {
	service service.AnswerService
	logger  zerolog.Logger
}

// NewAnswerHandler builds an answer handler instance.
func NewAnswerHandler(service service.AnswerService, logger zerolog.Logger) *AnswerHandler {
	return &AnswerHandler{
		service: service,
		logger:  logger.With().Str("component", "answer_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AnswerHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("", h.history)
}

func (h *AnswerHandler) submit(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Submit(requestContext(c), userID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("user_id", userID).
		Str("rating", result.Rating).
		Float64("new_streak", result.NewStreak).
		Msg("answer graded")

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "answer submitted", result)
}

func (h *AnswerHandler) history(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	answers, err := h.service.History(requestContext(c), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answers retrieved", answers)
}

func (h *AnswerHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAlreadyAnswered):
		return utils.SendError(c, fiber.StatusConflict, service.ErrAlreadyAnswered.Error())
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
