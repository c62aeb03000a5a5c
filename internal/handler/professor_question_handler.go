package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/internal/utils"
)

// ProfessorQuestionHandler wires question pool management for professors.
type ProfessorQuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewProfessorQuestionHandler constructs the handler.
func NewProfessorQuestionHandler(service service.QuestionService, logger zerolog.Logger) *ProfessorQuestionHandler {
	return &ProfessorQuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "professor_question_handler").Logger(),
	}
}

// Register attaches question management endpoints to the router group.
func (h *ProfessorQuestionHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Delete("/:id", h.deactivate)
}

func (h *ProfessorQuestionHandler) list(c *fiber.Ctx) error {
	activeOnly := strings.EqualFold(c.Query("active"), "true")

	questions, err := h.service.List(requestContext(c), activeOnly)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list questions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list questions")
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *ProfessorQuestionHandler) create(c *fiber.Ctx) error {
	var payload dto.CreateQuestionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	question, err := h.service.Create(requestContext(c), payload, actorFromContext(c))
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to create question")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create question")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "question created", question)
}

func (h *ProfessorQuestionHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	if err := h.service.Deactivate(requestContext(c), id, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "question not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Uint("question_id", id).Msg("failed to deactivate question")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to deactivate question")
	}

	return utils.SendSuccess(c, "question deactivated", nil)
}
