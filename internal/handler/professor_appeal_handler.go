package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/repository"
	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/internal/utils"
)

// ProfessorAppealHandler wires the appeal review endpoints for professors.
type ProfessorAppealHandler struct {
	service service.AppealService
	logger  zerolog.Logger
}

// NewProfessorAppealHandler constructs the handler.
func NewProfessorAppealHandler(service service.AppealService, logger zerolog.Logger) *ProfessorAppealHandler {
	return &ProfessorAppealHandler{
		service: service,
		logger:  logger.With().Str("component", "professor_appeal_handler").Logger(),
	}
}

// Register attaches appeal review endpoints to the router group.
func (h *ProfessorAppealHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Patch("/:id", h.resolve)
}

func (h *ProfessorAppealHandler) list(c *fiber.Ctx) error {
	filter := repository.AppealFilter{Status: c.Query("status")}
	if userID, err := parseQueryUint(c, "user_id"); err == nil && userID != nil {
		filter.UserID = userID
	}

	appeals, err := h.service.List(requestContext(c), filter)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list appeals")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list appeals")
	}

	return utils.SendSuccess(c, "appeals retrieved", appeals)
}

func (h *ProfessorAppealHandler) resolve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid identifier")
	}

	var payload dto.ResolveAppealRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	actor := actorFromContext(c)
	appeal, err := h.service.Resolve(requestContext(c), id, payload, actor)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAppealNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "appeal not found")
		case errors.Is(err, service.ErrAppealAlreadyResolved):
			return utils.SendError(c, fiber.StatusConflict, service.ErrAppealAlreadyResolved.Error())
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Uint("appeal_id", id).Msg("failed to resolve appeal")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve appeal")
		}
	}

	return utils.SendSuccess(c, "appeal resolved", appeal)
}
