package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/internal/utils"
)

// ProfessorActivityHandler exposes the audit trail to professors.
type ProfessorActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewProfessorActivityHandler constructs the handler.
func NewProfessorActivityHandler(service service.ActivityService, logger zerolog.Logger) *ProfessorActivityHandler {
	return &ProfessorActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "professor_activity_handler").Logger(),
	}
}

// Register attaches audit trail routes to the router group.
func (h *ProfessorActivityHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *ProfessorActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	if page <= 0 {
		page = 1
	}

	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}
	if pageSize <= 0 {
		pageSize = 25
	} else if pageSize > 200 {
		pageSize = 200
	}

	req := dto.ActivityListRequest{
		Page:       page,
		PageSize:   pageSize,
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	}
	if actorID, err := parseQueryUint(c, "actor_id"); err == nil && actorID != nil {
		req.ActorID = actorID
	}

	response, err := h.service.List(requestContext(c), req)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list activity logs")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list activity logs")
	}

	return utils.SendSuccess(c, "activity logs", response)
}
