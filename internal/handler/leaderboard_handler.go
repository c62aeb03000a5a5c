package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/internal/utils"
)

const defaultLeaderboardLimit = 10

// LeaderboardHandler serves the streak leaderboard.
type LeaderboardHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewLeaderboardHandler builds a leaderboard handler instance.
func NewLeaderboardHandler(service service.LeaderboardService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Get("", h.top)
}

func (h *LeaderboardHandler) top(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	if limit == 0 {
		limit = defaultLeaderboardLimit
	}

	leaderboard, err := h.service.Top(requestContext(c), limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build leaderboard")
	}

	return utils.SendSuccess(c, "leaderboard", leaderboard)
}
