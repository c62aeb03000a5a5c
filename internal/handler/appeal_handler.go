package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/repository"
	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/internal/utils"
)

// AppealHandler manages student-facing appeal endpoints, including the
// websocket stream that pushes resolution events.
type AppealHandler struct {
	service  service.AppealService
	notifier service.AppealNotifier
	logger   zerolog.Logger
}

// NewAppealHandler builds an appeal handler instance.
func NewAppealHandler(service service.AppealService, notifier service.AppealNotifier, logger zerolog.Logger) *AppealHandler {
	return &AppealHandler{
		service:  service,
		notifier: notifier,
		logger:   logger.With().Str("component", "appeal_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AppealHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)

	router.Use("/stream", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/stream", websocket.New(h.stream))
}

func (h *AppealHandler) create(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	var payload dto.CreateAppealRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	appeal, err := h.service.Create(requestContext(c), userID, userNameFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Uint("user_id", userID).
		Uint("appeal_id", appeal.ID).
		Msg("appeal filed")

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "appeal filed", appeal)
}

func (h *AppealHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	filter := repository.AppealFilter{UserID: &userID, Status: c.Query("status")}
	appeals, err := h.service.List(requestContext(c), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "appeals retrieved", appeals)
}

func (h *AppealHandler) stream(conn *websocket.Conn) {
	userID := websocketUserID(conn)
	if userID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusUnauthorized, "user id missing"))
		_ = conn.Close()
		return
	}

	events, cancel := h.notifier.Subscribe(userID)
	defer cancel()

	h.logger.Info().Uint("user_id", userID).Msg("appeal stream connected")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				_ = conn.Close()
				h.logger.Info().Uint("user_id", userID).Msg("appeal stream closed by notifier")
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				_ = conn.Close()
				h.logger.Warn().Err(err).Uint("user_id", userID).Msg("appeal stream write failed")
				return
			}
		case <-done:
			_ = conn.Close()
			h.logger.Info().Uint("user_id", userID).Msg("appeal stream disconnected")
			return
		}
	}
}

func (h *AppealHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrAnswerNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "answer not found")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func websocketUserID(conn *websocket.Conn) uint {
	if value := conn.Locals("user_id"); value != nil {
		switch v := value.(type) {
		case uint:
			return v
		case int:
			if v < 0 {
				return 0
			}
			return uint(v)
		case float64:
			if v < 0 {
				return 0
			}
			return uint(v)
		case string:
			var parsed uint
			if _, err := fmt.Sscanf(v, "%d", &parsed); err == nil {
				return parsed
			}
		}
	}
	return 0
}
