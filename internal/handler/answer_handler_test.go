package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/handler"
	"github.com/quizly-app/quizly-api/internal/service"
)

type mockAnswerService struct {
	lastUserID  uint
	lastPayload dto.SubmitAnswerRequest
	response    dto.SubmitAnswerResponse
	history     []dto.AnswerResponse
	err         error
}

func (m *mockAnswerService) Submit(_ context.Context, userID uint, payload dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error) {
	m.lastUserID = userID
	m.lastPayload = payload
	if m.err != nil {
		return dto.SubmitAnswerResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockAnswerService) History(_ context.Context, userID uint) ([]dto.AnswerResponse, error) {
	m.lastUserID = userID
	if m.err != nil {
		return nil, m.err
	}
	return m.history, nil
}

func newAnswerApp(svc service.AnswerService, userID uint) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/answers", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	handler.NewAnswerHandler(svc, zerolog.New(io.Discard)).Register(group)
	return app
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestAnswerHandler_SubmitSuccess(t *testing.T) {
	svc := &mockAnswerService{response: dto.SubmitAnswerResponse{
		Rating:    "correct",
		Feedback:  "well reasoned",
		NewStreak: 6,
	}}
	app := newAnswerApp(svc, 42)

	payload := dto.SubmitAnswerRequest{QuestionID: 7, Answer: "Because the scheduler preempts goroutines at function calls."}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                     `json:"success"`
		Data    dto.SubmitAnswerResponse `json:"data"`
		Message string                   `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "answer submitted", response.Message)
	require.Equal(t, "correct", response.Data.Rating)
	require.Equal(t, float64(6), response.Data.NewStreak)
	require.Equal(t, uint(42), svc.lastUserID)
	require.Equal(t, uint(7), svc.lastPayload.QuestionID)
}

func TestAnswerHandler_SubmitRequiresAuth(t *testing.T) {
	svc := &mockAnswerService{}
	app := newAnswerApp(svc, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/answers", bytes.NewReader([]byte(`{"question_id":1,"answer":"x"}`)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.Zero(t, svc.lastUserID)
}

func TestAnswerHandler_SubmitServiceErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "already answered", err: service.ErrAlreadyAnswered, statusCode: fiber.StatusConflict},
		{name: "question missing", err: service.ErrQuestionNotFound, statusCode: fiber.StatusNotFound},
		{name: "user missing", err: service.ErrUserNotFound, statusCode: fiber.StatusNotFound},
		{name: "generic", err: errors.New("boom"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockAnswerService{err: tc.err}
			app := newAnswerApp(svc, 42)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/answers", bytes.NewReader([]byte(`{"question_id":1,"answer":"an attempt"}`)))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestAnswerHandler_History(t *testing.T) {
	svc := &mockAnswerService{history: []dto.AnswerResponse{{ID: 1, Rating: "partial"}, {ID: 2, Rating: "correct"}}}
	app := newAnswerApp(svc, 9)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/answers", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                 `json:"success"`
		Data    []dto.AnswerResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Len(t, response.Data, 2)
	require.Equal(t, uint(9), svc.lastUserID)
}
