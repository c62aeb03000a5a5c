package contract_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/handler"
)

type stubAnswerService struct {
	response dto.SubmitAnswerResponse
}

func (s stubAnswerService) Submit(context.Context, uint, dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error) {
	return s.response, nil
}

func (s stubAnswerService) History(context.Context, uint) ([]dto.AnswerResponse, error) {
	return []dto.AnswerResponse{s.response.Answer}, nil
}

func TestSubmitAnswerContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "submit_answer.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	response := dto.SubmitAnswerResponse{
		Answer: dto.AnswerResponse{
			ID:             12,
			UserID:         1,
			QuestionID:     4,
			QuestionText:   "What does the race detector instrument?",
			UserAnswer:     "Memory accesses and synchronization events.",
			Rating:         "correct",
			Feedback:       "Exactly right.",
			StreakAtMoment: 7,
			CreatedAt:      now,
		},
		Rating:    "correct",
		Feedback:  "Exactly right.",
		NewStreak: 7,
	}

	svc := stubAnswerService{response: response}
	answerHandler := handler.NewAnswerHandler(svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/answers", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(1))
		c.Locals("user_role", "student")
		return c.Next()
	})
	answerHandler.Register(group)

	body, err := json.Marshal(dto.SubmitAnswerRequest{QuestionID: 4, Answer: "Memory accesses and synchronization events."})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/answers", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.NoError(t, schema.Validate(payload))
}
