package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/config"
	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/handler"
	"github.com/quizly-app/quizly-api/internal/middleware"
	"github.com/quizly-app/quizly-api/internal/models"
	"github.com/quizly-app/quizly-api/internal/repository"
	"github.com/quizly-app/quizly-api/internal/router"
	"github.com/quizly-app/quizly-api/internal/service"
	"github.com/quizly-app/quizly-api/pkg/ai"
)

// scriptedGrader replays a fixed sequence of verdicts.
type scriptedGrader struct {
	verdicts []ai.Verdict
	calls    int
}

func (g *scriptedGrader) Grade(context.Context, string, string) (ai.Verdict, error) {
	verdict := g.verdicts[g.calls%len(g.verdicts)]
	g.calls++
	return verdict, nil
}

func setupQuizApp(t *testing.T, grader ai.Grader) (*fiber.App, *gorm.DB, service.AppealNotifier) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:quizly_e2e?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Question{}, &models.Answer{}, &models.Appeal{}, &models.ActivityLog{}))

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	appealRepo := repository.NewAppealRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	locks := service.NewUserLocks()
	notifier := service.NewAppealNotifier(nil, "", logger)

	activityService := service.NewActivityService(activityRepo, logger)
	answerService := service.NewAnswerService(answerRepo, userRepo, questionRepo, grader, locks, activityService, validate, logger)
	appealService := service.NewAppealService(appealRepo, answerRepo, userRepo, locks, activityService, notifier, validate, logger)
	questionService := service.NewQuestionService(questionRepo, userRepo, answerRepo, activityService, validate, logger)
	leaderboardService := service.NewLeaderboardService(userRepo, cache, time.Second, logger)

	app := fiber.New()
	middleware.Register(app, middleware.Config{Logger: &logger})

	router.Register(app, config.Config{AppName: "Quizly Test", JWTSecret: "secret"}, router.Dependencies{
		AnswerHandler:            handler.NewAnswerHandler(answerService, logger),
		AppealHandler:            handler.NewAppealHandler(appealService, notifier, logger),
		QuestionHandler:          handler.NewQuestionHandler(questionService, logger),
		LeaderboardHandler:       handler.NewLeaderboardHandler(leaderboardService, logger),
		ProfessorAppealHandler:   handler.NewProfessorAppealHandler(appealService, logger),
		ProfessorQuestionHandler: handler.NewProfessorQuestionHandler(questionService, logger),
		ProfessorActivityHandler: handler.NewProfessorActivityHandler(activityService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			if strings.HasPrefix(c.Path(), "/api/v1/professor") {
				c.Locals("user_id", uint(9001))
				c.Locals("user_role", "professor")
				c.Locals("user_name", "Prof. Chandra")
			} else {
				c.Locals("user_id", uint(1))
				c.Locals("user_role", "student")
				c.Locals("user_name", "Ana")
			}
			return c.Next()
		},
	})

	return app, db, notifier
}

func decode[T any](t *testing.T, resp *http.Response, target *T) {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, target))
}

func TestAppealEndToEndFlow(t *testing.T) {
	grader := &scriptedGrader{verdicts: []ai.Verdict{
		{Rating: ai.RatingIncorrect, Feedback: "The answer misses the buffered case."},
	}}
	app, db, notifier := setupQuizApp(t, grader)

	student := models.User{Name: "Ana", Email: "ana@example.com", Role: models.RoleStudent, Streak: 5}
	require.NoError(t, db.Create(&student).Error)
	require.Equal(t, uint(1), student.ID)

	question := models.Question{Text: "When does a send on a channel block?", Topic: "concurrency", Active: true}
	require.NoError(t, db.Create(&question).Error)

	events, cancel := notifier.Subscribe(student.ID)
	defer cancel()

	// Step 1: student fetches the daily question
	dailyReq := httptest.NewRequest(http.MethodGet, "/api/v1/questions/daily", nil)
	dailyResp, err := app.Test(dailyReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, dailyResp.StatusCode)

	var dailyBody struct {
		Success bool                      `json:"success"`
		Data    dto.DailyQuestionResponse `json:"data"`
	}
	decode(t, dailyResp, &dailyBody)
	require.True(t, dailyBody.Success)
	require.Equal(t, question.ID, dailyBody.Data.Question.ID)
	require.False(t, dailyBody.Data.Answered)

	// Step 2: student submits and the oracle rates it incorrect
	body, err := json.Marshal(dto.SubmitAnswerRequest{
		QuestionID: question.ID,
		Answer:     "A send always blocks until a receiver is ready.",
	})
	require.NoError(t, err)

	submitReq := httptest.NewRequest(http.MethodPost, "/api/v1/answers", bytes.NewReader(body))
	submitReq.Header.Set("Content-Type", "application/json")
	submitResp, err := app.Test(submitReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, submitResp.StatusCode)

	var submitBody struct {
		Success bool                     `json:"success"`
		Data    dto.SubmitAnswerResponse `json:"data"`
	}
	decode(t, submitResp, &submitBody)
	require.True(t, submitBody.Success)
	require.Equal(t, "incorrect", submitBody.Data.Rating)
	require.Equal(t, float64(0), submitBody.Data.NewStreak)
	require.Equal(t, float64(0), submitBody.Data.Answer.StreakAtMoment)
	require.Equal(t, question.Text, submitBody.Data.Answer.QuestionText)

	// Step 3: a second submission the same day is rejected before grading
	retryReq := httptest.NewRequest(http.MethodPost, "/api/v1/answers", bytes.NewReader(body))
	retryReq.Header.Set("Content-Type", "application/json")
	retryResp, err := app.Test(retryReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, retryResp.StatusCode)
	require.Equal(t, 1, grader.calls)

	// Step 4: student appeals the verdict
	appealPayload, err := json.Marshal(dto.CreateAppealRequest{AnswerID: submitBody.Data.Answer.ID})
	require.NoError(t, err)

	appealReq := httptest.NewRequest(http.MethodPost, "/api/v1/appeals", bytes.NewReader(appealPayload))
	appealReq.Header.Set("Content-Type", "application/json")
	appealResp, err := app.Test(appealReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, appealResp.StatusCode)

	var appealBody struct {
		Success bool               `json:"success"`
		Data    dto.AppealResponse `json:"data"`
	}
	decode(t, appealResp, &appealBody)
	require.True(t, appealBody.Success)
	require.Equal(t, "pending", appealBody.Data.Status)
	require.Equal(t, "incorrect", appealBody.Data.OriginalRating)
	require.Equal(t, "Ana", appealBody.Data.UserName)

	// Step 5: the professor sees the pending appeal
	pendingReq := httptest.NewRequest(http.MethodGet, "/api/v1/professor/appeals?status=pending", nil)
	pendingResp, err := app.Test(pendingReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, pendingResp.StatusCode)

	var pendingBody struct {
		Success bool                 `json:"success"`
		Data    []dto.AppealResponse `json:"data"`
	}
	decode(t, pendingResp, &pendingBody)
	require.Len(t, pendingBody.Data, 1)
	require.Equal(t, appealBody.Data.ID, pendingBody.Data[0].ID)

	// Step 6: accepting the appeal restores the streak
	resolvePayload, err := json.Marshal(dto.ResolveAppealRequest{
		Status:            "accepted",
		ProfessorFeedback: "Unbuffered channels do block, full credit.",
	})
	require.NoError(t, err)

	resolveURL := "/api/v1/professor/appeals/" + strconv.Itoa(int(appealBody.Data.ID))
	resolveReq := httptest.NewRequest(http.MethodPatch, resolveURL, bytes.NewReader(resolvePayload))
	resolveReq.Header.Set("Content-Type", "application/json")
	resolveResp, err := app.Test(resolveReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resolveResp.StatusCode)

	var resolveBody struct {
		Success bool               `json:"success"`
		Data    dto.AppealResponse `json:"data"`
	}
	decode(t, resolveResp, &resolveBody)
	require.Equal(t, "accepted", resolveBody.Data.Status)
	require.NotNil(t, resolveBody.Data.ResolvedAt)

	var updated models.User
	require.NoError(t, db.First(&updated, student.ID).Error)
	require.Equal(t, float64(1), updated.Streak)

	// Step 7: the resolution event reaches the student's stream
	select {
	case event := <-events:
		require.Equal(t, appealBody.Data.ID, event.AppealID)
		require.Equal(t, "accepted", event.Status)
		require.NotNil(t, event.NewStreak)
		require.Equal(t, float64(1), *event.NewStreak)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an appeal resolution event")
	}

	// Step 8: a second resolution attempt conflicts
	retryResolveReq := httptest.NewRequest(http.MethodPatch, resolveURL, bytes.NewReader(resolvePayload))
	retryResolveReq.Header.Set("Content-Type", "application/json")
	retryResolveResp, err := app.Test(retryResolveReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, retryResolveResp.StatusCode)

	// Step 9: the leaderboard reflects the corrected streak
	boardReq := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	boardResp, err := app.Test(boardReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, boardResp.StatusCode)

	var boardBody struct {
		Success bool                    `json:"success"`
		Data    dto.LeaderboardResponse `json:"data"`
	}
	decode(t, boardResp, &boardBody)
	require.NotEmpty(t, boardBody.Data.Entries)
	require.Equal(t, student.ID, boardBody.Data.Entries[0].UserID)
	require.Equal(t, float64(1), boardBody.Data.Entries[0].Streak)

	// Step 10: the audit trail recorded both streak changes
	activityReq := httptest.NewRequest(http.MethodGet, "/api/v1/professor/activity?action=streak.updated", nil)
	activityResp, err := app.Test(activityReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, activityResp.StatusCode)

	var activityBody struct {
		Success bool                     `json:"success"`
		Data    dto.ActivityListResponse `json:"data"`
	}
	decode(t, activityResp, &activityBody)
	require.Equal(t, int64(2), activityBody.Data.Meta.TotalItems)
}
