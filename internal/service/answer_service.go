package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/models"
	"github.com/quizly-app/quizly-api/internal/repository"
	"github.com/quizly-app/quizly-api/internal/streak"
	"github.com/quizly-app/quizly-api/pkg/ai"
)

// ErrAlreadyAnswered indicates the user already answered this question today.
var ErrAlreadyAnswered = errors.New("already answered today's question, come back tomorrow")

// ErrUserNotFound indicates the authenticated user no longer exists.
var ErrUserNotFound = errors.New("user not found")

// ErrQuestionNotFound indicates the referenced question does not exist.
var ErrQuestionNotFound = errors.New("question not found")

// AnswerService orchestrates daily answer submission and grading.
type AnswerService interface {
	Submit(ctx context.Context, userID uint, payload dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error)
	History(ctx context.Context, userID uint) ([]dto.AnswerResponse, error)
}

type answerService struct {
	answers   repository.AnswerRepository
	users     repository.UserRepository
	questions repository.QuestionRepository
	grader    ai.Grader
	locks     *UserLocks
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAnswerService constructs the answer submission service.
func NewAnswerService(answers repository.AnswerRepository, users repository.UserRepository, questions repository.QuestionRepository, grader ai.Grader, locks *UserLocks, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) AnswerService {
	return &answerService{
		answers:   answers,
		users:     users,
		questions: questions,
		grader:    grader,
		locks:     locks,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "answer_service").Logger(),
		tracer:    otel.Tracer("github.com/quizly-app/quizly-api/internal/service/answer"),
		now:       time.Now,
	}
}

func (s *answerService) Submit(ctx context.Context, userID uint, payload dto.SubmitAnswerRequest) (dto.SubmitAnswerResponse, error) {
	ctx, span := s.tracer.Start(ctx, "answers.submit", trace.WithAttributes(
		attribute.Int64("answer.user_id", int64(userID)),
		attribute.Int64("answer.question_id", int64(payload.QuestionID)),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmitAnswerResponse{}, err
	}

	question, err := s.questions.GetByID(ctx, payload.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmitAnswerResponse{}, ErrQuestionNotFound
		}
		return dto.SubmitAnswerResponse{}, err
	}

	now := s.now()
	if _, err := s.answers.GetForQuestionToday(ctx, userID, question.ID, now); err == nil {
		span.SetStatus(codes.Error, "already_answered")
		return dto.SubmitAnswerResponse{}, ErrAlreadyAnswered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		span.RecordError(err)
		return dto.SubmitAnswerResponse{}, err
	}

	// Grading failures never block the submission; the safe grader
	// degrades to a neutral partial verdict.
	verdict, err := s.grader.Grade(ctx, question.Text, payload.Answer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "grader_not_configured")
		return dto.SubmitAnswerResponse{}, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "user_not_found")
			return dto.SubmitAnswerResponse{}, ErrUserNotFound
		}
		span.RecordError(err)
		return dto.SubmitAnswerResponse{}, err
	}

	newStreak := streak.ApplyRating(user.Streak, verdict.Rating)

	if err := s.users.UpdateStreak(ctx, user.ID, newStreak, false); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "streak_update_failed")
		return dto.SubmitAnswerResponse{}, err
	}

	answer := models.Answer{
		UserID:         user.ID,
		QuestionID:     question.ID,
		QuestionText:   question.Text,
		UserAnswer:     payload.Answer,
		Rating:         string(verdict.Rating),
		Feedback:       verdict.Feedback,
		StreakAtMoment: newStreak,
		CreatedAt:      now,
	}
	if err := s.answers.Create(ctx, &answer); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "answer_create_failed")
		return dto.SubmitAnswerResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    user.ID,
			ActorRole:  user.Role,
			Action:     "streak.updated",
			EntityType: "answer",
			EntityID:   &answer.ID,
			Metadata: map[string]interface{}{
				"rating":     string(verdict.Rating),
				"old_streak": user.Streak,
				"new_streak": newStreak,
				"source":     "submission",
			},
		})
	}

	span.SetAttributes(
		attribute.String("answer.rating", string(verdict.Rating)),
		attribute.Float64("answer.new_streak", newStreak),
	)
	s.logger.Info().
		Uint("user_id", user.ID).
		Uint("question_id", question.ID).
		Str("rating", string(verdict.Rating)).
		Float64("new_streak", newStreak).
		Msg("answer graded")

	return dto.SubmitAnswerResponse{
		Answer:    dto.NewAnswerResponse(answer),
		Rating:    string(verdict.Rating),
		Feedback:  verdict.Feedback,
		NewStreak: newStreak,
	}, nil
}

func (s *answerService) History(ctx context.Context, userID uint) ([]dto.AnswerResponse, error) {
	answers, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AnswerResponse, 0, len(answers))
	for _, answer := range answers {
		responses = append(responses, dto.NewAnswerResponse(answer))
	}

	return responses, nil
}
