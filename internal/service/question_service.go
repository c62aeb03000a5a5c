package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/dto"
	"github.com/quizly-app/quizly-api/internal/models"
	"github.com/quizly-app/quizly-api/internal/repository"
)

// ErrNoActiveQuestions indicates the question pool is empty.
var ErrNoActiveQuestions = errors.New("no active questions available")

// QuestionService manages the question pool and daily assignment.
type QuestionService interface {
	Daily(ctx context.Context, userID uint) (dto.DailyQuestionResponse, error)
	Create(ctx context.Context, payload dto.CreateQuestionRequest, actor Actor) (dto.QuestionResponse, error)
	List(ctx context.Context, activeOnly bool) ([]dto.QuestionResponse, error)
	Deactivate(ctx context.Context, id uint, actor Actor) error
}

type questionService struct {
	questions repository.QuestionRepository
	users     repository.UserRepository
	answers   repository.AnswerRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuestionService constructs the question pool service.
func NewQuestionService(questions repository.QuestionRepository, users repository.UserRepository, answers repository.AnswerRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		users:     users,
		answers:   answers,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "question_service").Logger(),
		now:       time.Now,
	}
}

// Daily returns the user's question of the day, assigning a fresh one when
// none was assigned within the current UTC calendar day.
func (s *questionService) Daily(ctx context.Context, userID uint) (dto.DailyQuestionResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DailyQuestionResponse{}, ErrUserNotFound
		}
		return dto.DailyQuestionResponse{}, err
	}

	now := s.now()

	if user.HasQuestionAssignedOn(now) {
		question, err := s.questions.GetByID(ctx, *user.CurrentQuestionID)
		if err == nil {
			return s.buildDailyResponse(ctx, user.ID, question, *user.LastQuestionAssignedAt, now)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DailyQuestionResponse{}, err
		}
		// assigned question was deleted, fall through and reassign
	}

	question, err := s.questions.PickRandomActive(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DailyQuestionResponse{}, ErrNoActiveQuestions
		}
		return dto.DailyQuestionResponse{}, err
	}

	if err := s.users.AssignQuestion(ctx, user.ID, question.ID, now); err != nil {
		return dto.DailyQuestionResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Uint("question_id", question.ID).Msg("daily question assigned")

	return s.buildDailyResponse(ctx, user.ID, question, now, now)
}

func (s *questionService) buildDailyResponse(ctx context.Context, userID uint, question models.Question, assignedAt, now time.Time) (dto.DailyQuestionResponse, error) {
	answered := false
	if _, err := s.answers.GetForQuestionToday(ctx, userID, question.ID, now); err == nil {
		answered = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.DailyQuestionResponse{}, err
	}

	return dto.DailyQuestionResponse{
		Question:   dto.NewQuestionResponse(question),
		AssignedAt: assignedAt,
		Answered:   answered,
	}, nil
}

func (s *questionService) Create(ctx context.Context, payload dto.CreateQuestionRequest, actor Actor) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		Text:   payload.Text,
		Topic:  payload.Topic,
		Active: true,
	}
	if err := s.questions.Create(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "question.created",
			EntityType: "question",
			EntityID:   &question.ID,
			Metadata:   map[string]interface{}{"topic": question.Topic},
		})
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) List(ctx context.Context, activeOnly bool) ([]dto.QuestionResponse, error) {
	questions, err := s.questions.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, dto.NewQuestionResponse(question))
	}

	return responses, nil
}

func (s *questionService) Deactivate(ctx context.Context, id uint, actor Actor) error {
	if _, err := s.questions.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	if err := s.questions.Deactivate(ctx, id); err != nil {
		return err
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "question.deactivated",
			EntityType: "question",
			EntityID:   &id,
		})
	}

	return nil
}
