package service

import (
	"context"
	"errors"
	"strings"
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

// ErrAnswerNotFound indicates the referenced answer does not belong to the caller.
var ErrAnswerNotFound = errors.New("answer not found")

// ErrAppealNotFound indicates the appeal was not located.
var ErrAppealNotFound = errors.New("appeal not found")

// ErrAppealAlreadyResolved indicates the appeal reached a terminal state already.
var ErrAppealAlreadyResolved = errors.New("appeal already resolved")

// AppealService orchestrates appeal creation and professor resolution.
type AppealService interface {
	Create(ctx context.Context, userID uint, userName string, payload dto.CreateAppealRequest) (dto.AppealResponse, error)
	Resolve(ctx context.Context, appealID uint, payload dto.ResolveAppealRequest, actor Actor) (dto.AppealResponse, error)
	List(ctx context.Context, filter repository.AppealFilter) ([]dto.AppealResponse, error)
}

type appealService struct {
	appeals   repository.AppealRepository
	answers   repository.AnswerRepository
	users     repository.UserRepository
	locks     *UserLocks
	activity  ActivityRecorder
	notifier  AppealNotifier
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewAppealService constructs the appeal workflow service.
func NewAppealService(appeals repository.AppealRepository, answers repository.AnswerRepository, users repository.UserRepository, locks *UserLocks, activity ActivityRecorder, notifier AppealNotifier, validate *validator.Validate, logger zerolog.Logger) AppealService {
	return &appealService{
		appeals:   appeals,
		answers:   answers,
		users:     users,
		locks:     locks,
		activity:  activity,
		notifier:  notifier,
		validator: validate,
		logger:    logger.With().Str("component", "appeal_service").Logger(),
		tracer:    otel.Tracer("github.com/quizly-app/quizly-api/internal/service/appeal"),
		now:       time.Now,
	}
}

// Create snapshots the contested answer into a pending appeal. Ownership is
// enforced by scoping the lookup to the caller's own answers.
func (s *appealService) Create(ctx context.Context, userID uint, userName string, payload dto.CreateAppealRequest) (dto.AppealResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AppealResponse{}, err
	}

	answers, err := s.answers.ListByUser(ctx, userID)
	if err != nil {
		return dto.AppealResponse{}, err
	}

	var answer *models.Answer
	for i := range answers {
		if answers[i].ID == payload.AnswerID {
			answer = &answers[i]
			break
		}
	}
	if answer == nil {
		return dto.AppealResponse{}, ErrAnswerNotFound
	}

	appeal := models.Appeal{
		UserID:           userID,
		UserName:         userName,
		AnswerID:         answer.ID,
		QuestionID:       answer.QuestionID,
		QuestionText:     answer.QuestionText,
		UserAnswer:       answer.UserAnswer,
		OriginalRating:   answer.Rating,
		OriginalFeedback: answer.Feedback,
		StreakAtMoment:   answer.StreakAtMoment,
		Status:           models.AppealStatusPending,
		CreatedAt:        s.now(),
	}
	if err := s.appeals.Create(ctx, &appeal); err != nil {
		return dto.AppealResponse{}, err
	}

	s.logger.Info().
		Uint("user_id", userID).
		Uint("answer_id", answer.ID).
		Str("original_rating", answer.Rating).
		Msg("appeal created")

	return dto.NewAppealResponse(appeal), nil
}

func (s *appealService) Resolve(ctx context.Context, appealID uint, payload dto.ResolveAppealRequest, actor Actor) (dto.AppealResponse, error) {
	ctx, span := s.tracer.Start(ctx, "appeals.resolve", trace.WithAttributes(
		attribute.Int64("appeal.id", int64(appealID)),
		attribute.Int64("appeal.actor_id", int64(actor.ID)),
		attribute.String("appeal.status", payload.Status),
	))
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.AppealResponse{}, err
	}

	appeal, err := s.appeals.GetByID(ctx, appealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "appeal_not_found")
			return dto.AppealResponse{}, ErrAppealNotFound
		}
		span.RecordError(err)
		return dto.AppealResponse{}, err
	}

	// pending is the only state with outgoing transitions.
	if appeal.IsResolved() {
		span.SetStatus(codes.Error, "appeal_already_resolved")
		return dto.AppealResponse{}, ErrAppealAlreadyResolved
	}

	resolvedAt := s.now()
	appeal.Status = payload.Status
	appeal.ProfessorFeedback = strings.TrimSpace(payload.ProfessorFeedback)
	appeal.ResolvedAt = &resolvedAt

	if err := s.appeals.Update(ctx, &appeal); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "appeal_update_failed")
		return dto.AppealResponse{}, err
	}

	event := dto.AppealResolvedEvent{
		AppealID:          appeal.ID,
		UserID:            appeal.UserID,
		Status:            appeal.Status,
		ProfessorFeedback: appeal.ProfessorFeedback,
		ResolvedAt:        resolvedAt,
	}

	// A rejection mutates nothing beyond the appeal itself. No user
	// lookup is performed at all.
	if appeal.Status == models.AppealStatusAccepted {
		if newStreak, adjusted := s.adjustStreak(ctx, appeal, actor); adjusted {
			event.NewStreak = &newStreak
			span.SetAttributes(attribute.Float64("appeal.new_streak", newStreak))
		}
	}

	if s.notifier != nil {
		s.notifier.NotifyResolved(ctx, event)
	}

	s.logger.Info().
		Uint("appeal_id", appeal.ID).
		Uint("user_id", appeal.UserID).
		Str("status", appeal.Status).
		Uint("resolved_by", actor.ID).
		Msg("appeal resolved")

	return dto.NewAppealResponse(appeal), nil
}

// adjustStreak applies the ledger correction for an accepted appeal. A user
// that no longer exists is skipped silently; the status transition stands.
func (s *appealService) adjustStreak(ctx context.Context, appeal models.Appeal, actor Actor) (float64, bool) {
	unlock := s.locks.Lock(appeal.UserID)
	defer unlock()

	user, err := s.users.GetByID(ctx, appeal.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn().Uint("user_id", appeal.UserID).Msg("appeal accepted for deleted user, skipping streak adjustment")
			return 0, false
		}
		s.logger.Error().Err(err).Uint("user_id", appeal.UserID).Msg("failed to load user for streak adjustment")
		return 0, false
	}

	newStreak := streak.ApplyAppealAcceptance(user.Streak, appeal.StreakAtMoment, ai.Rating(appeal.OriginalRating))

	if err := s.users.UpdateStreak(ctx, user.ID, newStreak, true); err != nil {
		s.logger.Error().Err(err).Uint("user_id", user.ID).Msg("failed to persist appeal streak adjustment")
		return 0, false
	}

	if s.activity != nil {
		_, _ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "streak.updated",
			EntityType: "appeal",
			EntityID:   &appeal.ID,
			Metadata: map[string]interface{}{
				"original_rating": appeal.OriginalRating,
				"old_streak":      user.Streak,
				"new_streak":      newStreak,
				"source":          "appeal",
			},
		})
	}

	return newStreak, true
}

func (s *appealService) List(ctx context.Context, filter repository.AppealFilter) ([]dto.AppealResponse, error) {
	appeals, err := s.appeals.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AppealResponse, 0, len(appeals))
	for _, appeal := range appeals {
		responses = append(responses, dto.NewAppealResponse(appeal))
	}

	return responses, nil
}
