package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/models"
)

// AnswerRepository persists graded answers. Answers are append-only.
type AnswerRepository interface {
	Create(ctx context.Context, answer *models.Answer) error
	ListByUser(ctx context.Context, userID uint) ([]models.Answer, error)
	GetForQuestionToday(ctx context.Context, userID, questionID uint, now time.Time) (models.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository constructs an answer repository.
func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) ListByUser(ctx context.Context, userID uint) ([]models.Answer, error) {
	var answers []models.Answer
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&answers).Error; err != nil {
		return nil, err
	}

	return answers, nil
}

// GetForQuestionToday finds the user's answer to a question created within
// the current UTC calendar day. Calendar-day granularity is what makes the
// one-submission-per-day rule hold.
func (r *answerRepository) GetForQuestionToday(ctx context.Context, userID, questionID uint, now time.Time) (models.Answer, error) {
	dayStart := now.UTC().Truncate(24 * time.Hour)

	var answer models.Answer
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("question_id = ?", questionID).
		Where("created_at >= ?", dayStart).
		Order("created_at DESC").
		First(&answer).Error; err != nil {
		return models.Answer{}, err
	}

	return answer, nil
}
