package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/models"
)

// QuestionRepository provides access to the question pool.
type QuestionRepository interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (models.Question, error)
	List(ctx context.Context, activeOnly bool) ([]models.Question, error)
	PickRandomActive(ctx context.Context) (models.Question, error)
	Deactivate(ctx context.Context, id uint) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository constructs a question repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(ctx context.Context, question *models.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) List(ctx context.Context, activeOnly bool) ([]models.Question, error) {
	query := r.db.WithContext(ctx).Model(&models.Question{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var questions []models.Question
	if err := query.Order("created_at DESC").Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

// PickRandomActive relies on the database's RANDOM() which both postgres and
// sqlite support.
func (r *questionRepository) PickRandomActive(ctx context.Context) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("RANDOM()").
		First(&question).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) Deactivate(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id = ?", id).
		Update("active", false).Error
}
