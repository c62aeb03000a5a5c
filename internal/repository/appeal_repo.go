package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/models"
)

// AppealFilter narrows appeal queries.
type AppealFilter struct {
	UserID *uint
	Status string
}

// AppealRepository persists grading appeals.
type AppealRepository interface {
	Create(ctx context.Context, appeal *models.Appeal) error
	GetByID(ctx context.Context, id uint) (models.Appeal, error)
	List(ctx context.Context, filter AppealFilter) ([]models.Appeal, error)
	Update(ctx context.Context, appeal *models.Appeal) error
}

type appealRepository struct {
	db *gorm.DB
}

// NewAppealRepository constructs an appeal repository.
func NewAppealRepository(db *gorm.DB) AppealRepository {
	return &appealRepository{db: db}
}

func (r *appealRepository) Create(ctx context.Context, appeal *models.Appeal) error {
	return r.db.WithContext(ctx).Create(appeal).Error
}

func (r *appealRepository) GetByID(ctx context.Context, id uint) (models.Appeal, error) {
	var appeal models.Appeal
	if err := r.db.WithContext(ctx).First(&appeal, id).Error; err != nil {
		return models.Appeal{}, err
	}

	return appeal, nil
}

func (r *appealRepository) List(ctx context.Context, filter AppealFilter) ([]models.Appeal, error) {
	query := r.db.WithContext(ctx).Model(&models.Appeal{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var appeals []models.Appeal
	if err := query.Order("created_at ASC").Find(&appeals).Error; err != nil {
		return nil, err
	}

	return appeals, nil
}

func (r *appealRepository) Update(ctx context.Context, appeal *models.Appeal) error {
	return r.db.WithContext(ctx).Save(appeal).Error
}
