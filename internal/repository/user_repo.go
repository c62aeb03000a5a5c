package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/quizly-app/quizly-api/internal/models"
)

// UserRepository provides access to user records and streak updates.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	List(ctx context.Context, limit int) ([]models.User, error)
	UpdateStreak(ctx context.Context, userID uint, streak float64, appealAdjustment bool) error
	AssignQuestion(ctx context.Context, userID, questionID uint, assignedAt time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]models.User, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Order("streak DESC, name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// UpdateStreak overwrites the stored streak. The appealAdjustment flag is
// carried so callers can distinguish submission updates from appeal
// corrections in their audit trail; the write itself is identical.
func (r *userRepository) UpdateStreak(ctx context.Context, userID uint, streak float64, appealAdjustment bool) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("streak", streak).Error
}

func (r *userRepository) AssignQuestion(ctx context.Context, userID, questionID uint, assignedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"current_question_id":       questionID,
			"last_question_assigned_at": assignedAt,
		}).Error
}
