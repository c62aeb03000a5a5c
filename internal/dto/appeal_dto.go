package dto

import (
	"time"

	"github.com/quizly-app/quizly-api/internal/models"
)

// CreateAppealRequest is the payload for contesting a graded answer.
type CreateAppealRequest struct {
	AnswerID uint `json:"answer_id" validate:"required,gt=0"`
}

// ResolveAppealRequest is the professor's resolution payload.
type ResolveAppealRequest struct {
	Status            string `json:"status" validate:"required,oneof=accepted rejected"`
	ProfessorFeedback string `json:"professor_feedback" validate:"omitempty,min=3"`
}

// AppealResponse serializes an appeal with its snapshot fields.
type AppealResponse struct {
	ID                uint       `json:"id"`
	UserID            uint       `json:"user_id"`
	UserName          string     `json:"user_name"`
	AnswerID          uint       `json:"answer_id"`
	QuestionID        uint       `json:"question_id"`
	QuestionText      string     `json:"question_text"`
	UserAnswer        string     `json:"user_answer"`
	OriginalRating    string     `json:"original_rating"`
	OriginalFeedback  string     `json:"original_feedback"`
	StreakAtMoment    float64    `json:"streak_at_moment"`
	Status            string     `json:"status"`
	ProfessorFeedback string     `json:"professor_feedback"`
	CreatedAt         time.Time  `json:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at"`
}

// NewAppealResponse converts an Appeal model into a DTO.
func NewAppealResponse(model models.Appeal) AppealResponse {
	return AppealResponse{
		ID:                model.ID,
		UserID:            model.UserID,
		UserName:          model.UserName,
		AnswerID:          model.AnswerID,
		QuestionID:        model.QuestionID,
		QuestionText:      model.QuestionText,
		UserAnswer:        model.UserAnswer,
		OriginalRating:    model.OriginalRating,
		OriginalFeedback:  model.OriginalFeedback,
		StreakAtMoment:    model.StreakAtMoment,
		Status:            model.Status,
		ProfessorFeedback: model.ProfessorFeedback,
		CreatedAt:         model.CreatedAt,
		ResolvedAt:        model.ResolvedAt,
	}
}

// AppealResolvedEvent is published when a professor resolves an appeal.
type AppealResolvedEvent struct {
	AppealID          uint      `json:"appeal_id"`
	UserID            uint      `json:"user_id"`
	Status            string    `json:"status"`
	ProfessorFeedback string    `json:"professor_feedback"`
	NewStreak         *float64  `json:"new_streak,omitempty"`
	ResolvedAt        time.Time `json:"resolved_at"`
}
