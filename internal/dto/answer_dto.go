package dto

import (
	"time"

	"github.com/quizly-app/quizly-api/internal/models"
)

// SubmitAnswerRequest is the payload for answering today's question.
type SubmitAnswerRequest struct {
	QuestionID uint   `json:"question_id" validate:"required,gt=0"`
	Answer     string `json:"answer" validate:"required,min=1"`
}

// AnswerResponse serializes one graded answer.
type AnswerResponse struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	QuestionID     uint      `json:"question_id"`
	QuestionText   string    `json:"question_text"`
	UserAnswer     string    `json:"user_answer"`
	Rating         string    `json:"rating"`
	Feedback       string    `json:"feedback"`
	StreakAtMoment float64   `json:"streak_at_moment"`
	CreatedAt      time.Time `json:"created_at"`
}

// SubmitAnswerResponse is returned after a submission is graded.
type SubmitAnswerResponse struct {
	Answer    AnswerResponse `json:"answer"`
	Rating    string         `json:"rating"`
	Feedback  string         `json:"feedback"`
	NewStreak float64        `json:"new_streak"`
}

// NewAnswerResponse converts an Answer model into a DTO.
func NewAnswerResponse(model models.Answer) AnswerResponse {
	return AnswerResponse{
		ID:             model.ID,
		UserID:         model.UserID,
		QuestionID:     model.QuestionID,
		QuestionText:   model.QuestionText,
		UserAnswer:     model.UserAnswer,
		Rating:         model.Rating,
		Feedback:       model.Feedback,
		StreakAtMoment: model.StreakAtMoment,
		CreatedAt:      model.CreatedAt,
	}
}
