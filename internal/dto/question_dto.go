package dto

import (
	"time"

	"github.com/quizly-app/quizly-api/internal/models"
)

// CreateQuestionRequest is the professor payload for authoring a question.
type CreateQuestionRequest struct {
	Text  string `json:"text" validate:"required,min=10"`
	Topic string `json:"topic" validate:"omitempty,max=128"`
}

// QuestionResponse serializes a question.
type QuestionResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Topic     string    `json:"topic"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// DailyQuestionResponse is returned to a student asking for today's question.
type DailyQuestionResponse struct {
	Question   QuestionResponse `json:"question"`
	AssignedAt time.Time        `json:"assigned_at"`
	Answered   bool             `json:"answered"`
}

// NewQuestionResponse converts a Question model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:        model.ID,
		Text:      model.Text,
		Topic:     model.Topic,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
	}
}
