package models

import "time"

// Appeal status state machine: pending is the only non-terminal state.
const (
	AppealStatusPending  = "pending"
	AppealStatusAccepted = "accepted"
	AppealStatusRejected = "rejected"
)

// Appeal is a professor-reviewable request to override a grading verdict.
// All answer fields are copied at creation time; the referenced Answer is
// immutable so the snapshot cannot dangle.
type Appeal struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	UserName          string     `gorm:"size:255" json:"user_name"`
	AnswerID          uint       `gorm:"not null" json:"answer_id"`
	QuestionID        uint       `gorm:"not null" json:"question_id"`
	QuestionText      string     `gorm:"type:text" json:"question_text"`
	UserAnswer        string     `gorm:"type:text" json:"user_answer"`
	OriginalRating    string     `gorm:"size:16;not null" json:"original_rating"`
	OriginalFeedback  string     `gorm:"type:text" json:"original_feedback"`
	StreakAtMoment    float64    `gorm:"not null" json:"streak_at_moment"`
	Status            string     `gorm:"size:16;not null;default:pending" json:"status"`
	ProfessorFeedback string     `gorm:"type:text" json:"professor_feedback"`
	CreatedAt         time.Time  `json:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at"`
}

// IsResolved reports whether the appeal reached a terminal state.
func (a Appeal) IsResolved() bool {
	return a.Status == AppealStatusAccepted || a.Status == AppealStatusRejected
}
