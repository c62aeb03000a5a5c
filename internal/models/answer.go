package models

import "time"

// Answer is the immutable record of one grading event. QuestionText and
// UserAnswer are verbatim snapshots so the record stays meaningful even if
// the question is edited later. StreakAtMoment captures the streak the user
// held immediately after this answer was scored; appeals reference it.
type Answer struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index" json:"user_id"`
	QuestionID     uint      `gorm:"not null" json:"question_id"`
	QuestionText   string    `gorm:"type:text;not null" json:"question_text"`
	UserAnswer     string    `gorm:"type:text;not null" json:"user_answer"`
	Rating         string    `gorm:"size:16;not null" json:"rating"`
	Feedback       string    `gorm:"type:text" json:"feedback"`
	StreakAtMoment float64   `gorm:"not null" json:"streak_at_moment"`
	CreatedAt      time.Time `json:"created_at"`
}
