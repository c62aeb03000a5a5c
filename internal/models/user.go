package models

import "time"

// User roles recognised by the API.
const (
	RoleStudent   = "student"
	RoleProfessor = "professor"
)

// User represents a learner (or professor) with a running streak score.
// Streak is mutated only through the streak ledger; it supports half-point
// increments and never goes negative.
type User struct {
	ID                     uint       `gorm:"primaryKey" json:"id"`
	Name                   string     `gorm:"size:255;not null" json:"name"`
	Email                  string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role                   string     `gorm:"size:32;not null;default:student" json:"role"`
	Streak                 float64    `gorm:"not null;default:0" json:"streak"`
	CurrentQuestionID      *uint      `json:"current_question_id"`
	LastQuestionAssignedAt *time.Time `json:"last_question_assigned_at"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// HasQuestionAssignedOn reports whether the user's daily question was
// assigned on the same UTC calendar day as the reference time.
func (u User) HasQuestionAssignedOn(reference time.Time) bool {
	if u.CurrentQuestionID == nil || u.LastQuestionAssignedAt == nil {
		return false
	}

	assigned := u.LastQuestionAssignedAt.UTC()
	reference = reference.UTC()

	return assigned.Year() == reference.Year() && assigned.YearDay() == reference.YearDay()
}
