package ai

import "context"

// Rating classifies a graded answer.
type Rating string

// Possible verdict ratings.
const (
	RatingCorrect   Rating = "correct"
	RatingPartial   Rating = "partial"
	RatingIncorrect Rating = "incorrect"
)

// Valid reports whether the rating is one of the known values.
func (r Rating) Valid() bool {
	switch r {
	case RatingCorrect, RatingPartial, RatingIncorrect:
		return true
	default:
		return false
	}
}

// Verdict is the outcome of grading a single answer.
type Verdict struct {
	Rating   Rating `json:"rating"`
	Feedback string `json:"feedback"`
}

// Grader describes an AI model capable of grading a free-text answer
// against the question it was asked for.
type Grader interface {
	Grade(ctx context.Context, question, answer string) (Verdict, error)
}
