// Package streak holds the scoring policy for daily-answer streaks. All
// functions are pure; persistence and locking live with the callers.
package streak

import "github.com/quizly-app/quizly-api/pkg/ai"

// ApplyRating computes the streak that results from grading a new answer.
// Correct answers extend the run by a full point, partial answers by half,
// and an incorrect answer resets the run to zero.
func ApplyRating(current float64, rating ai.Rating) float64 {
	switch rating {
	case ai.RatingCorrect:
		return current + 1
	case ai.RatingPartial:
		return current + 0.5
	default:
		return 0
	}
}

// ApplyAppealAcceptance corrects the streak after a professor accepts an
// appeal: the contested verdict should have been "correct".
//
// An incorrect verdict reset the run, so acceptance restores the run the
// student held at the moment of answering (streakAtMoment) plus the full
// point the answer deserved, on top of whatever has accrued since the reset.
// A partial verdict never reset anything, so only the missing half point is
// owed. Appeals on already-correct answers are a no-op.
func ApplyAppealAcceptance(current, streakAtMoment float64, original ai.Rating) float64 {
	switch original {
	case ai.RatingIncorrect:
		return current + streakAtMoment + 1
	case ai.RatingPartial:
		return current + 0.5
	default:
		return current
	}
}
