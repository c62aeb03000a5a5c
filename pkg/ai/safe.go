package ai

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrGraderNotConfigured is returned when no grading backend was configured.
// It signals a deployment problem, not a per-request failure.
var ErrGraderNotConfigured = errors.New("grader not configured")

// FallbackFeedback is handed to the student whenever automatic grading is
// unavailable. A neutral verdict plus a manual appeal is the safety net.
const FallbackFeedback = "Your answer could not be validated automatically and has been marked as partially correct. You can appeal for a manual review by your professor."

// SafeGrader wraps a Grader so that grading failures never reach the caller.
// Any failure of the inner grader degrades to a neutral partial verdict.
type SafeGrader struct {
	inner  Grader
	logger zerolog.Logger
}

// NewSafeGrader builds the fallback decorator. The inner grader may be nil,
// in which case every Grade call fails with ErrGraderNotConfigured.
func NewSafeGrader(inner Grader, logger zerolog.Logger) *SafeGrader {
	return &SafeGrader{
		inner:  inner,
		logger: logger.With().Str("component", "safe_grader").Logger(),
	}
}

// Grade delegates to the inner grader and maps any failure to the fallback
// verdict. The returned error is non-nil only when no grader is configured.
func (g *SafeGrader) Grade(ctx context.Context, question, answer string) (Verdict, error) {
	if g.inner == nil {
		return Verdict{}, ErrGraderNotConfigured
	}

	verdict, err := g.inner.Grade(ctx, question, answer)
	if err != nil {
		g.logger.Warn().Err(err).Msg("grading failed, falling back to partial verdict")
		return FallbackVerdict(), nil
	}

	return verdict, nil
}

// FallbackVerdict is the verdict used when automatic grading is unavailable.
func FallbackVerdict() Verdict {
	return Verdict{
		Rating:   RatingPartial,
		Feedback: FallbackFeedback,
	}
}
