package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type stubGrader struct {
	verdict Verdict
	err     error
	calls   int
}

func (s *stubGrader) Grade(ctx context.Context, question, answer string) (Verdict, error) {
	s.calls++
	return s.verdict, s.err
}

func TestSafeGraderNotConfigured(t *testing.T) {
	grader := NewSafeGrader(nil, zerolog.Nop())

	_, err := grader.Grade(context.Background(), "q", "a")
	require.ErrorIs(t, err, ErrGraderNotConfigured)
}

func TestSafeGraderPassesThroughVerdict(t *testing.T) {
	inner := &stubGrader{verdict: Verdict{Rating: RatingCorrect, Feedback: "Nice."}}
	grader := NewSafeGrader(inner, zerolog.Nop())

	verdict, err := grader.Grade(context.Background(), "q", "a")
	require.NoError(t, err)
	require.Equal(t, RatingCorrect, verdict.Rating)
	require.Equal(t, "Nice.", verdict.Feedback)
	require.Equal(t, 1, inner.calls)
}

func TestSafeGraderAbsorbsFailures(t *testing.T) {
	failures := []error{
		errors.New("connection refused"),
		errors.New("no choices returned from openai"),
		errors.New("parse verdict json: invalid character"),
		errors.New(`unknown rating "excellent"`),
	}

	for _, failure := range failures {
		inner := &stubGrader{err: failure}
		grader := NewSafeGrader(inner, zerolog.Nop())

		verdict, err := grader.Grade(context.Background(), "q", "a")
		require.NoError(t, err)
		require.Equal(t, FallbackVerdict(), verdict)
	}
}
