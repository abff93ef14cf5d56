package tutor

import (
	"context"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/review"
	"github.com/abhisek/tutoriz/internal/session"
)

// finishSession fetches the wrap-up summary, attaches it with the review
// schedule, and completes the session.
func (e *Engine) finishSession(ctx context.Context, s *session.Session) (*Result, error) {
	pctx, err := e.promptContext(s)
	if err != nil {
		return nil, err
	}
	gctx, cancel := e.withGenTimeout(ctx)
	sum, err := e.gen.GenerateSummary(gctx, contentgen.SummaryRequest{
		Context:  pctx,
		Concepts: s.Concepts,
		Stats:    s.Stats,
	})
	cancel()
	if err != nil {
		return nil, err
	}

	s.Summary = &session.Summary{
		Text:          sum.Text,
		Highlights:    sum.Highlights,
		PracticeAreas: sum.PracticeAreas,
		Review:        review.Suggestions(s.Concepts),
		DurationMins:  int(s.Stats.TimeSpent.Minutes()),
	}
	from := s.Phase
	if err := s.AdvancePhase(session.PhaseCompleted); err != nil {
		return nil, &PhaseError{Op: "advance", Phase: s.Phase}
	}
	if err := e.commit(ctx, "complete session", s); err != nil {
		return nil, err
	}
	e.recordSessionEvent(ctx, s.ID, "completed", from, s.Phase)

	return &Result{Phase: s.Phase, Actions: []Action{
		{Kind: ActionSummary, Summary: s.Summary},
		{Kind: ActionPhaseChanged, From: from, To: s.Phase},
	}}, nil
}
