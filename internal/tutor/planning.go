package tutor

import (
	"context"
	"fmt"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/plan"
	"github.com/abhisek/tutoriz/internal/session"
)

// buildPlan turns diagnostic scores into the ordered study plan and moves
// the session into teaching. The narrative is fetched before any state
// changes.
func (e *Engine) buildPlan(ctx context.Context, s *session.Session) (*Result, error) {
	ch, err := curriculum.GetChapter(s.Subject, s.Chapter)
	if err != nil {
		return nil, fmt.Errorf("session references %w", err)
	}
	p := plan.Build(ch.Concepts, s.Diagnostic.Scores())

	pctx, err := e.promptContext(s)
	if err != nil {
		return nil, err
	}
	gctx, cancel := e.withGenTimeout(ctx)
	narrative, err := e.gen.GeneratePlanNarrative(gctx, contentgen.PlanRequest{
		Context: pctx,
		Entries: p.Entries,
	})
	cancel()
	if err != nil {
		return nil, err
	}

	s.Concepts = planConcepts(p)
	s.Current = 0
	from := s.Phase
	if err := s.AdvancePhase(session.PhaseTeaching); err != nil {
		return nil, &PhaseError{Op: "advance", Phase: s.Phase}
	}
	if err := e.commit(ctx, "build plan", s); err != nil {
		return nil, err
	}
	e.recordSessionEvent(ctx, s.ID, "phase_advanced", from, s.Phase)

	return &Result{Phase: s.Phase, Actions: []Action{
		{Kind: ActionPlanBuilt, Plan: p, Narrative: narrative},
		{Kind: ActionPhaseChanged, From: from, To: s.Phase},
	}}, nil
}

// planConcepts seeds session concepts from plan entries: the diagnostic
// evidence becomes the starting mastery.
func planConcepts(p *plan.Plan) []session.Concept {
	out := make([]session.Concept, 0, len(p.Entries))
	for _, entry := range p.Entries {
		out = append(out, session.Concept{
			ID:            entry.ConceptID,
			Name:          entry.Name,
			Priority:      entry.Priority,
			EstimatedMins: entry.EstimatedMins,
			Status:        session.ConceptNotStarted,
			Mastery:       entry.Score,
		})
	}
	return out
}
