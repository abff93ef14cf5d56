package tutor

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/session"
)

// stepDiagnostic issues the next diagnostic question, or moves the
// session to planning once the question budget is spent.
func (e *Engine) stepDiagnostic(ctx context.Context, s *session.Session) (*Result, error) {
	if s.Active != nil {
		return &Result{Phase: s.Phase, Actions: []Action{questionAction(s)}}, nil
	}

	if s.Diagnostic.Done() {
		from := s.Phase
		if err := s.AdvancePhase(session.PhasePlanning); err != nil {
			return nil, &PhaseError{Op: "advance", Phase: s.Phase}
		}
		if err := e.commit(ctx, "enter planning", s); err != nil {
			return nil, err
		}
		e.recordSessionEvent(ctx, s.ID, "phase_advanced", from, s.Phase)
		return &Result{Phase: s.Phase, Actions: []Action{
			{Kind: ActionPhaseChanged, From: from, To: s.Phase},
		}}, nil
	}

	q, err := e.nextDiagnosticQuestion(ctx, s)
	if err != nil {
		return nil, err
	}
	issueQuestion(s, q, 1)
	if err := e.commit(ctx, "issue diagnostic question", s); err != nil {
		return nil, err
	}
	return &Result{Phase: s.Phase, Actions: []Action{questionAction(s)}}, nil
}

// nextDiagnosticQuestion generates a question for the least-tested
// concept in the chapter. Nothing is mutated; the caller commits.
func (e *Engine) nextDiagnosticQuestion(ctx context.Context, s *session.Session) (*question.Question, error) {
	ch, err := curriculum.GetChapter(s.Subject, s.Chapter)
	if err != nil {
		return nil, fmt.Errorf("session references %w", err)
	}
	conceptID := s.Diagnostic.NextConcept(ch.Concepts)
	if conceptID == "" {
		return nil, fmt.Errorf("chapter %q has no concepts", s.Chapter)
	}
	def, err := curriculum.GetConcept(conceptID)
	if err != nil {
		return nil, err
	}
	pctx, err := e.promptContext(s)
	if err != nil {
		return nil, err
	}

	gctx, cancel := e.withGenTimeout(ctx)
	defer cancel()
	return e.gen.GenerateQuestion(gctx, contentgen.QuestionRequest{
		Context:     pctx,
		ConceptID:   def.ID,
		ConceptName: def.Name,
		Keywords:    def.Keywords,
		Kind:        rotateKind(diagnosticKinds, len(s.Diagnostic.Asked)),
		Difficulty:  "medium",
		Purpose:     "diagnostic",
		Exclude:     questionPrompts(s.History),
	})
}

// submitDiagnostic records one assessment answer. Diagnostic questions
// get a single attempt and no generated feedback; the next question or
// the planning transition comes from the following Next call.
func (e *Engine) submitDiagnostic(ctx context.Context, s *session.Session, submitted string) (*Result, error) {
	if s.Active == nil {
		return nil, ErrNoActiveQuestion
	}

	q := s.Active.Question
	outcome := grade(&q, submitted)
	elapsed := time.Since(s.Active.IssuedAt)

	s.Diagnostic.RecordAnswer(q.ID, q.ConceptID, outcome.Correct)
	s.RecordAnswer(outcome.Correct)
	s.Stats.TimeSpent += elapsed
	s.AppendHistory("student", "answer", submitted)
	if !outcome.Correct {
		s.AddMiss(session.Miss{ConceptID: q.ConceptID, Prompt: q.Prompt, Submitted: submitted})
	}
	s.Active = nil

	if err := e.commit(ctx, "submit diagnostic answer", s); err != nil {
		return nil, err
	}
	e.recordAnswerEvent(ctx, s.ID, s.Phase, &q, submitted, outcome.Correct, 1, 0, elapsed)

	return &Result{Phase: s.Phase, Actions: []Action{{
		Kind:      ActionFeedback,
		Correct:   outcome.Correct,
		Detail:    outcome.Detail,
		ConceptID: q.ConceptID,
		Asked:     len(s.Diagnostic.Asked),
		Max:       s.Diagnostic.MaxQuestions,
	}}}, nil
}
