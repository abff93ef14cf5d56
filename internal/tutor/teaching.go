package tutor

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/mastery"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/reward"
	"github.com/abhisek/tutoriz/internal/session"
)

// stepTeaching serves the current concept: a micro-lesson plus one
// practice question. With a question outstanding it re-presents that
// question. An exhausted plan moves the session to wrap_up.
func (e *Engine) stepTeaching(ctx context.Context, s *session.Session) (*Result, error) {
	if s.Active != nil {
		return &Result{Phase: s.Phase, Actions: []Action{questionAction(s)}}, nil
	}

	if !s.AdvanceConcept() {
		from := s.Phase
		if err := s.AdvancePhase(session.PhaseWrapUp); err != nil {
			return nil, &PhaseError{Op: "advance", Phase: s.Phase}
		}
		if err := e.commit(ctx, "enter wrap_up", s); err != nil {
			return nil, err
		}
		e.recordSessionEvent(ctx, s.ID, "phase_advanced", from, s.Phase)
		return &Result{Phase: s.Phase, Actions: []Action{
			{Kind: ActionPhaseChanged, From: from, To: s.Phase},
		}}, nil
	}

	c := s.CurrentConcept()
	def, err := curriculum.GetConcept(c.ID)
	if err != nil {
		return nil, fmt.Errorf("session references %w", err)
	}
	pctx, err := e.promptContext(s)
	if err != nil {
		return nil, err
	}

	gctx, cancel := e.withGenTimeout(ctx)
	teaching, err := e.gen.GenerateTeaching(gctx, contentgen.TeachingRequest{
		Context:     pctx,
		ConceptID:   c.ID,
		ConceptName: c.Name,
		Keywords:    def.Keywords,
		Mastery:     c.Mastery,
	})
	cancel()
	if err != nil {
		return nil, err
	}
	q, err := e.nextPracticeQuestion(ctx, s, c, def.Keywords, c.Mastery)
	if err != nil {
		return nil, err
	}

	c.Status = session.ConceptInProgress
	s.AppendHistory("tutor", "teaching", teaching.Title)
	issueQuestion(s, q, session.MaxAttempts)
	if err := e.commit(ctx, "teach concept", s); err != nil {
		return nil, err
	}

	return &Result{Phase: s.Phase, Actions: []Action{
		{Kind: ActionTeaching, Teaching: teaching, ConceptID: c.ID, ConceptName: c.Name},
		questionAction(s),
	}}, nil
}

// nextPracticeQuestion generates a practice question for the concept,
// rotating kinds and matching difficulty to the mastery score m.
func (e *Engine) nextPracticeQuestion(ctx context.Context, s *session.Session, c *session.Concept, keywords []string, m float64) (*question.Question, error) {
	pctx, err := e.promptContext(s)
	if err != nil {
		return nil, err
	}
	gctx, cancel := e.withGenTimeout(ctx)
	defer cancel()
	return e.gen.GenerateQuestion(gctx, contentgen.QuestionRequest{
		Context:     pctx,
		ConceptID:   c.ID,
		ConceptName: c.Name,
		Keywords:    keywords,
		Kind:        rotateKind(practiceKinds, s.Stats.QuestionsAttempted),
		Difficulty:  difficultyFor(m),
		Purpose:     "practice",
		Exclude:     questionPrompts(s.History),
	})
}

// submitTeaching grades one practice attempt and resolves it: a correct
// answer earns XP and either masters the concept or brings a fresh
// question; an incorrect one burns an attempt and signals retry or, once
// attempts run out, reteach. Mastery moves on every graded attempt.
func (e *Engine) submitTeaching(ctx context.Context, s *session.Session, submitted string) (*Result, error) {
	if s.Active == nil {
		return nil, ErrNoActiveQuestion
	}
	c := s.ConceptByID(s.Active.Question.ConceptID)
	if c == nil {
		return nil, fmt.Errorf("active question references unplanned concept %q", s.Active.Question.ConceptID)
	}

	q := s.Active.Question
	outcome := grade(&q, submitted)
	elapsed := time.Since(s.Active.IssuedAt)
	attempt := session.MaxAttempts - s.Active.AttemptsRemaining + 1
	attemptsLeft := s.Active.AttemptsRemaining - 1

	change := mastery.Update(c.Mastery, outcome.Correct)
	mastered := outcome.Correct && mastery.Mastered(change.After)
	awards := reward.ForAnswer(outcome.Correct, mastered)
	xp := reward.Total(awards)

	// Content comes back before any state is committed.
	pctx, err := e.promptContext(s)
	if err != nil {
		return nil, err
	}
	gctx, cancel := e.withGenTimeout(ctx)
	fb, err := e.gen.GenerateFeedback(gctx, contentgen.FeedbackRequest{
		Context:      pctx,
		Question:     q,
		Submitted:    submitted,
		Correct:      outcome.Correct,
		Detail:       outcome.Detail,
		AttemptsLeft: attemptsLeft,
	})
	cancel()
	if err != nil {
		return nil, err
	}
	var nextQ *question.Question
	if outcome.Correct && !mastered {
		def, derr := curriculum.GetConcept(c.ID)
		if derr != nil {
			return nil, fmt.Errorf("session references %w", derr)
		}
		nextQ, err = e.nextPracticeQuestion(ctx, s, c, def.Keywords, change.After)
		if err != nil {
			return nil, err
		}
	}

	s.Stats.TimeSpent += elapsed
	s.RecordAnswer(outcome.Correct)
	s.AppendHistory("student", "answer", submitted)
	s.AppendHistory("tutor", "feedback", fb.Text)
	c.Attempts++
	c.Mastery = change.After

	actions := []Action{{
		Kind:      ActionFeedback,
		Feedback:  fb.Text,
		Correct:   outcome.Correct,
		Detail:    outcome.Detail,
		ConceptID: c.ID,
	}}
	masteryReason := "correct_answer"

	switch {
	case outcome.Correct:
		s.Stats.XP += xp
		s.Active = nil
		for _, a := range awards {
			actions = append(actions, Action{Kind: ActionXPAwarded, XP: a.XP, Reason: string(a.Reason)})
		}
		if mastered {
			c.Status = session.ConceptMastered
			actions = append(actions, Action{
				Kind:        ActionConceptMastered,
				ConceptID:   c.ID,
				ConceptName: c.Name,
				Mastery:     c.Mastery,
			})
			more, err := e.advanceOrWrapUp(s)
			if err != nil {
				return nil, err
			}
			actions = append(actions, more...)
		} else {
			issueQuestion(s, nextQ, session.MaxAttempts)
			actions = append(actions, questionAction(s))
		}

	default:
		masteryReason = "incorrect_answer"
		s.AddMiss(session.Miss{
			ConceptID:     c.ID,
			Prompt:        q.Prompt,
			Submitted:     submitted,
			Misconception: fb.Misconception,
		})
		if attemptsLeft > 0 {
			s.Active.AttemptsRemaining = attemptsLeft
			s.Active.IssuedAt = time.Now().UTC()
			actions = append(actions, Action{Kind: ActionRetry, AttemptsRemaining: attemptsLeft})
		} else {
			// Attempts exhausted: the concept stays in progress and the
			// next step reteaches it.
			s.Active = nil
			actions = append(actions, Action{Kind: ActionReteach, ConceptID: c.ID, ConceptName: c.Name})
		}
	}

	if err := e.commit(ctx, "submit answer", s); err != nil {
		return nil, err
	}
	e.recordAnswerEvent(ctx, s.ID, session.PhaseTeaching, &q, submitted, outcome.Correct, attempt, xp, elapsed)
	e.recordMasteryEvent(ctx, s.ID, c.ID, change.Before, change.After, masteryReason)
	if phaseChange := findPhaseChange(actions); phaseChange != nil {
		e.recordSessionEvent(ctx, s.ID, "phase_advanced", phaseChange.From, phaseChange.To)
	}

	return &Result{Phase: s.Phase, Actions: actions}, nil
}

// RequestHint fetches an escalating hint for the outstanding practice
// question. Hints are free: they never consume an attempt or resolve the
// question, so asking again only changes the hint counter.
func (e *Engine) RequestHint(ctx context.Context, id string) (*Result, error) {
	unlock := e.locks.acquire(id)
	defer unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Phase != session.PhaseTeaching {
		return nil, &PhaseError{Op: "request a hint", Phase: s.Phase}
	}
	if s.Active == nil {
		return nil, ErrNoActiveQuestion
	}

	pctx, err := e.promptContext(s)
	if err != nil {
		return nil, err
	}
	gctx, cancel := e.withGenTimeout(ctx)
	hint, err := e.gen.GenerateHint(gctx, contentgen.HintRequest{
		Context:    pctx,
		Question:   s.Active.Question,
		HintsGiven: s.Active.HintsGiven,
	})
	cancel()
	if err != nil {
		return nil, err
	}

	s.Active.HintsGiven++
	s.Stats.HintsUsed++
	s.AppendHistory("tutor", "hint", hint)
	if err := e.commit(ctx, "request hint", s); err != nil {
		return nil, err
	}
	e.recordHintEvent(ctx, s, hint)

	return &Result{Phase: s.Phase, Actions: []Action{{
		Kind:       ActionHint,
		Hint:       hint,
		HintsGiven: s.Active.HintsGiven,
	}}}, nil
}

// SkipConcept marks the current concept skipped and moves on. Skipped
// concepts never re-enter the loop in this session; the review schedule
// brings them back soonest.
func (e *Engine) SkipConcept(ctx context.Context, id string) (*Result, error) {
	unlock := e.locks.acquire(id)
	defer unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Phase != session.PhaseTeaching {
		return nil, &PhaseError{Op: "skip a concept", Phase: s.Phase}
	}
	c := s.CurrentConcept()
	if c == nil {
		return nil, fmt.Errorf("no concept under instruction")
	}

	c.Status = session.ConceptSkipped
	s.Active = nil
	actions := []Action{{
		Kind:        ActionConceptSkipped,
		ConceptID:   c.ID,
		ConceptName: c.Name,
		Mastery:     c.Mastery,
	}}
	more, err := e.advanceOrWrapUp(s)
	if err != nil {
		return nil, err
	}
	actions = append(actions, more...)

	if err := e.commit(ctx, "skip concept", s); err != nil {
		return nil, err
	}
	e.recordMasteryEvent(ctx, s.ID, c.ID, c.Mastery, c.Mastery, "skipped")
	if phaseChange := findPhaseChange(actions); phaseChange != nil {
		e.recordSessionEvent(ctx, s.ID, "phase_advanced", phaseChange.From, phaseChange.To)
	}

	return &Result{Phase: s.Phase, Actions: actions}, nil
}

// advanceOrWrapUp moves Current to the next workable concept, or
// transitions to wrap_up when the plan is exhausted. It only mutates; the
// caller commits.
func (e *Engine) advanceOrWrapUp(s *session.Session) ([]Action, error) {
	if s.AdvanceConcept() {
		c := s.CurrentConcept()
		return []Action{{
			Kind:        ActionConceptAdvanced,
			ConceptID:   c.ID,
			ConceptName: c.Name,
			Mastery:     c.Mastery,
		}}, nil
	}
	from := s.Phase
	if err := s.AdvancePhase(session.PhaseWrapUp); err != nil {
		return nil, &PhaseError{Op: "advance", Phase: s.Phase}
	}
	return []Action{{Kind: ActionPhaseChanged, From: from, To: s.Phase}}, nil
}

func findPhaseChange(actions []Action) *Action {
	for i := range actions {
		if actions[i].Kind == ActionPhaseChanged {
			return &actions[i]
		}
	}
	return nil
}
