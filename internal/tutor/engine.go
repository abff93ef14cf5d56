// Package tutor drives tutoring sessions through their phases: diagnostic
// assessment, study planning, the teaching loop, and wrap-up. Every
// operation is an atomic load, transition, persist cycle on one session;
// generated content is fetched before any state is committed, so a failed
// generation leaves the stored session exactly as it was.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/curriculum"
	"github.com/abhisek/tutoriz/internal/diagnostic"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/session"
	"github.com/abhisek/tutoriz/internal/store"
)

// DefaultGenTimeout bounds a single content-generation call.
const DefaultGenTimeout = 45 * time.Second

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	// MaxDiagnostic is the diagnostic question budget per session.
	MaxDiagnostic int

	// GenTimeout bounds each content-generation call.
	GenTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxDiagnostic <= 0 {
		c.MaxDiagnostic = diagnostic.DefaultMaxQuestions
	}
	if c.GenTimeout <= 0 {
		c.GenTimeout = DefaultGenTimeout
	}
	return c
}

// Engine owns session state transitions. It holds no session data itself;
// every operation loads from the store, applies one transition, and saves.
type Engine struct {
	sessions store.SessionRepo
	events   store.EventRepo
	gen      contentgen.Generator
	cfg      Config
	locks    *sessionLocks
}

// New wires an engine from its collaborators.
func New(sessions store.SessionRepo, events store.EventRepo, gen contentgen.Generator, cfg Config) *Engine {
	return &Engine{
		sessions: sessions,
		events:   events,
		gen:      gen,
		cfg:      cfg.withDefaults(),
		locks:    newSessionLocks(),
	}
}

// CreateSession validates the subject and chapter against the curriculum
// and persists a fresh session in the not_started phase.
func (e *Engine) CreateSession(ctx context.Context, studentID, subjectID, chapterID string, profile session.Profile) (*session.Session, error) {
	if _, err := curriculum.GetChapter(subjectID, chapterID); err != nil {
		return nil, err
	}
	s := session.New(studentID, subjectID, chapterID, profile)
	s.Diagnostic.MaxQuestions = e.cfg.MaxDiagnostic
	if err := e.commit(ctx, "create session", s); err != nil {
		return nil, err
	}
	e.recordSessionEvent(ctx, s.ID, "created", "", s.Phase)
	return s, nil
}

// GetSession loads a session without mutating it.
func (e *Engine) GetSession(ctx context.Context, id string) (*session.Session, error) {
	return e.load(ctx, id)
}

// ListSessions returns stored sessions, most recently touched first.
func (e *Engine) ListSessions(ctx context.Context, opts store.ListOpts) ([]*session.Session, error) {
	return e.sessions.List(ctx, opts)
}

// DeleteSession removes a session. Deleting an unknown ID is a no-op.
func (e *Engine) DeleteSession(ctx context.Context, id string) error {
	if err := e.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	e.recordSessionEvent(ctx, id, "deleted", "", "")
	return nil
}

// Start begins the diagnostic: the session moves from not_started to
// diagnostic and the first diagnostic question is issued.
func (e *Engine) Start(ctx context.Context, id string) (*Result, error) {
	unlock := e.locks.acquire(id)
	defer unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Phase != session.PhaseNotStarted {
		return nil, &PhaseError{Op: "start", Phase: s.Phase}
	}

	q, err := e.nextDiagnosticQuestion(ctx, s)
	if err != nil {
		return nil, err
	}

	from := s.Phase
	if err := s.AdvancePhase(session.PhaseDiagnostic); err != nil {
		return nil, &PhaseError{Op: "start", Phase: s.Phase}
	}
	issueQuestion(s, q, 1)
	if err := e.commit(ctx, "start session", s); err != nil {
		return nil, err
	}
	e.recordSessionEvent(ctx, s.ID, "phase_advanced", from, s.Phase)

	return &Result{Phase: s.Phase, Actions: []Action{
		{Kind: ActionPhaseChanged, From: from, To: s.Phase},
		questionAction(s),
	}}, nil
}

// Next advances the session one step: the following diagnostic question,
// the phase transition into planning, the study plan, the current
// concept's teaching, or the wrap-up summary, depending on phase. With a
// question outstanding it re-presents that question and changes nothing,
// so reopening a half-finished session is safe.
func (e *Engine) Next(ctx context.Context, id string) (*Result, error) {
	unlock := e.locks.acquire(id)
	defer unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch s.Phase {
	case session.PhaseDiagnostic:
		return e.stepDiagnostic(ctx, s)
	case session.PhasePlanning:
		return e.buildPlan(ctx, s)
	case session.PhaseTeaching:
		return e.stepTeaching(ctx, s)
	case session.PhaseWrapUp:
		return e.finishSession(ctx, s)
	default:
		return nil, &PhaseError{Op: "advance", Phase: s.Phase}
	}
}

// SubmitAnswer grades the outstanding question and applies the outcome.
// Malformed submissions grade as incorrect; they never fail the call.
func (e *Engine) SubmitAnswer(ctx context.Context, id, submitted string) (*Result, error) {
	unlock := e.locks.acquire(id)
	defer unlock()

	s, err := e.load(ctx, id)
	if err != nil {
		return nil, err
	}
	switch s.Phase {
	case session.PhaseDiagnostic:
		return e.submitDiagnostic(ctx, s, submitted)
	case session.PhaseTeaching:
		return e.submitTeaching(ctx, s, submitted)
	default:
		return nil, &PhaseError{Op: "submit an answer", Phase: s.Phase}
	}
}

// load fetches a session, mapping the store's miss to UnknownSessionError.
func (e *Engine) load(ctx context.Context, id string) (*session.Session, error) {
	s, err := e.sessions.Load(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &UnknownSessionError{ID: id}
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

// commit persists the session. Failures become PersistenceError so the
// caller knows the mutation did not land.
func (e *Engine) commit(ctx context.Context, op string, s *session.Session) error {
	if err := e.sessions.Save(ctx, s); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	return nil
}

// withGenTimeout bounds one content-generation call.
func (e *Engine) withGenTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.cfg.GenTimeout)
}

// promptContext assembles the student situation shared by every
// content-generation call.
func (e *Engine) promptContext(s *session.Session) (contentgen.SessionContext, error) {
	sub, err := curriculum.GetSubject(s.Subject)
	if err != nil {
		return contentgen.SessionContext{}, fmt.Errorf("session references %w", err)
	}
	ch, err := curriculum.GetChapter(s.Subject, s.Chapter)
	if err != nil {
		return contentgen.SessionContext{}, fmt.Errorf("session references %w", err)
	}
	return contentgen.SessionContext{
		Subject:      sub.Name,
		Chapter:      ch.Name,
		Profile:      s.Profile,
		RecentMisses: s.RecentMisses,
		History:      s.History,
	}, nil
}

// grade evaluates a submission, folding format problems into an incorrect
// outcome so a typo never aborts the session.
func grade(q *question.Question, submitted string) question.Outcome {
	outcome, err := question.Evaluate(q, submitted)
	if err != nil {
		return question.Outcome{Correct: false, Detail: err.Error()}
	}
	return outcome
}

// issueQuestion makes q the outstanding question and logs it as prompt
// context for later generations.
func issueQuestion(s *session.Session, q *question.Question, attempts int) {
	s.Active = &session.ActiveQuestion{
		Question:          *q,
		AttemptsRemaining: attempts,
		IssuedAt:          time.Now().UTC(),
	}
	s.AppendHistory("tutor", "question", q.Prompt)
}

// questionAction renders the outstanding question as an action.
func questionAction(s *session.Session) Action {
	q := s.Active.Question
	a := Action{
		Kind:              ActionQuestionIssued,
		Question:          &q,
		AttemptsRemaining: s.Active.AttemptsRemaining,
		ConceptID:         q.ConceptID,
	}
	if s.Phase == session.PhaseDiagnostic {
		a.Asked = len(s.Diagnostic.Asked) + 1
		a.Max = s.Diagnostic.MaxQuestions
	}
	return a
}

// questionPrompts collects already-asked prompts from the history so the
// generator can avoid repeats.
func questionPrompts(hist []session.HistoryEntry) []string {
	var out []string
	for _, h := range hist {
		if h.Kind == "question" {
			out = append(out, h.Text)
		}
	}
	return out
}

// diagnosticKinds are the quick-to-answer kinds used while assessing.
// Slower formats stay in the practice loop.
var diagnosticKinds = []question.Kind{
	question.KindMultipleChoice,
	question.KindTrueFalse,
	question.KindNumeric,
}

// practiceKinds rotates through every kind for variety.
var practiceKinds = question.Kinds()

func rotateKind(kinds []question.Kind, n int) question.Kind {
	return kinds[n%len(kinds)]
}

// difficultyFor maps current mastery to the difficulty asked of the
// generator: struggling students get easier questions.
func difficultyFor(m float64) string {
	switch {
	case m < 0.4:
		return "easy"
	case m < 0.7:
		return "medium"
	default:
		return "hard"
	}
}

// Event appends are best effort: the audit trail never fails an
// operation whose session commit already succeeded.

func (e *Engine) recordSessionEvent(ctx context.Context, sessionID, action string, from, to session.Phase) {
	_ = e.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: sessionID,
		Action:    action,
		FromPhase: string(from),
		ToPhase:   string(to),
	})
}

func (e *Engine) recordAnswerEvent(ctx context.Context, sessionID string, phase session.Phase, q *question.Question, submitted string, correct bool, attempt, xp int, elapsed time.Duration) {
	_ = e.events.AppendAnswerEvent(ctx, store.AnswerEventData{
		SessionID:  sessionID,
		ConceptID:  q.ConceptID,
		QuestionID: q.ID,
		Kind:       string(q.Kind),
		Phase:      string(phase),
		Prompt:     q.Prompt,
		Submitted:  submitted,
		Correct:    correct,
		Attempt:    attempt,
		XPAwarded:  xp,
		TimeMs:     elapsed.Milliseconds(),
	})
}

func (e *Engine) recordMasteryEvent(ctx context.Context, sessionID, conceptID string, before, after float64, reason string) {
	_ = e.events.AppendMasteryEvent(ctx, store.MasteryEventData{
		SessionID: sessionID,
		ConceptID: conceptID,
		Before:    before,
		After:     after,
		Reason:    reason,
	})
}

func (e *Engine) recordHintEvent(ctx context.Context, s *session.Session, hint string) {
	_ = e.events.AppendHintEvent(ctx, store.HintEventData{
		SessionID:  s.ID,
		ConceptID:  s.Active.Question.ConceptID,
		QuestionID: s.Active.Question.ID,
		HintText:   hint,
	})
}
