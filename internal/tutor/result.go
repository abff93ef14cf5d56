package tutor

import (
	"github.com/abhisek/tutoriz/internal/contentgen"
	"github.com/abhisek/tutoriz/internal/plan"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/session"
)

// ActionKind discriminates the effects an engine operation can produce.
type ActionKind string

const (
	ActionPhaseChanged    ActionKind = "phase_changed"
	ActionQuestionIssued  ActionKind = "question_issued"
	ActionTeaching        ActionKind = "teaching"
	ActionFeedback        ActionKind = "feedback"
	ActionHint            ActionKind = "hint"
	ActionPlanBuilt       ActionKind = "plan_built"
	ActionRetry           ActionKind = "retry"
	ActionReteach         ActionKind = "reteach"
	ActionConceptMastered ActionKind = "concept_mastered"
	ActionConceptSkipped  ActionKind = "concept_skipped"
	ActionConceptAdvanced ActionKind = "concept_advanced"
	ActionXPAwarded       ActionKind = "xp_awarded"
	ActionSummary         ActionKind = "summary"
)

// Action is one effect for the caller to render. Kind selects which
// fields are meaningful; the rest are zero.
type Action struct {
	Kind ActionKind

	// phase_changed
	From session.Phase
	To   session.Phase

	// question_issued; AttemptsRemaining also accompanies retry.
	Question          *question.Question
	AttemptsRemaining int

	// Diagnostic progress, set on question_issued and feedback during
	// the diagnostic phase. Asked counts answered questions plus the
	// outstanding one.
	Asked int
	Max   int

	// teaching
	Teaching *contentgen.Teaching

	// feedback
	Feedback string
	Correct  bool
	Detail   string

	// hint
	Hint       string
	HintsGiven int

	// plan_built
	Plan      *plan.Plan
	Narrative string

	// concept_mastered, concept_skipped, concept_advanced, teaching,
	// reteach
	ConceptID   string
	ConceptName string
	Mastery     float64

	// xp_awarded
	XP     int
	Reason string

	// summary
	Summary *session.Summary
}

// Result is returned by every engine operation: the phase after the
// operation and the ordered effects to render. The engine never renders;
// it only decides and sequences.
type Result struct {
	Phase   session.Phase
	Actions []Action
}

// Find returns the first action of the given kind, or nil.
func (r *Result) Find(kind ActionKind) *Action {
	for i := range r.Actions {
		if r.Actions[i].Kind == kind {
			return &r.Actions[i]
		}
	}
	return nil
}
