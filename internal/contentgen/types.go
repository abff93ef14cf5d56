package contentgen

import (
	"context"

	"github.com/abhisek/tutoriz/internal/plan"
	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/session"
)

// Generator produces all tutoring content for the engine. Implementations
// must validate their output before returning it; the engine trusts a
// returned value.
type Generator interface {
	// GenerateQuestion produces one question of the requested kind with a
	// complete expected-answer spec.
	GenerateQuestion(ctx context.Context, req QuestionRequest) (*question.Question, error)

	// GenerateTeaching produces a markdown micro-lesson for a concept.
	GenerateTeaching(ctx context.Context, req TeachingRequest) (*Teaching, error)

	// GenerateFeedback produces feedback for a graded answer. For
	// incorrect answers the feedback carries a misconception tag.
	GenerateFeedback(ctx context.Context, req FeedbackRequest) (*Feedback, error)

	// GenerateHint produces a hint that must not reveal the answer.
	GenerateHint(ctx context.Context, req HintRequest) (string, error)

	// GeneratePlanNarrative produces a short narrative introducing the
	// study plan.
	GeneratePlanNarrative(ctx context.Context, req PlanRequest) (string, error)

	// GenerateSummary produces the wrap-up summary.
	GenerateSummary(ctx context.Context, req SummaryRequest) (*Summary, error)
}

// SessionContext is the student situation included in every prompt.
type SessionContext struct {
	Subject      string
	Chapter      string
	Profile      session.Profile
	RecentMisses []session.Miss
	History      []session.HistoryEntry
}

// QuestionRequest asks for one question on a concept.
type QuestionRequest struct {
	Context     SessionContext
	ConceptID   string
	ConceptName string
	Keywords    []string
	Kind        question.Kind
	Difficulty  string // "easy", "medium", "hard"
	Purpose     string // "diagnostic" or "practice"

	// Exclude lists prompts already asked this session; the generated
	// question must not repeat them.
	Exclude []string
}

// TeachingRequest asks for a micro-lesson on a concept.
type TeachingRequest struct {
	Context     SessionContext
	ConceptID   string
	ConceptName string
	Keywords    []string
	Mastery     float64
}

// Teaching is a markdown micro-lesson.
type Teaching struct {
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
}

// FeedbackRequest asks for feedback on a graded answer.
type FeedbackRequest struct {
	Context      SessionContext
	Question     question.Question
	Submitted    string
	Correct      bool
	Detail       string // evaluator detail, e.g. "matched 1 of 3 keywords"
	AttemptsLeft int
}

// Feedback is the response to a graded answer.
type Feedback struct {
	Text string `json:"text"`

	// Misconception is a short tag naming the likely misunderstanding,
	// e.g. "sign-error". Empty for correct answers.
	Misconception string `json:"misconception,omitempty"`
}

// HintRequest asks for a hint on the active question.
type HintRequest struct {
	Context    SessionContext
	Question   question.Question
	HintsGiven int
}

// PlanRequest asks for a narrative introducing the study plan.
type PlanRequest struct {
	Context SessionContext
	Entries []plan.Entry
}

// SummaryRequest asks for the wrap-up summary.
type SummaryRequest struct {
	Context  SessionContext
	Concepts []session.Concept
	Stats    session.Stats
}

// Summary is the wrap-up content.
type Summary struct {
	Text          string   `json:"text"`
	Highlights    []string `json:"highlights"`
	PracticeAreas []string `json:"practice_areas"`
}
