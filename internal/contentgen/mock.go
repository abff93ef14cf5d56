package contentgen

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/tutoriz/internal/question"
	"github.com/abhisek/tutoriz/internal/session"
)

// Mock is a deterministic Generator for tests and offline runs.
// Each operation pops from its own FIFO queue; when a queue is empty the
// mock synthesizes a plausible default so a session can always move
// forward without a live provider.
type Mock struct {
	mu  sync.Mutex
	seq int

	// Err, when set, fails every call with it.
	Err error

	Questions  []*question.Question
	Teachings  []*Teaching
	Feedbacks  []*Feedback
	Hints      []string
	Narratives []string
	Summaries  []*Summary

	// Calls records operation names in call order.
	Calls []string

	// QuestionCalls records every GenerateQuestion request.
	QuestionCalls []QuestionRequest
}

// NewMock creates an empty Mock; every call synthesizes a default.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) GenerateQuestion(_ context.Context, req QuestionRequest) (*question.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "question")
	m.QuestionCalls = append(m.QuestionCalls, req)
	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Questions) > 0 {
		q := m.Questions[0]
		m.Questions = m.Questions[1:]
		return q, nil
	}

	m.seq++
	return m.synthQuestion(req, m.seq), nil
}

func (m *Mock) GenerateTeaching(_ context.Context, req TeachingRequest) (*Teaching, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "teaching")
	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Teachings) > 0 {
		t := m.Teachings[0]
		m.Teachings = m.Teachings[1:]
		return t, nil
	}

	return &Teaching{
		Title: req.ConceptName,
		Markdown: fmt.Sprintf("## %s\n\nLet's review %s step by step.\n\n"+
			"1. Read the problem carefully.\n2. Work one step at a time.\n\nReady to try one?",
			req.ConceptName, req.ConceptName),
	}, nil
}

func (m *Mock) GenerateFeedback(_ context.Context, req FeedbackRequest) (*Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "feedback")
	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Feedbacks) > 0 {
		f := m.Feedbacks[0]
		m.Feedbacks = m.Feedbacks[1:]
		return f, nil
	}

	if req.Correct {
		return &Feedback{Text: "Correct, nice work!"}, nil
	}
	if req.AttemptsLeft > 0 {
		return &Feedback{
			Text:          "Not quite. Check each step and try again.",
			Misconception: "calculation-slip",
		}, nil
	}
	return &Feedback{
		Text:          "Not quite. Walk through the explanation and we'll revisit this.",
		Misconception: "calculation-slip",
	}, nil
}

func (m *Mock) GenerateHint(_ context.Context, _ HintRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "hint")
	if m.Err != nil {
		return "", m.Err
	}

	if len(m.Hints) > 0 {
		h := m.Hints[0]
		m.Hints = m.Hints[1:]
		return h, nil
	}
	return "Start from what the question gives you and work one step at a time.", nil
}

func (m *Mock) GeneratePlanNarrative(_ context.Context, req PlanRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "plan")
	if m.Err != nil {
		return "", m.Err
	}

	if len(m.Narratives) > 0 {
		n := m.Narratives[0]
		m.Narratives = m.Narratives[1:]
		return n, nil
	}

	if len(req.Entries) == 0 {
		return "Nothing to plan yet.", nil
	}
	return fmt.Sprintf("We'll work through %d concepts, starting with %s where you'll gain the most.",
		len(req.Entries), req.Entries[0].Name), nil
}

func (m *Mock) GenerateSummary(_ context.Context, req SummaryRequest) (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, "summary")
	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Summaries) > 0 {
		s := m.Summaries[0]
		m.Summaries = m.Summaries[1:]
		return s, nil
	}

	out := &Summary{
		Text: fmt.Sprintf("You answered %d of %d questions correctly and earned %d XP.",
			req.Stats.QuestionsCorrect, req.Stats.QuestionsAttempted, req.Stats.XP),
	}
	for _, c := range req.Concepts {
		if c.Status == session.ConceptMastered {
			out.Highlights = append(out.Highlights, "Mastered "+c.Name)
		} else {
			out.PracticeAreas = append(out.PracticeAreas, c.Name)
		}
	}
	if len(out.Highlights) == 0 {
		out.Highlights = []string{"Showed up and practiced"}
	}
	return out, nil
}

// CallCount returns the number of generator calls made.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// synthQuestion builds a simple arithmetic question of the requested kind.
// The sequence number keeps prompts unique across a session.
func (m *Mock) synthQuestion(req QuestionRequest, n int) *question.Question {
	sum := 2*n + 1
	q := &question.Question{
		ID:          uuid.New().String(),
		Kind:        req.Kind,
		ConceptID:   req.ConceptID,
		Difficulty:  req.Difficulty,
		Prompt:      fmt.Sprintf("Practice %d for %s: what is %d + %d?", n, req.ConceptName, n, n+1),
		Explanation: fmt.Sprintf("Add the two numbers: %d + %d = %d.", n, n+1, sum),
	}
	if q.Difficulty == "" {
		q.Difficulty = "medium"
	}

	switch req.Kind {
	case question.KindMultipleChoice:
		q.Options = []question.Option{
			{ID: "a", Text: strconv.Itoa(sum - 1)},
			{ID: "b", Text: strconv.Itoa(sum)},
			{ID: "c", Text: strconv.Itoa(sum + 1)},
			{ID: "d", Text: strconv.Itoa(sum + 2)},
		}
		q.CorrectOptionID = "b"
	case question.KindTrueFalse:
		q.Prompt = fmt.Sprintf("Practice %d for %s: %d + %d = %d.", n, req.ConceptName, n, n+1, sum)
		q.BoolAnswer = true
	case question.KindNumeric, question.KindEquation:
		q.Target = float64(sum)
		q.Tolerance = 0
	case question.KindFillBlank:
		q.Prompt = fmt.Sprintf("Practice %d for %s: %d + %d = ___", n, req.ConceptName, n, n+1)
		q.Accepted = []string{strconv.Itoa(sum)}
	case question.KindShortAnswer:
		q.Prompt = fmt.Sprintf("Practice %d for %s: explain how you would find %d + %d.", n, req.ConceptName, n, n+1)
		q.Keywords = []string{"add", "sum"}
	case question.KindMatchPairs:
		q.Prompt = fmt.Sprintf("Practice %d for %s: match each sum to its value.", n, req.ConceptName)
		q.Pairs = []question.Pair{
			{Left: fmt.Sprintf("%d + %d", n, n+1), Right: strconv.Itoa(sum)},
			{Left: fmt.Sprintf("%d + %d", n+1, n+2), Right: strconv.Itoa(sum + 2)},
			{Left: fmt.Sprintf("%d + %d", n+2, n+3), Right: strconv.Itoa(sum + 4)},
		}
	}
	return q
}
