package contentgen

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/tutoriz/internal/question"
)

func TestMock_FIFOQuestions(t *testing.T) {
	canned := &question.Question{
		ID:        "canned-1",
		Kind:      question.KindNumeric,
		ConceptID: "alg-two-step",
		Prompt:    "Solve for x: 2x = 10",
		Target:    5,
	}
	m := &Mock{Questions: []*question.Question{canned}}

	q, err := m.GenerateQuestion(context.Background(), numericRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID != "canned-1" {
		t.Errorf("expected the canned question first, got %q", q.ID)
	}

	q, err = m.GenerateQuestion(context.Background(), numericRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID == "canned-1" {
		t.Error("queue exhausted, expected a synthesized question")
	}
}

func TestMock_SynthesizedQuestionsAreValid(t *testing.T) {
	m := NewMock()
	for _, kind := range question.Kinds() {
		req := numericRequest()
		req.Kind = kind
		q, err := m.GenerateQuestion(context.Background(), req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", kind, err)
		}
		if err := question.ValidateSpec(q); err != nil {
			t.Errorf("%s: synthesized question invalid: %v", kind, err)
		}
		if q.ConceptID != req.ConceptID {
			t.Errorf("%s: expected concept %q, got %q", kind, req.ConceptID, q.ConceptID)
		}
	}
}

func TestMock_SynthesizedPromptsUnique(t *testing.T) {
	m := NewMock()
	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		q, err := m.GenerateQuestion(context.Background(), numericRequest())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if seen[q.Prompt] {
			t.Fatalf("prompt repeated: %q", q.Prompt)
		}
		seen[q.Prompt] = true
	}
}

func TestMock_SynthesizedAnswersGrade(t *testing.T) {
	m := NewMock()
	req := numericRequest()
	req.Kind = question.KindNumeric

	q, err := m.GenerateQuestion(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out, err := question.Evaluate(q, "3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Correct {
		t.Error("first synthesized numeric question should accept 3 (1 + 2)")
	}
}

func TestMock_ErrInjection(t *testing.T) {
	boom := &GenerationError{Op: "question", Retryable: true, Err: errors.New("boom")}
	m := &Mock{Err: boom}

	if _, err := m.GenerateQuestion(context.Background(), numericRequest()); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if _, err := m.GenerateTeaching(context.Background(), TeachingRequest{}); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
	if _, err := m.GenerateHint(context.Background(), HintRequest{}); !errors.Is(err, boom) {
		t.Errorf("expected injected error, got %v", err)
	}
}

func TestMock_DefaultsForOtherOps(t *testing.T) {
	m := NewMock()

	teaching, err := m.GenerateTeaching(context.Background(), TeachingRequest{ConceptName: "Slope"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if teaching.Markdown == "" {
		t.Error("expected a default lesson body")
	}

	fb, err := m.GenerateFeedback(context.Background(), FeedbackRequest{Correct: false, AttemptsLeft: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Misconception == "" {
		t.Error("expected a default misconception for a wrong answer")
	}

	fb, err = m.GenerateFeedback(context.Background(), FeedbackRequest{Correct: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Misconception != "" {
		t.Error("correct answers must not carry a misconception")
	}

	hint, err := m.GenerateHint(context.Background(), HintRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hint == "" {
		t.Error("expected a default hint")
	}

	if m.CallCount() != 4 {
		t.Errorf("expected 4 calls recorded, got %d", m.CallCount())
	}
}
