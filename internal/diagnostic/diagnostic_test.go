package diagnostic

import (
	"fmt"
	"testing"

	"github.com/abhisek/tutoriz/internal/curriculum"
)

func defs(ids ...string) []curriculum.ConceptDef {
	out := make([]curriculum.ConceptDef, len(ids))
	for i, id := range ids {
		out[i] = curriculum.ConceptDef{ID: id, Name: id, EstimatedMins: 10}
	}
	return out
}

func TestState_DoneAfterBudget(t *testing.T) {
	s := NewState()
	if s.Done() {
		t.Fatal("fresh state should not be done")
	}
	for i := 0; i < DefaultMaxQuestions; i++ {
		if s.Done() {
			t.Fatalf("done after %d of %d questions", i, DefaultMaxQuestions)
		}
		s.RecordAnswer(fmt.Sprintf("q%d", i), "c", i%2 == 0)
	}
	if !s.Done() {
		t.Errorf("should be done after %d answers", DefaultMaxQuestions)
	}
	if s.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", s.Remaining())
	}
}

func TestState_DoneRegardlessOfCorrectness(t *testing.T) {
	s := NewState()
	for i := 0; i < DefaultMaxQuestions; i++ {
		s.RecordAnswer(fmt.Sprintf("q%d", i), "c", false)
	}
	if !s.Done() {
		t.Error("all-wrong answers must still exhaust the budget")
	}
}

func TestNextConcept_PrefersUntested(t *testing.T) {
	s := NewState()
	d := defs("a", "b", "c")

	if got := s.NextConcept(d); got != "a" {
		t.Errorf("fresh state should pick first concept, got %q", got)
	}
	s.RecordAnswer("q1", "a", true)
	if got := s.NextConcept(d); got != "b" {
		t.Errorf("after testing a, should pick b, got %q", got)
	}
	s.RecordAnswer("q2", "b", false)
	if got := s.NextConcept(d); got != "c" {
		t.Errorf("after testing a and b, should pick c, got %q", got)
	}
}

func TestNextConcept_CyclesToLeastTested(t *testing.T) {
	s := NewState()
	d := defs("a", "b")
	s.RecordAnswer("q1", "a", true)
	s.RecordAnswer("q2", "b", true)
	s.RecordAnswer("q3", "a", false)

	// a has 2, b has 1.
	if got := s.NextConcept(d); got != "b" {
		t.Errorf("least-tested should win, got %q", got)
	}
}

func TestNextConcept_TieBreaksByChapterOrder(t *testing.T) {
	s := NewState()
	d := defs("second-in-order", "first-tested")
	s.RecordAnswer("q1", "second-in-order", true)
	s.RecordAnswer("q2", "first-tested", true)

	if got := s.NextConcept(d); got != "second-in-order" {
		t.Errorf("tie should keep chapter order, got %q", got)
	}
}

func TestNextConcept_Empty(t *testing.T) {
	s := NewState()
	if got := s.NextConcept(nil); got != "" {
		t.Errorf("empty defs should return empty, got %q", got)
	}
}

func TestScores_FractionCorrect(t *testing.T) {
	s := NewState()
	s.RecordAnswer("q1", "a", true)
	s.RecordAnswer("q2", "a", false)
	s.RecordAnswer("q3", "b", true)

	scores := s.Scores()
	if scores["a"] != 0.5 {
		t.Errorf("a score = %v, want 0.5", scores["a"])
	}
	if scores["b"] != 1.0 {
		t.Errorf("b score = %v, want 1.0", scores["b"])
	}
	if _, ok := scores["untested"]; ok {
		t.Error("untested concept should be absent from scores")
	}
}

func TestCountFor(t *testing.T) {
	s := NewState()
	s.RecordAnswer("q1", "a", true)
	s.RecordAnswer("q2", "a", false)
	if got := s.CountFor("a"); got != 2 {
		t.Errorf("CountFor(a) = %d, want 2", got)
	}
	if got := s.CountFor("b"); got != 0 {
		t.Errorf("CountFor(b) = %d, want 0", got)
	}
}
