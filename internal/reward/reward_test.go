package reward

import "testing"

func TestForAnswer_Incorrect(t *testing.T) {
	if awards := ForAnswer(false, false); awards != nil {
		t.Errorf("incorrect answer should earn nothing, got %+v", awards)
	}
	// Mastered flag is meaningless on a wrong answer.
	if awards := ForAnswer(false, true); awards != nil {
		t.Errorf("incorrect answer should earn nothing, got %+v", awards)
	}
}

func TestForAnswer_Correct(t *testing.T) {
	awards := ForAnswer(true, false)
	if len(awards) != 1 {
		t.Fatalf("got %d awards, want 1", len(awards))
	}
	if awards[0].Reason != ReasonCorrectAnswer || awards[0].XP != 10 {
		t.Errorf("award = %+v, want correct_answer/10", awards[0])
	}
}

func TestForAnswer_Mastery(t *testing.T) {
	awards := ForAnswer(true, true)
	if len(awards) != 2 {
		t.Fatalf("got %d awards, want 2", len(awards))
	}
	if awards[1].Reason != ReasonMastery || awards[1].XP != 20 {
		t.Errorf("bonus = %+v, want mastery/20", awards[1])
	}
	if Total(awards) != 30 {
		t.Errorf("Total = %d, want 30", Total(awards))
	}
}

func TestReasonDisplay(t *testing.T) {
	if ReasonMastery.DisplayName() == "" || ReasonMastery.Icon() == "" {
		t.Error("mastery reason should have display name and icon")
	}
	if Reason("other").DisplayName() != "other" {
		t.Error("unknown reason should fall back to its value")
	}
}
