package mastery

import (
	"math"
	"testing"
)

func TestUpdate_Correct(t *testing.T) {
	ch := Update(0.5, true)
	if math.Abs(ch.After-0.65) > 1e-9 {
		t.Errorf("Update(0.5, correct) = %v, want 0.65", ch.After)
	}
	if ch.Before != 0.5 {
		t.Errorf("Before = %v, want 0.5", ch.Before)
	}
	if ch.Crossed {
		t.Error("0.65 should not cross the threshold")
	}
}

func TestUpdate_Incorrect(t *testing.T) {
	ch := Update(0.5, false)
	if math.Abs(ch.After-0.35) > 1e-9 {
		t.Errorf("Update(0.5, incorrect) = %v, want 0.35", ch.After)
	}
}

func TestUpdate_TwoCorrectFromPriorCrossThreshold(t *testing.T) {
	first := Update(NeutralPrior, true)
	if first.Crossed {
		t.Error("first correct answer from 0.5 should not cross")
	}
	second := Update(first.After, true)
	if math.Abs(second.After-0.755) > 1e-9 {
		t.Errorf("second update = %v, want 0.755", second.After)
	}
	if !second.Crossed {
		t.Error("second consecutive correct from 0.5 should cross 0.7")
	}
	if !Mastered(second.After) {
		t.Error("0.755 should be mastered")
	}
}

func TestUpdate_StaysInRange(t *testing.T) {
	score := 0.0
	for i := 0; i < 50; i++ {
		score = Update(score, true).After
		if score < 0 || score > 1 {
			t.Fatalf("score left [0,1]: %v", score)
		}
	}
	if score >= 1.0001 || score <= 0.99 {
		t.Errorf("score should converge toward 1, got %v", score)
	}

	for i := 0; i < 50; i++ {
		score = Update(score, false).After
		if score < 0 || score > 1 {
			t.Fatalf("score left [0,1]: %v", score)
		}
	}
	if score >= 0.01 {
		t.Errorf("score should converge toward 0, got %v", score)
	}
}

func TestUpdate_CrossedOnlyOnUpwardCross(t *testing.T) {
	// Already above threshold: another correct answer is not a crossing.
	ch := Update(0.8, true)
	if ch.Crossed {
		t.Error("update starting above threshold should not report a cross")
	}
	// Dropping below is not a crossing either.
	ch = Update(0.72, false)
	if ch.Crossed {
		t.Error("downward move should not report a cross")
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.3, 0},
		{0, 0},
		{0.4, 0.4},
		{1, 1},
		{1.2, 1},
	}
	for _, tc := range tests {
		if got := Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestMastered(t *testing.T) {
	if Mastered(0.69999) {
		t.Error("0.69999 should not be mastered")
	}
	if !Mastered(0.7) {
		t.Error("0.7 exactly should be mastered")
	}
	if !Mastered(1) {
		t.Error("1 should be mastered")
	}
}
