package question

import (
	"errors"
	"testing"
)

func TestEvaluate_MultipleChoice(t *testing.T) {
	q := &Question{
		Kind:            KindMultipleChoice,
		Prompt:          "Pick one",
		Options:         []Option{{ID: "a", Text: "first"}, {ID: "b", Text: "second"}},
		CorrectOptionID: "b",
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"b", true},
		{" b ", true},
		{"a", false},
		{"B", false},
		{"second", false},
		{"", false},
	}

	for _, tc := range tests {
		out, err := Evaluate(q, tc.input)
		if err != nil {
			t.Fatalf("Evaluate(%q): unexpected error: %v", tc.input, err)
		}
		if out.Correct != tc.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tc.input, out.Correct, tc.want)
		}
	}
}

func TestEvaluate_TrueFalse(t *testing.T) {
	q := &Question{Kind: KindTrueFalse, Prompt: "T or F", BoolAnswer: true}

	tests := []struct {
		input string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{" true ", true},
		{"false", false},
		{"FALSE", false},
	}

	for _, tc := range tests {
		out, err := Evaluate(q, tc.input)
		if err != nil {
			t.Fatalf("Evaluate(%q): unexpected error: %v", tc.input, err)
		}
		if out.Correct != tc.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tc.input, out.Correct, tc.want)
		}
	}
}

func TestEvaluate_TrueFalse_Malformed(t *testing.T) {
	q := &Question{Kind: KindTrueFalse, Prompt: "T or F", BoolAnswer: true}
	_, err := Evaluate(q, "yes")
	var fe *FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FormatError, got %v", err)
	}
	if fe.Kind != KindTrueFalse {
		t.Errorf("FormatError.Kind = %q, want true_false", fe.Kind)
	}
}

func TestEvaluate_NumericTolerance(t *testing.T) {
	q := &Question{Kind: KindNumeric, Prompt: "?", Target: 20, Tolerance: 0.01}

	tests := []struct {
		input string
		want  bool
	}{
		{"20", true},
		{"20.005", true},
		{"19.995", true},
		{"20.01", true},
		{"20.02", false},
		{"19.98", false},
		{"21", false},
	}

	for _, tc := range tests {
		out, err := Evaluate(q, tc.input)
		if err != nil {
			t.Fatalf("Evaluate(%q): unexpected error: %v", tc.input, err)
		}
		if out.Correct != tc.want {
			t.Errorf("Evaluate(%q, target 20 tol 0.01) = %v, want %v", tc.input, out.Correct, tc.want)
		}
	}
}

func TestEvaluate_NumericFraction(t *testing.T) {
	q := &Question{Kind: KindNumeric, Prompt: "?", Target: 0.5, Tolerance: 0}

	out, err := Evaluate(q, "1/2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Correct {
		t.Error("1/2 should match target 0.5")
	}

	out, err = Evaluate(q, "2/4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Correct {
		t.Error("2/4 should match target 0.5")
	}
}

func TestEvaluate_NumericMalformed(t *testing.T) {
	q := &Question{Kind: KindNumeric, Prompt: "?", Target: 20, Tolerance: 0.01}

	for _, input := range []string{"twenty", "", "1/0", "2x"} {
		_, err := Evaluate(q, input)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Evaluate(%q): expected FormatError, got %v", input, err)
		}
	}
}

func TestEvaluate_Equation(t *testing.T) {
	q := &Question{Kind: KindEquation, Prompt: "solve x", Target: -3, Tolerance: 0.001}

	out, err := Evaluate(q, "-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Correct {
		t.Error("-3 should be correct")
	}

	out, err = Evaluate(q, "-3.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Correct {
		t.Error("-3.1 should be incorrect")
	}
}

func TestEvaluate_FillBlank(t *testing.T) {
	q := &Question{
		Kind:     KindFillBlank,
		Prompt:   "The powerhouse of the cell is the ____",
		Accepted: []string{"mitochondria", "mitochondrion"},
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"mitochondria", true},
		{"MITOCHONDRIA", true},
		{"  mitochondrion  ", true},
		{"nucleus", false},
		{"", false},
	}

	for _, tc := range tests {
		out, err := Evaluate(q, tc.input)
		if err != nil {
			t.Fatalf("Evaluate(%q): unexpected error: %v", tc.input, err)
		}
		if out.Correct != tc.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tc.input, out.Correct, tc.want)
		}
	}
}

func TestEvaluate_FillBlank_CaseSensitive(t *testing.T) {
	q := &Question{
		Kind:          KindFillBlank,
		Prompt:        "Chemical symbol for iron: ____",
		Accepted:      []string{"Fe"},
		CaseSensitive: true,
	}

	out, _ := Evaluate(q, "Fe")
	if !out.Correct {
		t.Error("exact-case match should be correct")
	}
	out, _ = Evaluate(q, "fe")
	if out.Correct {
		t.Error("case mismatch should be incorrect when CaseSensitive")
	}
}

func TestEvaluate_ShortAnswer_KeywordPolicy(t *testing.T) {
	q := &Question{
		Kind:     KindShortAnswer,
		Prompt:   "Explain slope",
		Keywords: []string{"rise", "run", "steepness"},
	}

	// 3 keywords → need 2.
	tests := []struct {
		input string
		want  bool
	}{
		{"slope is rise over run", true},
		{"it measures steepness as rise over horizontal distance", true},
		{"it is about rise", false},
		{"no idea", false},
		{"RISE and RUN", true},
	}

	for _, tc := range tests {
		out, err := Evaluate(q, tc.input)
		if err != nil {
			t.Fatalf("Evaluate(%q): unexpected error: %v", tc.input, err)
		}
		if out.Correct != tc.want {
			t.Errorf("Evaluate(%q) = %v, want %v (%s)", tc.input, out.Correct, tc.want, out.Detail)
		}
	}
}

func TestEvaluate_ShortAnswer_SingleKeyword(t *testing.T) {
	q := &Question{
		Kind:     KindShortAnswer,
		Prompt:   "What opposes motion between surfaces?",
		Keywords: []string{"friction"},
	}

	out, _ := Evaluate(q, "friction does")
	if !out.Correct {
		t.Error("single keyword present should pass")
	}
	out, _ = Evaluate(q, "gravity")
	if out.Correct {
		t.Error("missing the only keyword should fail")
	}
}

func TestRequiredKeywords(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
	}
	for _, tc := range tests {
		if got := requiredKeywords(tc.n); got != tc.want {
			t.Errorf("requiredKeywords(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestEvaluate_MatchPairs(t *testing.T) {
	q := &Question{
		Kind:   KindMatchPairs,
		Prompt: "Match the term to its unit",
		Pairs: []Pair{
			{Left: "velocity", Right: "m/s"},
			{Left: "force", Right: "newton"},
			{Left: "mass", Right: "kg"},
		},
	}

	tests := []struct {
		input string
		want  bool
	}{
		{"velocity=m/s, force=newton, mass=kg", true},
		{"mass=kg, velocity=m/s, force=newton", true},
		{"Velocity = m/s; Force = newton; Mass = kg", true},
		{"velocity->m/s, force->newton, mass->kg", true},
		{"velocity=kg, force=newton, mass=m/s", false},
		{"velocity=m/s, force=newton", false},
		{"velocity=m/s, force=newton, mass=kg, extra=thing", false},
	}

	for _, tc := range tests {
		out, err := Evaluate(q, tc.input)
		if err != nil {
			t.Fatalf("Evaluate(%q): unexpected error: %v", tc.input, err)
		}
		if out.Correct != tc.want {
			t.Errorf("Evaluate(%q) = %v, want %v (%s)", tc.input, out.Correct, tc.want, out.Detail)
		}
	}
}

func TestEvaluate_MatchPairs_Malformed(t *testing.T) {
	q := &Question{
		Kind:  KindMatchPairs,
		Pairs: []Pair{{Left: "a", Right: "1"}, {Left: "b", Right: "2"}},
	}

	for _, input := range []string{"", "a 1, b 2", "a=1, a=2"} {
		_, err := Evaluate(q, input)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("Evaluate(%q): expected FormatError, got %v", input, err)
		}
	}
}

func TestEvaluate_UnsupportedKind(t *testing.T) {
	q := &Question{Kind: Kind("essay"), Prompt: "write"}
	_, err := Evaluate(q, "anything")
	var ue *UnsupportedKindError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnsupportedKindError, got %v", err)
	}
	if ue.Kind != Kind("essay") {
		t.Errorf("UnsupportedKindError.Kind = %q, want essay", ue.Kind)
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	q := &Question{Kind: KindNumeric, Prompt: "?", Target: 7, Tolerance: 0}
	if _, err := Evaluate(q, "7"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Target != 7 || q.Tolerance != 0 || q.Kind != KindNumeric || q.Prompt != "?" {
		t.Error("Evaluate mutated the question")
	}
}
