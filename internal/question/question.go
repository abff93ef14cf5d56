package question

import (
	"fmt"
	"strings"
)

// Kind identifies the shape of a question and its expected answer.
type Kind string

const (
	KindMultipleChoice Kind = "multiple_choice"
	KindTrueFalse      Kind = "true_false"
	KindNumeric        Kind = "numeric"
	KindEquation       Kind = "equation"
	KindFillBlank      Kind = "fill_blank"
	KindShortAnswer    Kind = "short_answer"
	KindMatchPairs     Kind = "match_pairs"
)

// Kinds returns all supported kinds in display order.
func Kinds() []Kind {
	return []Kind{
		KindMultipleChoice,
		KindTrueFalse,
		KindNumeric,
		KindEquation,
		KindFillBlank,
		KindShortAnswer,
		KindMatchPairs,
	}
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMultipleChoice, KindTrueFalse, KindNumeric, KindEquation,
		KindFillBlank, KindShortAnswer, KindMatchPairs:
		return true
	}
	return false
}

// Option is a single multiple-choice option.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Pair is a single left→right association in a matching question.
type Pair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question is a single question with its expected answer. The answer
// fields are kind-discriminated: only the fields for the question's Kind
// are meaningful.
type Question struct {
	ID         string `json:"id"`
	Kind       Kind   `json:"kind"`
	ConceptID  string `json:"concept_id"`
	Difficulty string `json:"difficulty"` // "easy", "medium", "hard"
	Prompt     string `json:"prompt"`

	// multiple_choice
	Options         []Option `json:"options,omitempty"`
	CorrectOptionID string   `json:"correct_option_id,omitempty"`

	// true_false
	BoolAnswer bool `json:"bool_answer,omitempty"`

	// numeric and equation
	Target    float64 `json:"target,omitempty"`
	Tolerance float64 `json:"tolerance,omitempty"`

	// fill_blank
	Accepted      []string `json:"accepted,omitempty"`
	CaseSensitive bool     `json:"case_sensitive,omitempty"`

	// short_answer
	Keywords []string `json:"keywords,omitempty"`

	// match_pairs
	Pairs []Pair `json:"pairs,omitempty"`

	// Explanation is shown after the question resolves.
	Explanation string `json:"explanation,omitempty"`
}

// ValidateSpec checks that the question declares a supported kind and a
// complete expected-answer spec for that kind. Generated questions must
// pass this before they are served.
func ValidateSpec(q *Question) error {
	if q == nil {
		return fmt.Errorf("nil question")
	}
	if !q.Kind.Valid() {
		return &UnsupportedKindError{Kind: q.Kind}
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%s question has empty prompt", q.Kind)
	}

	switch q.Kind {
	case KindMultipleChoice:
		if len(q.Options) < 2 {
			return fmt.Errorf("multiple_choice needs at least 2 options, got %d", len(q.Options))
		}
		if q.CorrectOptionID == "" {
			return fmt.Errorf("multiple_choice has no correct_option_id")
		}
		found := false
		for _, opt := range q.Options {
			if opt.ID == q.CorrectOptionID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("correct_option_id %q not among options", q.CorrectOptionID)
		}

	case KindTrueFalse:
		// BoolAnswer zero value is a legal answer; nothing to check.

	case KindNumeric, KindEquation:
		if q.Tolerance < 0 {
			return fmt.Errorf("%s tolerance must be >= 0, got %v", q.Kind, q.Tolerance)
		}

	case KindFillBlank:
		if len(q.Accepted) == 0 {
			return fmt.Errorf("fill_blank has no accepted answers")
		}
		for i, a := range q.Accepted {
			if strings.TrimSpace(a) == "" {
				return fmt.Errorf("fill_blank accepted answer %d is empty", i)
			}
		}

	case KindShortAnswer:
		if len(q.Keywords) == 0 {
			return fmt.Errorf("short_answer has no keywords")
		}
		for i, k := range q.Keywords {
			if strings.TrimSpace(k) == "" {
				return fmt.Errorf("short_answer keyword %d is empty", i)
			}
		}

	case KindMatchPairs:
		if len(q.Pairs) < 2 {
			return fmt.Errorf("match_pairs needs at least 2 pairs, got %d", len(q.Pairs))
		}
		seen := make(map[string]bool, len(q.Pairs))
		for _, p := range q.Pairs {
			if strings.TrimSpace(p.Left) == "" || strings.TrimSpace(p.Right) == "" {
				return fmt.Errorf("match_pairs has a pair with an empty side")
			}
			key := strings.ToLower(strings.TrimSpace(p.Left))
			if seen[key] {
				return fmt.Errorf("match_pairs has duplicate left side %q", p.Left)
			}
			seen[key] = true
		}
	}
	return nil
}
