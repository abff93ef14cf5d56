package contentgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/tutoriz/internal/question"
)

// Validator checks a generated question before it is served.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier for this validator (for error
	// messages and logging), e.g. "structural", "exclusion".
	Name() string

	// Validate checks the question and returns nil if it passes.
	Validate(q *question.Question, req QuestionRequest) *ValidationError
}

// ValidationError describes why a generated question was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks that the question declares the requested kind
// and concept and carries a complete expected-answer spec.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *question.Question, req QuestionRequest) *ValidationError {
	if err := question.ValidateSpec(q); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error(), Retryable: true}
	}
	if req.Kind != "" && q.Kind != req.Kind {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("requested kind %q, got %q", req.Kind, q.Kind),
			Retryable: true,
		}
	}
	if req.ConceptID != "" && q.ConceptID != req.ConceptID {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("requested concept %q, got %q", req.ConceptID, q.ConceptID),
			Retryable: false,
		}
	}
	switch q.Difficulty {
	case "easy", "medium", "hard":
	default:
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("unknown difficulty %q", q.Difficulty),
			Retryable: true,
		}
	}
	return nil
}

// ExclusionValidator rejects questions that repeat an already-asked prompt.
type ExclusionValidator struct{}

func (v *ExclusionValidator) Name() string { return "exclusion" }

func (v *ExclusionValidator) Validate(q *question.Question, req QuestionRequest) *ValidationError {
	prompt := normalizePrompt(q.Prompt)
	for _, prior := range req.Exclude {
		if normalizePrompt(prior) == prompt {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("prompt repeats an already-asked question: %q", q.Prompt),
				Retryable: true,
			}
		}
	}
	return nil
}

// normalizePrompt folds case and whitespace so trivial rewordings of the
// same prompt still collide.
func normalizePrompt(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
