package question

import "fmt"

// UnsupportedKindError reports a question kind the evaluator does not know.
// Callers treat it as an incorrect-but-recoverable attempt.
type UnsupportedKindError struct {
	Kind Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported question kind: %q", e.Kind)
}

// FormatError reports a submission that cannot be interpreted for the
// question's kind (e.g. non-numeric text for a numeric question). Callers
// treat it as an incorrect-but-recoverable attempt.
type FormatError struct {
	Kind   Kind
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed %s answer: %s", e.Kind, e.Reason)
}
