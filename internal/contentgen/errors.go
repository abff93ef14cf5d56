package contentgen

import "fmt"

// GenerationError wraps any failure to produce valid content. The engine
// leaves the session untouched when it sees one.
type GenerationError struct {
	Op        string // "question", "teaching", "feedback", "hint", "plan", "summary"
	Retryable bool
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generating %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
