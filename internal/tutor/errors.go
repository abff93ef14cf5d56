package tutor

import (
	"errors"
	"fmt"

	"github.com/abhisek/tutoriz/internal/session"
)

// ErrNoActiveQuestion is returned when an operation needs an outstanding
// question and the session has none. The caller should advance the
// session instead.
var ErrNoActiveQuestion = errors.New("no question is outstanding")

// PhaseError rejects an operation that is illegal in the session's
// current phase. The session is never mutated.
type PhaseError struct {
	Op    string
	Phase session.Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("cannot %s in the %s phase", e.Op, e.Phase)
}

// UnknownSessionError reports an operation against a session ID the store
// has never seen or has since deleted.
type UnknownSessionError struct {
	ID string
}

func (e *UnknownSessionError) Error() string {
	return fmt.Sprintf("unknown session %q", e.ID)
}

// PersistenceError reports a failed save. The mutation was not committed;
// the stored session is unchanged and the operation may be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s not committed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
