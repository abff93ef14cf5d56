package session

import "fmt"

// Phase is a stage in the session lifecycle. Phases advance in a fixed
// order and never move backward.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseDiagnostic Phase = "diagnostic"
	PhasePlanning   Phase = "planning"
	PhaseTeaching   Phase = "teaching"
	PhaseWrapUp     Phase = "wrap_up"
	PhaseCompleted  Phase = "completed"
)

// phaseOrder is the full lifecycle in transition order.
var phaseOrder = []Phase{
	PhaseNotStarted,
	PhaseDiagnostic,
	PhasePlanning,
	PhaseTeaching,
	PhaseWrapUp,
	PhaseCompleted,
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	for _, ph := range phaseOrder {
		if p == ph {
			return true
		}
	}
	return false
}

// Index returns p's position in the lifecycle, or -1 for unknown phases.
func (p Phase) Index() int {
	for i, ph := range phaseOrder {
		if p == ph {
			return i
		}
	}
	return -1
}

// Next returns the phase that follows p. ok is false for the terminal
// phase and for unknown phases.
func (p Phase) Next() (Phase, bool) {
	i := p.Index()
	if i < 0 || i == len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[i+1], true
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted
}

// AdvancePhase moves the session to the given phase, enforcing the
// one-step forward rule.
func (s *Session) AdvancePhase(to Phase) error {
	next, ok := s.Phase.Next()
	if !ok || to != next {
		return fmt.Errorf("cannot move from %s to %s", s.Phase, to)
	}
	s.Phase = to
	return nil
}
