package diagnostic

import "github.com/abhisek/tutoriz/internal/curriculum"

// DefaultMaxQuestions is the diagnostic budget for a session.
const DefaultMaxQuestions = 6

// Record is one answered diagnostic question.
type Record struct {
	QuestionID string `json:"question_id"`
	ConceptID  string `json:"concept_id"`
	Correct    bool   `json:"correct"`
}

// State tracks diagnostic progress for a session. It only grows; records
// are appended in ask order.
type State struct {
	Asked        []Record `json:"asked"`
	MaxQuestions int      `json:"max_questions"`
}

// NewState returns a State with the default question budget.
func NewState() State {
	return State{MaxQuestions: DefaultMaxQuestions}
}

// Done reports whether the question budget is exhausted.
func (s *State) Done() bool {
	return len(s.Asked) >= s.MaxQuestions
}

// Remaining returns how many diagnostic questions may still be asked.
func (s *State) Remaining() int {
	r := s.MaxQuestions - len(s.Asked)
	if r < 0 {
		return 0
	}
	return r
}

// RecordAnswer appends one answered question.
func (s *State) RecordAnswer(questionID, conceptID string, correct bool) {
	s.Asked = append(s.Asked, Record{
		QuestionID: questionID,
		ConceptID:  conceptID,
		Correct:    correct,
	})
}

// CountFor returns how many diagnostic questions targeted a concept.
func (s *State) CountFor(conceptID string) int {
	n := 0
	for _, r := range s.Asked {
		if r.ConceptID == conceptID {
			n++
		}
	}
	return n
}

// NextConcept picks the concept for the next diagnostic question: the one
// with the fewest questions so far, chapter order breaking ties. Returns
// "" when defs is empty.
func (s *State) NextConcept(defs []curriculum.ConceptDef) string {
	best := ""
	bestCount := -1
	for _, def := range defs {
		n := s.CountFor(def.ID)
		if bestCount == -1 || n < bestCount {
			best = def.ID
			bestCount = n
		}
	}
	return best
}

// Scores computes per-concept raw scores: the fraction of diagnostic
// questions answered correctly. Concepts never asked are absent from the
// map; the plan builder fills those with the neutral prior.
func (s *State) Scores() map[string]float64 {
	asked := make(map[string]int)
	correct := make(map[string]int)
	for _, r := range s.Asked {
		asked[r.ConceptID]++
		if r.Correct {
			correct[r.ConceptID]++
		}
	}
	scores := make(map[string]float64, len(asked))
	for id, n := range asked {
		scores[id] = float64(correct[id]) / float64(n)
	}
	return scores
}
