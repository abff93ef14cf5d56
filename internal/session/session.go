package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/tutoriz/internal/diagnostic"
	"github.com/abhisek/tutoriz/internal/plan"
	"github.com/abhisek/tutoriz/internal/question"
)

// MaxAttempts is the number of tries a student gets per practice question.
const MaxAttempts = 3

// MaxHistory is how many exchanges are kept as prompt context.
const MaxHistory = 10

// MaxRecentMisses is the rolling window of missed questions kept as
// misconception context for content generation.
const MaxRecentMisses = 5

// ConceptStatus tracks a concept's progress inside one session.
type ConceptStatus string

const (
	ConceptNotStarted ConceptStatus = "not_started"
	ConceptInProgress ConceptStatus = "in_progress"
	ConceptMastered   ConceptStatus = "mastered"
	ConceptSkipped    ConceptStatus = "skipped"
)

// Terminal reports whether the status is final for this session. Terminal
// concepts are never automatically revisited.
func (s ConceptStatus) Terminal() bool {
	return s == ConceptMastered || s == ConceptSkipped
}

// Concept is one planned concept and its in-session progress.
type Concept struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Priority      plan.Priority `json:"priority"`
	EstimatedMins int           `json:"estimated_mins"`
	Status        ConceptStatus `json:"status"`
	Mastery       float64       `json:"mastery"`
	Attempts      int           `json:"attempts"`
}

// ActiveQuestion is the single outstanding question, if any. A new
// question may not be issued while one is outstanding.
type ActiveQuestion struct {
	Question          question.Question `json:"question"`
	AttemptsRemaining int               `json:"attempts_remaining"`
	HintsGiven        int               `json:"hints_given"`
	IssuedAt          time.Time         `json:"issued_at"`
}

// Profile is the student snapshot carried into every content-generation
// call.
type Profile struct {
	Name          string `json:"name,omitempty"`
	GradeLevel    int    `json:"grade_level,omitempty"`
	LearningStyle string `json:"learning_style,omitempty"`
	Pace          string `json:"pace,omitempty"`
}

// Stats accumulates per-session counters.
type Stats struct {
	QuestionsAttempted int           `json:"questions_attempted"`
	QuestionsCorrect   int           `json:"questions_correct"`
	XP                 int           `json:"xp"`
	Streak             int           `json:"streak"`
	BestStreak         int           `json:"best_streak"`
	HintsUsed          int           `json:"hints_used"`
	TimeSpent          time.Duration `json:"time_spent"`
}

// HistoryEntry is one exchange kept as prompt context.
type HistoryEntry struct {
	Role string `json:"role"` // "tutor" or "student"
	Kind string `json:"kind"` // "question", "answer", "teaching", "feedback", "hint"
	Text string `json:"text"`
}

// Miss is one missed question kept as misconception context.
type Miss struct {
	ConceptID     string `json:"concept_id"`
	Prompt        string `json:"prompt"`
	Submitted     string `json:"submitted"`
	Misconception string `json:"misconception,omitempty"`
}

// ReviewItem is a post-session review suggestion for one concept.
type ReviewItem struct {
	ConceptID string `json:"concept_id"`
	Name      string `json:"name"`
	Days      int    `json:"days"`
}

// Summary is the wrap-up output archived with the session.
type Summary struct {
	Text          string       `json:"text"`
	Highlights    []string     `json:"highlights,omitempty"`
	PracticeAreas []string     `json:"practice_areas,omitempty"`
	Review        []ReviewItem `json:"review,omitempty"`
	DurationMins  int          `json:"duration_mins"`
}

// Session is one tutoring engagement from creation through completion.
type Session struct {
	ID        string  `json:"id"`
	StudentID string  `json:"student_id"`
	Subject   string  `json:"subject"`
	Chapter   string  `json:"chapter"`
	Profile   Profile `json:"profile"`

	Phase      Phase            `json:"phase"`
	Diagnostic diagnostic.State `json:"diagnostic"`

	// Concepts is the plan order, populated when planning completes.
	Concepts []Concept `json:"concepts"`

	// Current indexes Concepts; meaningful only in the teaching phase.
	Current int `json:"current"`

	Active *ActiveQuestion `json:"active,omitempty"`

	Stats        Stats          `json:"stats"`
	History      []HistoryEntry `json:"history,omitempty"`
	RecentMisses []Miss         `json:"recent_misses,omitempty"`
	Summary      *Summary       `json:"summary,omitempty"`

	// Version counts committed saves; the store rejects stale writes.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a session in the not_started phase.
func New(studentID, subject, chapter string, profile Profile) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:         uuid.New().String(),
		StudentID:  studentID,
		Subject:    subject,
		Chapter:    chapter,
		Profile:    profile,
		Phase:      PhaseNotStarted,
		Diagnostic: diagnostic.NewState(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// CurrentConcept returns the concept under instruction, or nil outside the
// teaching phase or past the end of the plan.
func (s *Session) CurrentConcept() *Concept {
	if s.Phase != PhaseTeaching {
		return nil
	}
	if s.Current < 0 || s.Current >= len(s.Concepts) {
		return nil
	}
	return &s.Concepts[s.Current]
}

// ConceptByID returns the planned concept with the given ID, or nil.
func (s *Session) ConceptByID(id string) *Concept {
	for i := range s.Concepts {
		if s.Concepts[i].ID == id {
			return &s.Concepts[i]
		}
	}
	return nil
}

// AdvanceConcept moves Current forward past terminal concepts to the next
// workable one. Returns false when the plan is exhausted.
func (s *Session) AdvanceConcept() bool {
	for s.Current < len(s.Concepts) {
		if !s.Concepts[s.Current].Status.Terminal() {
			return true
		}
		s.Current++
	}
	return false
}

// AllConceptsTerminal reports whether every planned concept is mastered or
// skipped.
func (s *Session) AllConceptsTerminal() bool {
	for _, c := range s.Concepts {
		if !c.Status.Terminal() {
			return false
		}
	}
	return true
}

// AppendHistory records one exchange, trimming to the most recent
// MaxHistory entries.
func (s *Session) AppendHistory(role, kind, text string) {
	s.History = append(s.History, HistoryEntry{Role: role, Kind: kind, Text: text})
	if len(s.History) > MaxHistory {
		s.History = s.History[len(s.History)-MaxHistory:]
	}
}

// AddMiss records a missed question, keeping the most recent
// MaxRecentMisses entries.
func (s *Session) AddMiss(m Miss) {
	s.RecentMisses = append(s.RecentMisses, m)
	if len(s.RecentMisses) > MaxRecentMisses {
		s.RecentMisses = s.RecentMisses[len(s.RecentMisses)-MaxRecentMisses:]
	}
}

// RecordAnswer updates the answer counters and the streak.
func (s *Session) RecordAnswer(correct bool) {
	s.Stats.QuestionsAttempted++
	if correct {
		s.Stats.QuestionsCorrect++
		s.Stats.Streak++
		if s.Stats.Streak > s.Stats.BestStreak {
			s.Stats.BestStreak = s.Stats.Streak
		}
	} else {
		s.Stats.Streak = 0
	}
}
