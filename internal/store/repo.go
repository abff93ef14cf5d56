package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/tutoriz/internal/session"
)

// ErrNotFound is returned when no session exists with the requested ID.
var ErrNotFound = errors.New("session not found")

// ErrStaleWrite is returned when a save carries a version that no longer
// matches the stored row. The caller must reload and retry.
var ErrStaleWrite = errors.New("session version conflict")

// ListOpts filters session listings.
type ListOpts struct {
	Phase string // filter by phase ("" = all)
	Limit int    // max results (0 = unlimited)
}

// SessionRepo persists sessions as JSON documents guarded by a version
// column.
type SessionRepo interface {
	// Save inserts the session on its first write and updates it after.
	// Updates only land when the session's version matches the stored
	// row; otherwise ErrStaleWrite. On success the session's Version is
	// bumped.
	Save(ctx context.Context, s *session.Session) error

	// Load returns the session with the given ID, or ErrNotFound.
	Load(ctx context.Context, id string) (*session.Session, error)

	// List returns sessions newest first.
	List(ctx context.Context, opts ListOpts) ([]*session.Session, error)

	// Delete removes a session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, id string) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// AnswerEventData captures one graded answer.
type AnswerEventData struct {
	SessionID  string
	ConceptID  string
	QuestionID string
	Kind       string
	Phase      string // "diagnostic" or "teaching"
	Prompt     string
	Submitted  string
	Correct    bool
	Attempt    int
	XPAwarded  int
	TimeMs     int64
}

// HintEventData captures one served hint.
type HintEventData struct {
	SessionID  string
	ConceptID  string
	QuestionID string
	HintText   string
}

// MasteryEventData captures one mastery score change.
type MasteryEventData struct {
	SessionID string
	ConceptID string
	Before    float64
	After     float64
	Reason    string // "correct_answer", "incorrect_answer", "skipped"
}

// SessionEventData captures one session lifecycle step.
type SessionEventData struct {
	SessionID string
	Action    string // "created", "phase_advanced", "completed", "deleted"
	FromPhase string
	ToPhase   string
}

// LLMUsageRow aggregates LLM requests for one purpose or model.
type LLMUsageRow struct {
	Group        string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// LLMEventRecord is one stored LLM request event, bodies included.
type LLMEventRecord struct {
	ID           int64
	Timestamp    time.Time
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	RequestBody  string
	ResponseBody string
	ErrorMessage string
}

// EventRepo provides append and aggregate access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendAnswerEvent records a graded answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendHintEvent records a served hint.
	AppendHintEvent(ctx context.Context, data HintEventData) error

	// AppendMasteryEvent records a mastery score change.
	AppendMasteryEvent(ctx context.Context, data MasteryEventData) error

	// AppendSessionEvent records a session lifecycle step.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// LLMUsageByPurpose aggregates LLM requests per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageRow, error)

	// LLMUsageByModel aggregates LLM requests per served model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsageRow, error)

	// QueryLLMEvents returns LLM request events newest first, without
	// bodies. Limit 0 means unlimited.
	QueryLLMEvents(ctx context.Context, limit int) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM request event with its bodies, or nil
	// when no event has that ID.
	GetLLMEvent(ctx context.Context, id int64) (*LLMEventRecord, error)

	// ConceptAccuracy returns the all-time fraction of correct answers
	// for a concept and how many answers that covers.
	ConceptAccuracy(ctx context.Context, conceptID string) (float64, int, error)
}
