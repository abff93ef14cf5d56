package contentgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/abhisek/tutoriz/internal/llm"
	"github.com/abhisek/tutoriz/internal/question"
)

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	Prompt          string         `json:"prompt"`
	Options         []optionOutput `json:"options"`
	CorrectOptionID string         `json:"correct_option_id"`
	BoolAnswer      bool           `json:"bool_answer"`
	Target          float64        `json:"target"`
	Tolerance       float64        `json:"tolerance"`
	Accepted        []string       `json:"accepted"`
	CaseSensitive   bool           `json:"case_sensitive"`
	Keywords        []string       `json:"keywords"`
	Pairs           []pairOutput   `json:"pairs"`
	Difficulty      string         `json:"difficulty"`
	Explanation     string         `json:"explanation"`
}

type optionOutput struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type pairOutput struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type hintOutput struct {
	Hint string `json:"hint"`
}

type narrativeOutput struct {
	Narrative string `json:"narrative"`
}

// GenerateQuestion produces a single validated question for the request.
func (g *LLMGenerator) GenerateQuestion(ctx context.Context, req QuestionRequest) (*question.Question, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: questionSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuestionMessage(req, g.config)},
		},
		Schema:      QuestionSchemaFor(req.Kind),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, genErr("question", err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &GenerationError{Op: "question", Retryable: true, Err: fmt.Errorf("parsing response: %w", err)}
	}

	q := &question.Question{
		ID:              uuid.New().String(),
		Kind:            req.Kind,
		ConceptID:       req.ConceptID,
		Difficulty:      raw.Difficulty,
		Prompt:          raw.Prompt,
		CorrectOptionID: raw.CorrectOptionID,
		BoolAnswer:      raw.BoolAnswer,
		Target:          raw.Target,
		Tolerance:       raw.Tolerance,
		Accepted:        raw.Accepted,
		CaseSensitive:   raw.CaseSensitive,
		Keywords:        raw.Keywords,
		Explanation:     raw.Explanation,
	}
	for _, o := range raw.Options {
		q.Options = append(q.Options, question.Option{ID: o.ID, Text: o.Text})
	}
	for _, p := range raw.Pairs {
		q.Pairs = append(q.Pairs, question.Pair{Left: p.Left, Right: p.Right})
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, req); verr != nil {
			return nil, &GenerationError{Op: "question", Retryable: verr.Retryable, Err: verr}
		}
	}

	return q, nil
}

// GenerateTeaching produces a markdown micro-lesson for a concept.
func (g *LLMGenerator) GenerateTeaching(ctx context.Context, req TeachingRequest) (*Teaching, error) {
	ctx = llm.WithPurpose(ctx, "teaching")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: teachingSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTeachingMessage(req, g.config)},
		},
		Schema:      TeachingSchema,
		MaxTokens:   g.config.TeachingMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, genErr("teaching", err)
	}

	var out Teaching
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &GenerationError{Op: "teaching", Retryable: true, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if out.Markdown == "" {
		return nil, &GenerationError{Op: "teaching", Retryable: true, Err: errors.New("empty lesson body")}
	}
	return &out, nil
}

// GenerateFeedback produces feedback for a graded answer.
func (g *LLMGenerator) GenerateFeedback(ctx context.Context, req FeedbackRequest) (*Feedback, error) {
	ctx = llm.WithPurpose(ctx, "feedback")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: feedbackSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildFeedbackMessage(req)},
		},
		Schema:      FeedbackSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, genErr("feedback", err)
	}

	var out Feedback
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &GenerationError{Op: "feedback", Retryable: true, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if out.Text == "" {
		return nil, &GenerationError{Op: "feedback", Retryable: true, Err: errors.New("empty feedback")}
	}
	// Misconception tags only make sense for wrong answers.
	if req.Correct {
		out.Misconception = ""
	}
	return &out, nil
}

// GenerateHint produces a hint for the active question.
func (g *LLMGenerator) GenerateHint(ctx context.Context, req HintRequest) (string, error) {
	ctx = llm.WithPurpose(ctx, "hint")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: hintSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildHintMessage(req)},
		},
		Schema:      HintSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", genErr("hint", err)
	}

	var out hintOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", &GenerationError{Op: "hint", Retryable: true, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if out.Hint == "" {
		return "", &GenerationError{Op: "hint", Retryable: true, Err: errors.New("empty hint")}
	}
	return out.Hint, nil
}

// GeneratePlanNarrative produces a short narrative introducing the plan.
func (g *LLMGenerator) GeneratePlanNarrative(ctx context.Context, req PlanRequest) (string, error) {
	ctx = llm.WithPurpose(ctx, "plan-narrative")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: narrativeSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildNarrativeMessage(req)},
		},
		Schema:      NarrativeSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return "", genErr("plan", err)
	}

	var out narrativeOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", &GenerationError{Op: "plan", Retryable: true, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if out.Narrative == "" {
		return "", &GenerationError{Op: "plan", Retryable: true, Err: errors.New("empty narrative")}
	}
	return out.Narrative, nil
}

// GenerateSummary produces the wrap-up summary.
func (g *LLMGenerator) GenerateSummary(ctx context.Context, req SummaryRequest) (*Summary, error) {
	ctx = llm.WithPurpose(ctx, "summary")

	resp, err := g.provider.Generate(ctx, llm.Request{
		System: summarySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSummaryMessage(req)},
		},
		Schema:      SummarySchema,
		MaxTokens:   g.config.TeachingMaxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, genErr("summary", err)
	}

	var out Summary
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, &GenerationError{Op: "summary", Retryable: true, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if out.Text == "" {
		return nil, &GenerationError{Op: "summary", Retryable: true, Err: errors.New("empty summary")}
	}
	return &out, nil
}

// genErr wraps a provider failure, marking transient ones retryable.
func genErr(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Retryable: transient(err), Err: err}
}

func transient(err error) bool {
	var rateLimit *llm.ErrRateLimit
	var unavailable *llm.ErrProviderUnavailable
	var invalid *llm.ErrInvalidResponse
	var truncated *llm.ErrMaxTokensExceeded
	return errors.As(err, &rateLimit) ||
		errors.As(err, &unavailable) ||
		errors.As(err, &invalid) ||
		errors.As(err, &truncated)
}
