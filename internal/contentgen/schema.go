package contentgen

import (
	"strings"

	"github.com/abhisek/tutoriz/internal/llm"
	"github.com/abhisek/tutoriz/internal/question"
)

// QuestionSchemaFor returns the response schema for one question kind.
// Only the expected-answer fields for that kind are present, so strict
// providers cannot emit a half-filled spec.
func QuestionSchemaFor(kind question.Kind) *llm.Schema {
	props := map[string]any{
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question shown to the student, in plain ASCII text",
		},
		"difficulty": map[string]any{
			"type":        "string",
			"enum":        []any{"easy", "medium", "hard"},
			"description": "Difficulty of this question",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Step-by-step worked solution shown after the question resolves",
		},
	}
	required := []any{"prompt", "difficulty", "explanation"}

	switch kind {
	case question.KindMultipleChoice:
		props["options"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string", "description": "Short option id: a, b, c, d"},
					"text": map[string]any{"type": "string", "description": "Option text"},
				},
				"required":             []any{"id", "text"},
				"additionalProperties": false,
			},
			"description": "Exactly 4 options where exactly one is correct. Distractors should reflect common mistakes, not random values.",
		}
		props["correct_option_id"] = map[string]any{
			"type":        "string",
			"description": "The id of the correct option",
		}
		required = append(required, "options", "correct_option_id")

	case question.KindTrueFalse:
		props["bool_answer"] = map[string]any{
			"type":        "boolean",
			"description": "Whether the statement is true",
		}
		required = append(required, "bool_answer")

	case question.KindNumeric, question.KindEquation:
		props["target"] = map[string]any{
			"type":        "number",
			"description": "The correct numeric answer",
		}
		props["tolerance"] = map[string]any{
			"type":        "number",
			"minimum":     0,
			"description": "Accepted absolute error. 0 for exact integer answers, small (e.g. 0.01) for rounded decimals.",
		}
		required = append(required, "target", "tolerance")

	case question.KindFillBlank:
		props["accepted"] = map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "All accepted fill-ins, including common synonyms and spellings",
		}
		props["case_sensitive"] = map[string]any{
			"type":        "boolean",
			"description": "Whether the match must preserve case (e.g. chemical symbols)",
		}
		required = append(required, "accepted", "case_sensitive")

	case question.KindShortAnswer:
		props["keywords"] = map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": "2-4 keywords a correct explanation must mention",
		}
		required = append(required, "keywords")

	case question.KindMatchPairs:
		props["pairs"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"left":  map[string]any{"type": "string", "description": "Term"},
					"right": map[string]any{"type": "string", "description": "Its match"},
				},
				"required":             []any{"left", "right"},
				"additionalProperties": false,
			},
			"description": "3-5 left/right pairs with unique left sides",
		}
		required = append(required, "pairs")
	}

	return &llm.Schema{
		Name:        strings.ReplaceAll(string(kind), "_", "-") + "-question",
		Description: "A single practice question with its expected answer",
		Definition: map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             required,
			"additionalProperties": false,
		},
	}
}

// TeachingSchema is the response schema for micro-lessons.
var TeachingSchema = &llm.Schema{
	Name:        "teaching-content",
	Description: "A short markdown micro-lesson for one concept",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short lesson title",
			},
			"markdown": map[string]any{
				"type":        "string",
				"description": "The lesson body in markdown: explanation, one worked example, and a transition into practice",
			},
		},
		"required":             []any{"title", "markdown"},
		"additionalProperties": false,
	},
}

// FeedbackSchema is the response schema for answer feedback.
var FeedbackSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Feedback on a graded answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "2-3 sentences of feedback addressed to the student",
			},
			"misconception": map[string]any{
				"type":        "string",
				"description": "Short kebab-case tag naming the likely misunderstanding (e.g. sign-error). Empty string when the answer was correct.",
			},
		},
		"required":             []any{"text", "misconception"},
		"additionalProperties": false,
	},
}

// HintSchema is the response schema for hints.
var HintSchema = &llm.Schema{
	Name:        "question-hint",
	Description: "A hint that must not reveal the answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "One or two sentences pointing at the method, never the answer",
			},
		},
		"required":             []any{"hint"},
		"additionalProperties": false,
	},
}

// NarrativeSchema is the response schema for plan narratives.
var NarrativeSchema = &llm.Schema{
	Name:        "plan-narrative",
	Description: "A short narrative introducing the study plan",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"narrative": map[string]any{
				"type":        "string",
				"description": "3-4 encouraging sentences explaining what the plan covers and why, weakest areas first",
			},
		},
		"required":             []any{"narrative"},
		"additionalProperties": false,
	},
}

// SummarySchema is the response schema for wrap-up summaries.
var SummarySchema = &llm.Schema{
	Name:        "session-summary",
	Description: "The wrap-up summary for a completed session",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{
				"type":        "string",
				"description": "A short paragraph summarizing the session",
			},
			"highlights": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-4 things that went well",
			},
			"practice_areas": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Concepts or skills to practice next",
			},
		},
		"required":             []any{"text", "highlights", "practice_areas"},
		"additionalProperties": false,
	},
}
