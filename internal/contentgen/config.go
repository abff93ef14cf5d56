package contentgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators is the ordered list of validators run on every generated
	// question. They execute in order; the first failure stops the
	// pipeline.
	Validators []Validator

	// MaxTokens is the token budget for question, feedback, and hint
	// responses.
	MaxTokens int

	// TeachingMaxTokens is the larger budget for micro-lessons and
	// summaries.
	TeachingMaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxExclude is the maximum number of already-asked prompts to
	// include in the prompt for deduplication.
	MaxExclude int

	// MaxMisses is the maximum number of recent misses to include in the
	// prompt for context.
	MaxMisses int
}

// DefaultConfig returns a Config with the standard validator chain and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ExclusionValidator{},
		},
		MaxTokens:         512,
		TeachingMaxTokens: 1024,
		Temperature:       0.7,
		MaxExclude:        8,
		MaxMisses:         5,
	}
}
