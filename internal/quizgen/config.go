package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// QuestionCount is how many questions each quiz holds.
	QuestionCount int

	// Language is the natural language questions are written in.
	Language string

	// ShuffleOptions reorders each question's options after generation and
	// remaps the correct index.
	ShuffleOptions bool

	// Validators is the ordered list of validators to run on every
	// generated quiz. They execute in order; the first failure stops the
	// pipeline.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		QuestionCount: 5,
		Language:      "English",
		Validators: []Validator{
			&CountValidator{},
			&StructuralValidator{},
			&DuplicateValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.7,
	}
}
