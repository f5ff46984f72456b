package questiongen

import "time"

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Topic is the trivia domain named in the prompt.
	Topic string

	// Validators is the ordered list of validators run on every generated
	// question. A question failing any of them is dropped from the batch.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Sampling settings passed through to the provider. Zero keeps the
	// provider default.
	Temperature float64
	TopP        float64
	TopK        int

	// MaxAvoid is the maximum number of avoid texts included in the prompt.
	MaxAvoid int

	// MaxExamples is the maximum number of correct and of wrong examples
	// included in the prompt.
	MaxExamples int

	// Timeout bounds a single generation call. Zero means no timeout.
	Timeout time.Duration
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Topic: "Harry Potter trivia",
		Validators: []Validator{
			&StructuralValidator{},
			&DifficultyValidator{},
		},
		MaxTokens:   4096,
		Temperature: 0.6,
		TopP:        0.95,
		TopK:        40,
		MaxAvoid:    200,
		MaxExamples: 20,
		Timeout:     60 * time.Second,
	}
}
