package quiz

import (
	"errors"
	"fmt"
)

var (
	// ErrNoQuestionsAvailable means both the buffer and the fallback source
	// are exhausted for the session.
	ErrNoQuestionsAvailable = errors.New("no questions available")

	// ErrUnknownSession means the session id was never created.
	ErrUnknownSession = errors.New("session not found")
)

// GenerationError wraps a failed call to the question generator together
// with the parameters it was called with.
type GenerationError struct {
	Difficulty Difficulty
	Target     Target
	Count      int
	Err        error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %d %s questions (target %s): %v", e.Count, e.Difficulty, e.Target, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
