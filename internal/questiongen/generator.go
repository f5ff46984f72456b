package questiongen

import (
	"context"

	"github.com/abhisek/hpquiz/internal/quiz"
)

// Generator produces batches of multiple-choice trivia questions.
type Generator interface {
	// Generate returns up to req.Count validated questions, or an error if
	// none could be produced. Callers treat every error the same way.
	Generate(ctx context.Context, req Request) ([]quiz.Question, error)
}

// FallbackSource returns canned questions without blocking or failing.
type FallbackSource interface {
	Fallback(d quiz.Difficulty, count int) []quiz.Question
}

// Request holds all context needed to generate a batch.
type Request struct {
	// Difficulty is the session's current rung.
	Difficulty quiz.Difficulty

	// Target tells the model to stay at, raise, or lower the difficulty.
	Target quiz.Target

	// History is the current rolling window, oldest first.
	History []bool

	// Avoid lists question texts the session has already been given.
	Avoid []string

	// CorrectExamples are texts the player answered correctly; the model
	// should lean toward these topics.
	CorrectExamples []string

	// WrongExamples are texts the player got wrong; the model should steer
	// away from these topics.
	WrongExamples []string

	// Count is the number of questions wanted.
	Count int
}
